// Package render draws a sim.World onto an abstract 2D surface.
package render

import (
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/olivierh59500/spatial-forge/internal/sim"
)

// Surface is the drawing sink for a frame.
type Surface interface {
	Clear(width, height float64)
	Circle(x, y, r float64, fill, stroke color.Color, strokeWidth, glow float64)
	Text(s string, x, y float64, c color.Color)
	Line(x0, y0, x1, y1 float64, c color.Color)
}

// Look constants
const (
	LinkRange     = 200.0
	LinkAlpha     = 0.15
	LinkFade      = 1500.0
	StrokeWidth   = 3.0
	GlowBase      = 15.0
	GlowShimmer   = 4.0
	LabelOffset   = 6.0
	LabelSize     = 15.0
	shimmerPeriod = 0.03
)

var (
	Background = color.RGBA{0x02, 0x05, 0x0b, 0xff}
	NodeFill   = color.NRGBA{0, 8, 15, 217}
	LabelColor = color.White
	linkRGB    = color.RGBA{0, 242, 255, 0}
)

// Renderer composes frames. It carries a tick counter that animates the glow.
type Renderer struct {
	noise *perlin.Perlin
	tick  int
}

// NewRenderer creates a renderer whose glow shimmer is seeded by seed.
func NewRenderer(seed int64) *Renderer {
	return &Renderer{noise: perlin.NewPerlin(2, 2, 3, seed)}
}

// Tick advances the animation clock by one frame.
func (r *Renderer) Tick() {
	r.tick++
}

// Frame clears s, draws the proximity links and then every node.
func (r *Renderer) Frame(s Surface, w *sim.World) {
	s.Clear(w.Width, w.Height)
	r.links(s, w.Nodes)
	for i, n := range w.Nodes {
		r.node(s, i, n)
	}
}

func (r *Renderer) links(s Surface, nodes []*sim.Node) {
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d >= LinkRange {
				continue
			}
			s.Line(a.X, a.Y, b.X, b.Y, LinkColor(d))
		}
	}
}

func (r *Renderer) node(s Surface, i int, n *sim.Node) {
	s.Circle(n.X, n.Y, n.Radius, NodeFill, n.Hue.RGBA(), StrokeWidth, r.Glow(i, n))
	s.Text(n.Text, n.X, n.Y+LabelOffset, LabelColor)
}

// Glow returns the blur radius of node i: faster nodes glow wider, with a
// slow noise shimmer on top.
func (r *Renderer) Glow(i int, n *sim.Node) float64 {
	shimmer := r.noise.Noise2D(float64(i)*1.7, float64(r.tick)*shimmerPeriod)
	return math.Max(0, GlowBase+n.Speed()+GlowShimmer*shimmer)
}

// LinkColor returns the link color for two nodes d apart.
func LinkColor(d float64) color.NRGBA {
	a := LinkAlpha - d/LinkFade
	if a < 0 {
		a = 0
	}
	return color.NRGBA{R: linkRGB.R, G: linkRGB.G, B: linkRGB.B, A: uint8(math.Round(a * 255))}
}

// WithAlpha scales c to an alpha in [0, 1].
func WithAlpha(c color.Color, a float64) color.NRGBA {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	nc.A = uint8(math.Round(float64(nc.A) * math.Max(0, math.Min(1, a))))
	return nc
}
