package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/spatial-forge/internal/render"
)

// Surface draws frames onto an ebiten image.
type Surface struct {
	dst  *ebiten.Image
	face *text.GoTextFace
}

func (s *Surface) Clear(width, height float64) {
	s.dst.Fill(render.Background)
}

func (s *Surface) Circle(x, y, r float64, fill, stroke color.Color, strokeWidth, glow float64) {
	cx, cy, cr := float32(x), float32(y), float32(r)
	halo := render.WithAlpha(stroke, 0.1)
	for k := render.GlowRings; k >= 1; k-- {
		w := strokeWidth + glow*float64(k)/render.GlowRings
		vector.StrokeCircle(s.dst, cx, cy, cr, float32(w), halo, true)
	}
	vector.DrawFilledCircle(s.dst, cx, cy, cr, fill, true)
	vector.StrokeCircle(s.dst, cx, cy, cr, float32(strokeWidth), stroke, true)
}

// Text draws str centred on x with its baseline at y.
func (s *Surface) Text(str string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-s.face.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = text.AlignCenter
	text.Draw(s.dst, str, s.face, op)
}

func (s *Surface) Line(x0, y0, x1, y1 float64, c color.Color) {
	vector.StrokeLine(s.dst, float32(x0), float32(y0), float32(x1), float32(y1), 1, c, true)
}
