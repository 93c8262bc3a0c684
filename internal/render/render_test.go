package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/olivierh59500/spatial-forge/internal/sim"
)

type call struct {
	op   string
	x, y float64
	text string
	c    color.Color
	glow float64
}

// recorder is a Surface that keeps every call in order.
type recorder struct {
	calls []call
}

func (r *recorder) Clear(width, height float64) {
	r.calls = append(r.calls, call{op: "clear", x: width, y: height})
}

func (r *recorder) Circle(x, y, rad float64, fill, stroke color.Color, strokeWidth, glow float64) {
	r.calls = append(r.calls, call{op: "circle", x: x, y: y, c: stroke, glow: glow})
}

func (r *recorder) Text(s string, x, y float64, c color.Color) {
	r.calls = append(r.calls, call{op: "text", x: x, y: y, text: s, c: c})
}

func (r *recorder) Line(x0, y0, x1, y1 float64, c color.Color) {
	r.calls = append(r.calls, call{op: "line", x: x0, y: y0, c: c})
}

func (r *recorder) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.op
	}
	return out
}

func TestFrameOrder(t *testing.T) {
	w := sim.NewWorld(800, 600, 1)
	w.Add(sim.NewNode("cat", 100, 100, sim.HueCyan))
	w.Add(sim.NewNode("dog", 250, 100, sim.HueRed))
	w.Add(sim.NewNode("far", 700, 500, sim.HueLime))

	rec := &recorder{}
	NewRenderer(1).Frame(rec, w)

	want := []string{"clear", "line", "circle", "text", "circle", "text", "circle", "text"}
	got := rec.ops()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops = %v, want %v", got, want)
		}
	}

	if rec.calls[0].x != 800 || rec.calls[0].y != 600 {
		t.Errorf("clear bounds = %vx%v", rec.calls[0].x, rec.calls[0].y)
	}
	label := rec.calls[3]
	if label.text != "cat" || label.x != 100 || label.y != 100+LabelOffset {
		t.Errorf("label call = %+v", label)
	}
	if rec.calls[2].c != sim.HueCyan.RGBA() {
		t.Errorf("stroke = %v, want node hue", rec.calls[2].c)
	}
}

func TestFrameEmptyWorld(t *testing.T) {
	rec := &recorder{}
	NewRenderer(1).Frame(rec, sim.NewWorld(800, 600, 1))
	if got := rec.ops(); len(got) != 1 || got[0] != "clear" {
		t.Errorf("ops = %v, want [clear]", got)
	}
}

func TestLinkColor(t *testing.T) {
	tests := []struct {
		d     float64
		alpha uint8
	}{
		{0, 38},
		{150, 13},
		{199, 4},
		{300, 0},
	}

	for _, tt := range tests {
		c := LinkColor(tt.d)
		if c.A != tt.alpha {
			t.Errorf("LinkColor(%v).A = %d, want %d", tt.d, c.A, tt.alpha)
		}
		if c.R != 0 || c.G != 242 || c.B != 255 {
			t.Errorf("LinkColor(%v) rgb = %d,%d,%d", tt.d, c.R, c.G, c.B)
		}
	}
}

func TestGlowGrowsWithSpeed(t *testing.T) {
	r := NewRenderer(1)
	slow := sim.NewNode("a", 0, 0, sim.HueCyan)
	fast := sim.NewNode("a", 0, 0, sim.HueCyan)
	fast.VX = 20

	gs, gf := r.Glow(0, slow), r.Glow(0, fast)
	if gf-gs < 20-1e-9 || gf-gs > 20+1e-9 {
		t.Errorf("glow difference = %v, want speed 20", gf-gs)
	}
	if gs < GlowBase-GlowShimmer || gs > GlowBase+GlowShimmer {
		t.Errorf("resting glow %v outside shimmer band", gs)
	}
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(color.RGBA{255, 0, 0, 255}, 0.5)
	if c.R != 255 || c.A != 128 {
		t.Errorf("WithAlpha = %+v", c)
	}
	if WithAlpha(color.White, 2).A != 255 {
		t.Error("alpha should clamp to 1")
	}
}

func TestImageSurfacePNG(t *testing.T) {
	w := sim.NewWorld(320, 240, 1)
	w.Add(sim.NewNode("cat", 100, 100, sim.HueCyan))
	w.Add(sim.NewNode("dog", 200, 120, sim.HueMagenta))

	surf, err := NewImageSurface(320, 240)
	if err != nil {
		t.Fatalf("NewImageSurface: %v", err)
	}
	NewRenderer(1).Frame(surf, w)

	var buf bytes.Buffer
	if err := surf.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("image size = %v", b)
	}

	// The corner stays background, the ring of the first node takes its hue.
	if got := color.RGBAModel.Convert(img.At(2, 2)).(color.RGBA); got != Background {
		t.Errorf("corner pixel = %v, want background", got)
	}
	ring := color.RGBAModel.Convert(surf.Image().At(100, 100-int(sim.RadiusFor("cat")))).(color.RGBA)
	if ring.G < 150 || ring.B < 150 {
		t.Errorf("ring pixel = %v, want cyan-ish", ring)
	}
}
