package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/spatial-forge/internal/render"
)

const (
	panelPad     = 20.0
	resultWidth  = 600.0
	resultHeight = 320.0
	lineHeight   = 20.0
)

var (
	accent     = color.NRGBA{0, 242, 255, 255}
	panelFill  = color.NRGBA{5, 12, 24, 235}
	scrim      = color.NRGBA{0, 0, 0, 160}
	hintColor  = color.NRGBA{120, 140, 160, 255}
	entryColor = color.NRGBA{230, 240, 255, 255}
)

// drawText draws s with its top edge at y.
func (g *Game) drawText(dst *ebiten.Image, s string, x, y float64, align text.Align, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = align
	text.Draw(dst, s, g.uiFace, op)
}

// drawBin draws the drop region; it lights up while a dragged node hovers it.
func (g *Game) drawBin(dst *ebiten.Image) {
	bin := g.studio.Controller().Bin()
	x, y := float32(bin.Left), float32(bin.Top)
	w, h := float32(bin.Right-bin.Left), float32(float64(g.height)-bin.Top)

	edge := render.WithAlpha(accent, 0.35)
	fill := render.WithAlpha(accent, 0.05)
	if g.studio.Controller().BinHover() {
		edge = accent
		fill = render.WithAlpha(accent, 0.2)
	}
	vector.DrawFilledRect(dst, x, y, w, h, fill, true)
	vector.StrokeRect(dst, x, y, w, h, 2, edge, true)
	g.drawText(dst, "FORGE", (bin.Left+bin.Right)/2, bin.Top+12, text.AlignCenter, edge)
}

func (g *Game) drawEntry(dst *ebiten.Image) {
	const w, h = 320.0, 34.0
	x := (float64(g.width) - w) / 2
	y := panelPad

	vector.DrawFilledRect(dst, float32(x), float32(y), w, h, panelFill, true)
	vector.StrokeRect(dst, float32(x), float32(y), w, h, 1, render.WithAlpha(accent, 0.5), true)

	if len(g.entry) == 0 {
		g.drawText(dst, "Type a concept and press Enter", x+10, y+9, text.AlignStart, hintColor)
		return
	}
	g.drawText(dst, string(g.entry)+"_", x+10, y+9, text.AlignStart, entryColor)
}

func (g *Game) drawCounter(dst *ebiten.Image) {
	label := fmt.Sprintf("Nodes: %d", g.studio.Count())
	g.drawText(dst, label, panelPad, panelPad, text.AlignStart, accent)
}

func (g *Game) drawStatus(dst *ebiten.Image) {
	g.drawText(dst, g.status, panelPad, float64(g.height)-panelPad-lineHeight, text.AlignStart, hintColor)
}

// drawResult draws the modal result surface over a dimmed scene.
func (g *Game) drawResult(dst *ebiten.Image) {
	vector.DrawFilledRect(dst, 0, 0, float32(g.width), float32(g.height), scrim, false)

	w := min(resultWidth, float64(g.width)-2*panelPad)
	h := min(resultHeight, float64(g.height)-2*panelPad)
	x := (float64(g.width) - w) / 2
	y := (float64(g.height) - h) / 2

	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), panelFill, true)
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), 2, accent, true)

	board := g.studio.Board()
	g.drawText(dst, "Forged Prompt", x+panelPad, y+panelPad, text.AlignStart, accent)

	// Go Regular averages about half its size per glyph.
	perLine := int((w - 2*panelPad) / (uiTextSize * 0.55))
	maxLines := int((h-4*panelPad-2*lineHeight)/lineHeight) + 1
	lines := wrap(board.Text(), perLine)
	if len(lines) > maxLines && maxLines > 0 {
		lines = append(lines[:maxLines-1], "...")
	}
	ty := y + panelPad + 2*lineHeight
	for _, line := range lines {
		g.drawText(dst, line, x+panelPad, ty, text.AlignStart, entryColor)
		ty += lineHeight
	}

	hint := "Enter: copy & clear    Esc: close"
	if board.Pending() {
		hint = "Esc: close"
	}
	g.drawText(dst, hint, x+w-panelPad, y+h-panelPad-lineHeight, text.AlignEnd, hintColor)
}

// wrap breaks s into lines of at most width runes, splitting on spaces
// where possible and keeping explicit line breaks.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := []rune{}
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			for len(w) > width {
				if len(line) > 0 {
					lines = append(lines, string(line))
					line = line[:0]
				}
				lines = append(lines, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(line) == 0:
				line = append(line, w...)
			case len(line)+1+len(w) <= width:
				line = append(append(line, ' '), w...)
			default:
				lines = append(lines, string(line))
				line = append(line[:0], w...)
			}
		}
		lines = append(lines, string(line))
	}
	return lines
}
