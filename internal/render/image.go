package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// GlowRings is how many translucent rings approximate the glow blur.
const GlowRings = 3

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

// LabelFace returns a bold label face of the given size.
func LabelFace(size float64) (font.Face, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = truetype.Parse(gobold.TTF)
	})
	if labelFontErr != nil {
		return nil, fmt.Errorf("failed to parse font: %w", labelFontErr)
	}
	return truetype.NewFace(labelFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// ImageSurface draws frames into an offscreen image.
type ImageSurface struct {
	dc *gg.Context
}

// NewImageSurface creates an offscreen surface of the given pixel size.
func NewImageSurface(width, height int) (*ImageSurface, error) {
	face, err := LabelFace(LabelSize)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(width, height)
	dc.SetFontFace(face)
	return &ImageSurface{dc: dc}, nil
}

func (s *ImageSurface) Clear(width, height float64) {
	s.dc.SetColor(Background)
	s.dc.Clear()
}

func (s *ImageSurface) Circle(x, y, r float64, fill, stroke color.Color, strokeWidth, glow float64) {
	for k := GlowRings; k >= 1; k-- {
		s.dc.SetColor(WithAlpha(stroke, 0.1))
		s.dc.SetLineWidth(strokeWidth + glow*float64(k)/GlowRings)
		s.dc.DrawCircle(x, y, r)
		s.dc.Stroke()
	}

	s.dc.DrawCircle(x, y, r)
	s.dc.SetColor(fill)
	s.dc.FillPreserve()
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(strokeWidth)
	s.dc.Stroke()
}

func (s *ImageSurface) Text(str string, x, y float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(str, x, y, 0.5, 0)
}

func (s *ImageSurface) Line(x0, y0, x1, y1 float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(1)
	s.dc.DrawLine(x0, y0, x1, y1)
	s.dc.Stroke()
}

// Image returns the rendered image.
func (s *ImageSurface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the rendered image as PNG.
func (s *ImageSurface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}
