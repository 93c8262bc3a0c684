package sim

import (
	"image/color"
	"math"
	"unicode/utf8"
)

// Node constants
const (
	BaseRadius    = 35.0
	RadiusPerRune = 1.5
	Friction      = 0.985
)

// Hue is one of the fixed node colors.
type Hue int

const (
	HueCyan Hue = iota
	HueNeonGreen
	HueViolet
	HueMagenta
	HueLime
	HueElectricBlue
	HueRed
	NumHues
)

var hueColors = [NumHues]color.RGBA{
	HueCyan:         {0x00, 0xf2, 0xff, 0xff},
	HueNeonGreen:    {0x39, 0xff, 0x14, 0xff},
	HueViolet:       {0xbc, 0x13, 0xfe, 0xff},
	HueMagenta:      {0xff, 0x00, 0xff, 0xff},
	HueLime:         {0xcc, 0xff, 0x00, 0xff},
	HueElectricBlue: {0x7d, 0xf9, 0xff, 0xff},
	HueRed:          {0xff, 0x31, 0x31, 0xff},
}

// RGBA returns the display color of the hue.
func (h Hue) RGBA() color.RGBA {
	if h < 0 || h >= NumHues {
		return hueColors[HueCyan]
	}
	return hueColors[h]
}

// Node is a single labelled particle.
type Node struct {
	Text     string
	X, Y     float64 // Position
	VX, VY   float64 // Velocity
	Radius   float64
	Hue      Hue
	Friction float64
}

// NewNode creates a node at rest at (x, y). The radius grows with the label length.
func NewNode(text string, x, y float64, hue Hue) *Node {
	return &Node{
		Text:     text,
		X:        x,
		Y:        y,
		Radius:   RadiusFor(text),
		Hue:      hue,
		Friction: Friction,
	}
}

// RadiusFor returns the visual radius of a node labelled text.
func RadiusFor(text string) float64 {
	return BaseRadius + RadiusPerRune*float64(utf8.RuneCountInString(text))
}

// Speed returns the velocity magnitude.
func (n *Node) Speed() float64 {
	return math.Hypot(n.VX, n.VY)
}

// Contains reports whether (x, y) lies strictly inside the node circle.
func (n *Node) Contains(x, y float64) bool {
	return math.Hypot(n.X-x, n.Y-y) < n.Radius
}

// reflect flips the velocity on every axis where the node left the bounds.
// Position is not clamped.
func (n *Node) reflect(width, height float64) {
	if n.X < n.Radius || n.X > width-n.Radius {
		n.VX = -n.VX
	}
	if n.Y < n.Radius || n.Y > height-n.Radius {
		n.VY = -n.VY
	}
}
