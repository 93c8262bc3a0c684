// Package interact turns pointer events into drag, explosion and drop
// gestures on a sim.World.
package interact

import (
	"strings"

	"github.com/olivierh59500/spatial-forge/internal/sim"
)

// Bin geometry, anchored to the bottom centre of the canvas.
const (
	BinWidth  = 180.0
	BinHeight = 110.0
	BinMargin = 24.0
)

// Region is a drop target open toward the bottom edge: a point is inside
// when it is below Top and strictly between Left and Right.
type Region struct {
	Left, Top, Right float64
}

// Contains reports whether (x, y) is over the region.
func (r Region) Contains(x, y float64) bool {
	return y > r.Top && x > r.Left && x < r.Right
}

// BinRegion returns the bin placement for a canvas of the given size.
func BinRegion(width, height float64) Region {
	left := (width - BinWidth) / 2
	return Region{
		Left:  left,
		Top:   height - BinHeight - BinMargin,
		Right: left + BinWidth,
	}
}

// State is the drag status of the controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// DropFunc receives the joined labels when a drag is released over the bin.
type DropFunc func(payload string)

// Controller tracks pointer gestures. It must be driven from the same
// goroutine that steps the world.
type Controller struct {
	world  *sim.World
	bin    Region
	hover  bool
	onDrop DropFunc
}

// New creates a controller over w.
func New(w *sim.World, bin Region, onDrop DropFunc) *Controller {
	return &Controller{world: w, bin: bin, onDrop: onDrop}
}

// State returns the current drag status.
func (c *Controller) State() State {
	if c.world.Dragged != nil {
		return Dragging
	}
	return Idle
}

// Dragged returns the node bound to the pointer, or nil.
func (c *Controller) Dragged() *sim.Node {
	return c.world.Dragged
}

// Bin returns the current drop region.
func (c *Controller) Bin() Region {
	return c.bin
}

// SetBin moves the drop region, typically after a resize.
func (c *Controller) SetBin(r Region) {
	c.bin = r
}

// BinHover reports whether a dragged node is currently over the bin.
func (c *Controller) BinHover() bool {
	return c.hover
}

// PointerDown grabs the first node under the pointer, or scatters every node
// away from it when nothing is hit.
func (c *Controller) PointerDown(x, y float64) {
	if n := HitTest(c.world.Nodes, x, y); n != nil {
		c.world.Dragged = n
		return
	}
	c.world.Explode(x, y, sim.ExplosionImpulse)
}

// PointerMove updates the shared pointer and carries the dragged node with it.
func (c *Controller) PointerMove(x, y float64) {
	c.world.SetPointer(x, y)
	n := c.world.Dragged
	if n == nil {
		return
	}
	n.X = x
	n.Y = y
	c.hover = c.bin.Contains(x, y)
}

// PointerUp ends a drag. Releasing over the bin hands every label to the
// drop callback.
func (c *Controller) PointerUp(x, y float64) {
	if c.world.Dragged != nil && c.bin.Contains(x, y) && c.onDrop != nil {
		c.onDrop(Payload(c.world.Labels()))
	}
	c.Reset()
}

// Reset returns to idle and clears the bin affordance.
func (c *Controller) Reset() {
	c.world.Dragged = nil
	c.hover = false
}

// HitTest returns the first node, in set order, whose circle contains (x, y).
func HitTest(nodes []*sim.Node, x, y float64) *sim.Node {
	for _, n := range nodes {
		if n.Contains(x, y) {
			return n
		}
	}
	return nil
}

// Payload joins labels the way the generation request expects them.
func Payload(labels []string) string {
	return strings.Join(labels, ", ")
}
