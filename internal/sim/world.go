package sim

import (
	"math"
	"math/rand"
	"time"
)

// Spawn and interaction constants
const (
	SpawnMargin      = 50.0
	SpawnSpeed       = 3.0
	ExplosionImpulse = 15.0

	// OffscreenPointer is where the pointer rests before the first move.
	OffscreenPointer = -1000.0

	epsilon = 1e-9
)

// World holds the node set, the shared pointer and the drag target.
type World struct {
	Width, Height      float64
	Nodes              []*Node
	PointerX, PointerY float64
	Dragged            *Node // At most one node follows the pointer

	grid   grid
	tempVX []float64
	tempVY []float64
	rng    *rand.Rand
}

// NewWorld creates an empty world. A zero seed uses the current time.
func NewWorld(width, height float64, seed int64) *World {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &World{
		Width:    width,
		Height:   height,
		PointerX: OffscreenPointer,
		PointerY: OffscreenPointer,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Spawn adds a node with a random position inside the margins, a random
// velocity and a random hue.
func (w *World) Spawn(text string) *Node {
	x := w.rng.Float64()*(w.Width-2*SpawnMargin) + SpawnMargin
	y := w.rng.Float64()*(w.Height-2*SpawnMargin) + SpawnMargin
	n := NewNode(text, x, y, Hue(w.rng.Intn(int(NumHues))))
	n.VX = (w.rng.Float64() - 0.5) * SpawnSpeed
	n.VY = (w.rng.Float64() - 0.5) * SpawnSpeed
	w.Add(n)
	return n
}

// Add appends n to the node set.
func (w *World) Add(n *Node) {
	w.Nodes = append(w.Nodes, n)
}

// Clear empties the node set and releases any drag target.
func (w *World) Clear() {
	w.Nodes = nil
	w.Dragged = nil
}

// Len returns the number of nodes.
func (w *World) Len() int {
	return len(w.Nodes)
}

// Labels returns node labels in iteration order.
func (w *World) Labels() []string {
	labels := make([]string, len(w.Nodes))
	for i, n := range w.Nodes {
		labels[i] = n.Text
	}
	return labels
}

// Resize changes the bounds. Existing nodes are left where they are.
func (w *World) Resize(width, height float64) {
	w.Width = width
	w.Height = height
}

// SetPointer moves the shared pointer.
func (w *World) SetPointer(x, y float64) {
	w.PointerX = x
	w.PointerY = y
}

// Explode pushes every node away from (x, y) with the given impulse.
// A node sitting exactly on the point is pushed straight up.
func (w *World) Explode(x, y, impulse float64) {
	for _, n := range w.Nodes {
		dx := n.X - x
		dy := n.Y - y
		d := math.Hypot(dx, dy)
		if d < epsilon {
			n.VY -= impulse
			continue
		}
		n.VX += dx / d * impulse
		n.VY += dy / d * impulse
	}
}
