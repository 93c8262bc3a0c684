package sim

import "math"

// Force constants
const (
	PointerRange      = 400.0
	PointerStrength   = 0.9
	CollisionStrength = 0.05
)

// Step advances the world by one frame.
//
// Forces are gathered for every free node from the positions at the start of
// the frame, then applied together: damping, Euler integration and boundary
// reflection. The dragged node is skipped but still repels its neighbours.
func (w *World) Step() {
	if len(w.Nodes) == 0 {
		return
	}

	w.grid.build(w.Nodes)

	if cap(w.tempVX) < len(w.Nodes) {
		w.tempVX = make([]float64, len(w.Nodes))
		w.tempVY = make([]float64, len(w.Nodes))
	}
	w.tempVX = w.tempVX[:len(w.Nodes)]
	w.tempVY = w.tempVY[:len(w.Nodes)]

	for i, n := range w.Nodes {
		w.tempVX[i], w.tempVY[i] = 0, 0
		if n == w.Dragged {
			continue
		}
		px, py := w.pointerForce(n)
		cx, cy := w.collisionForce(i, n)
		w.tempVX[i] = px + cx
		w.tempVY[i] = py + cy
	}

	for i, n := range w.Nodes {
		if n == w.Dragged {
			continue
		}
		n.VX += w.tempVX[i]
		n.VY += w.tempVY[i]
		n.VX *= n.Friction
		n.VY *= n.Friction
		n.X += n.VX
		n.Y += n.VY
		n.reflect(w.Width, w.Height)
	}
}

// pointerForce pulls n toward the pointer, linearly weaker with distance.
func (w *World) pointerForce(n *Node) (float64, float64) {
	dx := w.PointerX - n.X
	dy := w.PointerY - n.Y
	d := math.Hypot(dx, dy)
	if d >= PointerRange || d < epsilon {
		return 0, 0
	}
	f := (PointerRange - d) / PointerRange * PointerStrength
	return dx / d * f, dy / d * f
}

// collisionForce pushes n away from every node overlapping it, proportional
// to the penetration depth.
func (w *World) collisionForce(i int, n *Node) (fx, fy float64) {
	w.grid.neighbors(n.X, n.Y, func(j int) {
		if j == i {
			return
		}
		m := w.Nodes[j]
		dx := m.X - n.X
		dy := m.Y - n.Y
		d := math.Hypot(dx, dy)
		reach := n.Radius + m.Radius
		if d >= reach {
			return
		}

		// Unit vector from n toward m; coincident nodes split along x by order.
		var ux, uy float64
		if d < epsilon {
			ux = 1
			if i > j {
				ux = -1
			}
		} else {
			ux, uy = dx/d, dy/d
		}

		overlap := reach - d
		fx -= ux * overlap * CollisionStrength
		fy -= uy * overlap * CollisionStrength
	})
	return fx, fy
}
