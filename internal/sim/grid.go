package sim

import "math"

type cell struct{ x, y int }

// grid buckets node indices into square cells. With a cell size of the
// largest diameter, any overlapping pair sits in the same or adjacent cells.
type grid struct {
	size float64
	bins map[cell][]int
}

func (g *grid) build(nodes []*Node) {
	maxR := 0.0
	for _, n := range nodes {
		if n.Radius > maxR {
			maxR = n.Radius
		}
	}
	g.size = 2 * maxR
	if g.size <= 0 {
		g.size = 1
	}

	if g.bins == nil {
		g.bins = make(map[cell][]int)
	}
	for k := range g.bins {
		delete(g.bins, k)
	}
	for i, n := range nodes {
		c := g.cellOf(n.X, n.Y)
		g.bins[c] = append(g.bins[c], i)
	}
}

func (g *grid) cellOf(x, y float64) cell {
	return cell{int(math.Floor(x / g.size)), int(math.Floor(y / g.size))}
}

// neighbors calls fn for every node index in the 3x3 block around (x, y).
func (g *grid) neighbors(x, y float64, fn func(j int)) {
	c := g.cellOf(x, y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, j := range g.bins[cell{c.x + dx, c.y + dy}] {
				fn(j)
			}
		}
	}
}
