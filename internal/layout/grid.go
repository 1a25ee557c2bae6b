package layout

import (
	"context"
	"math"

	"evalgo.org/erdgen/models"
)

// GridGap is the spacing between grid cells.
const GridGap = 50

// Grid spreads nodes over a near-square grid. Every cell is as large as the
// widest and tallest node. Edges are ignored.
type Grid struct{}

// NewGrid returns the grid layouter.
func NewGrid() *Grid {
	return &Grid{}
}

// Layout implements Layouter.
func (g *Grid) Layout(_ context.Context, nodes []models.Node, _ []models.Edge, opts Options) ([]models.Node, error) {
	out := cloneNodes(nodes)
	if len(out) == 0 {
		return out, nil
	}

	var maxWidth, maxHeight float64
	for _, n := range out {
		maxWidth = math.Max(maxWidth, n.Width)
		maxHeight = math.Max(maxHeight, n.Height)
	}

	rows := int(math.Ceil(math.Sqrt(float64(len(out)))))
	cols := int(math.Ceil(float64(len(out)) / float64(rows)))

	for i := range out {
		row, col := i/cols, i%cols
		out[i].Position = models.Position{
			X: float64(col) * (maxWidth + GridGap),
			Y: float64(row) * (maxHeight + GridGap),
		}
	}

	AssignPorts(out, opts)
	return out, nil
}
