// Package diagram turns a table schema into an entity-relationship graph:
// one node per table, one node per column nested in its table, and an edge
// per reference at both table and column granularity.
package diagram

import (
	"context"
	"errors"
	"fmt"

	"evalgo.org/erdgen/internal/layout"
	"evalgo.org/erdgen/models"
)

// Stats counts what a diagram was built from.
type Stats struct {
	Tables     int `json:"tables" yaml:"tables"`
	Columns    int `json:"columns" yaml:"columns"`
	References int `json:"references" yaml:"references"`
}

// Diagram is the renderer-ready graph. Nodes holds the table nodes followed
// by the column nodes; Edges holds the column-level edges, TableEdges the
// table-level ones that drove the layout.
type Diagram struct {
	Nodes         []models.Node  `json:"nodes" yaml:"nodes"`
	Edges         []models.Edge  `json:"edges" yaml:"edges"`
	TableEdges    []models.Edge  `json:"table_edges" yaml:"table_edges"`
	SourceColumns []string       `json:"source_columns" yaml:"source_columns"`
	TargetColumns []string       `json:"target_columns" yaml:"target_columns"`
	Layout        layout.Options `json:"layout" yaml:"layout"`
	Stats         Stats          `json:"stats" yaml:"stats"`

	// Complete is false when synthesis stopped early; Errors then says why.
	Complete bool     `json:"complete" yaml:"complete"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Generator runs the full pipeline: tables, layout, columns.
type Generator struct {
	layouter layout.Layouter
}

// NewGenerator returns a Generator using l to position table nodes. A nil l
// keeps the placeholder positions.
func NewGenerator(l layout.Layouter) *Generator {
	return &Generator{layouter: l}
}

// Generate builds the diagram for schema.
//
// A synthesis fault still yields a diagram holding everything built before
// the fault, with Complete set to false; the returned error wraps the
// *SynthesisError values. A layout failure returns the diagram with
// placeholder positions and an error wrapping layout.ErrLayout.
func (g *Generator) Generate(ctx context.Context, schema *models.Schema, opts layout.Options) (*Diagram, error) {
	d := &Diagram{
		Nodes:      make([]models.Node, 0),
		Edges:      make([]models.Edge, 0),
		TableEdges: make([]models.Edge, 0),
		Layout:     opts,
	}
	if schema != nil {
		d.Stats = Stats{
			Tables:     len(schema.Tables),
			Columns:    schema.ColumnCount(),
			References: schema.ReferenceCount(),
		}
	}

	var synthErrs []error

	tables, err := BuildTables(schema)
	if err != nil {
		synthErrs = append(synthErrs, err)
	}

	tableNodes := tables.Nodes
	var layoutErr error
	if g.layouter != nil && len(tableNodes) > 0 {
		positioned, err := g.layouter.Layout(ctx, tables.Nodes, tables.Edges, opts)
		if err != nil {
			if !errors.Is(err, layout.ErrLayout) {
				err = fmt.Errorf("%w: %w", layout.ErrLayout, err)
			}
			layoutErr = err
			layout.AssignPorts(tableNodes, opts)
		} else {
			tableNodes = positioned
		}
	} else {
		layout.AssignPorts(tableNodes, opts)
	}

	columns, err := BuildColumns(schema, tables.SourceColumns, tables.TargetColumns)
	if err != nil {
		synthErrs = append(synthErrs, err)
	}

	d.Nodes = append(d.Nodes, tableNodes...)
	d.Nodes = append(d.Nodes, columns.Nodes...)
	d.Edges = append(d.Edges, columns.Edges...)
	d.TableEdges = append(d.TableEdges, tables.Edges...)
	d.SourceColumns = tables.SourceColumns.Sorted()
	d.TargetColumns = tables.TargetColumns.Sorted()

	d.Complete = len(synthErrs) == 0
	for _, e := range synthErrs {
		d.Errors = append(d.Errors, e.Error())
	}

	if layoutErr != nil {
		synthErrs = append(synthErrs, layoutErr)
	}
	return d, errors.Join(synthErrs...)
}

// TableNodes returns the table nodes of d.
func (d *Diagram) TableNodes() []models.Node {
	return d.nodesOfKind(models.NodeKindTable)
}

// ColumnNodes returns the column nodes of d.
func (d *Diagram) ColumnNodes() []models.Node {
	return d.nodesOfKind(models.NodeKindColumn)
}

// Node returns the node with the given id, or nil.
func (d *Diagram) Node(id string) *models.Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

func (d *Diagram) nodesOfKind(kind models.NodeKind) []models.Node {
	out := make([]models.Node, 0)
	for _, n := range d.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
