package diagram

import (
	"fmt"
	"strings"

	"evalgo.org/erdgen/models"
)

// ColumnGraph is the output of BuildColumns.
type ColumnGraph struct {
	Nodes []models.Node
	Edges []models.Edge
}

// BuildColumns emits one node per column, stacked top-down inside its table,
// and one column-level edge per reference. A column node gets a source
// connection point iff its id is in sources and a target point iff it is in
// targets.
//
// Fault handling matches BuildTables.
func BuildColumns(schema *models.Schema, sources, targets ColumnSet) (graph ColumnGraph, err error) {
	graph = ColumnGraph{
		Nodes: make([]models.Node, 0),
		Edges: make([]models.Edge, 0),
	}
	if schema == nil {
		return graph, &SynthesisError{Stage: StageColumns, Err: ErrNilSchema}
	}

	var tableName, columnName string
	defer recoverFault(StageColumns, &tableName, &columnName, &err)

	for _, table := range schema.Tables {
		tableName, columnName = table.Name, ""

		if table.Columns == nil {
			return graph, &SynthesisError{
				Stage: StageColumns,
				Table: table.Name,
				Err:   fmt.Errorf("%w: no columns field", ErrMalformedSchema),
			}
		}

		offset := 0
		for _, column := range table.Columns {
			columnName = column.Name
			offset += RowHeight

			id := models.ColumnID(table.Name, column.Name)
			graph.Nodes = append(graph.Nodes, columnNode(table.Name, column, float64(offset), sources.Has(id), targets.Has(id)))

			for _, ref := range column.References {
				if !ref.Kind.Valid() {
					return graph, &SynthesisError{
						Stage:  StageColumns,
						Table:  table.Name,
						Column: column.Name,
						Err:    fmt.Errorf("%w: %w", ErrMalformedSchema, models.ErrUnknownRefKind),
					}
				}
				if _, _, ok := models.SplitColumnID(ref.Target); !ok {
					return graph, &SynthesisError{
						Stage:  StageColumns,
						Table:  table.Name,
						Column: column.Name,
						Err:    fmt.Errorf("%w: reference target %q is not <table>.<column>", ErrMalformedSchema, ref.Target),
					}
				}

				graph.Edges = append(graph.Edges, newEdge(models.EdgeKindColumn, id, ref.Target, Resolve(ref.Kind)))
			}
		}
	}

	return graph, nil
}

func columnNode(table string, column models.Column, y float64, source, target bool) models.Node {
	return models.Node{
		ID:       models.ColumnID(table, column.Name),
		Type:     models.NodeTypeColumn,
		Kind:     models.NodeKindColumn,
		Position: models.Position{X: 0, Y: y},
		Width:    TableWidth,
		Height:   RowHeight,
		Data: models.NodeData{
			Label:      ColumnLabel(column),
			Note:       column.Note,
			Table:      table,
			Column:     column.Name,
			ColumnType: strings.ToLower(column.Type),
			PrimaryKey: column.PrimaryKey,
			Parent:     table,
			Source:     source,
			Target:     target,
		},
		Style:          columnStyle,
		ParentID:       table,
		Extent:         "parent",
		SourcePosition: models.PortRight,
		TargetPosition: models.PortLeft,
	}
}

// ColumnLabel renders "name: type", with " (PK)" for primary key columns.
func ColumnLabel(column models.Column) string {
	var b strings.Builder
	b.WriteString(column.Name)
	b.WriteString(": ")
	b.WriteString(strings.ToLower(column.Type))
	if column.PrimaryKey {
		b.WriteString(" (PK)")
	}
	return b.String()
}
