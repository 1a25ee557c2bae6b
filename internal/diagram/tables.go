package diagram

import (
	"fmt"
	"sort"

	"evalgo.org/erdgen/models"
)

// ColumnSet is a set of fully-qualified column ids ("<table>.<column>").
type ColumnSet map[string]struct{}

// Add inserts id.
func (s ColumnSet) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s ColumnSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in lexical order.
func (s ColumnSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TableGraph is the output of BuildTables.
type TableGraph struct {
	Nodes []models.Node
	Edges []models.Edge

	// SourceColumns holds every column some reference starts from,
	// TargetColumns every column some reference points at.
	SourceColumns ColumnSet
	TargetColumns ColumnSet
}

// BuildTables emits one node per table and one table-level edge per
// reference, and records which columns take part in a reference.
//
// On a fault the walk stops and the nodes and edges accumulated so far are
// returned together with a *SynthesisError.
func BuildTables(schema *models.Schema) (graph TableGraph, err error) {
	graph = TableGraph{
		Nodes:         make([]models.Node, 0),
		Edges:         make([]models.Edge, 0),
		SourceColumns: make(ColumnSet),
		TargetColumns: make(ColumnSet),
	}
	if schema == nil {
		return graph, &SynthesisError{Stage: StageTables, Err: ErrNilSchema}
	}

	var tableName, columnName string
	defer recoverFault(StageTables, &tableName, &columnName, &err)

	for index, table := range schema.Tables {
		tableName, columnName = table.Name, ""

		if table.Columns == nil {
			return graph, &SynthesisError{
				Stage: StageTables,
				Table: table.Name,
				Err:   fmt.Errorf("%w: no columns field", ErrMalformedSchema),
			}
		}

		graph.Nodes = append(graph.Nodes, tableNode(table, index))

		for _, column := range table.Columns {
			columnName = column.Name
			sourceID := models.ColumnID(table.Name, column.Name)

			for _, ref := range column.References {
				targetTable, _, ok := models.SplitColumnID(ref.Target)
				if !ok {
					return graph, &SynthesisError{
						Stage:  StageTables,
						Table:  table.Name,
						Column: column.Name,
						Err:    fmt.Errorf("%w: reference target %q is not <table>.<column>", ErrMalformedSchema, ref.Target),
					}
				}
				if !ref.Kind.Valid() {
					return graph, &SynthesisError{
						Stage:  StageTables,
						Table:  table.Name,
						Column: column.Name,
						Err:    fmt.Errorf("%w: %w", ErrMalformedSchema, models.ErrUnknownRefKind),
					}
				}

				graph.Edges = append(graph.Edges, newEdge(models.EdgeKindTable, table.Name, targetTable, Resolve(ref.Kind)))
				graph.SourceColumns.Add(sourceID)
				graph.TargetColumns.Add(ref.Target)
			}
		}
	}

	return graph, nil
}

func tableNode(table models.Table, index int) models.Node {
	return models.Node{
		ID:   table.Name,
		Type: models.NodeTypeTable,
		Kind: models.NodeKindTable,
		Position: models.Position{
			X: float64(placeholderStepX * index),
			Y: float64(placeholderStepY * index),
		},
		Width:  TableWidth,
		Height: TableHeight(len(table.Columns)),
		Data: models.NodeData{
			Label:       table.Name,
			Description: table.Description,
		},
		Style: tableStyle,
	}
}
