package diagram

import "evalgo.org/erdgen/models"

// Geometry shared by the two builders. A table is tall enough to stack one
// row per column under a header row.
const (
	TableWidth  = 300
	RowHeight   = 40
	TableHeader = 40

	placeholderStepX = 350
	placeholderStepY = 50
)

const (
	markerSize  = 20
	markerColor = "#FF0072"
	strokeWidth = 2
)

var (
	tableStyle = models.NodeStyle{
		BackgroundColor: "rgba(39,168,245,0.43)",
		Color:           "white",
		Padding:         "10px",
		Outline:         "3px white solid",
	}

	columnStyle = models.NodeStyle{
		BackgroundColor: "white",
		Color:           "black",
		Padding:         "10px",
	}
)

// TableHeight returns the height of a table node holding n columns.
func TableHeight(n int) float64 {
	return float64(RowHeight*n + TableHeader)
}

func marker(kind models.MarkerKind) models.Marker {
	return models.Marker{
		Kind:   kind,
		Type:   kind.MarkerID(),
		Width:  markerSize,
		Height: markerSize,
		Color:  markerColor,
	}
}

// newEdge builds a labelled edge between two node ids.
func newEdge(kind models.EdgeKind, source, target string, card Cardinality) models.Edge {
	return models.Edge{
		ID:       models.EdgeID(source, target),
		Source:   source,
		Target:   target,
		Type:     models.EdgeTypeLabels,
		Kind:     kind,
		Animated: false,
		Style:    models.EdgeStyle{StrokeWidth: strokeWidth},
		Data: models.EdgeData{
			StartLabel:  card.StartLabel,
			EndLabel:    card.EndLabel,
			MarkerStart: marker(card.StartMarker),
			MarkerEnd:   marker(card.EndMarker),
		},
	}
}
