package models

// NodeKind tags a diagram node as a whole table or a single column.
type NodeKind string

const (
	NodeKindTable  NodeKind = "table"
	NodeKindColumn NodeKind = "column"
)

// EdgeKind tags an edge as coalesced to table granularity or exact between columns.
type EdgeKind string

const (
	EdgeKindTable  EdgeKind = "table"
	EdgeKindColumn EdgeKind = "column"
)

// Label is the cardinality annotation drawn at an edge endpoint.
type Label string

const (
	LabelOne  Label = "1"
	LabelMany Label = "*"
)

// MarkerKind is the terminator style drawn at an edge endpoint.
type MarkerKind string

const (
	MarkerOne  MarkerKind = "one"
	MarkerMany MarkerKind = "many"
)

// MarkerID returns the SVG marker id the renderer defines for this kind.
func (k MarkerKind) MarkerID() string {
	return string(k) + "-marker"
}

// PortSide is the side of a node where a connection point sits.
type PortSide string

const (
	PortLeft   PortSide = "left"
	PortRight  PortSide = "right"
	PortTop    PortSide = "top"
	PortBottom PortSide = "bottom"
)

// Render template names understood by the diagram front end.
const (
	NodeTypeTable  = "tableNode"
	NodeTypeColumn = "columnNode"
	EdgeTypeLabels = "start-end"
)

// Position is a 2-D coordinate. Column positions are relative to the parent table.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NodeStyle holds the presentation attributes passed through to the renderer.
type NodeStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty" yaml:"background_color,omitempty"`
	Color           string `json:"color,omitempty" yaml:"color,omitempty"`
	Padding         string `json:"padding,omitempty" yaml:"padding,omitempty"`
	Outline         string `json:"outline,omitempty" yaml:"outline,omitempty"`
}

// NodeData is the payload rendered inside a node and its tooltip.
type NodeData struct {
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Note        string `json:"note,omitempty" yaml:"note,omitempty"`

	// Column nodes only
	Table      string `json:"table,omitempty" yaml:"table,omitempty"`
	Column     string `json:"column,omitempty" yaml:"column,omitempty"`
	ColumnType string `json:"columnType,omitempty" yaml:"column_type,omitempty"`
	PrimaryKey bool   `json:"primaryKey,omitempty" yaml:"primary_key,omitempty"`
	Parent     string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// Source and Target report whether the node exposes an outgoing or an
	// incoming connection point.
	Source bool `json:"source,omitempty" yaml:"source,omitempty"`
	Target bool `json:"target,omitempty" yaml:"target,omitempty"`
}

// Node is a diagram vertex.
type Node struct {
	ID       string    `json:"id" yaml:"id"`
	Type     string    `json:"type" yaml:"type"`
	Kind     NodeKind  `json:"kind" yaml:"kind"`
	Position Position  `json:"position" yaml:"position"`
	Width    float64   `json:"width" yaml:"width"`
	Height   float64   `json:"height,omitempty" yaml:"height,omitempty"`
	Data     NodeData  `json:"data" yaml:"data"`
	Style    NodeStyle `json:"style" yaml:"style"`

	// ParentID ties a column node to its table node; Extent "parent" keeps it
	// inside the table when dragged.
	ParentID string `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	Extent   string `json:"extent,omitempty" yaml:"extent,omitempty"`

	SourcePosition PortSide `json:"sourcePosition,omitempty" yaml:"source_position,omitempty"`
	TargetPosition PortSide `json:"targetPosition,omitempty" yaml:"target_position,omitempty"`
}

// Marker describes the terminator drawn at one end of an edge.
type Marker struct {
	Kind   MarkerKind `json:"kind" yaml:"kind"`
	Type   string     `json:"type" yaml:"type"`
	Width  int        `json:"width" yaml:"width"`
	Height int        `json:"height" yaml:"height"`
	Color  string     `json:"color" yaml:"color"`
}

// EdgeData is the payload of the labelled start/end edge template.
type EdgeData struct {
	StartLabel  Label  `json:"startLabel" yaml:"start_label"`
	EndLabel    Label  `json:"endLabel" yaml:"end_label"`
	MarkerStart Marker `json:"markerStart" yaml:"marker_start"`
	MarkerEnd   Marker `json:"markerEnd" yaml:"marker_end"`
}

// EdgeStyle holds stroke attributes.
type EdgeStyle struct {
	StrokeWidth int `json:"strokeWidth" yaml:"stroke_width"`
}

// Edge is a diagram edge, identified by "<source>-><target>".
type Edge struct {
	ID       string    `json:"id" yaml:"id"`
	Source   string    `json:"source" yaml:"source"`
	Target   string    `json:"target" yaml:"target"`
	Type     string    `json:"type" yaml:"type"`
	Kind     EdgeKind  `json:"kind" yaml:"kind"`
	Animated bool      `json:"animated" yaml:"animated"`
	Style    EdgeStyle `json:"style" yaml:"style"`
	Data     EdgeData  `json:"data" yaml:"data"`
}

// EdgeID builds the identity of an edge between two node ids.
func EdgeID(source, target string) string {
	return source + "->" + target
}

// ColumnID builds the fully-qualified id of a column node.
func ColumnID(table, column string) string {
	return table + "." + column
}
