package api

import (
	"evalgo.org/erdgen/internal/diagram"
	"evalgo.org/erdgen/internal/validation"
	"evalgo.org/erdgen/models"
)

// GenerateRequest asks for the diagram of a DBML document.
type GenerateRequest struct {
	DBML   string `json:"dbml" validate:"required"`
	Layout string `json:"layout,omitempty" validate:"omitempty,oneof=layered-right layered-down tree force"`
}

// SchemaGenerateRequest asks for the diagram of an already parsed schema.
type SchemaGenerateRequest struct {
	Schema *models.Schema `json:"schema" validate:"required"`
	Layout string         `json:"layout,omitempty" validate:"omitempty,oneof=layered-right layered-down tree force"`
}

// ParseRequest carries DBML to be converted into table definitions.
type ParseRequest struct {
	DBML string `json:"dbml" validate:"required"`
}

// ParseResponse is the parsed schema with its counts.
type ParseResponse struct {
	Schema *models.Schema `json:"schema"`
	Stats  diagram.Stats  `json:"stats"`
}

// ValidateSchemaResponse reports referential problems in a schema document.
type ValidateSchemaResponse = validation.ValidationResult

// LayoutPreset describes one selectable layout.
type LayoutPreset struct {
	Name      string `json:"name"`
	Algorithm string `json:"algorithm"`
	Direction string `json:"direction"`
}

// LayoutsResponse lists the layout presets.
type LayoutsResponse struct {
	Default  string         `json:"default"`
	Provider string         `json:"provider"`
	Presets  []LayoutPreset `json:"presets"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Editor websocket message types.
const (
	EditorEventReady   = "ready"
	EditorEventDiagram = "diagram"
	EditorEventError   = "error"
)

// EditorMessage is sent by the editor on every change.
type EditorMessage struct {
	DBML   string `json:"dbml"`
	Layout string `json:"layout,omitempty"`
}

// EditorEvent is pushed back to the editor. Seq echoes the change that
// produced it; results for superseded changes are never sent.
type EditorEvent struct {
	Type    string           `json:"type"`
	Seq     uint64           `json:"seq"`
	Session string           `json:"session,omitempty"`
	Diagram *diagram.Diagram `json:"diagram,omitempty"`
	Error   *APIError        `json:"error,omitempty"`
}
