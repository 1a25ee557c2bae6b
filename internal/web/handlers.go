// Package web serves the browser editor: a DBML text area on the left and
// the live diagram on the right, fed by the editor websocket.
package web

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"evalgo.org/erdgen/internal/config"
	"evalgo.org/erdgen/internal/layout"
)

// EditorPath is the websocket route the page connects to.
const EditorPath = "/api/v1/ws/editor"

// SampleDBML prefills the editor.
const SampleDBML = `Table users {
  id integer [pk]
  email varchar
}

Table orders {
  id integer [pk]
  user_id integer [ref: > users.id]
  placed_at timestamp
}
`

// Handler handles web UI requests.
type Handler struct {
	config *config.Config
}

// NewHandler creates a new web handler.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{config: cfg}
}

// Editor renders the editor page.
func (h *Handler) Editor(c echo.Context) error {
	preset := h.config.Layout.Preset
	if preset == "" {
		preset = layout.PresetLayeredRight
	}

	return Render(c, EditorPage(EditorPageData{
		Title:       "erdgen",
		SocketPath:  EditorPath,
		Presets:     layout.Presets(),
		Preset:      preset,
		AuthEnabled: h.config.Security.AuthEnabled,
		DebounceMS:  h.config.Editor.Debounce.Milliseconds(),
		InitialDBML: SampleDBML,
	}))
}

// Render writes component as an HTML response. The page is rendered to a
// buffer first so a failing component still yields a clean error response.
func Render(c echo.Context, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
