package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/erdgen/internal/config"
	"evalgo.org/erdgen/internal/layout"
)

func renderString(t *testing.T, data EditorPageData) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, EditorPage(data).Render(context.Background(), &sb))
	return sb.String()
}

func TestEditorPage(t *testing.T) {
	html := renderString(t, EditorPageData{
		Title:       "erdgen",
		SocketPath:  EditorPath,
		Presets:     layout.Presets(),
		Preset:      layout.PresetTree,
		AuthEnabled: true,
		DebounceMS:  400,
		InitialDBML: SampleDBML,
	})

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>erdgen</title>")
	assert.Contains(t, html, `<option value="tree" selected>tree</option>`)
	assert.Contains(t, html, `<option value="force">force</option>`)
	assert.Contains(t, html, `id="erd-config"`)
	assert.Contains(t, html, `"socketPath":"/api/v1/ws/editor"`)
	assert.Contains(t, html, `"authEnabled":true`)
	assert.Contains(t, html, "Table users {")
	assert.True(t, strings.HasSuffix(html, "</body></html>"))
}

func TestEditorPageEscapesInput(t *testing.T) {
	html := renderString(t, EditorPageData{
		Title:       "<b>erd</b>",
		InitialDBML: `Table t { note varchar [note: "</textarea><script>x()</script>"] }`,
	})

	assert.NotContains(t, html, "<b>erd</b>")
	assert.NotContains(t, html, "</textarea><script>x()")
	assert.Contains(t, html, "&lt;/textarea&gt;")
}

func TestHandlerEditor(t *testing.T) {
	cfg := &config.Config{
		Layout: config.LayoutConfig{Preset: layout.PresetLayeredDown},
		Editor: config.EditorConfig{Debounce: 250 * time.Millisecond},
	}
	h := NewHandler(cfg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Editor(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="layered-down" selected>`)
	assert.Contains(t, body, `"debounceMs":250`)
	assert.Contains(t, body, `"authEnabled":false`)
}

func TestHandlerEditorDefaultPreset(t *testing.T) {
	h := NewHandler(&config.Config{})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/editor", nil), rec)

	require.NoError(t, h.Editor(c))
	assert.Contains(t, rec.Body.String(), `<option value="layered-right" selected>`)
}

func TestEditorPageHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sb strings.Builder
	err := EditorPage(EditorPageData{Title: "erdgen"}).Render(ctx, &sb)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sb.String())
}

func TestLayoutRendersChildren(t *testing.T) {
	body := templ.Raw("<p>child</p>")

	var sb strings.Builder
	require.NoError(t, Layout("t").Render(templ.WithChildren(context.Background(), body), &sb))
	assert.Contains(t, sb.String(), "<title>t</title><style>")
	assert.Contains(t, sb.String(), "<body><p>child</p></body>")
}
