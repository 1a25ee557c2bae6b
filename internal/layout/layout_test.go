package layout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/erdgen/internal/config"
	"evalgo.org/erdgen/models"
)

func tableNodes(ids ...string) []models.Node {
	nodes := make([]models.Node, 0, len(ids))
	for i, id := range ids {
		nodes = append(nodes, models.Node{
			ID:     id,
			Kind:   models.NodeKindTable,
			Width:  300,
			Height: float64(80 + 40*i),
			Data:   models.NodeData{Label: id},
		})
	}
	return nodes
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		name    string
		want    Options
		wantErr bool
	}{
		{name: "layered-right", want: Options{AlgorithmLayered, DirectionRight}},
		{name: "layered-down", want: Options{AlgorithmLayered, DirectionDown}},
		{name: "tree", want: Options{AlgorithmTree, DirectionRight}},
		{name: "force", want: Options{AlgorithmForce, DirectionRight}},
		{name: "radial", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePreset(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPreset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"force", "layered-down", "layered-right", "tree"}, Presets())
}

func TestAssignPorts(t *testing.T) {
	nodes := tableNodes("a", "b")

	AssignPorts(nodes, Options{Algorithm: AlgorithmLayered, Direction: DirectionRight})
	for _, n := range nodes {
		assert.Equal(t, models.PortLeft, n.TargetPosition)
		assert.Equal(t, models.PortRight, n.SourcePosition)
	}

	AssignPorts(nodes, Options{Algorithm: AlgorithmLayered, Direction: DirectionDown})
	for _, n := range nodes {
		assert.Equal(t, models.PortTop, n.TargetPosition)
		assert.Equal(t, models.PortBottom, n.SourcePosition)
	}
}

func TestGridLayout(t *testing.T) {
	nodes := tableNodes("a", "b", "c", "d", "e")

	out, err := NewGrid().Layout(context.Background(), nodes, nil, Options{Direction: DirectionRight})
	require.NoError(t, err)
	require.Len(t, out, 5)

	// 5 nodes: 3 rows, 2 columns; cell is 300+50 wide, 240+50 tall
	want := []models.Position{
		{X: 0, Y: 0},
		{X: 350, Y: 0},
		{X: 0, Y: 290},
		{X: 350, Y: 290},
		{X: 0, Y: 580},
	}
	for i, n := range out {
		assert.Equal(t, want[i], n.Position, "node %s", n.ID)
		assert.Equal(t, nodes[i].Data, n.Data)
		assert.Equal(t, models.PortLeft, n.TargetPosition)
	}

	// input is untouched
	assert.Equal(t, models.Position{}, nodes[1].Position)
}

func TestGridLayoutEmpty(t *testing.T) {
	out, err := NewGrid().Layout(context.Background(), nil, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBuildELKGraph(t *testing.T) {
	nodes := tableNodes("users", "orders")
	edges := []models.Edge{
		{ID: "orders->users", Source: "orders", Target: "users"},
		{ID: "orders->users", Source: "orders", Target: "users"},
		{ID: "orders->ghost", Source: "orders", Target: "ghost"},
	}

	g := buildELKGraph(nodes, edges, Options{Algorithm: AlgorithmLayered, Direction: DirectionDown})

	assert.Equal(t, "root", g.ID)
	assert.Equal(t, "layered", g.LayoutOptions["elk.algorithm"])
	assert.Equal(t, "DOWN", g.LayoutOptions["elk.direction"])
	assert.Equal(t, "SPLINE", g.LayoutOptions["elk.edgeRouting"])
	require.Len(t, g.Children, 2)
	assert.Equal(t, elkNode{ID: "users", Width: 300, Height: 80}, g.Children[0])
	require.Len(t, g.Edges, 1)
	assert.Equal(t, []string{"orders"}, g.Edges[0].Sources)
	assert.Equal(t, []string{"users"}, g.Edges[0].Targets)
}

func TestELKLayout(t *testing.T) {
	var received elkGraph
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		x, y := 420.0, 12.5
		received.Children[0].X = &x
		received.Children[0].Y = &y
		// second child is left without coordinates
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(received)
	}))
	defer srv.Close()

	elk, err := NewELK(srv.URL, 0)
	require.NoError(t, err)

	out, err := elk.Layout(context.Background(), tableNodes("users", "orders"), nil, Options{Algorithm: AlgorithmTree, Direction: DirectionRight})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "mrtree", received.LayoutOptions["elk.algorithm"])
	assert.Equal(t, models.Position{X: 420, Y: 12.5}, out[0].Position)
	assert.Equal(t, models.Position{}, out[1].Position)
	assert.Equal(t, models.PortRight, out[1].SourcePosition)
}

func TestELKLayoutServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	elk, err := NewELK(srv.URL, 0)
	require.NoError(t, err)

	_, err = elk.Layout(context.Background(), tableNodes("a"), nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLayout)
	assert.Contains(t, err.Error(), "500")
}

func TestNewELKRequiresURL(t *testing.T) {
	_, err := NewELK("", 0)
	assert.Error(t, err)
}

type failingLayouter struct{ err error }

func (f failingLayouter) Layout(context.Context, []models.Node, []models.Edge, Options) ([]models.Node, error) {
	return nil, f.err
}

func TestFallback(t *testing.T) {
	var reported error
	f := &Fallback{
		Primary:    failingLayouter{err: errors.Join(ErrLayout, errors.New("connection refused"))},
		Secondary:  NewGrid(),
		OnFallback: func(err error) { reported = err },
	}

	out, err := f.Layout(context.Background(), tableNodes("a", "b"), nil, Options{Direction: DirectionDown})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.ErrorIs(t, reported, ErrLayout)
	assert.Equal(t, models.PortTop, out[0].TargetPosition)
}

func TestFallbackHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &Fallback{Primary: failingLayouter{err: context.Canceled}, Secondary: NewGrid()}
	_, err := f.Layout(ctx, tableNodes("a"), nil, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	l, err := New(config.LayoutConfig{Provider: config.LayoutProviderGrid})
	require.NoError(t, err)
	assert.IsType(t, &Grid{}, l)

	l, err = New(config.LayoutConfig{Provider: config.LayoutProviderELK, URL: "http://elk/layout"})
	require.NoError(t, err)
	assert.IsType(t, &ELK{}, l)

	l, err = New(config.LayoutConfig{Provider: config.LayoutProviderELK, URL: "http://elk/layout", FallbackToGrid: true})
	require.NoError(t, err)
	assert.IsType(t, &Fallback{}, l)

	_, err = New(config.LayoutConfig{Provider: config.LayoutProviderGrid, Preset: "spiral"})
	assert.ErrorIs(t, err, ErrUnknownPreset)

	_, err = New(config.LayoutConfig{Provider: "dot"})
	assert.Error(t, err)
}
