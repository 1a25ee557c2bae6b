package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"evalgo.org/erdgen/models"
)

// defaultELKOptions are sent with every request; algorithm and direction are
// overwritten per call.
var defaultELKOptions = map[string]string{
	"elk.algorithm":                             string(AlgorithmTree),
	"elk.direction":                             string(DirectionRight),
	"elk.mrtree.options":                        "AVOID_OVERLAP",
	"elk.radial.spacing.nodeNode":               "100",
	"elk.layered.spacing.nodeNodeBetweenLayers": "100",
	"elk.edgeRouting":                           "SPLINE",
	"elk.spacing.nodeNode":                      "80",
	"elk.force.temperature":                     "0.000001",
	"elk.layered.mergeEdges":                    "true",
	"elk.spacing.edgeEdge":                      "100",
}

// elkGraph is the ELK-JSON graph exchanged with the layout endpoint.
type elkGraph struct {
	ID            string            `json:"id"`
	LayoutOptions map[string]string `json:"layoutOptions,omitempty"`
	Children      []elkNode         `json:"children"`
	Edges         []elkEdge         `json:"edges"`
}

type elkNode struct {
	ID     string   `json:"id"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

type elkEdge struct {
	ID      string   `json:"id"`
	Sources []string `json:"sources"`
	Targets []string `json:"targets"`
}

// ELK lays out graphs through an HTTP endpoint that accepts an ELK-JSON graph
// and answers with the same graph, positions filled in.
type ELK struct {
	url        string
	httpClient *http.Client
}

// NewELK returns a client for the endpoint at url.
func NewELK(url string, timeout time.Duration) (*ELK, error) {
	if url == "" {
		return nil, fmt.Errorf("elk url is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ELK{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Layout implements Layouter. A node the engine leaves out of its answer is
// placed at the origin.
func (e *ELK) Layout(ctx context.Context, nodes []models.Node, edges []models.Edge, opts Options) ([]models.Node, error) {
	out := cloneNodes(nodes)
	if len(out) == 0 {
		return out, nil
	}

	payload, err := json.Marshal(buildELKGraph(out, edges, opts))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode graph: %v", ErrLayout, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrLayout, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: engine returned status %d: %s", ErrLayout, resp.StatusCode, bytes.TrimSpace(body))
	}

	var result elkGraph
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrLayout, err)
	}

	positions := make(map[string]models.Position, len(result.Children))
	for _, child := range result.Children {
		var p models.Position
		if child.X != nil {
			p.X = *child.X
		}
		if child.Y != nil {
			p.Y = *child.Y
		}
		positions[child.ID] = p
	}
	for i := range out {
		out[i].Position = positions[out[i].ID]
	}

	AssignPorts(out, opts)
	return out, nil
}

// buildELKGraph converts nodes and edges into the request graph. Duplicate
// edge ids and edges touching unknown nodes are dropped; the engine rejects
// both.
func buildELKGraph(nodes []models.Node, edges []models.Edge, opts Options) elkGraph {
	options := make(map[string]string, len(defaultELKOptions))
	for k, v := range defaultELKOptions {
		options[k] = v
	}
	if opts.Algorithm != "" {
		options["elk.algorithm"] = string(opts.Algorithm)
	}
	if opts.Direction != "" {
		options["elk.direction"] = string(opts.Direction)
	}

	graph := elkGraph{
		ID:            "root",
		LayoutOptions: options,
		Children:      make([]elkNode, 0, len(nodes)),
		Edges:         make([]elkEdge, 0, len(edges)),
	}

	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
		graph.Children = append(graph.Children, elkNode{ID: n.ID, Width: n.Width, Height: n.Height})
	}

	seen := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		_, okSource := known[e.Source]
		_, okTarget := known[e.Target]
		if !okSource || !okTarget {
			continue
		}
		seen[e.ID] = struct{}{}
		graph.Edges = append(graph.Edges, elkEdge{ID: e.ID, Sources: []string{e.Source}, Targets: []string{e.Target}})
	}

	return graph
}
