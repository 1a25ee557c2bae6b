// Package layout positions table nodes before the column nodes are placed
// inside them.
//
// The heavy lifting is delegated: ELK talks to an ELK-JSON layout endpoint,
// Grid is a built-in arrangement used when no engine is reachable.
package layout

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"evalgo.org/erdgen/internal/config"
	"evalgo.org/erdgen/models"
)

var (
	// ErrLayout wraps every failure of a layout engine.
	ErrLayout = errors.New("layout failed")

	// ErrUnknownPreset is returned for a preset name outside Presets().
	ErrUnknownPreset = errors.New("unknown layout preset")
)

// Algorithm is an ELK layout algorithm id.
type Algorithm string

const (
	AlgorithmLayered Algorithm = "layered"
	AlgorithmTree    Algorithm = "mrtree"
	AlgorithmForce   Algorithm = "force"
)

// Direction is the main flow direction of the layout.
type Direction string

const (
	DirectionRight Direction = "RIGHT"
	DirectionDown  Direction = "DOWN"
)

// Options selects how a Layouter arranges the graph.
type Options struct {
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Horizontal reports whether edges flow left to right.
func (o Options) Horizontal() bool {
	return o.Direction == DirectionRight
}

// Preset names accepted by the API, the editor and the CLI.
const (
	PresetLayeredRight = "layered-right"
	PresetLayeredDown  = "layered-down"
	PresetTree         = "tree"
	PresetForce        = "force"
)

var presets = map[string]Options{
	PresetLayeredRight: {Algorithm: AlgorithmLayered, Direction: DirectionRight},
	PresetLayeredDown:  {Algorithm: AlgorithmLayered, Direction: DirectionDown},
	PresetTree:         {Algorithm: AlgorithmTree, Direction: DirectionRight},
	PresetForce:        {Algorithm: AlgorithmForce, Direction: DirectionRight},
}

// ParsePreset returns the options for a preset name.
func ParsePreset(name string) (Options, error) {
	opts, ok := presets[name]
	if !ok {
		return Options{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return opts, nil
}

// Presets lists the preset names in lexical order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layouter assigns positions to nodes. Implementations return a new slice;
// every field other than Position, SourcePosition and TargetPosition is
// passed through unchanged.
type Layouter interface {
	Layout(ctx context.Context, nodes []models.Node, edges []models.Edge, opts Options) ([]models.Node, error)
}

// AssignPorts sets connection sides for the flow direction: left/right when
// horizontal, top/bottom otherwise.
func AssignPorts(nodes []models.Node, opts Options) {
	target, source := models.PortTop, models.PortBottom
	if opts.Horizontal() {
		target, source = models.PortLeft, models.PortRight
	}
	for i := range nodes {
		nodes[i].TargetPosition = target
		nodes[i].SourcePosition = source
	}
}

// New builds the Layouter selected by cfg.
func New(cfg config.LayoutConfig) (Layouter, error) {
	if cfg.Preset != "" {
		if _, err := ParsePreset(cfg.Preset); err != nil {
			return nil, err
		}
	}

	switch cfg.Provider {
	case config.LayoutProviderGrid:
		return NewGrid(), nil
	case config.LayoutProviderELK:
		elk, err := NewELK(cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		if cfg.FallbackToGrid {
			return &Fallback{Primary: elk, Secondary: NewGrid()}, nil
		}
		return elk, nil
	default:
		return nil, fmt.Errorf("unknown layout provider %q", cfg.Provider)
	}
}

// Fallback runs Secondary when Primary fails.
type Fallback struct {
	Primary   Layouter
	Secondary Layouter

	// OnFallback, if set, is told why Primary was skipped.
	OnFallback func(err error)
}

// Layout implements Layouter.
func (f *Fallback) Layout(ctx context.Context, nodes []models.Node, edges []models.Edge, opts Options) ([]models.Node, error) {
	out, err := f.Primary.Layout(ctx, nodes, edges, opts)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if f.OnFallback != nil {
		f.OnFallback(err)
	}
	return f.Secondary.Layout(ctx, nodes, edges, opts)
}

func cloneNodes(nodes []models.Node) []models.Node {
	out := make([]models.Node, len(nodes))
	copy(out, nodes)
	return out
}
