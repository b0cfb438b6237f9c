// Package layout computes 2D node positions for CX networks.
//
// Layout algorithms are modeled as named [Provider] implementations held in a
// registry. Commands dispatch by name through [Lookup], so adding an
// algorithm means registering a new provider rather than growing a switch in
// the orchestrator. Only the spring provider is registered today; the other
// declared names are accepted by the CLI but fail dispatch with an
// UNSUPPORTED_LAYOUT error.
package layout

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cxtools/cxlayout/pkg/cx"
	"github.com/cxtools/cxlayout/pkg/errors"
)

// Declared layout names. These form the CLI choice list. A name being
// declared does not imply a provider is registered for it.
const (
	Spring      = "spring"
	Circular    = "circular"
	KamadaKawai = "kamada_kawai"
	Planar      = "planar"
	Shell       = "shell"
	Spectral    = "spectral"
	Spiral      = "spiral"
)

// DeclaredNames returns the layout names the CLI accepts, in display order.
func DeclaredNames() []string {
	return []string{Spring, Circular, KamadaKawai, Planar, Shell, Spectral, Spiral}
}

// Options holds the tunable parameters shared by layout providers.
// Providers ignore parameters that do not apply to their algorithm.
type Options struct {
	// Scale expands positions to the range [-Scale, Scale] on each axis.
	Scale float64

	// Center shifts all positions by the given offset after scaling.
	// Nil leaves the layout centered on the origin.
	Center *[2]float64

	// Iterations caps the number of refinement iterations.
	Iterations int

	// K is the optimal distance between nodes. Nil lets the engine pick
	// its default (1/sqrt(n) for spring layouts).
	K *float64

	// Seed fixes the random starting positions for reproducible output.
	// Nil uses an engine-chosen seed.
	Seed *int64
}

// DefaultOptions returns the option defaults the CLI advertises.
func DefaultOptions() Options {
	return Options{Scale: 300.0, Iterations: 50}
}

// NodePosition is the computed coordinate of a single node.
type NodePosition struct {
	Node int64
	X    float64
	Y    float64
}

// Positions is an ordered position map: one entry per graph node, in graph
// node order. Order is preserved through aspect conversion.
type Positions []NodePosition

// Provider computes positions for the nodes of a structural graph.
type Provider interface {
	// Name returns the layout name used for registry dispatch.
	Name() string

	// Layout computes one position per node in g. Every node must appear
	// exactly once in the result.
	Layout(ctx context.Context, g *cx.Graph, opts Options) (Positions, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Provider{}
)

// Register adds a provider to the registry, replacing any provider already
// registered under the same name.
func Register(p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Name()] = p
}

// Lookup returns the provider registered under name. Unknown names produce
// an UNSUPPORTED_LAYOUT error listing what is registered; this is the single
// dispatch point for all layout selection.
func Lookup(name string) (Provider, error) {
	registryMu.RLock()
	p, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedLayout,
			"%q does not match a supported layout (supported: %s)",
			name, strings.Join(RegisteredNames(), ", "))
	}
	return p, nil
}

// RegisteredNames returns the names with registered providers, sorted.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
