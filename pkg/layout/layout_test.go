package layout

import (
	"context"
	"strings"
	"testing"

	"github.com/cxtools/cxlayout/pkg/cx"
	"github.com/cxtools/cxlayout/pkg/errors"
)

const threeNodeCX = `[
  {"nodes": [{"@id": 1, "n": "A"}, {"@id": 2, "n": "B"}, {"@id": 3, "n": "C"}]},
  {"edges": [{"@id": 10, "s": 1, "t": 2}, {"@id": 11, "s": 2, "t": 3}]}
]`

func threeNodeGraph(t *testing.T) *cx.Graph {
	t.Helper()
	net, err := cx.ReadNetwork(strings.NewReader(threeNodeCX))
	if err != nil {
		t.Fatalf("ReadNetwork error: %v", err)
	}
	return cx.NewGraph(net)
}

func TestLookupSpring(t *testing.T) {
	p, err := Lookup(Spring)
	if err != nil {
		t.Fatalf("Lookup(spring) error: %v", err)
	}
	if p.Name() != Spring {
		t.Errorf("provider name = %q, want spring", p.Name())
	}
}

func TestLookupDeclaredButUnregistered(t *testing.T) {
	// Every declared name except spring is accepted by the CLI choice list
	// but has no provider, so dispatch must fail.
	for _, name := range DeclaredNames() {
		if name == Spring {
			continue
		}
		t.Run(name, func(t *testing.T) {
			_, err := Lookup(name)
			if err == nil {
				t.Fatalf("Lookup(%q) should fail", name)
			}
			if !errors.Is(err, errors.ErrCodeUnsupportedLayout) {
				t.Errorf("error code = %q, want UNSUPPORTED_LAYOUT", errors.GetCode(err))
			}
		})
	}
}

func TestLookupUnknownName(t *testing.T) {
	_, err := Lookup("definitely-not-a-layout")
	if !errors.Is(err, errors.ErrCodeUnsupportedLayout) {
		t.Errorf("error = %v, want UNSUPPORTED_LAYOUT", err)
	}
}

func TestLookupErrorListsSupported(t *testing.T) {
	_, err := Lookup(Circular)
	if err == nil {
		t.Fatal("Lookup(circular) should fail")
	}
	if !strings.Contains(err.Error(), Spring) {
		t.Errorf("error should list the supported layouts, got: %v", err)
	}
}

func TestToAspectPreservesOrder(t *testing.T) {
	pos := Positions{
		{Node: 3, X: 1.5, Y: -2},
		{Node: 1, X: 0, Y: 0},
		{Node: 2, X: -7, Y: 4.25},
	}

	aspect, err := ToAspect(pos)
	if err != nil {
		t.Fatalf("ToAspect error: %v", err)
	}
	if len(aspect) != len(pos) {
		t.Fatalf("record count = %d, want %d", len(aspect), len(pos))
	}
	for i, rec := range aspect {
		if rec.Node != pos[i].Node || rec.X != pos[i].X || rec.Y != pos[i].Y {
			t.Errorf("record %d = %+v, want %+v", i, rec, pos[i])
		}
	}
}

func TestToAspectNilPositions(t *testing.T) {
	_, err := ToAspect(nil)
	if err == nil {
		t.Fatal("ToAspect(nil) should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %q, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestToAspectEmptyPositions(t *testing.T) {
	// Empty is not nil: it is a valid (empty) position map.
	aspect, err := ToAspect(Positions{})
	if err != nil {
		t.Fatalf("ToAspect(empty) error: %v", err)
	}
	if len(aspect) != 0 {
		t.Errorf("record count = %d, want 0", len(aspect))
	}
}

func TestSpringLayoutThreeNodes(t *testing.T) {
	g := threeNodeGraph(t)

	seed := int64(42)
	opts := DefaultOptions()
	opts.Seed = &seed

	p, err := Lookup(Spring)
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	pos, err := p.Layout(context.Background(), g, opts)
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	if len(pos) != 3 {
		t.Fatalf("position count = %d, want 3", len(pos))
	}

	// Exactly one entry per node, in graph node order.
	seen := map[int64]bool{}
	for i, p := range pos {
		if p.Node != g.Nodes()[i] {
			t.Errorf("position %d is for node %d, want %d", i, p.Node, g.Nodes()[i])
		}
		if seen[p.Node] {
			t.Errorf("duplicate position for node %d", p.Node)
		}
		seen[p.Node] = true
	}

	// Scaled output stays within [-scale, scale] on both axes.
	for _, p := range pos {
		if p.X < -opts.Scale || p.X > opts.Scale || p.Y < -opts.Scale || p.Y > opts.Scale {
			t.Errorf("position for node %d = (%g, %g) outside scale bound %g",
				p.Node, p.X, p.Y, opts.Scale)
		}
	}

	aspect, err := ToAspect(pos)
	if err != nil {
		t.Fatalf("ToAspect error: %v", err)
	}
	if len(aspect) != 3 {
		t.Errorf("aspect record count = %d, want 3", len(aspect))
	}
}

func TestSpringLayoutEmptyGraph(t *testing.T) {
	net, err := cx.ReadNetwork(strings.NewReader(`[{"status": [{"success": true}]}]`))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := Lookup(Spring)
	pos, err := p.Layout(context.Background(), cx.NewGraph(net), DefaultOptions())
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if pos == nil {
		t.Fatal("empty graph should yield a non-nil empty position map")
	}
	if len(pos) != 0 {
		t.Errorf("position count = %d, want 0", len(pos))
	}
}

func TestToDOTIncludesParameters(t *testing.T) {
	g := threeNodeGraph(t)

	k := 0.5
	seed := int64(7)
	opts := Options{Scale: 300, Iterations: 25, K: &k, Seed: &seed}

	dot := toDOT(g, opts)

	for _, want := range []string{"maxiter=25", "K=0.5", `start="random7"`, `"n1" -- "n2"`, `"n2" -- "n3"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestParsePlainPositions(t *testing.T) {
	plain := []byte(`graph 1 8.5 11
node n1 1.25 2.5 0.05 0.05 "" solid point black lightgrey
node n2 -3 4 0.05 0.05 "" solid point black lightgrey
edge n1 n2 2 1.25 2.5 -3 4 solid black
stop
`)

	got, err := parsePlainPositions(plain)
	if err != nil {
		t.Fatalf("parsePlainPositions error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parsed %d nodes, want 2", len(got))
	}
	if got["n1"] != [2]float64{1.25, 2.5} {
		t.Errorf("n1 = %v, want [1.25 2.5]", got["n1"])
	}
	if got["n2"] != [2]float64{-3, 4} {
		t.Errorf("n2 = %v, want [-3 4]", got["n2"])
	}
}

func TestRescale(t *testing.T) {
	center := [2]float64{100, -50}
	pos := Positions{
		{Node: 1, X: 0, Y: 0},
		{Node: 2, X: 2, Y: 0},
		{Node: 3, X: 1, Y: 2},
	}

	rescale(pos, 300, &center)

	// Mean sits on the center after rescaling.
	var meanX, meanY float64
	for _, p := range pos {
		meanX += p.X
		meanY += p.Y
	}
	meanX /= 3
	meanY /= 3
	if abs(meanX-center[0]) > 1e-9 || abs(meanY-center[1]) > 1e-9 {
		t.Errorf("mean = (%g, %g), want (%g, %g)", meanX, meanY, center[0], center[1])
	}

	// Dominant axis reaches the scale bound.
	var lim float64
	for _, p := range pos {
		lim = max(lim, max(abs(p.X-center[0]), abs(p.Y-center[1])))
	}
	if abs(lim-300) > 1e-9 {
		t.Errorf("max extent = %g, want 300", lim)
	}
}

func TestRescaleDegenerate(t *testing.T) {
	// All nodes coincident: positions collapse onto the center.
	center := [2]float64{10, 20}
	pos := Positions{{Node: 1, X: 5, Y: 5}, {Node: 2, X: 5, Y: 5}}

	rescale(pos, 300, &center)

	for _, p := range pos {
		if p.X != 10 || p.Y != 20 {
			t.Errorf("node %d = (%g, %g), want (10, 20)", p.Node, p.X, p.Y)
		}
	}
}
