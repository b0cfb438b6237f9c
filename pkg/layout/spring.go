package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/cxtools/cxlayout/pkg/cx"
	"github.com/cxtools/cxlayout/pkg/errors"
)

// formatPlain is Graphviz's line-oriented output format. Each node appears
// as "node <name> <x> <y> ..." which is what we parse positions from.
const formatPlain = graphviz.Format("plain")

func init() {
	Register(&springProvider{})
}

// springProvider computes a force-directed layout by delegating to the
// Graphviz fdp engine. Spring parameters map onto Graphviz attributes:
// Iterations → maxiter, K → K, Seed → start. Scale and Center are applied as
// an affine rescale of the raw engine output so the result lands in
// [-Scale, Scale] around Center, matching the contract of the declared
// options rather than Graphviz's own coordinate space.
type springProvider struct{}

func (s *springProvider) Name() string { return Spring }

func (s *springProvider) Layout(ctx context.Context, g *cx.Graph, opts Options) (Positions, error) {
	if g.NodeCount() == 0 {
		return Positions{}, nil
	}

	plain, err := s.runEngine(ctx, g, opts)
	if err != nil {
		return nil, err
	}

	raw, err := parsePlainPositions(plain)
	if err != nil {
		return nil, err
	}

	// One position per graph node, in graph node order. A node missing from
	// the engine output would silently break the aspect invariant, so it is
	// an internal error here.
	pos := make(Positions, 0, g.NodeCount())
	for _, id := range g.Nodes() {
		p, ok := raw[nodeName(id)]
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal,
				"layout engine returned no position for node %d", id)
		}
		pos = append(pos, NodePosition{Node: id, X: p[0], Y: p[1]})
	}

	rescale(pos, opts.Scale, opts.Center)
	return pos, nil
}

// runEngine renders the graph through the fdp engine and returns the plain
// format output.
func (s *springProvider) runEngine(ctx context.Context, g *cx.Graph, opts Options) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.FDP)

	graph, err := graphviz.ParseBytes([]byte(toDOT(g, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, formatPlain, &buf); err != nil {
		return nil, fmt.Errorf("run layout engine: %w", err)
	}
	return buf.Bytes(), nil
}

// toDOT builds the DOT input for the spring layout. Nodes are named by their
// CX @id so positions can be matched back unambiguously.
func toDOT(g *cx.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")

	attrs := []string{fmt.Sprintf("maxiter=%d", opts.Iterations)}
	if opts.K != nil {
		attrs = append(attrs, fmt.Sprintf("K=%g", *opts.K))
	}
	if opts.Seed != nil {
		attrs = append(attrs, fmt.Sprintf("start=\"random%d\"", *opts.Seed))
	}
	fmt.Fprintf(&buf, "  graph [%s];\n", strings.Join(attrs, ", "))
	buf.WriteString("  node [shape=point, label=\"\"];\n")

	for _, id := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q;\n", nodeName(id))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", nodeName(e[0]), nodeName(e[1]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id int64) string {
	return "n" + strconv.FormatInt(id, 10)
}

// parsePlainPositions extracts node coordinates from Graphviz plain output.
// Node lines have the form: node <name> <x> <y> <width> <height> ...
func parsePlainPositions(plain []byte) (map[string][2]float64, error) {
	out := make(map[string][2]float64)
	sc := bufio.NewScanner(bytes.NewReader(plain))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != "node" {
			continue
		}
		x, errX := strconv.ParseFloat(fields[2], 64)
		y, errY := strconv.ParseFloat(fields[3], 64)
		if errX != nil || errY != nil {
			return nil, errors.New(errors.ErrCodeInternal,
				"unparseable position for node %s", fields[1])
		}
		out[strings.Trim(fields[1], `"`)] = [2]float64{x, y}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan layout output: %w", err)
	}
	return out, nil
}

// rescale centers positions on the origin, expands them to [-scale, scale]
// on the dominant axis, then shifts by center if set. Degenerate layouts
// (single node, all nodes coincident) collapse onto the center point.
func rescale(pos Positions, scale float64, center *[2]float64) {
	if len(pos) == 0 {
		return
	}

	var meanX, meanY float64
	for _, p := range pos {
		meanX += p.X
		meanY += p.Y
	}
	meanX /= float64(len(pos))
	meanY /= float64(len(pos))

	var lim float64
	for i := range pos {
		pos[i].X -= meanX
		pos[i].Y -= meanY
		lim = max(lim, max(abs(pos[i].X), abs(pos[i].Y)))
	}

	if lim > 0 && scale != 0 {
		for i := range pos {
			pos[i].X = pos[i].X / lim * scale
			pos[i].Y = pos[i].Y / lim * scale
		}
	}

	if center != nil {
		for i := range pos {
			pos[i].X += center[0]
			pos[i].Y += center[1]
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
