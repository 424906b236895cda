package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
)

// ReadEdgelist parses a whitespace-separated edge list with one "u v" pair
// per line. Blank lines and lines starting with '#' or '%' are skipped. The
// vertex count is one more than the largest vertex ID seen. Self-loops and
// repeated edges are dropped and counted, see Graph.Dropped.
func ReadEdgelist(r io.Reader) (*Graph, error) {
	var edges []Edge
	maxID := -1

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected two vertex IDs, got %q", lineNo, line)
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing vertex ID: %w", lineNo, err)
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing vertex ID: %w", lineNo, err)
		}
		if u < 0 || v < 0 {
			return nil, fmt.Errorf("line %d: negative vertex ID", lineNo)
		}
		edges = append(edges, Edge{U: u, V: v})
		maxID = max(maxID, u, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading edge list: %w", err)
	}
	return simplify(maxID+1, edges), nil
}

// simplify loads edges into a gonum simple graph, which holds no self-loops
// and at most one edge per vertex pair, and converts the result.
func simplify(n int, edges []Edge) *Graph {
	ug := simple.NewUndirectedGraph()
	for id := 0; id < n; id++ {
		ug.AddNode(simple.Node(int64(id)))
	}
	var loops, multi int
	for _, e := range edges {
		u, v := int64(e.U), int64(e.V)
		switch {
		case u == v:
			loops++
		case ug.HasEdgeBetween(u, v):
			multi++
		default:
			ug.SetEdge(ug.NewEdge(simple.Node(u), simple.Node(v)))
		}
	}
	g, _ := FromGonum(ug)
	g.droppedLoops, g.droppedMulti = loops, multi
	return g
}

// Load reads an edge list from the named file, or from stdin if name is "-".
// Graphs loaded from a file remember the filename.
func Load(name string) (*Graph, error) {
	if name == "-" {
		return ReadEdgelist(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening graph: %w", err)
	}
	defer f.Close()

	g, err := ReadEdgelist(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	g.SetFilename(name)
	return g, nil
}

// WriteEdgelist writes one "u v" line per edge.
func WriteEdgelist(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(bw, "%d %d\n", e.U, e.V); err != nil {
			return err
		}
	}
	return bw.Flush()
}
