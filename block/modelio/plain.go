package modelio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/inference-sim/blockmodel/block"
	"gonum.org/v1/gonum/mat"
)

// PlainTextWriter writes the tab-separated sectioned format:
//
//	INFO
//	date	Mon Jan  2 15:04:05 2006
//	filename	graph.txt
//	num_vertices	10
//	...
//
//	TYPES
//	0	1
//	...
//
//	PROBABILITIES
//	0.9	0.1
//	0.1	0.8
//
// Degree-corrected models get STICKINESSES and RATES instead of
// PROBABILITIES.
type PlainTextWriter struct {
	// Now overrides the clock used for the date field.
	Now func() time.Time
}

// Write encodes m to w.
func (pw *PlainTextWriter) Write(w io.Writer, m block.Model) error {
	bw := bufio.NewWriter(w)
	info := infoOf(m, clock(pw.Now))

	fmt.Fprintln(bw, "INFO")
	fmt.Fprintf(bw, "date\t%s\n", info.Date)
	if info.Filename != "" {
		fmt.Fprintf(bw, "filename\t%s\n", info.Filename)
	}
	fmt.Fprintf(bw, "num_vertices\t%d\n", info.NumVertices)
	fmt.Fprintf(bw, "num_types\t%d\n", info.NumTypes)
	fmt.Fprintf(bw, "log_likelihood\t%s\n", formatFloat(info.LogLikelihood))
	fmt.Fprintf(bw, "aic\t%s\n", formatFloat(info.AIC))

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "TYPES")
	for v, t := range m.Types() {
		fmt.Fprintf(bw, "%d\t%d\n", v, t)
	}

	fmt.Fprintln(bw)
	switch model := m.(type) {
	case block.ProbabilityModel:
		fmt.Fprintln(bw, "PROBABILITIES")
		writeMatrix(bw, model.Probabilities())
	case *block.DegreeCorrected:
		fmt.Fprintln(bw, "STICKINESSES")
		for v, s := range model.Stickinesses() {
			fmt.Fprintf(bw, "%d\t%s\n", v, formatFloat(s))
		}
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "RATES")
		writeMatrix(bw, model.Rates())
	default:
		return fmt.Errorf("writer does not know %s models", m.Kind())
	}
	return bw.Flush()
}

func writeMatrix(w io.Writer, s *mat.SymDense) {
	n := s.SymmetricDim()
	for i := 0; i < n; i++ {
		row := make([]string, n)
		for j := range row {
			row[j] = formatFloat(s.At(i, j))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Read parses a model written by PlainTextWriter, JSONWriter or
// YAMLWriter into an unbound Undirected model. It also returns the
// filename of the graph the model was fitted to, or "" if none was
// recorded. Degree-corrected models cannot be read back.
func Read(r io.Reader) (*block.Undirected, string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(1)
	if err != nil {
		return nil, "", fmt.Errorf("reading model: %w", err)
	}
	if head[0] == 'I' {
		return readPlain(br)
	}
	doc, err := ReadDocument(br)
	if err != nil {
		return nil, "", fmt.Errorf("reading model document: %w", err)
	}
	if doc.Parameters.P == nil {
		return nil, "", fmt.Errorf("model document has no probability matrix")
	}
	var flat []float64
	for _, row := range doc.Parameters.P {
		flat = append(flat, row...)
	}
	m, err := unboundModel(doc.Parameters.Types, flat)
	if err != nil {
		return nil, "", err
	}
	return m, doc.Info.Filename, nil
}

type section int

const (
	sectionUnknown section = iota
	sectionInfo
	sectionTypes
	sectionProbabilities
	sectionRates
)

func readPlain(r io.Reader) (*block.Undirected, string, error) {
	var (
		filename string
		types    []int
		probs    []float64
		current  = sectionUnknown
		heading  bool
		lineNo   int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		// A blank line ends a section; the next line is a heading.
		if line == "" {
			heading = false
			continue
		}
		if !heading {
			heading = true
			switch line {
			case "INFO":
				current = sectionInfo
			case "TYPES":
				current = sectionTypes
			case "PROBABILITIES":
				current = sectionProbabilities
			case "RATES":
				current = sectionRates
			default:
				current = sectionUnknown
			}
			continue
		}

		fields := strings.Fields(line)
		switch current {
		case sectionInfo:
			if len(fields) >= 2 && fields[0] == "filename" {
				filename = strings.TrimSpace(strings.TrimPrefix(line, "filename"))
			}
		case sectionTypes:
			if len(fields) != 2 {
				return nil, "", fmt.Errorf("line %d: malformed type line %q", lineNo, line)
			}
			t, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, "", fmt.Errorf("line %d: parsing type: %w", lineNo, err)
			}
			types = append(types, t)
		case sectionProbabilities:
			for _, f := range fields {
				p, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, "", fmt.Errorf("line %d: parsing probability matrix: %w", lineNo, err)
				}
				probs = append(probs, p)
			}
		case sectionRates:
			return nil, "", fmt.Errorf("line %d: degree-corrected models cannot be read back", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("reading model: %w", err)
	}

	m, err := unboundModel(types, probs)
	if err != nil {
		return nil, "", err
	}
	return m, filename, nil
}

// unboundModel validates a flat row-major probability matrix and a type
// vector and builds the corresponding unbound model.
func unboundModel(types []int, probs []float64) (*block.Undirected, error) {
	k := 0
	for k*k < len(probs) {
		k++
	}
	if k == 0 || k*k != len(probs) {
		return nil, fmt.Errorf("probability matrix must be square, got %d entries", len(probs))
	}
	for v, t := range types {
		if t < 0 {
			return nil, fmt.Errorf("negative type index %d at vertex %d", t, v)
		}
		if t >= k {
			return nil, fmt.Errorf("type index %d at vertex %d exceeds %d types", t, v, k)
		}
	}

	m, err := block.NewUndirected(nil, k)
	if err != nil {
		return nil, err
	}
	if err := m.SetTypes(types); err != nil {
		return nil, err
	}
	if err := m.SetProbabilities(mat.NewDense(k, k, probs)); err != nil {
		return nil, fmt.Errorf("loading probabilities: %w", err)
	}
	return m, nil
}
