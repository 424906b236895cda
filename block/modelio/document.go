package modelio

import (
	"fmt"
	"io"
	"time"

	"github.com/inference-sim/blockmodel/block"
	"gonum.org/v1/gonum/mat"
)

// Document is the structured form shared by the JSON and YAML writers.
type Document struct {
	Info       Info       `json:"info" yaml:"info"`
	Parameters Parameters `json:"parameters" yaml:"parameters"`
}

// Parameters holds the fitted parameters. P is set for undirected models;
// Rates and Stickiness for degree-corrected ones.
type Parameters struct {
	Types      []int       `json:"types" yaml:"types"`
	P          [][]float64 `json:"p,omitempty" yaml:"p,omitempty"`
	Rates      [][]float64 `json:"rates,omitempty" yaml:"rates,omitempty"`
	Stickiness []float64   `json:"stickiness,omitempty" yaml:"stickiness,omitempty"`
}

// NewDocument captures m at time at.
func NewDocument(m block.Model, at time.Time) (Document, error) {
	doc := Document{
		Info:       infoOf(m, at),
		Parameters: Parameters{Types: m.Types()},
	}
	switch model := m.(type) {
	case block.ProbabilityModel:
		doc.Parameters.P = rows(model.Probabilities())
	case *block.DegreeCorrected:
		doc.Parameters.Rates = rows(model.Rates())
		doc.Parameters.Stickiness = model.Stickinesses()
	default:
		return Document{}, fmt.Errorf("writer does not know %s models", m.Kind())
	}
	return doc, nil
}

func rows(s *mat.SymDense) [][]float64 {
	n := s.SymmetricDim()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = s.At(i, j)
		}
	}
	return out
}

// encodeDocument builds the document for m and hands it to encode.
func encodeDocument(w io.Writer, m block.Model, now func() time.Time, encode func(io.Writer, Document) error) error {
	doc, err := NewDocument(m, clock(now))
	if err != nil {
		return err
	}
	return encode(w, doc)
}
