// Package modelio reads and writes fitted blockmodels.
package modelio

import (
	"fmt"
	"io"
	"time"

	"github.com/inference-sim/blockmodel/block"
)

// Writer serialises a model.
type Writer interface {
	Write(w io.Writer, m block.Model) error
}

// Format names an output format.
type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatNull  Format = "null"
)

// NewWriter returns the writer for the named format.
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatPlain, "":
		return &PlainTextWriter{}, nil
	case FormatJSON:
		return &JSONWriter{}, nil
	case FormatYAML:
		return &YAMLWriter{}, nil
	case FormatNull:
		return NullWriter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q; valid: plain, json, yaml, null", format)
}

// Info is the summary block written ahead of the parameters.
type Info struct {
	Date          string  `json:"date" yaml:"date"`
	Timestamp     int64   `json:"timestamp" yaml:"timestamp"`
	Filename      string  `json:"filename,omitempty" yaml:"filename,omitempty"`
	NumVertices   int     `json:"num_vertices" yaml:"num_vertices"`
	NumTypes      int     `json:"num_types" yaml:"num_types"`
	LogLikelihood float64 `json:"log_likelihood" yaml:"log_likelihood"`
	AIC           float64 `json:"aic" yaml:"aic"`
}

// filenamer is implemented by graphs that remember where they were loaded
// from.
type filenamer interface {
	Filename() string
}

// clock returns now, or time.Now when now is nil.
func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

func infoOf(m block.Model, at time.Time) Info {
	info := Info{
		Date:          at.Format(time.ANSIC),
		Timestamp:     at.Unix(),
		NumVertices:   m.VertexCount(),
		NumTypes:      m.NumTypes(),
		LogLikelihood: m.LogLikelihood(),
		AIC:           block.AIC(m),
	}
	if f, ok := m.Graph().(filenamer); ok {
		info.Filename = f.Filename()
	}
	return info
}

// NullWriter discards every model.
type NullWriter struct{}

// Write does nothing.
func (NullWriter) Write(io.Writer, block.Model) error { return nil }
