package modelio

import (
	"encoding/json"
	"io"
	"time"

	"github.com/inference-sim/blockmodel/block"
)

// JSONWriter writes a model as an indented JSON Document.
type JSONWriter struct {
	// Now overrides the clock used for the date fields.
	Now func() time.Time
}

// Write encodes m to w.
func (jw *JSONWriter) Write(w io.Writer, m block.Model) error {
	return encodeDocument(w, m, jw.Now, func(w io.Writer, doc Document) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(doc)
	})
}
