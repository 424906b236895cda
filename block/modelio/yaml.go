package modelio

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/blockmodel/block"
)

// YAMLWriter writes a model as a YAML Document.
type YAMLWriter struct {
	// Now overrides the clock used for the date fields.
	Now func() time.Time
}

// Write encodes m to w.
func (yw *YAMLWriter) Write(w io.Writer, m block.Model) error {
	return encodeDocument(w, m, yw.Now, func(w io.Writer, doc Document) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	})
}

// ReadDocument decodes a YAML or JSON document. Unknown fields are rejected.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
