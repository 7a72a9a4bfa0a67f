package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document wraps the raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Decode parses the payload as JSON when it starts with '{' and as YAML
// otherwise, then checks the result with New.
func (d Document) Decode() (*Schema, error) {
	var raw Schema
	trimmed := bytes.TrimSpace(d.raw)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: raw document is empty")
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("schema: decode %s: %w", d.Location(), err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("schema: decode %s: %w", d.Location(), err)
		}
	}

	s, err := New(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load %s: %w", d.Location(), err)
	}
	return s, nil
}

// Parse decodes raw JSON or YAML bytes into a checked Schema.
func Parse(raw []byte) (*Schema, error) {
	doc, err := NewDocument(SourceFromFS("inline"), raw)
	if err != nil {
		return nil, err
	}
	return doc.Decode()
}
