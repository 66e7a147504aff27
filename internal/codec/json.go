package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"portflow/internal/domain"
)

// JSONCodec handles JSON session import/export.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse decodes and validates a session from JSON.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Session, error) {
	var sess domain.Session
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&sess); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	return &sess, nil
}

// Export writes a session as indented JSON.
func (c *JSONCodec) Export(sess *domain.Session, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(sess); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportJSON writes any analysis result (report, comparison) as
// indented JSON.
func ExportJSON(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
