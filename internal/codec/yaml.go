package codec

import (
	"fmt"
	"io"

	"portflow/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML session import/export.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse decodes and validates a session from YAML.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Session, error) {
	var sess domain.Session
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&sess); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	return &sess, nil
}

// Export writes a session as YAML.
func (c *YAMLCodec) Export(sess *domain.Session, w io.Writer) error {
	return ExportYAML(sess, w)
}

// ExportYAML writes any analysis result (report, comparison) as YAML.
func ExportYAML(v any, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
