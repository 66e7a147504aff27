package codec

import (
	"fmt"
	"io"
	"strings"

	"portflow/internal/domain"
)

// Importer reads a bench session from an external format. Decoded
// sessions are validated before being returned.
type Importer interface {
	Parse(r io.Reader) (*domain.Session, error)
	Format() string
}

// Exporter writes a bench session to an external format.
type Exporter interface {
	Export(sess *domain.Session, w io.Writer) error
	Format() string
}

// ImporterFor returns the importer matching a format name or file
// extension ("json", "yaml", "yml", "csv").
func ImporterFor(format string) (Importer, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "csv":
		return NewCSVImporter(), nil
	default:
		return nil, fmt.Errorf("unknown session format %q", format)
	}
}

// ExporterFor returns the exporter matching a format name or file
// extension ("json", "yaml", "yml").
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unknown session format %q", format)
	}
}
