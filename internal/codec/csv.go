package codec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"portflow/internal/domain"
)

// CSVImporter reads a raw lift table as exported by bench software.
// CSV carries measurements only, so the importer merges rows into Base,
// which must supply air, engine and geometry. Expected header:
//
//	side,lift_mm,q_cfm[,dp_in_h2o][,swirl_rpm]
//
// side is "intake" or "exhaust"; optional columns may be left empty
// per row.
type CSVImporter struct {
	Base domain.Session
}

// NewCSVImporter creates a CSV importer with an empty base session.
// Callers normally set Base from an existing session file first.
func NewCSVImporter() *CSVImporter {
	return &CSVImporter{}
}

// Format returns the codec format identifier
func (c *CSVImporter) Format() string {
	return "csv"
}

// Parse decodes lift rows, merges them into the base session and
// validates the result.
func (c *CSVImporter) Parse(r io.Reader) (*domain.Session, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"side", "lift_mm", "q_cfm"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header missing %q column", required)
		}
	}

	sess := c.Base
	sess.Lifts = domain.FlowSeries{}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		side := strings.ToLower(strings.TrimSpace(record[cols["side"]]))
		lift, err := parseCSVFloat(record, cols, "lift_mm")
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		q, err := parseCSVFloat(record, cols, "q_cfm")
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if lift == nil || q == nil {
			return nil, fmt.Errorf("line %d: lift_mm and q_cfm must not be empty", line)
		}
		point := domain.LiftPoint{LiftMM: *lift, QCFM: *q}
		if point.DPInH2O, err = parseCSVFloat(record, cols, "dp_in_h2o"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if point.SwirlRPM, err = parseCSVFloat(record, cols, "swirl_rpm"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		switch side {
		case "intake", "int", "i":
			sess.Lifts.Intake = append(sess.Lifts.Intake, point)
		case "exhaust", "exh", "e":
			sess.Lifts.Exhaust = append(sess.Lifts.Exhaust, point)
		default:
			return nil, fmt.Errorf("line %d: unknown side %q", line, side)
		}
	}

	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	return &sess, nil
}

// parseCSVFloat reads an optional numeric column; a missing column or
// empty cell yields nil, but lift_mm and q_cfm are checked by the
// caller so their nil never escapes.
func parseCSVFloat(record []string, cols map[string]int, name string) (*float64, error) {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return nil, nil
	}
	cell := strings.TrimSpace(record[idx])
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("bad %s value %q: %w", name, cell, err)
	}
	return &v, nil
}
