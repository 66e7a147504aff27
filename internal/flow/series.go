package flow

import (
	"fmt"
	"math"

	"portflow/internal/domain"
)

// Series is the ordered computed output for one port side. Order and
// length always mirror the raw input: output[i] was computed from
// input[i], and nothing here ever re-sorts.
type Series []Point

// ComputeSeries runs the normalize + compute pipeline over one side of a
// session. An empty side yields an empty series, not an error.
func ComputeSeries(session domain.Session, side domain.Side, opts Options) (Series, error) {
	raw := session.Lifts.Points(side)
	if len(raw) == 0 {
		return Series{}, nil
	}

	airRef := session.Air
	if opts.AirRef != nil {
		airRef = *opts.AirRef
	}

	nps, err := NormalizeSeries(raw, session.Air, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", side, err)
	}

	out := make(Series, 0, len(nps))
	for i, np := range nps {
		pt, err := ComputePoint(np, session.Geom, airRef, side, opts)
		if err != nil {
			return nil, fmt.Errorf("%s point %d (lift %.3f mm): %w", side, i, raw[i].LiftMM, err)
		}
		out = append(out, pt)
	}
	return out, nil
}

// EIEntry is the exhaust/intake flow ratio at one lift present on both
// sides.
type EIEntry struct {
	Lift float64 `json:"lift_m"`
	QInt float64 `json:"q_int_m3s"`
	QExh float64 `json:"q_exh_m3s"`
	EI   float64 `json:"ei"`
}

// ComputeEI builds the E/I ratio table for lifts present in both series.
// Alignment is exact match within tol; lifts present on one side only
// produce no entry. Interpolating across unevenly sampled bench data
// would fabricate precision the source does not support, so none is
// done. Matched points with non-positive intake flow are skipped: the
// ratio is undefined there.
func ComputeEI(intake, exhaust Series, tol float64) []EIEntry {
	pairs, _, _ := alignByLift(intake, exhaust, tol)
	out := make([]EIEntry, 0, len(pairs))
	for _, pr := range pairs {
		in, ex := intake[pr[0]], exhaust[pr[1]]
		if in.QRef <= 0 {
			continue
		}
		out = append(out, EIEntry{
			Lift: in.Lift,
			QInt: in.QRef,
			QExh: ex.QRef,
			EI:   ex.QRef / in.QRef,
		})
	}
	return out
}

// alignByLift pairs points of a and b whose lifts match within tol.
// Matching walks a in input order and takes the first unconsumed match
// in b, so results are deterministic even for unsorted input. Returns
// index pairs plus the unmatched indices of each side.
func alignByLift(a, b Series, tol float64) (pairs [][2]int, unmatchedA, unmatchedB []int) {
	used := make([]bool, len(b))
	for i := range a {
		matched := false
		for j := range b {
			if used[j] {
				continue
			}
			if math.Abs(a[i].Lift-b[j].Lift) <= tol {
				pairs = append(pairs, [2]int{i, j})
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			unmatchedA = append(unmatchedA, i)
		}
	}
	for j := range b {
		if !used[j] {
			unmatchedB = append(unmatchedB, j)
		}
	}
	return pairs, unmatchedA, unmatchedB
}
