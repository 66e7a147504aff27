package flow

import "portflow/internal/domain"

// MetricDelta is the percent change of one metric at one matched lift.
// DeltaPct is nil when the baseline value is zero: the percent change is
// undefined there and is reported as such, never as a number.
type MetricDelta struct {
	Lift     float64  `json:"lift_m"`
	Before   float64  `json:"before"`
	After    float64  `json:"after"`
	DeltaPct *float64 `json:"delta_pct"`
}

// SideComparison is the full diff of one port side between two sessions:
// both computed series, per-metric deltas at matched lifts, and the
// lifts that had no comparison peer. Unmatched lifts are diagnostics,
// never silently dropped.
type SideComparison struct {
	Before          Series                   `json:"before"`
	After           Series                   `json:"after"`
	MatchedLifts    int                      `json:"matched_lifts"`
	Deltas          map[Metric][]MetricDelta `json:"deltas"`
	UnmatchedBefore []float64                `json:"unmatched_before"` // lifts, m
	UnmatchedAfter  []float64                `json:"unmatched_after"`  // lifts, m
}

// CompareSeries aligns baseline and after by exact lift match and diffs
// the given metrics per matched lift. It fails with AlignmentError only
// when both series are empty; a one-sided comparison degrades to an
// all-unmatched diagnostic instead of failing.
func CompareSeries(before, after Series, metrics []Metric, tol float64) (SideComparison, error) {
	if len(before) == 0 && len(after) == 0 {
		return SideComparison{}, &domain.AlignmentError{Reason: "both series empty"}
	}
	if len(metrics) == 0 {
		metrics = DefaultCompareMetrics()
	}

	pairs, ub, ua := alignByLift(before, after, tol)

	cmp := SideComparison{
		Before:          before,
		After:           after,
		MatchedLifts:    len(pairs),
		Deltas:          make(map[Metric][]MetricDelta, len(metrics)),
		UnmatchedBefore: make([]float64, 0, len(ub)),
		UnmatchedAfter:  make([]float64, 0, len(ua)),
	}
	for _, i := range ub {
		cmp.UnmatchedBefore = append(cmp.UnmatchedBefore, before[i].Lift)
	}
	for _, j := range ua {
		cmp.UnmatchedAfter = append(cmp.UnmatchedAfter, after[j].Lift)
	}

	for _, m := range metrics {
		rows := make([]MetricDelta, 0, len(pairs))
		for _, pr := range pairs {
			b, a := before[pr[0]], after[pr[1]]
			bv, bok := b.Metric(m)
			av, aok := a.Metric(m)
			if !bok || !aok {
				// Metric absent on one side (e.g. swirl measured only in
				// the after session): nothing to diff at this lift.
				continue
			}
			row := MetricDelta{Lift: b.Lift, Before: bv, After: av}
			if bv != 0 {
				pct := (av - bv) / bv * 100.0
				row.DeltaPct = &pct
			}
			rows = append(rows, row)
		}
		cmp.Deltas[m] = rows
	}
	return cmp, nil
}
