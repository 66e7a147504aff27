package flow

import (
	"errors"
	"math"
	"testing"

	"portflow/internal/domain"
)

func computedSeries(t *testing.T, sess domain.Session, side domain.Side) Series {
	t.Helper()
	s, err := ComputeSeries(sess, side, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestCompareSeries(t *testing.T) {
	opts := DefaultOptions()

	t.Run("matches exactly and reports the rest", func(t *testing.T) {
		before := computedSeries(t, testSession(liftsMM(1, 2, 3), nil), domain.SideIntake)
		afterSess := testSession(nil, nil)
		afterSess.Lifts.Intake = []domain.LiftPoint{
			{LiftMM: 2, QCFM: 130, DPInH2O: fptr(28.0)},
			{LiftMM: 3, QCFM: 145, DPInH2O: fptr(28.0)},
			{LiftMM: 4, QCFM: 160, DPInH2O: fptr(28.0)},
		}
		after := computedSeries(t, afterSess, domain.SideIntake)

		cmp, err := CompareSeries(before, after, DefaultCompareMetrics(), opts.LiftTol)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmp.MatchedLifts != 2 {
			t.Errorf("matched = %d, want 2", cmp.MatchedLifts)
		}
		if len(cmp.UnmatchedBefore) != 1 || cmp.UnmatchedBefore[0] != 0.001 {
			t.Errorf("unmatched before = %v, want [0.001]", cmp.UnmatchedBefore)
		}
		if len(cmp.UnmatchedAfter) != 1 || cmp.UnmatchedAfter[0] != 0.004 {
			t.Errorf("unmatched after = %v, want [0.004]", cmp.UnmatchedAfter)
		}
		rows := cmp.Deltas[MetricQRef]
		if len(rows) != 2 {
			t.Fatalf("q rows = %d, want 2", len(rows))
		}
		if rows[0].Lift != 0.002 || rows[1].Lift != 0.003 {
			t.Errorf("delta lifts = %g, %g, want 0.002, 0.003", rows[0].Lift, rows[1].Lift)
		}
	})

	t.Run("percent delta matches the definition", func(t *testing.T) {
		before := computedSeries(t, testSession(liftsMM(2), nil), domain.SideIntake)
		afterSess := testSession(nil, nil)
		afterSess.Lifts.Intake = []domain.LiftPoint{
			{LiftMM: 2, QCFM: 132, DPInH2O: fptr(28.0)}, // baseline q is 120
		}
		after := computedSeries(t, afterSess, domain.SideIntake)

		cmp, err := CompareSeries(before, after, []Metric{MetricQRef}, opts.LiftTol)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		row := cmp.Deltas[MetricQRef][0]
		if row.DeltaPct == nil {
			t.Fatal("delta should be defined")
		}
		want := (row.After - row.Before) / row.Before * 100.0
		if math.Abs(*row.DeltaPct-want) > 1e-12 {
			t.Errorf("delta = %g, want %g", *row.DeltaPct, want)
		}
		if math.Abs(*row.DeltaPct-10.0) > 1e-9 {
			t.Errorf("delta = %g, want 10%%", *row.DeltaPct)
		}
	})

	t.Run("zero baseline reports undefined, not a number", func(t *testing.T) {
		// A zero-flow baseline point yields zero velocity and Mach while
		// staying computable (throat-referenced Cd of zero flow is 0).
		beforeSess := testSession(nil, nil)
		beforeSess.Lifts.Intake = []domain.LiftPoint{
			{LiftMM: 2, QCFM: 0, DPInH2O: fptr(28.0)},
		}
		o := DefaultOptions()
		o.ARef = ARefThroat
		before, err := ComputeSeries(beforeSess, domain.SideIntake, o)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		afterSess := testSession(nil, nil)
		afterSess.Lifts.Intake = []domain.LiftPoint{
			{LiftMM: 2, QCFM: 100, DPInH2O: fptr(28.0)},
		}
		after, err := ComputeSeries(afterSess, domain.SideIntake, o)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cmp, err := CompareSeries(before, after, []Metric{MetricQRef}, o.LiftTol)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		row := cmp.Deltas[MetricQRef][0]
		if row.Before != 0 {
			t.Fatalf("baseline q = %g, want 0", row.Before)
		}
		if row.DeltaPct != nil {
			t.Errorf("delta over zero baseline must be undefined, got %g", *row.DeltaPct)
		}
	})

	t.Run("both series empty is a structural failure", func(t *testing.T) {
		_, err := CompareSeries(Series{}, Series{}, nil, opts.LiftTol)
		var ae *domain.AlignmentError
		if !errors.As(err, &ae) {
			t.Fatalf("expected AlignmentError, got %v", err)
		}
	})

	t.Run("one empty side degrades to all-unmatched", func(t *testing.T) {
		before := computedSeries(t, testSession(liftsMM(1, 2), nil), domain.SideIntake)
		cmp, err := CompareSeries(before, Series{}, nil, opts.LiftTol)
		if err != nil {
			t.Fatalf("expected degraded result, got error: %v", err)
		}
		if cmp.MatchedLifts != 0 {
			t.Errorf("matched = %d, want 0", cmp.MatchedLifts)
		}
		if len(cmp.UnmatchedBefore) != 2 {
			t.Errorf("unmatched before = %v, want both lifts", cmp.UnmatchedBefore)
		}
	})
}

func TestRunCompare(t *testing.T) {
	opts := DefaultOptions()

	t.Run("compares both sides and passes meta through", func(t *testing.T) {
		before := testSession(liftsMM(1, 2, 3), liftsMM(2, 3))
		before.Meta = map[string]any{"label": "stock"}
		after := testSession(liftsMM(2, 3, 4), liftsMM(2, 3))
		after.Mode = domain.ModeAfter
		after.Meta = map[string]any{"label": "ported"}

		cmp, err := RunCompare(before, after, nil, opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmp.Intake == nil || cmp.Exhaust == nil {
			t.Fatal("expected both sides compared")
		}
		if cmp.Intake.MatchedLifts != 2 {
			t.Errorf("intake matched = %d, want 2", cmp.Intake.MatchedLifts)
		}
		if cmp.Meta.Before["label"] != "stock" || cmp.Meta.After["label"] != "ported" {
			t.Errorf("meta not passed through: %+v", cmp.Meta)
		}
		if len(cmp.Metrics) != len(DefaultCompareMetrics()) {
			t.Errorf("metrics = %v", cmp.Metrics)
		}
	})

	t.Run("side missing from both sessions is omitted", func(t *testing.T) {
		before := testSession(liftsMM(1, 2), nil)
		after := testSession(liftsMM(1, 2), nil)
		cmp, err := RunCompare(before, after, nil, opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmp.Intake == nil {
			t.Error("intake comparison missing")
		}
		if cmp.Exhaust != nil {
			t.Error("exhaust comparison should be omitted when absent on both sides")
		}
	})

	t.Run("nothing comparable fails structurally", func(t *testing.T) {
		before := testSession(nil, nil)
		after := testSession(nil, nil)
		_, err := RunCompare(before, after, nil, opts)
		var ae *domain.AlignmentError
		if !errors.As(err, &ae) {
			t.Fatalf("expected AlignmentError, got %v", err)
		}
	})
}
