package flow

import (
	"encoding/json"
	"testing"

	"portflow/internal/domain"
)

func TestRunAll(t *testing.T) {
	sess := testSession(liftsMM(1, 2, 3, 4, 5), liftsMM(2, 3, 4))
	sess.CSA = &domain.CSAProfile{MinCSA: fptr(9e-4), AvgCSA: fptr(1.1e-3)}
	sess.Meta = map[string]any{"project": "k20", "operator": "jt"}

	rep, err := RunAll(sess, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("series lengths mirror input", func(t *testing.T) {
		if len(rep.Intake) != 5 {
			t.Errorf("intake = %d points, want 5", len(rep.Intake))
		}
		if len(rep.Exhaust) != 3 {
			t.Errorf("exhaust = %d points, want 3", len(rep.Exhaust))
		}
	})

	t.Run("ei table covers the common lifts", func(t *testing.T) {
		if len(rep.EI) != 3 {
			t.Fatalf("ei entries = %d, want 3", len(rep.EI))
		}
		wantLifts := []float64{0.002, 0.003, 0.004}
		for i, e := range rep.EI {
			if e.Lift != wantLifts[i] {
				t.Errorf("ei[%d].lift = %g, want %g", i, e.Lift, wantLifts[i])
			}
		}
	})

	t.Run("engine coupling is populated", func(t *testing.T) {
		if rep.Engine.RPMFlowLimit == nil || *rep.Engine.RPMFlowLimit <= 0 {
			t.Error("rpm flow limit missing")
		}
		if rep.Engine.RPMFromCSA == nil || *rep.Engine.RPMFromCSA <= 0 {
			t.Error("rpm from csa missing")
		}
		if len(rep.Engine.MachMinCSA) != len(rep.Intake) {
			t.Errorf("mach list = %d entries, want %d", len(rep.Engine.MachMinCSA), len(rep.Intake))
		}
	})

	t.Run("meta passes through unexamined", func(t *testing.T) {
		if rep.Meta["project"] != "k20" || rep.Meta["operator"] != "jt" {
			t.Errorf("meta = %v", rep.Meta)
		}
		if rep.Mode != domain.ModeBaseline {
			t.Errorf("mode = %s", rep.Mode)
		}
	})

	t.Run("params echo the options used", func(t *testing.T) {
		if rep.Params.DPRefInH2O != 28.0 || rep.Params.Blend != BlendSmoothMin {
			t.Errorf("params = %+v", rep.Params)
		}
	})

	t.Run("report is serializable", func(t *testing.T) {
		if _, err := json.Marshal(rep); err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
	})
}

func TestRunAllWithoutOptionalInputs(t *testing.T) {
	t.Run("no csa profile", func(t *testing.T) {
		rep, err := RunAll(testSession(liftsMM(1, 2, 3), nil), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rep.Engine.RPMFromCSA != nil {
			t.Error("rpm from csa should be absent without a profile")
		}
		if rep.Engine.MachMinCSA != nil {
			t.Error("mach list should be absent without min csa")
		}
		if len(rep.EI) != 0 {
			t.Error("ei table should be empty without an exhaust series")
		}
	})

	t.Run("intake-only session still couples to the engine", func(t *testing.T) {
		rep, err := RunAll(testSession(liftsMM(1, 2, 3), nil), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rep.Engine.RPMFlowLimit == nil {
			t.Error("rpm flow limit missing")
		}
	})

	t.Run("empty session yields an empty report", func(t *testing.T) {
		rep, err := RunAll(testSession(nil, nil), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rep.Engine.RPMFlowLimit != nil {
			t.Error("rpm flow limit should be absent for an empty session")
		}
	})

	t.Run("logistic blend produces a full report too", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Blend = BlendLogistic
		rep, err := RunAll(testSession(liftsMM(1, 2, 3), nil), opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rep.Params.Blend != BlendLogistic {
			t.Errorf("params blend = %s", rep.Params.Blend)
		}
	})
}
