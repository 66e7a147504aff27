package tuning

import (
	"errors"
	"math"
	"testing"

	"portflow/internal/domain"
	"portflow/internal/flow"
)

func assertTuningDomainError(t *testing.T, err error, operand string) {
	t.Helper()
	var de *domain.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if de.Operand != operand {
		t.Errorf("operand = %q, want %q", de.Operand, operand)
	}
}

func TestEventFrequency(t *testing.T) {
	f, err := EventFrequency(6000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != 50.0 {
		t.Errorf("f = %g, want 50 Hz", f)
	}
	_, err = EventFrequency(0)
	assertTuningDomainError(t, err, "rpm")
}

func TestQuarterWaveLength(t *testing.T) {
	a := flow.SpeedOfSound(293.15)

	t.Run("fundamental matches a/4f minus end correction", func(t *testing.T) {
		f := 50.0 // 6000 rpm
		r := 0.020
		got, err := QuarterWaveLength(a, f, 1, 0.6, r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := a/(4.0*f) - 0.6*r
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("length = %g, want %g", got, want)
		}
	})

	t.Run("higher harmonics are longer", func(t *testing.T) {
		l1, _ := QuarterWaveLength(a, 50, 1, 0.6, 0.02)
		l3, _ := QuarterWaveLength(a, 50, 3, 0.6, 0.02)
		if l3 <= l1 {
			t.Errorf("third harmonic %g not longer than fundamental %g", l3, l1)
		}
	})

	t.Run("never negative", func(t *testing.T) {
		// Huge end correction against a tiny effective length.
		got, err := QuarterWaveLength(a, 5000, 1, 0.6, 1.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got < 0 {
			t.Errorf("length = %g, want clamped at 0", got)
		}
	})

	t.Run("preconditions", func(t *testing.T) {
		_, err := QuarterWaveLength(0, 50, 1, 0.6, 0.02)
		assertTuningDomainError(t, err, "speed_of_sound")
		_, err = QuarterWaveLength(a, 0, 1, 0.6, 0.02)
		assertTuningDomainError(t, err, "frequency")
		_, err = QuarterWaveLength(a, 50, 0, 0.6, 0.02)
		assertTuningDomainError(t, err, "order")
	})
}

func TestRPMFromQuarterWaveInversion(t *testing.T) {
	a := flow.SpeedOfSound(293.15)
	cases := []struct {
		rpm    float64
		order  int
		radius float64
	}{
		{6000, 1, 0.018},
		{8500, 1, 0.021},
		{7200, 3, 0.019},
	}
	for _, c := range cases {
		f, err := EventFrequency(c.rpm)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		length, err := QuarterWaveLength(a, f, c.order, 0.6, c.radius)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rpm, err := RPMFromQuarterWave(a, length, c.order, c.radius, 0.6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(rpm-c.rpm) > 1e-6*c.rpm {
			t.Errorf("order %d: round-trip rpm %g, want %g", c.order, rpm, c.rpm)
		}
	}
}

func TestCSAFromFlowAndVelocity(t *testing.T) {
	a, err := CSAFromFlowAndVelocity(0.1, 100.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != 0.001 {
		t.Errorf("csa = %g, want 0.001", a)
	}

	d, err := DiameterFromCSA(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back := math.Pi * d * d / 4.0
	if math.Abs(back-a) > 1e-15 {
		t.Errorf("diameter round-trip: %g, want %g", back, a)
	}

	_, err = CSAFromFlowAndVelocity(0, 100)
	assertTuningDomainError(t, err, "q")
	_, err = DiameterFromCSA(0)
	assertTuningDomainError(t, err, "area")
}

func TestHelmholtzPlenumVolume(t *testing.T) {
	a := flow.SpeedOfSound(293.15)

	t.Run("volume satisfies the resonance relation", func(t *testing.T) {
		aNeck, lNeck, f := 1.3e-3, 0.12, 55.0
		v, err := HelmholtzPlenumVolume(a, aNeck, lNeck, f)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// f = (a/2pi)*sqrt(A/(V*L)) must hold for the returned V.
		back := (a / (2.0 * math.Pi)) * math.Sqrt(aNeck/(v*lNeck))
		if math.Abs(back-f) > 1e-9 {
			t.Errorf("resonance at %g Hz, want %g Hz", back, f)
		}
	})

	t.Run("preconditions", func(t *testing.T) {
		_, err := HelmholtzPlenumVolume(0, 1e-3, 0.1, 50)
		assertTuningDomainError(t, err, "speed_of_sound")
		_, err = HelmholtzPlenumVolume(a, 0, 0.1, 50)
		assertTuningDomainError(t, err, "neck_area")
		_, err = HelmholtzPlenumVolume(a, 1e-3, 0, 50)
		assertTuningDomainError(t, err, "neck_length")
		_, err = HelmholtzPlenumVolume(a, 1e-3, 0.1, 0)
		assertTuningDomainError(t, err, "frequency")
	})
}

func TestGridSearchRunner(t *testing.T) {
	a := flow.SpeedOfSound(293.15)
	// 6500 rpm is a 54 Hz event; the fundamental needs roughly 1.6 m,
	// so the box must reach that far.
	bounds := RunnerBounds{LengthMin: 0.15, LengthMax: 1.80, DiameterMin: 0.030, DiameterMax: 0.055}

	t.Run("best spec tunes near the target rpm", func(t *testing.T) {
		spec, score, err := GridSearchRunner(a, 6500, 0.09, 100.0, bounds, nil, 25, 25, 0.6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if spec.Length < bounds.LengthMin || spec.Length > bounds.LengthMax {
			t.Errorf("length %g outside bounds", spec.Length)
		}
		if spec.Diameter < bounds.DiameterMin || spec.Diameter > bounds.DiameterMax {
			t.Errorf("diameter %g outside bounds", spec.Diameter)
		}
		rpm, err := RPMFromQuarterWave(a, spec.Length, spec.Order, spec.Diameter*0.5, 0.6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// The grid is dense enough to land within a few hundred rpm.
		if math.Abs(rpm-6500) > 500 {
			t.Errorf("best spec tunes at %g rpm, want near 6500 (score %g)", rpm, score)
		}
	})

	t.Run("velocity penalty avoids choking diameters", func(t *testing.T) {
		spec, _, err := GridSearchRunner(a, 6500, 0.09, 100.0, bounds, nil, 25, 25, 0.6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		vMean := 0.09 / spec.Area
		if vMean > 150.0 {
			t.Errorf("mean velocity %g m/s, penalty should have rejected this diameter", vMean)
		}
	})

	t.Run("deterministic across repeats", func(t *testing.T) {
		s1, sc1, _ := GridSearchRunner(a, 6500, 0.09, 100.0, bounds, nil, 25, 25, 0.6)
		s2, sc2, _ := GridSearchRunner(a, 6500, 0.09, 100.0, bounds, nil, 25, 25, 0.6)
		if s1 != s2 || math.Float64bits(sc1) != math.Float64bits(sc2) {
			t.Errorf("repeated searches differ: %+v vs %+v", s1, s2)
		}
	})

	t.Run("invalid bounds fail", func(t *testing.T) {
		bad := RunnerBounds{LengthMin: 0.5, LengthMax: 0.2, DiameterMin: 0.03, DiameterMax: 0.05}
		_, _, err := GridSearchRunner(a, 6500, 0.09, 100.0, bad, nil, 10, 10, 0.6)
		assertTuningDomainError(t, err, "bounds")
	})
}
