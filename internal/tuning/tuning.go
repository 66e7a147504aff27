// Package tuning derives induction hardware recommendations from a
// head's flow capacity: quarter-wave runner lengths, Helmholtz plenum
// volumes and target-velocity cross sections. Simple open models, same
// determinism rules as the flow core.
package tuning

import (
	"math"

	"portflow/internal/domain"
)

// RunnerSpec is one candidate intake runner: physical length, inner
// diameter, cross section and the quarter-wave harmonic it tunes.
type RunnerSpec struct {
	Length   float64 `json:"length_m"`
	Diameter float64 `json:"diameter_m"`
	Area     float64 `json:"area_m2"`
	Order    int     `json:"order"` // 1, 3, 5... odd harmonics
	Note     string  `json:"note,omitempty"`
}

// RunnerBounds is the search box for GridSearchRunner.
type RunnerBounds struct {
	LengthMin   float64
	LengthMax   float64
	DiameterMin float64
	DiameterMax float64
}

// EventFrequency returns the intake event frequency of a four-stroke
// cylinder: one induction stroke per 720 degrees, so f = rpm/120 Hz.
func EventFrequency(rpm float64) (float64, error) {
	if rpm <= 0 {
		return 0, &domain.DomainError{Metric: "event_frequency", Operand: "rpm", Value: rpm}
	}
	return rpm / 120.0, nil
}

// QuarterWaveLength returns the physical runner length tuning harmonic
// `order` to frequency f at speed of sound a:
//
//	L_eff = a*(2k-1)/(4f);  L = max(0, L_eff - endCorr*r)
//
// endCorr*r is the unflanged end correction (0.6 r is the usual value).
func QuarterWaveLength(a, f float64, order int, endCorr, radius float64) (float64, error) {
	if a <= 0 {
		return 0, &domain.DomainError{Metric: "quarter_wave_length", Operand: "speed_of_sound", Value: a}
	}
	if f <= 0 {
		return 0, &domain.DomainError{Metric: "quarter_wave_length", Operand: "frequency", Value: f}
	}
	if order < 1 {
		return 0, &domain.DomainError{Metric: "quarter_wave_length", Operand: "order", Value: float64(order)}
	}
	lEff := a * float64(2*order-1) / (4.0 * f)
	return math.Max(0.0, lEff-endCorr*radius), nil
}

// RPMFromQuarterWave inverts QuarterWaveLength: the RPM a physical
// runner of length lPhys tunes at harmonic `order`.
func RPMFromQuarterWave(a, lPhys float64, order int, radius, endCorr float64) (float64, error) {
	if a <= 0 {
		return 0, &domain.DomainError{Metric: "rpm_from_quarter_wave", Operand: "speed_of_sound", Value: a}
	}
	if lPhys <= 0 {
		return 0, &domain.DomainError{Metric: "rpm_from_quarter_wave", Operand: "length", Value: lPhys}
	}
	if order < 1 {
		return 0, &domain.DomainError{Metric: "rpm_from_quarter_wave", Operand: "order", Value: float64(order)}
	}
	lEff := lPhys + endCorr*radius
	f := a * float64(2*order-1) / (4.0 * lEff)
	return f * 120.0, nil
}

// CSAFromFlowAndVelocity returns the cross section holding a target mean
// velocity at a given flow.
func CSAFromFlowAndVelocity(q, vTarget float64) (float64, error) {
	if q <= 0 {
		return 0, &domain.DomainError{Metric: "csa_from_flow", Operand: "q", Value: q}
	}
	if vTarget <= 0 {
		return 0, &domain.DomainError{Metric: "csa_from_flow", Operand: "v_target", Value: vTarget}
	}
	return q / vTarget, nil
}

// DiameterFromCSA returns the circular diameter of a cross section.
func DiameterFromCSA(area float64) (float64, error) {
	if area <= 0 {
		return 0, &domain.DomainError{Metric: "diameter_from_csa", Operand: "area", Value: area}
	}
	return math.Sqrt(4.0 * area / math.Pi), nil
}

// HelmholtzPlenumVolume returns the plenum volume resonating at f with
// neck section aNeck and neck length lNeck:
//
//	f = (a/2pi)*sqrt(A/(V*L))  ->  V = A/L * (a/(2pi f))^2
func HelmholtzPlenumVolume(a, aNeck, lNeck, f float64) (float64, error) {
	for _, op := range []struct {
		name  string
		value float64
	}{
		{"speed_of_sound", a},
		{"neck_area", aNeck},
		{"neck_length", lNeck},
		{"frequency", f},
	} {
		if op.value <= 0 {
			return 0, &domain.DomainError{Metric: "helmholtz_plenum_volume", Operand: op.name, Value: op.value}
		}
	}
	ratio := a / (2.0 * math.Pi * f)
	return (aNeck / lNeck) * ratio * ratio, nil
}

// ResonanceScore is the alignment error between target and achieved
// tuned RPM; lower is better.
func ResonanceScore(targetRPM, achievedRPM float64) float64 {
	return math.Abs(achievedRPM - targetRPM)
}

// GridSearchRunner scans a length x diameter grid over the given odd
// harmonics and returns the runner with the best resonance alignment. A
// mean velocity above vTarget is penalized hard: a runner that chokes
// the port is worse than one slightly off resonance.
func GridSearchRunner(a, targetRPM, qPeak, vTarget float64, bounds RunnerBounds, orders []int, nL, nD int, endCorr float64) (RunnerSpec, float64, error) {
	for _, op := range []struct {
		name  string
		value float64
	}{
		{"speed_of_sound", a},
		{"target_rpm", targetRPM},
		{"q_peak", qPeak},
		{"v_target", vTarget},
		{"length_min", bounds.LengthMin},
		{"diameter_min", bounds.DiameterMin},
	} {
		if op.value <= 0 {
			return RunnerSpec{}, 0, &domain.DomainError{Metric: "grid_search_runner", Operand: op.name, Value: op.value}
		}
	}
	if bounds.LengthMin >= bounds.LengthMax || bounds.DiameterMin >= bounds.DiameterMax {
		return RunnerSpec{}, 0, &domain.DomainError{Metric: "grid_search_runner", Operand: "bounds", Value: bounds.LengthMax - bounds.LengthMin}
	}
	if len(orders) == 0 {
		orders = []int{1, 3, 5}
	}
	if nL < 2 {
		nL = 2
	}
	if nD < 2 {
		nD = 2
	}

	var (
		best      RunnerSpec
		bestScore = math.Inf(1)
	)
	for _, order := range orders {
		if order < 1 {
			continue
		}
		for i := 0; i < nL; i++ {
			length := bounds.LengthMin + (bounds.LengthMax-bounds.LengthMin)*float64(i)/float64(nL-1)
			for j := 0; j < nD; j++ {
				d := bounds.DiameterMin + (bounds.DiameterMax-bounds.DiameterMin)*float64(j)/float64(nD-1)
				area := math.Pi * d * d / 4.0
				vMean := qPeak / area
				rpmEst, err := RPMFromQuarterWave(a, length, order, d*0.5, endCorr)
				if err != nil {
					return RunnerSpec{}, 0, err
				}
				score := ResonanceScore(targetRPM, rpmEst) + math.Max(0.0, vMean-vTarget)*10.0
				if score < bestScore {
					bestScore = score
					best = RunnerSpec{Length: length, Diameter: d, Area: area, Order: order}
				}
			}
		}
	}
	return best, bestScore, nil
}
