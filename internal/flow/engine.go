package flow

import (
	"math"
	"sort"

	"portflow/internal/domain"
)

// EngineVolumetricFlow returns the volumetric demand of a four-stroke
// engine in m^3/s: Q = (Vd * rpm / 2) / 60 * ve, with displacement in
// liters for the whole engine.
func EngineVolumetricFlow(displL, rpm, ve float64) (float64, error) {
	if displL <= 0 {
		return 0, &domain.DomainError{Metric: "engine_volumetric_flow", Operand: "displ_L", Value: displL}
	}
	if rpm < 0 {
		return 0, &domain.DomainError{Metric: "engine_volumetric_flow", Operand: "rpm", Value: rpm}
	}
	if ve < 0 {
		return 0, &domain.DomainError{Metric: "engine_volumetric_flow", Operand: "ve", Value: ve}
	}
	vd := displL * 1e-3
	return (vd * rpm / 2.0) / 60.0 * ve, nil
}

// RPMLimitedByFlow inverts EngineVolumetricFlow: the maximum RPM the
// measured head flow can sustain at a fixed VE before the head becomes
// the limiting factor.
func RPMLimitedByFlow(qHead, displL, ve float64) (float64, error) {
	if qHead <= 0 {
		return 0, &domain.DomainError{Metric: "rpm_limited_by_flow", Operand: "q_head", Value: qHead}
	}
	if displL <= 0 {
		return 0, &domain.DomainError{Metric: "rpm_limited_by_flow", Operand: "displ_L", Value: displL}
	}
	if ve <= 0 {
		return 0, &domain.DomainError{Metric: "rpm_limited_by_flow", Operand: "ve", Value: ve}
	}
	vd := displL * 1e-3
	return (qHead * 60.0 * 2.0) / (vd * ve), nil
}

// RPMFromCSA returns the RPM at which the mean port velocity reaches
// vTarget given the average cross-sectional area. Used to flag choke
// risk on the induction side.
func RPMFromCSA(aAvg, displL, ve, vTarget float64) (float64, error) {
	if aAvg <= 0 {
		return 0, &domain.DomainError{Metric: "rpm_from_csa", Operand: "avg_csa_m2", Value: aAvg}
	}
	if vTarget <= 0 {
		return 0, &domain.DomainError{Metric: "rpm_from_csa", Operand: "v_target", Value: vTarget}
	}
	return RPMLimitedByFlow(aAvg*vTarget, displL, ve)
}

// MachAtMinCSA evaluates the Mach number at the narrowest cross-section,
// the most likely choke point.
func MachAtMinCSA(q, aMin, t float64) (float64, error) {
	if aMin <= 0 {
		return 0, &domain.DomainError{Metric: "mach_at_min_csa", Operand: "min_csa_m2", Value: aMin}
	}
	v, err := VelocityFromFlow(q, aMin)
	if err != nil {
		return 0, err
	}
	return MachFromVelocity(v, t)
}

// HeaderCSARequired returns the exhaust header cross-section needed to
// hold a target gas velocity at a given flow.
func HeaderCSARequired(qExh, vExhTarget float64) (float64, error) {
	if vExhTarget <= 0 {
		return 0, &domain.DomainError{Metric: "header_csa_required", Operand: "v_exh_target", Value: vExhTarget}
	}
	return qExh / vExhTarget, nil
}

// resolveVE picks the session VE or the configured fallback.
func resolveVE(eng domain.Engine, fallback float64) (float64, error) {
	ve := fallback
	if eng.VE != nil {
		ve = *eng.VE
	}
	if ve <= 0 {
		return 0, &domain.DomainError{Metric: "engine_coupling", Operand: "ve", Value: ve}
	}
	return ve, nil
}

// selectQHead reduces a series' referenced flows to the single usable
// head flow per the chosen strategy.
func selectQHead(series Series, strategy QHeadStrategy) (float64, error) {
	if len(series) == 0 {
		return 0, &domain.AlignmentError{Reason: "empty series for q_head selection"}
	}
	values := make([]float64, 0, len(series))
	for _, p := range series {
		if p.QRef <= 0 {
			return 0, &domain.DomainError{Metric: "q_head", Operand: "q_m3s_ref", Value: p.QRef}
		}
		values = append(values, p.QRef)
	}
	switch strategy {
	case QHeadMax:
		best := values[0]
		for _, v := range values[1:] {
			if v > best {
				best = v
			}
		}
		return best, nil
	default: // QHeadMeanTopThird
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		k := int(math.Ceil(float64(len(sorted)) / 3.0))
		if k < 1 {
			k = 1
		}
		top := sorted[len(sorted)-k:]
		var sum float64
		for _, v := range top {
			sum += v
		}
		return sum / float64(len(top)), nil
	}
}

// RPMFlowLimit derives the flow-limited RPM for a whole series: pick a
// usable head flow, resolve VE, invert the engine demand.
func RPMFlowLimit(series Series, eng domain.Engine, opts Options) (float64, error) {
	qHead, err := selectQHead(series, opts.QHead)
	if err != nil {
		return 0, err
	}
	ve, err := resolveVE(eng, opts.VEFallback)
	if err != nil {
		return 0, err
	}
	return RPMLimitedByFlow(qHead, eng.DisplL, ve)
}

// RPMFromCSAWithTarget couples the average port CSA to RPM at the target
// velocity. Returns nil when the profile carries no average CSA.
func RPMFromCSAWithTarget(csa *domain.CSAProfile, eng domain.Engine, opts Options) (*float64, error) {
	if csa == nil || csa.AvgCSA == nil {
		return nil, nil
	}
	ve, err := resolveVE(eng, opts.VEFallback)
	if err != nil {
		return nil, err
	}
	rpm, err := RPMFromCSA(*csa.AvgCSA, eng.DisplL, ve, opts.VTarget)
	if err != nil {
		return nil, err
	}
	return &rpm, nil
}

// MachAtMinCSAForSeries evaluates the Mach number at the minimum CSA for
// every point, in series order.
func MachAtMinCSAForSeries(series Series, minCSA float64, air domain.AirState) ([]float64, error) {
	if minCSA <= 0 {
		return nil, &domain.DomainError{Metric: "mach_at_min_csa", Operand: "min_csa_m2", Value: minCSA}
	}
	out := make([]float64, 0, len(series))
	for _, p := range series {
		m, err := MachAtMinCSA(p.QRef, minCSA, air.T)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
