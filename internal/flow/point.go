package flow

import "portflow/internal/domain"

// Point is the fully computed record for one lift point. All fields are
// SI; this is the unit contract with downstream consumers.
type Point struct {
	Lift       float64  `json:"lift_m"`
	QRef       float64  `json:"q_m3s_ref"`
	DPRef      float64  `json:"dp_pa_ref"`
	ACurtain   float64  `json:"a_curtain_m2"`
	AThroat    float64  `json:"a_throat_m2"`
	AEff       float64  `json:"a_eff_m2"`
	ThroatUsed float64  `json:"throat_used_m"`
	ARef       ARefMode `json:"a_ref"`
	LD         float64  `json:"l_over_d"`
	Cd         float64  `json:"cd"`
	Velocity   float64  `json:"velocity_ms"`
	Mach       float64  `json:"mach"`
	Swirl      *float64 `json:"swirl_ratio,omitempty"`
}

// Metric returns a computed metric of the point by name. Used by the
// comparator to diff an open set of metrics uniformly.
func (p Point) Metric(m Metric) (float64, bool) {
	switch m {
	case MetricQRef:
		return p.QRef, true
	case MetricCd:
		return p.Cd, true
	case MetricVelocity:
		return p.Velocity, true
	case MetricMach:
		return p.Mach, true
	case MetricAEff:
		return p.AEff, true
	case MetricSwirl:
		if p.Swirl == nil {
			return 0, false
		}
		return *p.Swirl, true
	}
	return 0, false
}

// Metric names accepted by the comparator.
type Metric string

const (
	MetricQRef     Metric = "q_m3s_ref"
	MetricCd       Metric = "cd"
	MetricVelocity Metric = "velocity_ms"
	MetricMach     Metric = "mach"
	MetricAEff     Metric = "a_eff_m2"
	MetricSwirl    Metric = "swirl_ratio"
)

// DefaultCompareMetrics is the metric set diffed by RunCompare unless
// the caller picks its own.
func DefaultCompareMetrics() []Metric {
	return []Metric{MetricQRef, MetricCd, MetricVelocity, MetricMach}
}

// ComputePoint derives the per-point aerodynamic metrics from a
// normalized reading and the head geometry for one side.
func ComputePoint(np NormalizedPoint, geom domain.Geometry, airRef domain.AirState, side domain.Side, opts Options) (Point, error) {
	dValve := geom.ValveFor(side)
	throatD := geom.ThroatFor(side)

	aCurtain := CurtainArea(dValve, np.Lift)
	aThroat := ThroatArea(throatD, geom.Stem)
	ld := LDRatio(np.Lift, dValve)

	var (
		aEff float64
		err  error
	)
	switch opts.Blend {
	case BlendLogistic:
		aEff, err = AreaEffLogistic(aCurtain, aThroat, ld, opts.LD0, opts.Steepness)
	default:
		aEff, err = AreaEffSmoothMin(aCurtain, aThroat, opts.Sharpness)
	}
	if err != nil {
		return Point{}, err
	}

	aRef := aEff
	switch opts.ARef {
	case ARefThroat:
		aRef = aThroat
	case ARefCurtain:
		aRef = aCurtain
	}

	rhoRef := airRef.Density()
	cd, err := Cd(np.QRef, aRef, np.DPRef, rhoRef)
	if err != nil {
		return Point{}, err
	}
	v, err := VelocityFromFlow(np.QRef, aRef)
	if err != nil {
		return Point{}, err
	}
	mach, err := MachFromVelocity(v, airRef.T)
	if err != nil {
		return Point{}, err
	}

	pt := Point{
		Lift:       np.Lift,
		QRef:       np.QRef,
		DPRef:      np.DPRef,
		ACurtain:   aCurtain,
		AThroat:    aThroat,
		AEff:       aEff,
		ThroatUsed: throatD,
		ARef:       effectiveARefMode(opts.ARef),
		LD:         ld,
		Cd:         cd,
		Velocity:   v,
		Mach:       mach,
	}

	if np.SwirlRPM != nil {
		sr, err := SwirlRatio(*np.SwirlRPM, geom.Bore, np.QRef)
		if err != nil {
			return Point{}, err
		}
		pt.Swirl = &sr
	}

	return pt, nil
}

func effectiveARefMode(m ARefMode) ARefMode {
	switch m {
	case ARefThroat, ARefCurtain, ARefEff:
		return m
	}
	return ARefEff
}
