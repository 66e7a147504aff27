package flow

import "portflow/internal/domain"

// BlendPolicy selects how curtain and throat area are combined into an
// effective flow area. The two policies are interchangeable strategies,
// selectable per computation.
type BlendPolicy string

const (
	BlendSmoothMin BlendPolicy = "smoothmin"
	BlendLogistic  BlendPolicy = "logistic"
)

// ARefMode selects which area the discharge coefficient, velocity and
// Mach number are referenced to.
type ARefMode string

const (
	ARefThroat  ARefMode = "throat"
	ARefCurtain ARefMode = "curtain"
	ARefEff     ARefMode = "eff"
)

// QHeadStrategy selects how the usable head flow is picked from a series
// when coupling to engine RPM.
type QHeadStrategy string

const (
	// QHeadMax uses the single best point.
	QHeadMax QHeadStrategy = "max"
	// QHeadMeanTopThird averages the top third of the series, which is
	// less sensitive to one optimistic reading.
	QHeadMeanTopThird QHeadStrategy = "mean_top_third"
)

// Options parameterizes a session analysis. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	// DPRefInH2O is the reference depression the series is normalized
	// to. 28 inH2O is the industry canon but alternate bench standards
	// can be modeled by overriding it.
	DPRefInH2O float64

	// DPMeasInH2O is the assumed measured depression for points that
	// carry none. Benches that hold a constant depression usually omit
	// it per point.
	DPMeasInH2O float64

	// AirRef is the reference air state; nil means reference equals the
	// measured state, so only depression scaling applies.
	AirRef *domain.AirState

	Blend     BlendPolicy
	Sharpness int     // smooth-min exponent
	LD0       float64 // logistic crossover L/D
	Steepness float64 // logistic steepness k

	ARef ARefMode

	VEFallback float64 // used when the session engine has no VE
	VTarget    float64 // target mean port velocity for CSA coupling, m/s
	QHead      QHeadStrategy

	// LiftTol is the exact-match alignment tolerance in meters. It only
	// absorbs float conversion noise; it never interpolates.
	LiftTol float64
}

// DefaultOptions returns the canonical analysis parameters: 28 inH2O
// reference, smooth-min blend of sharpness 6, effective reference area,
// VE fallback 0.95 and a 100 m/s port velocity target.
func DefaultOptions() Options {
	return Options{
		DPRefInH2O:  28.0,
		DPMeasInH2O: 28.0,
		Blend:       BlendSmoothMin,
		Sharpness:   6,
		LD0:         0.30,
		Steepness:   12.0,
		ARef:        ARefEff,
		VEFallback:  0.95,
		VTarget:     100.0,
		QHead:       QHeadMeanTopThird,
		LiftTol:     5e-7,
	}
}
