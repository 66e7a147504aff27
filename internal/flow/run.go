package flow

import (
	"errors"
	"fmt"

	"portflow/internal/domain"
)

// Params echoes the analysis parameters into result records so a report
// is reproducible from its own content.
type Params struct {
	DPRefInH2O  float64       `json:"dp_ref_inH2O"`
	DPMeasInH2O float64       `json:"dp_meas_inH2O"`
	Blend       BlendPolicy   `json:"blend"`
	Sharpness   int           `json:"sharpness"`
	LD0         float64       `json:"ld0"`
	Steepness   float64       `json:"steepness"`
	ARef        ARefMode      `json:"a_ref_mode"`
	VEFallback  float64       `json:"ve_fallback"`
	VTarget     float64       `json:"v_target_ms"`
	QHead       QHeadStrategy `json:"q_head"`
	LiftTol     float64       `json:"lift_tol_m"`
}

func (o Options) params() Params {
	return Params{
		DPRefInH2O:  o.DPRefInH2O,
		DPMeasInH2O: o.DPMeasInH2O,
		Blend:       o.Blend,
		Sharpness:   o.Sharpness,
		LD0:         o.LD0,
		Steepness:   o.Steepness,
		ARef:        effectiveARefMode(o.ARef),
		VEFallback:  o.VEFallback,
		VTarget:     o.VTarget,
		QHead:       o.QHead,
		LiftTol:     o.LiftTol,
	}
}

// EngineResults carries the session-level engine coupling outputs.
type EngineResults struct {
	RPMFlowLimit *float64  `json:"rpm_flow_limit"`
	RPMFromCSA   *float64  `json:"rpm_from_csa"`
	MachMinCSA   []float64 `json:"mach_min_csa,omitempty"`
}

// Report is the full single-session analysis output: both computed
// series, the E/I table, engine coupling, the parameters used, and the
// caller metadata passed through untouched.
type Report struct {
	Intake  Series         `json:"intake"`
	Exhaust Series         `json:"exhaust"`
	EI      []EIEntry      `json:"ei"`
	Engine  EngineResults  `json:"engine"`
	Params  Params         `json:"params"`
	Meta    map[string]any `json:"meta"`
	Mode    domain.Mode    `json:"mode"`
}

// RunAll analyzes one session end to end.
func RunAll(session domain.Session, opts Options) (Report, error) {
	intake, err := ComputeSeries(session, domain.SideIntake, opts)
	if err != nil {
		return Report{}, err
	}
	exhaust, err := ComputeSeries(session, domain.SideExhaust, opts)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		Intake:  intake,
		Exhaust: exhaust,
		Params:  opts.params(),
		Meta:    session.Meta,
		Mode:    session.Mode,
	}

	if len(intake) > 0 && len(exhaust) > 0 {
		rep.EI = ComputeEI(intake, exhaust, opts.LiftTol)
	}

	if len(intake) > 0 {
		rpm, err := RPMFlowLimit(intake, session.Engine, opts)
		if err != nil {
			return Report{}, fmt.Errorf("rpm flow limit: %w", err)
		}
		rep.Engine.RPMFlowLimit = &rpm
	}

	rpmCSA, err := RPMFromCSAWithTarget(session.CSA, session.Engine, opts)
	if err != nil {
		return Report{}, fmt.Errorf("rpm from csa: %w", err)
	}
	rep.Engine.RPMFromCSA = rpmCSA

	if session.CSA != nil && session.CSA.MinCSA != nil && len(intake) > 0 {
		mach, err := MachAtMinCSAForSeries(intake, *session.CSA.MinCSA, session.Air)
		if err != nil {
			return Report{}, fmt.Errorf("mach at min csa: %w", err)
		}
		rep.Engine.MachMinCSA = mach
	}

	return rep, nil
}

// Comparison is the output of a baseline-vs-after run: one SideComparison
// per side plus parameters and both sessions' metadata.
type Comparison struct {
	Intake  *SideComparison `json:"intake,omitempty"`
	Exhaust *SideComparison `json:"exhaust,omitempty"`
	Metrics []Metric        `json:"metrics"`
	Params  Params          `json:"params"`
	Meta    CompareMeta     `json:"meta"`
}

// CompareMeta carries both sessions' opaque metadata side by side.
type CompareMeta struct {
	Before map[string]any `json:"before"`
	After  map[string]any `json:"after"`
}

// RunCompare computes both sessions' series and diffs them per side. A
// side with no data in either session is omitted from the result rather
// than failing the whole comparison; RunCompare fails only when nothing
// is comparable at all.
func RunCompare(before, after domain.Session, metrics []Metric, opts Options) (Comparison, error) {
	if len(metrics) == 0 {
		metrics = DefaultCompareMetrics()
	}

	cmp := Comparison{
		Metrics: metrics,
		Params:  opts.params(),
		Meta:    CompareMeta{Before: before.Meta, After: after.Meta},
	}

	for _, side := range []domain.Side{domain.SideIntake, domain.SideExhaust} {
		b, err := ComputeSeries(before, side, opts)
		if err != nil {
			return Comparison{}, fmt.Errorf("baseline %s: %w", side, err)
		}
		a, err := ComputeSeries(after, side, opts)
		if err != nil {
			return Comparison{}, fmt.Errorf("after %s: %w", side, err)
		}

		sc, err := CompareSeries(b, a, metrics, opts.LiftTol)
		if err != nil {
			var ae *domain.AlignmentError
			if errors.As(err, &ae) {
				continue // side absent in both sessions
			}
			return Comparison{}, fmt.Errorf("%s: %w", side, err)
		}
		switch side {
		case domain.SideIntake:
			cmp.Intake = &sc
		case domain.SideExhaust:
			cmp.Exhaust = &sc
		}
	}

	if cmp.Intake == nil && cmp.Exhaust == nil {
		return Comparison{}, &domain.AlignmentError{Reason: "no side has measurements in either session"}
	}
	return cmp, nil
}
