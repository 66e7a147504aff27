package tuning

import (
	"math"

	"portflow/internal/domain"
	"portflow/internal/flow"
)

// LbPerHrPerKgPerS converts a mass flow in kg/s to lb/h.
const LbPerHrPerKgPerS = 7936.641

// HPParams configures the physical (BSFC/AFR) horsepower model.
type HPParams struct {
	AFR        float64  // air/fuel ratio by mass
	LambdaCorr float64  // lambda correction applied to fuel mass flow
	BSFC       float64  // brake-specific fuel consumption, lb/(hp*h)
	RhoFixed   float64  // density used when no bench air is available
	RPMCap     *float64 // curve points above this rpm report NaN
}

// DefaultHPParams mirrors a mildly rich gasoline engine on a dyno.
func DefaultHPParams() HPParams {
	return HPParams{AFR: 12.8, LambdaCorr: 1.0, BSFC: 0.5, RhoFixed: 1.204}
}

// HPCurve is an HP-vs-RPM sweep with its finite peak.
type HPCurve struct {
	RPM     []float64 `json:"rpm"`
	HP      []float64 `json:"hp"`
	PeakHP  float64   `json:"peak_hp"`
	PeakRPM float64   `json:"peak_rpm"`
}

// EstimateHPPoint estimates horsepower at one RPM from fuel mass flow:
//
//	m_air = rho * Q_engine;  m_fuel = m_air/AFR/lambda;  HP = m_fuel[lb/h]/BSFC
func EstimateHPPoint(displL, ve, rpm, rho float64, p HPParams) (float64, error) {
	if p.BSFC <= 0 {
		return 0, &domain.DomainError{Metric: "hp_point", Operand: "bsfc", Value: p.BSFC}
	}
	if p.AFR <= 0 {
		return 0, &domain.DomainError{Metric: "hp_point", Operand: "afr", Value: p.AFR}
	}
	if rho <= 0 {
		return 0, &domain.DomainError{Metric: "hp_point", Operand: "rho", Value: rho}
	}
	qEng, err := flow.EngineVolumetricFlow(displL, rpm, ve)
	if err != nil {
		return 0, err
	}
	mAir := rho * qEng
	mFuel := (mAir / p.AFR) / math.Max(1e-9, p.LambdaCorr)
	return mFuel * LbPerHrPerKgPerS / p.BSFC, nil
}

// EstimateHPCurve sweeps the model over rpmGrid for a session's engine.
// Bench air density is used when the session carries a valid air state,
// RhoFixed otherwise. Points past RPMCap are reported as NaN so the
// curve visibly stops; the peak is taken over the finite points only.
func EstimateHPCurve(sess domain.Session, rpmGrid []float64, p HPParams) (HPCurve, error) {
	ve := 1.0
	if sess.Engine.VE != nil {
		ve = *sess.Engine.VE
	}
	rho := p.RhoFixed
	if sess.Air.Validate() == nil {
		rho = sess.Air.Density()
	}

	curve := HPCurve{
		RPM: make([]float64, 0, len(rpmGrid)),
		HP:  make([]float64, 0, len(rpmGrid)),
	}
	for _, rpm := range rpmGrid {
		hp, err := EstimateHPPoint(sess.Engine.DisplL, ve, rpm, rho, p)
		if err != nil {
			return HPCurve{}, err
		}
		if p.RPMCap != nil && rpm > *p.RPMCap {
			hp = math.NaN()
		}
		curve.RPM = append(curve.RPM, rpm)
		curve.HP = append(curve.HP, hp)
	}
	for i, hp := range curve.HP {
		if !math.IsNaN(hp) && hp > curve.PeakHP {
			curve.PeakHP = hp
			curve.PeakRPM = curve.RPM[i]
		}
	}
	return curve, nil
}

// EstimateHPRuleOfThumb is the classic orientation-only estimate for
// 28 inH2O bench flow: HP_total = k * CFM_total, k defaulting to 0.26.
func EstimateHPRuleOfThumb(cfmTotal, kHPPerCFM float64) (float64, error) {
	if cfmTotal < 0 {
		return 0, &domain.DomainError{Metric: "hp_rule_of_thumb", Operand: "cfm_total", Value: cfmTotal}
	}
	if kHPPerCFM <= 0 {
		return 0, &domain.DomainError{Metric: "hp_rule_of_thumb", Operand: "k_hp_per_cfm", Value: kHPPerCFM}
	}
	return kHPPerCFM * cfmTotal, nil
}
