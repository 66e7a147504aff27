package flow

import (
	"math"

	"portflow/internal/domain"
)

// FlowReferenced rescales a measured flow to a reference depression and
// air density using the flow-referencing law:
//
//	Q* = Q_meas * sqrt(dp*/dp_meas) * sqrt(rho_meas/rho*)
//
// All arguments are SI. Referencing is undefined at zero or negative
// depression or density.
func FlowReferenced(qMeas, dpMeas, rhoMeas, dpStar, rhoStar float64) (float64, error) {
	for _, op := range []struct {
		name  string
		value float64
	}{
		{"dp_meas", dpMeas},
		{"dp_ref", dpStar},
		{"rho_meas", rhoMeas},
		{"rho_ref", rhoStar},
	} {
		if op.value <= 0 {
			return 0, &domain.DomainError{Metric: "flow_referenced", Operand: op.name, Value: op.value}
		}
	}
	return qMeas * math.Sqrt(dpStar/dpMeas) * math.Sqrt(rhoMeas/rhoStar), nil
}

// CurtainArea returns the annular area swept by the valve disk at a
// given lift: pi * d_valve * lift. The formula is only physical while
// lift is small relative to the valve diameter; no cap is applied here,
// the effective-area blend handles the transition to throat limiting.
func CurtainArea(dValve, lift float64) float64 {
	return math.Pi * dValve * lift
}

// ThroatArea returns the net annulus area of the port throat around the
// valve stem: pi/4 * (d_throat^2 - d_stem^2).
func ThroatArea(dThroat, dStem float64) float64 {
	return math.Pi * (dThroat*dThroat - dStem*dStem) / 4.0
}

// LDRatio returns lift over valve diameter, the dimensionless ratio that
// decides which area regime dominates.
func LDRatio(lift, dValve float64) float64 {
	return lift / dValve
}

// AreaEffSmoothMin blends curtain and throat area with a power-mean soft
// minimum of sharpness n. As n grows the blend approaches the true
// minimum; the default sharpness is 6.
func AreaEffSmoothMin(aCurtain, aThroat float64, n int) (float64, error) {
	if aCurtain <= 0 {
		return 0, &domain.DomainError{Metric: "area_eff_smoothmin", Operand: "a_curtain", Value: aCurtain}
	}
	if aThroat <= 0 {
		return 0, &domain.DomainError{Metric: "area_eff_smoothmin", Operand: "a_throat", Value: aThroat}
	}
	if n < 1 {
		return 0, &domain.DomainError{Metric: "area_eff_smoothmin", Operand: "sharpness", Value: float64(n)}
	}
	p := float64(n)
	return 1.0 / math.Pow(math.Pow(aCurtain, -p)+math.Pow(aThroat, -p), 1.0/p), nil
}

// AreaEffLogistic blends curtain and throat area with a sigmoid keyed on
// the L/D ratio relative to a crossover point ld0 with steepness k:
//
//	w = 1/(1+exp(-k*(ld-ld0)));  A_eff = (1-w)*A_curtain + w*A_throat
func AreaEffLogistic(aCurtain, aThroat, ld, ld0, k float64) (float64, error) {
	if aCurtain <= 0 {
		return 0, &domain.DomainError{Metric: "area_eff_logistic", Operand: "a_curtain", Value: aCurtain}
	}
	if aThroat <= 0 {
		return 0, &domain.DomainError{Metric: "area_eff_logistic", Operand: "a_throat", Value: aThroat}
	}
	w := 1.0 / (1.0 + math.Exp(-k*(ld-ld0)))
	return (1.0-w)*aCurtain + w*aThroat, nil
}

// Cd returns the discharge coefficient Q / (A * sqrt(2*dp/rho)). Results
// outside the usual 0.4..1.2 band are valid outputs signaling suspect
// source data; no clamping is applied.
func Cd(q, aRef, dp, rho float64) (float64, error) {
	if q < 0 {
		return 0, &domain.DomainError{Metric: "cd", Operand: "q", Value: q}
	}
	if aRef <= 0 {
		return 0, &domain.DomainError{Metric: "cd", Operand: "a_ref", Value: aRef}
	}
	if dp <= 0 {
		return 0, &domain.DomainError{Metric: "cd", Operand: "dp", Value: dp}
	}
	if rho <= 0 {
		return 0, &domain.DomainError{Metric: "cd", Operand: "rho", Value: rho}
	}
	return q / (aRef * math.Sqrt(2.0*dp/rho)), nil
}

// VelocityFromFlow returns the mean velocity V = Q/A through a section.
func VelocityFromFlow(q, area float64) (float64, error) {
	if area <= 0 {
		return 0, &domain.DomainError{Metric: "velocity", Operand: "area", Value: area}
	}
	return q / area, nil
}

// SpeedOfSound returns a(T) = sqrt(gamma*R*T) for air.
func SpeedOfSound(t float64) float64 {
	return math.Sqrt(domain.GammaAir * domain.RAir * t)
}

// MachFromVelocity returns V / a(T).
func MachFromVelocity(v, t float64) (float64, error) {
	a := SpeedOfSound(t)
	if a <= 0 {
		return 0, &domain.DomainError{Metric: "mach", Operand: "speed_of_sound", Value: a}
	}
	return v / a, nil
}

// PitotVelocity returns the local velocity from a Pitot probe reading:
// V = C * sqrt(2*dp/rho), with probe coefficient C (1.0 for an ideal
// probe).
func PitotVelocity(dpPitot, rho, cProbe float64) (float64, error) {
	if dpPitot < 0 {
		return 0, &domain.DomainError{Metric: "velocity_pitot", Operand: "dp_pitot", Value: dpPitot}
	}
	if rho <= 0 {
		return 0, &domain.DomainError{Metric: "velocity_pitot", Operand: "rho", Value: rho}
	}
	if cProbe <= 0 {
		return 0, &domain.DomainError{Metric: "velocity_pitot", Operand: "c_probe", Value: cProbe}
	}
	return cProbe * math.Sqrt(2.0*dpPitot/rho), nil
}

// SwirlRatio returns the dimensionless swirl ratio from a paddle-wheel
// swirl meter: SR = omega*R / Vbar, with Vbar the bulk velocity over the
// cylinder bore area.
func SwirlRatio(wheelRPM, bore, q float64) (float64, error) {
	if bore <= 0 {
		return 0, &domain.DomainError{Metric: "swirl_ratio", Operand: "bore", Value: bore}
	}
	aCyl := math.Pi * bore * bore / 4.0
	vbar := q / aCyl
	omega := 2.0 * math.Pi * wheelRPM / 60.0
	return omega * (bore * 0.5) / math.Max(1e-12, vbar), nil
}

// VectorSample is one discrete velocity-field sample used by the swirl
// and tumble number integrals: a tangential (or transverse) component, an
// axial component, a lever arm and an area weight.
type VectorSample struct {
	UTangential float64 // u_theta for swirl, u_y for tumble, m/s
	UAxial      float64 // u_z, m/s
	Arm         float64 // r for swirl, x for tumble, m
	AreaWeight  float64 // dA, m^2
}

// SwirlNumberDiscrete evaluates the swirl number for discrete samples:
// S = sum(u_theta*u_z*r*dA) / (R * sum(u_z^2*dA)). Density cancels when
// constant over the section.
func SwirlNumberDiscrete(samples []VectorSample, r float64) (float64, error) {
	return momentumNumber("swirl_number", samples, r)
}

// TumbleNumberDiscrete evaluates the tumble number about the transverse
// axis with the same normalization as SwirlNumberDiscrete.
func TumbleNumberDiscrete(samples []VectorSample, r float64) (float64, error) {
	return momentumNumber("tumble_number", samples, r)
}

func momentumNumber(metric string, samples []VectorSample, r float64) (float64, error) {
	if r <= 0 {
		return 0, &domain.DomainError{Metric: metric, Operand: "radius", Value: r}
	}
	var num, den float64
	for _, s := range samples {
		num += s.UTangential * s.UAxial * s.Arm * s.AreaWeight
		den += s.UAxial * s.UAxial * s.AreaWeight
	}
	if den <= 0 {
		return 0, &domain.DomainError{Metric: metric, Operand: "axial_momentum", Value: den}
	}
	return num / (r * den), nil
}
