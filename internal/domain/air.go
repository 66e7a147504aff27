package domain

import "math"

// Physical constants for dry air. Shared by density, speed-of-sound and
// mass-flow calculations throughout the core.
const (
	GammaAir = 1.4     // ratio of specific heats (kappa)
	RAir     = 287.058 // specific gas constant, J/(kg*K)
)

// AirState captures the bench air conditions used for density correction
// and speed-of-sound calculations. All fields are SI.
type AirState struct {
	PTot float64 `json:"p_tot" yaml:"p_tot"` // total pressure, Pa
	T    float64 `json:"T" yaml:"T"`         // temperature, K
	RH   float64 `json:"RH" yaml:"RH"`       // relative humidity, 0..1
}

// NewAirState validates and constructs an AirState.
func NewAirState(pTot, t, rh float64) (AirState, error) {
	s := AirState{PTot: pTot, T: t, RH: rh}
	if err := s.Validate(); err != nil {
		return AirState{}, err
	}
	return s, nil
}

// Validate checks the construction invariants. Codecs call this after
// decoding an AirState from an external document.
func (s AirState) Validate() error {
	if err := requirePositive("air.p_tot", s.PTot); err != nil {
		return err
	}
	if err := requirePositive("air.T", s.T); err != nil {
		return err
	}
	if s.RH < 0 || s.RH > 1 {
		return validationErrorf("air.RH", "must be in [0,1], got %g", s.RH)
	}
	return nil
}

// saturationPressure returns the water vapor saturation pressure in Pa
// using the Tetens approximation, adequate for flowbench correction in
// the 0..50 degC range.
func saturationPressure(t float64) float64 {
	tc := t - 273.15
	return 610.78 * math.Exp((17.27*tc)/(tc+237.3))
}

// Density returns the humidity-corrected air density in kg/m^3 from a
// simple ideal-gas model. With RH=0 this reduces to p_tot/(R*T).
func (s AirState) Density() float64 {
	pv := s.RH * saturationPressure(s.T)
	pdry := math.Max(1.0, s.PTot-pv)
	return pdry / (RAir * s.T)
}
