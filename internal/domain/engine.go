package domain

// Engine describes the engine a head is being ported for. Displacement
// is liters for the whole engine; VE is optional and, when nil, a
// configured fallback applies at computation time.
type Engine struct {
	DisplL    float64  `json:"displ_L" yaml:"displ_L"`
	Cylinders int      `json:"cylinders" yaml:"cylinders"`
	VE        *float64 `json:"ve,omitempty" yaml:"ve,omitempty"`
}

// Validate checks the construction invariants.
func (e Engine) Validate() error {
	if err := requirePositive("engine.displ_L", e.DisplL); err != nil {
		return err
	}
	if e.Cylinders <= 0 {
		return validationErrorf("engine.cylinders", "must be > 0, got %d", e.Cylinders)
	}
	if e.VE != nil {
		if err := requireNonNegative("engine.ve", *e.VE); err != nil {
			return err
		}
	}
	return nil
}

// CSAProfile carries the measured port cross-sectional areas used for
// engine coupling, in m^2. Both fields are optional.
type CSAProfile struct {
	MinCSA *float64 `json:"min_csa_m2,omitempty" yaml:"min_csa_m2,omitempty"`
	AvgCSA *float64 `json:"avg_csa_m2,omitempty" yaml:"avg_csa_m2,omitempty"`
}

// Validate checks the construction invariants.
func (c CSAProfile) Validate() error {
	if c.MinCSA != nil {
		if err := requirePositive("csa.min_csa_m2", *c.MinCSA); err != nil {
			return err
		}
	}
	if c.AvgCSA != nil {
		if err := requirePositive("csa.avg_csa_m2", *c.AvgCSA); err != nil {
			return err
		}
	}
	return nil
}
