package domain

// Geometry describes the head geometry relevant to flow analysis. All
// lengths are meters; port volume is cc by porting-shop convention.
// Optional fields are pointers and omitted from documents when nil.
type Geometry struct {
	Bore     float64 `json:"bore_m" yaml:"bore_m"`
	ValveInt float64 `json:"valve_int_m" yaml:"valve_int_m"`
	ValveExh float64 `json:"valve_exh_m" yaml:"valve_exh_m"`
	Throat   float64 `json:"throat_m" yaml:"throat_m"`
	Stem     float64 `json:"stem_m" yaml:"stem_m"`

	// Per-side throat diameters; when nil the shared Throat is used.
	ThroatInt *float64 `json:"throat_int_m,omitempty" yaml:"throat_int_m,omitempty"`
	ThroatExh *float64 `json:"throat_exh_m,omitempty" yaml:"throat_exh_m,omitempty"`

	PortVolumeCC *float64 `json:"port_volume_cc,omitempty" yaml:"port_volume_cc,omitempty"`
	PortLength   *float64 `json:"port_length_m,omitempty" yaml:"port_length_m,omitempty"`
	SeatAngleDeg *float64 `json:"seat_angle_deg,omitempty" yaml:"seat_angle_deg,omitempty"`
	SeatWidth    *float64 `json:"seat_width_m,omitempty" yaml:"seat_width_m,omitempty"`
}

// Validate checks positivity and the stem-vs-throat ordering against
// every throat diameter the geometry provides.
func (g Geometry) Validate() error {
	if err := requirePositive("geom.bore_m", g.Bore); err != nil {
		return err
	}
	if err := requirePositive("geom.valve_int_m", g.ValveInt); err != nil {
		return err
	}
	if err := requirePositive("geom.valve_exh_m", g.ValveExh); err != nil {
		return err
	}
	if err := requirePositive("geom.throat_m", g.Throat); err != nil {
		return err
	}
	if err := requireNonNegative("geom.stem_m", g.Stem); err != nil {
		return err
	}
	if g.Stem >= g.Throat {
		return validationErrorf("geom.stem_m", "must be < throat_m (%g >= %g)", g.Stem, g.Throat)
	}
	if g.ThroatInt != nil {
		if err := requirePositive("geom.throat_int_m", *g.ThroatInt); err != nil {
			return err
		}
		if g.Stem >= *g.ThroatInt {
			return validationErrorf("geom.stem_m", "must be < throat_int_m (%g >= %g)", g.Stem, *g.ThroatInt)
		}
	}
	if g.ThroatExh != nil {
		if err := requirePositive("geom.throat_exh_m", *g.ThroatExh); err != nil {
			return err
		}
		if g.Stem >= *g.ThroatExh {
			return validationErrorf("geom.stem_m", "must be < throat_exh_m (%g >= %g)", g.Stem, *g.ThroatExh)
		}
	}
	for _, opt := range []struct {
		field string
		v     *float64
	}{
		{"geom.port_volume_cc", g.PortVolumeCC},
		{"geom.port_length_m", g.PortLength},
		{"geom.seat_width_m", g.SeatWidth},
	} {
		if opt.v != nil {
			if err := requirePositive(opt.field, *opt.v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ThroatFor returns the throat diameter for a side, falling back to the
// shared throat when no per-side value is set.
func (g Geometry) ThroatFor(side Side) float64 {
	switch side {
	case SideIntake:
		if g.ThroatInt != nil {
			return *g.ThroatInt
		}
	case SideExhaust:
		if g.ThroatExh != nil {
			return *g.ThroatExh
		}
	}
	return g.Throat
}

// ValveFor returns the valve diameter for a side.
func (g Geometry) ValveFor(side Side) float64 {
	if side == SideExhaust {
		return g.ValveExh
	}
	return g.ValveInt
}
