package domain

// Side identifies which port of the head a measurement belongs to.
type Side string

const (
	SideIntake  Side = "intake"
	SideExhaust Side = "exhaust"
)

// LiftPoint is one raw flowbench reading, in bench units: lift in mm,
// flow in CFM, depression in inches of water, swirl wheel speed in RPM.
// Depression and swirl are optional; a nil depression means the bench
// default applies.
type LiftPoint struct {
	LiftMM   float64  `json:"lift_mm" yaml:"lift_mm"`
	QCFM     float64  `json:"q_cfm" yaml:"q_cfm"`
	DPInH2O  *float64 `json:"dp_inH2O,omitempty" yaml:"dp_inH2O,omitempty"`
	SwirlRPM *float64 `json:"swirl_rpm,omitempty" yaml:"swirl_rpm,omitempty"`
}

// Validate checks the construction invariants of a single reading.
func (p LiftPoint) Validate() error {
	if err := requireNonNegative("point.lift_mm", p.LiftMM); err != nil {
		return err
	}
	if err := requireNonNegative("point.q_cfm", p.QCFM); err != nil {
		return err
	}
	if p.DPInH2O != nil {
		if err := requirePositive("point.dp_inH2O", *p.DPInH2O); err != nil {
			return err
		}
	}
	if p.SwirlRPM != nil {
		if err := requireNonNegative("point.swirl_rpm", *p.SwirlRPM); err != nil {
			return err
		}
	}
	return nil
}

// FlowSeries holds the ordered raw readings for both sides of a session.
// Order is caller intent (ascending by lift on a well-run bench) and is
// never re-sorted anywhere in the system.
type FlowSeries struct {
	Intake  []LiftPoint `json:"intake" yaml:"intake"`
	Exhaust []LiftPoint `json:"exhaust" yaml:"exhaust"`
}

// Validate checks every reading on both sides.
func (fs FlowSeries) Validate() error {
	for _, p := range fs.Intake {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, p := range fs.Exhaust {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Points returns the readings for a side.
func (fs FlowSeries) Points(side Side) []LiftPoint {
	if side == SideExhaust {
		return fs.Exhaust
	}
	return fs.Intake
}
