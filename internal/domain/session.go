package domain

// Mode labels which end of a porting change a session captures.
type Mode string

const (
	ModeBaseline Mode = "baseline"
	ModeAfter    Mode = "after"
)

// Session is one complete raw measurement session: who/what was measured
// (meta), under which air conditions, against which engine and geometry,
// and the lift sweeps for both sides. Meta and Tuning are opaque caller
// side-channels: the core passes them through unexamined and unmodified.
type Session struct {
	Meta   map[string]any `json:"meta" yaml:"meta"`
	Mode   Mode           `json:"mode" yaml:"mode"`
	Air    AirState       `json:"air" yaml:"air"`
	Engine Engine         `json:"engine" yaml:"engine"`
	Geom   Geometry       `json:"geom" yaml:"geom"`
	Lifts  FlowSeries     `json:"lifts" yaml:"lifts"`
	CSA    *CSAProfile    `json:"csa,omitempty" yaml:"csa,omitempty"`
	Tuning map[string]any `json:"tuning,omitempty" yaml:"tuning,omitempty"`
}

// Validate checks the whole session record. Codecs call this after
// decoding so the computation core only ever sees valid sessions.
func (s Session) Validate() error {
	if s.Mode != ModeBaseline && s.Mode != ModeAfter {
		return validationErrorf("mode", "must be %q or %q, got %q", ModeBaseline, ModeAfter, s.Mode)
	}
	if err := s.Air.Validate(); err != nil {
		return err
	}
	if err := s.Engine.Validate(); err != nil {
		return err
	}
	if err := s.Geom.Validate(); err != nil {
		return err
	}
	if err := s.Lifts.Validate(); err != nil {
		return err
	}
	if s.CSA != nil {
		if err := s.CSA.Validate(); err != nil {
			return err
		}
	}
	return nil
}
