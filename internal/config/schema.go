package config

import (
	"time"

	"portflow/internal/flow"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AnalysisConfig holds the analysis parameters. Every field is optional
// in the file; missing values fall back to the canonical defaults.
type AnalysisConfig struct {
	DPRefInH2O  *float64 `yaml:"dp_ref_inH2O,omitempty"`
	DPMeasInH2O *float64 `yaml:"dp_meas_inH2O,omitempty"`
	Blend       string   `yaml:"blend,omitempty"`     // smoothmin | logistic
	Sharpness   *int     `yaml:"sharpness,omitempty"` // smooth-min exponent
	LD0         *float64 `yaml:"ld0,omitempty"`
	Steepness   *float64 `yaml:"steepness,omitempty"`
	ARef        string   `yaml:"a_ref,omitempty"` // throat | curtain | eff
	VEFallback  *float64 `yaml:"ve_fallback,omitempty"`
	VTarget     *float64 `yaml:"v_target_ms,omitempty"`
	QHead       string   `yaml:"q_head,omitempty"` // max | mean_top_third
	LiftTol     *float64 `yaml:"lift_tol_m,omitempty"`
}

// ArchiveConfig holds the session archive settings
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig holds watch-mode settings
type WatchConfig struct {
	Debounce Duration `yaml:"debounce,omitempty"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug | info | warn | error
	Format string `yaml:"format,omitempty"` // text | json
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// FlowOptions maps the analysis section onto computation options,
// starting from the canonical defaults.
func (c *Config) FlowOptions() flow.Options {
	opts := flow.DefaultOptions()
	a := c.Analysis

	if a.DPRefInH2O != nil {
		opts.DPRefInH2O = *a.DPRefInH2O
	}
	if a.DPMeasInH2O != nil {
		opts.DPMeasInH2O = *a.DPMeasInH2O
	}
	if a.Blend != "" {
		opts.Blend = flow.BlendPolicy(a.Blend)
	}
	if a.Sharpness != nil {
		opts.Sharpness = *a.Sharpness
	}
	if a.LD0 != nil {
		opts.LD0 = *a.LD0
	}
	if a.Steepness != nil {
		opts.Steepness = *a.Steepness
	}
	if a.ARef != "" {
		opts.ARef = flow.ARefMode(a.ARef)
	}
	if a.VEFallback != nil {
		opts.VEFallback = *a.VEFallback
	}
	if a.VTarget != nil {
		opts.VTarget = *a.VTarget
	}
	if a.QHead != "" {
		opts.QHead = flow.QHeadStrategy(a.QHead)
	}
	if a.LiftTol != nil {
		opts.LiftTol = *a.LiftTol
	}
	return opts
}
