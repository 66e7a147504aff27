package flow

import (
	"fmt"

	"portflow/internal/domain"
	"portflow/internal/units"
)

// NormalizedPoint is one reading converted to SI and rescaled to the
// reference depression and air state. It is never mutated after
// creation.
type NormalizedPoint struct {
	Lift     float64  // m
	QMeas    float64  // m^3/s, as measured
	DPMeas   float64  // Pa, measured depression (bench default applied when absent)
	QRef     float64  // m^3/s at the reference state
	DPRef    float64  // Pa, reference depression
	RhoMeas  float64  // kg/m^3, from the measured air state
	RhoRef   float64  // kg/m^3, from the reference air state
	SwirlRPM *float64 // wheel speed pass-through, converted to SR later
}

// NormalizePoint converts a raw reading to SI and references its flow to
// opts.DPRefInH2O and the reference air state.
func NormalizePoint(p domain.LiftPoint, airMeas domain.AirState, opts Options) (NormalizedPoint, error) {
	dpMeasIn := opts.DPMeasInH2O
	if p.DPInH2O != nil {
		dpMeasIn = *p.DPInH2O
	}

	dpMeas := units.InH2OToPa(dpMeasIn)
	dpRef := units.InH2OToPa(opts.DPRefInH2O)
	qMeas := units.CFMToM3s(p.QCFM)

	rhoMeas := airMeas.Density()
	rhoRef := rhoMeas
	if opts.AirRef != nil {
		rhoRef = opts.AirRef.Density()
	}

	qRef, err := FlowReferenced(qMeas, dpMeas, rhoMeas, dpRef, rhoRef)
	if err != nil {
		return NormalizedPoint{}, err
	}

	return NormalizedPoint{
		Lift:     p.LiftMM / 1000.0,
		QMeas:    qMeas,
		DPMeas:   dpMeas,
		QRef:     qRef,
		DPRef:    dpRef,
		RhoMeas:  rhoMeas,
		RhoRef:   rhoRef,
		SwirlRPM: p.SwirlRPM,
	}, nil
}

// NormalizeSeries normalizes every reading in input order, 1:1.
func NormalizeSeries(points []domain.LiftPoint, airMeas domain.AirState, opts Options) ([]NormalizedPoint, error) {
	out := make([]NormalizedPoint, 0, len(points))
	for i, p := range points {
		np, err := NormalizePoint(p, airMeas, opts)
		if err != nil {
			return nil, fmt.Errorf("point %d (lift %.3f mm): %w", i, p.LiftMM, err)
		}
		out = append(out, np)
	}
	return out, nil
}
