// Package flow is the portflow computation core: it turns raw flowbench
// readings into referenced, comparable aerodynamic metrics.
//
// The pipeline is normalize -> compute point -> build series -> couple to
// engine, with an optional comparison stage between two sessions:
//
//	raw LiftPoint --Normalize--> NormalizedPoint --ComputePoint--> Point
//	Points (per side) --ComputeSeries--> Series (+ E/I table)
//	Series + Engine/CSA --engine coupling--> RPM limits, Mach at min CSA
//	two Series --Compare--> per-lift percent deltas + unmatched diagnostics
//
// Everything here is a pure function over immutable inputs: no I/O, no
// logging, no shared state. Callers may parallelize across points or
// sessions freely. Formula preconditions (positive depression, area,
// density, displacement) are enforced at computation time and reported
// as domain.DomainError; the core never substitutes fallback values.
package flow
