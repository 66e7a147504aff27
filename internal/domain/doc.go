// Package domain defines the validated value objects shared by the
// portflow computation core and its transport plumbing.
//
// Every type here is an immutable record of a physical state: bench air
// conditions, head geometry, raw lift points, engine parameters. Range
// invariants are checked once, at construction, and a value that made it
// past its constructor is trusted by the rest of the system. Formula
// preconditions that depend on combinations of inputs (positive areas,
// positive depressions) are enforced later, at computation time, by the
// flow package.
//
// Raw measurements carry bench units (mm, CFM, inH2O, wheel RPM); all
// other interchange is SI. That split is a contract with downstream
// consumers, not an implementation detail.
package domain
