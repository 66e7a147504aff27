// Package units provides the bench-unit conversions used at the system
// boundary: flow in CFM, depression in inches of water, temperature in
// degrees C/F. Everything past the boundary is SI.
//
// All conversions are pure and bidirectional; round trips are exact to
// floating-point precision.
package units

// Conversion constants. The inH2O value uses the 4 degC water column
// convention, the industry standard for flowbench depressions.
const (
	M3sPerCFM     = 4.719474e-4
	CFMPerM3s     = 1.0 / M3sPerCFM
	PaPerInH2O    = 249.0889
	KelvinAtZeroC = 273.15
)

// CFMToM3s converts a volumetric flow from CFM to m^3/s.
func CFMToM3s(q float64) float64 { return q * M3sPerCFM }

// M3sToCFM converts a volumetric flow from m^3/s to CFM.
func M3sToCFM(q float64) float64 { return q * CFMPerM3s }

// InH2OToPa converts a depression from inches of water to Pa.
func InH2OToPa(dp float64) float64 { return dp * PaPerInH2O }

// PaToInH2O converts a depression from Pa to inches of water.
func PaToInH2O(dp float64) float64 { return dp / PaPerInH2O }

// CToK converts degrees Celsius to Kelvin.
func CToK(t float64) float64 { return t + KelvinAtZeroC }

// KToC converts Kelvin to degrees Celsius.
func KToC(t float64) float64 { return t - KelvinAtZeroC }

// FToK converts degrees Fahrenheit to Kelvin.
func FToK(t float64) float64 { return (t-32.0)*5.0/9.0 + KelvinAtZeroC }

// KToF converts Kelvin to degrees Fahrenheit.
func KToF(t float64) float64 { return (t-KelvinAtZeroC)*9.0/5.0 + 32.0 }
