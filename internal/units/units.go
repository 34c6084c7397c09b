// Package units defines the measurement units shared across the atmosphere model.
//
// All lengths in the model are expressed in kilometres (the builder length
// unit), magnetic flux densities in tesla, temperatures in kelvin and
// densities in kg/m³. Input files use kilometres and nanotesla; the loaders
// normalise them with the constants below.
package units

// Length constants, expressed in kilometres.
const (
	Kilometer  = 1.0
	Meter      = 1e-3 * Kilometer
	Millimeter = 1e-6 * Kilometer
)

// Magnetic flux density constants, expressed in tesla.
const (
	Tesla     = 1.0
	Nanotesla = 1e-9 * Tesla
)

// KilometersToMillimeters converts a length from the builder unit to millimetres.
func KilometersToMillimeters(km float64) float64 {
	return km / Millimeter
}

// MillimetersToKilometers converts a length in millimetres to the builder unit.
func MillimetersToKilometers(mm float64) float64 {
	return mm * Millimeter
}

// NanoteslaToTesla converts a field intensity from nanotesla to tesla.
func NanoteslaToTesla(nt float64) float64 {
	return nt * Nanotesla
}
