package domain

const (
	cmPerInch = 2.54
	kgToLb    = 2.2046226218
)

// ToInches converts centimetres to inches.
func ToInches(cm float64) float64 { return cm / cmPerInch }

// ToCm converts inches to centimetres.
func ToCm(in float64) float64 { return in * cmPerInch }

// ConvertLength converts a linear value between "cm" and "in".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertLength(v float64, from, to Unit) float64 {
	if from == to {
		return v
	}
	if from == UnitCm && to == UnitIn {
		return ToInches(v)
	}
	if from == UnitIn && to == UnitCm {
		return ToCm(v)
	}
	return v
}

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == "kg" && to == "lb" {
		return v * kgToLb
	}
	if from == "lb" && to == "kg" {
		return v / kgToLb
	}
	return v
}
