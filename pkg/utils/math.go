package utils

import "math"

// RoundDecimal rounds a float64 value to the specified number of decimal places,
// halves going to the even neighbour. For example, RoundDecimal(3.14159, 2) returns 3.14.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.RoundToEven(value*pow) / pow
}

// IntOrZero dereferences an optional counter, clamping missing and negative values to 0.
func IntOrZero(v *int) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return float64(*v)
}
