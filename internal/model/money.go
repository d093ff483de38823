package model

import "math"

// Money is held as integer paise everywhere inside the service. Rupee floats
// exist only at the JSON boundary.

func RupeesToPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}

func PaiseToRupees(paise int64) float64 {
	return float64(paise) / 100
}
