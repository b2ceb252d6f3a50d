package antenna

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultScanPoints is the size of the scan grid used by the simulator.
const DefaultScanPoints = 360

// ScanGrid returns n evenly spaced angles covering [-pi/2, pi/2], both ends
// included. n == 1 yields broadside only.
func ScanGrid(n int) []float64 {
	return Linspace(-math.Pi/2, math.Pi/2, n)
}

// Linspace returns n evenly spaced points over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

func Radian(degree float64) float64 {
	return degree * math.Pi / 180.0
}

func ToDegree(radian float64) float64 {
	return radian * 180.0 / math.Pi
}

// Degrees converts a slice of radians to degrees.
func Degrees(radians []float64) []float64 {
	result := make([]float64, len(radians))
	for i, r := range radians {
		result[i] = ToDegree(r)
	}
	return result
}
