package spiral

import "math"

// Phi is the fractional part of the golden ratio.
var Phi = (math.Sqrt(5)+1)/2 - 1

const (
	twoPi     = 2 * math.Pi
	minRadius = 0.5
)

// Point is one rendered seed in viewport coordinates.
type Point struct {
	X, Y, R float64
}

// Angle is the polar angle of seed i.
func Angle(i int, rotation float64) float64 {
	return float64(i)*twoPi*Phi + rotation
}

// Distance is the radial distance of seed i from the center.
func Distance(i int, scaleFactor float64) float64 {
	return math.Sqrt(float64(i)) * scaleFactor
}

// PulseFactor maps a pulsation phase and a center distance into [0, 1].
func PulseFactor(pulsation, distanceFromCenter float64) float64 {
	return math.Sin(pulsation-distanceFromCenter*0.05)*0.5 + 0.5
}

// Dissipation is the radial falloff toward the viewport edge. Seeds at or
// beyond maxDistance dissipate completely.
func Dissipation(distanceFromCenter, maxDistance float64) float64 {
	if maxDistance <= 0 {
		return 0
	}
	d := math.Max(0, 1-distanceFromCenter/maxDistance)
	return d * d
}

// Radius is the drawn radius of a seed, never below 0.5.
func Radius(bassIntensity, pulseFactor, dissipation float64) float64 {
	bassScale := (1 + bassIntensity*28.8) * pulseFactor
	return math.Max(minRadius, bassScale*dissipation*1.2)
}

// wrap keeps an angle in [0, 2π).
func wrap(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		return 0
	}
	return a
}
