// Package models holds the plain data types shared between the GeoBioTool
// packages.
package models

// Point is a single point-cloud return with planimetric position and height.
type Point struct {
	// X is the easting coordinate in the units of the source data (meters).
	X float64

	// Y is the northing coordinate.
	Y float64

	// Z is the height above the reference surface.
	Z float64
}

// OptFloat is a float64 that may be absent. Per-cell metrics whose
// mathematical precondition fails (zero mean, no qualifying points) are
// absent rather than zero: zero is a legitimate metric value and the two
// must stay distinguishable all the way to the output sinks.
type OptFloat struct {
	Value float64
	Valid bool
}

// Of wraps a present value.
func Of(v float64) OptFloat {
	return OptFloat{Value: v, Valid: true}
}
