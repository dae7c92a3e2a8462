package raster

import "errors"

var (
	// ErrDivideByZero is returned when a vertex sits on the camera plane (z == 0).
	ErrDivideByZero = errors.New("raster: vertex has zero depth")

	// ErrNonFinite is returned for NaN or infinite vertex or attribute input.
	ErrNonFinite = errors.New("raster: non-finite input")

	// ErrInvalidViewport is returned for a non-positive width or height.
	ErrInvalidViewport = errors.New("raster: invalid viewport size")

	// ErrAttributeSize is returned when the three attributes are empty or
	// differ in length.
	ErrAttributeSize = errors.New("raster: attribute size mismatch")

	// ErrDegenerateTriangle reports a zero-area triangle. Rasterization does
	// not return it: such a triangle simply covers no pixels.
	ErrDegenerateTriangle = errors.New("raster: degenerate triangle")
)
