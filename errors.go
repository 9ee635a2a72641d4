package gravimod

import "errors"

// Validation errors returned by the forward drivers. They are raised
// at the entry points before any computation; numerical degeneracies
// (coincident points, zero-thickness prisms) are never errors and
// propagate through the arithmetic as IEEE-754 values instead.
var (
	// ErrUnsupportedField indicates a field that the chosen driver or
	// coordinate system cannot compute.
	ErrUnsupportedField = errors.New("unsupported gravitational field")

	// ErrUnsupportedCoordinateSystem indicates an unrecognized
	// coordinate system tag.
	ErrUnsupportedCoordinateSystem = errors.New("unsupported coordinate system")

	// ErrNonUniformGrid indicates grid center coordinates that are not
	// evenly spaced.
	ErrNonUniformGrid = errors.New("grid coordinates are not evenly spaced")

	// ErrShapeMismatch indicates incompatible array lengths or grid
	// dimensions.
	ErrShapeMismatch = errors.New("array shape mismatch")
)
