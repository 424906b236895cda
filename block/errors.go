package block

import "errors"

var (
	// ErrInvalidNumTypes is returned when a model is configured with fewer
	// than one group.
	ErrInvalidNumTypes = errors.New("must have at least one type")

	// ErrNotSymmetric is returned when an externally supplied probability
	// matrix is not symmetric.
	ErrNotSymmetric = errors.New("probability matrix must be symmetric")

	// ErrDimensionMismatch is returned when a supplied matrix does not match
	// the number of types of the model.
	ErrDimensionMismatch = errors.New("matrix dimensions do not match the number of types")

	// ErrProbabilityRange is returned when a supplied probability lies
	// outside [0, 1].
	ErrProbabilityRange = errors.New("probabilities must lie in [0, 1]")

	// ErrBound is returned when probabilities are supplied to a model that
	// derives them from a graph.
	ErrBound = errors.New("model is bound to a graph; probabilities are derived from edge counts")

	// ErrNoGraph is returned by operations that need a bound graph.
	ErrNoGraph = errors.New("model is not bound to a graph")

	// ErrTypeOutOfRange is returned when a type index is outside [0, numTypes).
	ErrTypeOutOfRange = errors.New("type index out of range")

	// ErrLengthMismatch is returned when a type vector does not have one
	// entry per vertex.
	ErrLengthMismatch = errors.New("type vector length does not match vertex count")

	// ErrKindMismatch is returned when assigning between different model kinds.
	ErrKindMismatch = errors.New("cannot assign between different model kinds")
)
