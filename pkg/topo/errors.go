package topo

import "errors"

var (
	// ErrPrecondition is returned when an operation is driven with the wrong
	// kind of entity or with topology that violates its contract.
	ErrPrecondition = errors.New("precondition violated")

	// ErrDegenerate is returned for geometric input the kernel does not
	// understand, such as an ellipse arc with no endpoint on its major axis.
	ErrDegenerate = errors.New("degenerate geometry")

	// ErrMalformedLoop is returned when a loop's uses do not form one simple
	// cycle.
	ErrMalformedLoop = errors.New("malformed loop")

	// ErrNotFound is returned for IDs that name no entity.
	ErrNotFound = errors.New("entity not found")
)
