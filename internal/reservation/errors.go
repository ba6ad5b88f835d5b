package reservation

import "errors"

// Sentinel errors resolved at the boundary of each lifecycle operation.
// Handlers map them onto HTTP statuses; none of them leave partial writes
// behind (see the compensating delete in Create).
var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrDeadlinePassed   = errors.New("reservation deadline passed")
)
