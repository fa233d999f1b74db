package board

import "errors"

// Error kinds, selectable with errors.Is. Callers that need to distinguish
// a malformed input from an algorithmic dead end match on these sentinels;
// the wrapped message carries the detail.
var (
	// ErrValidation marks malformed input: non-rectangular grids, empty
	// masks, bad hex colors, out-of-range palette indices.
	ErrValidation = errors.New("validation")

	// ErrInfeasible marks inputs for which an algorithm cannot produce a
	// result, such as a derangement with a dominant color.
	ErrInfeasible = errors.New("infeasible")

	// ErrInternal marks a post-condition violation. Seeing it means a bug.
	ErrInternal = errors.New("internal error")
)
