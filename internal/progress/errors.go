package progress

import "errors"

// Domain rule violations raised by the transition functions. The API layer
// maps these to 4xx responses with errors.Is.
var (
	ErrOutOfRange          = errors.New("week/day outside the plan shape")
	ErrInvalidDuration     = errors.New("duration must be at least 1 minute")
	ErrInvalidDifficulty   = errors.New("unknown difficulty level")
	ErrDuplicateCompletion = errors.New("day already completed")
	ErrRatingOutOfRange    = errors.New("rating must be between 1 and 5")
)
