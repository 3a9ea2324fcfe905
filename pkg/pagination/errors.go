package pagination

import (
	"errors"
	"fmt"
)

// ErrRunInProgress is returned when FetchAll is called on a coordinator
// that is already running.
var ErrRunInProgress = errors.New("fetch run already in progress")

// InconsistentPaginationError reports pagination metadata that is absent,
// nonsensical, or drifts between pages of the same run.
type InconsistentPaginationError struct {
	Page   int
	Reason string
}

// Error implements the error interface.
func (e *InconsistentPaginationError) Error() string {
	return fmt.Sprintf("inconsistent pagination on page %d: %s", e.Page, e.Reason)
}
