package usecase

import (
	"errors"
	"fmt"

	"github.com/iho/fintrack/internal/domain"
)

var (
	// ErrMutationInFlight signals that another mutation for the same entry
	// id has not finished yet.
	ErrMutationInFlight = errors.New("a mutation for this entry is already in flight")

	// ErrNothingToCancel signals that a series has no pending entries left.
	ErrNothingToCancel = errors.New("series has no pending installments")
)

// PartialCreateError reports a series persistence that stopped partway:
// entries up to the failed position were written and remain visible on the
// remote store; nothing was rolled back. The caller decides whether to
// retry the remainder or clean up the created entries.
type PartialCreateError struct {
	Err            error
	SeriesID       string
	Created        []*domain.LedgerEntry
	FailedPosition int
}

func (e *PartialCreateError) Error() string {
	return fmt.Sprintf("series %s: installment %d failed after %d of its siblings were persisted: %v",
		e.SeriesID, e.FailedPosition, len(e.Created), e.Err)
}

func (e *PartialCreateError) Unwrap() error {
	return e.Err
}

// CancelError reports which entries of a series could not be cancelled.
type CancelError struct {
	SeriesID string
	Failed   map[string]error
}

func (e *CancelError) Error() string {
	return fmt.Sprintf("series %s: failed to cancel %d entries", e.SeriesID, len(e.Failed))
}
