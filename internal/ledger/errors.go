package ledger

import "errors"

var (
	// ErrNotFound is returned when an expense or participant ID does
	// not exist in the ledger.
	ErrNotFound = errors.New("not found")

	// ErrEmptyName rejects blank participant names.
	ErrEmptyName = errors.New("participant name must not be empty")

	// ErrEmptyDescription rejects blank expense descriptions.
	ErrEmptyDescription = errors.New("expense description must not be empty")

	// ErrNonPositiveAmount rejects expense totals that are zero or
	// negative.
	ErrNonPositiveAmount = errors.New("total amount must be positive")

	// ErrUnknownParticipant is returned when an expense references a
	// participant ID that was never registered.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrArchivedParticipant is returned when a new or edited expense
	// references an archived participant. Historical expenses keep
	// their archived references.
	ErrArchivedParticipant = errors.New("participant is archived")

	// ErrParticipantInUse is returned by Remove while expenses still
	// reference the participant. Archive instead.
	ErrParticipantInUse = errors.New("participant is referenced by expenses and cannot be deleted")
)
