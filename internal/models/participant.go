package models

// Participant represents one person in a ledger.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	// It is immutable once created; expenses reference it forever.
	ID string

	// Name is the display name. Renaming never affects identity or
	// historical expense references.
	Name string

	// Archived marks a participant as soft-removed. Archived
	// participants keep their historical balances but cannot be
	// added to new or edited expenses.
	Archived bool

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64
}
