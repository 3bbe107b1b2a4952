package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// AddParticipant registers a new participant and returns the stored
// record with its assigned ID.
func (l *Ledger) AddParticipant(name string) (models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Participant{}, ErrEmptyName
	}

	p := models.Participant{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	l.participants[p.ID] = &p
	l.participantOrder = append(l.participantOrder, p.ID)
	return p, nil
}

// RenameParticipant changes the display name. Identity and historical
// expense references are untouched.
func (l *Ledger) RenameParticipant(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p, ok := l.participants[id]
	if !ok {
		return fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	p.Name = name
	return nil
}

// ArchiveParticipant soft-removes a participant. Archiving is always
// permitted: historical expenses keep referencing the ID and the
// participant keeps their balance. Archiving twice is a no-op.
func (l *Ledger) ArchiveParticipant(id string) error {
	p, ok := l.participants[id]
	if !ok {
		return fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	p.Archived = true
	return nil
}

// RemoveParticipant hard-deletes a participant. It succeeds only
// while no expense references the ID; otherwise it fails with
// ErrParticipantInUse so ledger history can never dangle. Archive is
// the operation for participants with history.
func (l *Ledger) RemoveParticipant(id string) error {
	if _, ok := l.participants[id]; !ok {
		return fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	if l.referencesParticipant(id) {
		return fmt.Errorf("participant %s: %w", id, ErrParticipantInUse)
	}
	delete(l.participants, id)
	for i, pid := range l.participantOrder {
		if pid == id {
			l.participantOrder = append(l.participantOrder[:i], l.participantOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Participant returns a copy of the participant with the given ID.
func (l *Ledger) Participant(id string) (models.Participant, error) {
	p, ok := l.participants[id]
	if !ok {
		return models.Participant{}, fmt.Errorf("participant %s: %w", id, ErrNotFound)
	}
	return *p, nil
}

// Participants returns copies of all participants in registration
// order, archived ones included.
func (l *Ledger) Participants() []models.Participant {
	out := make([]models.Participant, 0, len(l.participantOrder))
	for _, id := range l.participantOrder {
		out = append(out, *l.participants[id])
	}
	return out
}
