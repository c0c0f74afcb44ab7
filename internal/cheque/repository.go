package cheque

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no cheque has the given id.
var ErrNotFound = errors.New("cheque not found")

// Filter narrows a List call. Zero fields match everything.
type Filter struct {
	Status Status
	Branch string
	// HasGoogleEvent limits results to cheques with a synced event.
	HasGoogleEvent bool
}

// Matches reports whether c passes the filter.
func (f Filter) Matches(c *Cheque) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Branch != "" && c.Branch != f.Branch {
		return false
	}
	if f.HasGoogleEvent && c.GoogleEventID == "" {
		return false
	}
	return true
}

// Repository persists cheques. Reminder fields are stored and returned
// exactly as given; repositories never recompute them.
type Repository interface {
	Create(ctx context.Context, c *Cheque) error
	Get(ctx context.Context, id uuid.UUID) (*Cheque, error)
	// List returns matching cheques, newest first.
	List(ctx context.Context, f Filter) ([]*Cheque, error)
	Update(ctx context.Context, c *Cheque) error
	Delete(ctx context.Context, id uuid.UUID) error
}
