package store

import (
	"context"
	"errors"

	"ticketbot/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a ticket id does not match any stored
// ticket, or when an update targets a ticket that is no longer open.
var ErrNotFound = errors.New("ticket not found")

// TicketStore persists tickets. Implementations must be safe for
// concurrent use.
type TicketStore interface {
	// Create persists a new open ticket. The implementation assigns a
	// fresh ID when t.ID is empty and retries on id collisions.
	Create(ctx context.Context, t *model.Ticket) error

	// Get fetches a ticket by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*model.Ticket, error)

	// Close transitions an open ticket to closed. Returns ErrNotFound
	// when the ticket is absent or already closed.
	Close(ctx context.Context, id string) error
}

// NewID generates a short ticket identifier: the first eight hex
// characters of a random UUID. Collisions are possible and handled at
// insert time.
func NewID() string {
	return uuid.NewString()[:8]
}

// createAttempts bounds id regeneration on collision.
const createAttempts = 3
