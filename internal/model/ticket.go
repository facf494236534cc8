package model

import "time"

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Ticket is a single support request routed to a department group chat.
// ID is a short opaque token shared with both the user and the staff group.
type Ticket struct {
	ID         string     `db:"ticket_id"`
	UserID     int64      `db:"user_id"`
	Department string     `db:"department"`
	Status     Status     `db:"status"`
	Issue      string     `db:"issue"`
	CreatedAt  time.Time  `db:"created_at"`
	ClosedAt   *time.Time `db:"closed_at"`
}

// IsOpen reports whether the ticket still accepts staff replies.
func (t *Ticket) IsOpen() bool {
	return t.Status == StatusOpen
}
