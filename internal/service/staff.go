package service

import (
	"context"
	"errors"
	"fmt"

	"ticketbot/core/logger"
	"ticketbot/internal/store"
	"log/slog"
)

// ErrTicketClosed is returned when a staff operation targets a ticket
// that is no longer open.
var ErrTicketClosed = errors.New("ticket already closed")

// Staff implements the staff-facing side of the ticket lifecycle:
// relaying replies to ticket owners and closing tickets.
type Staff struct {
	store    store.TicketStore
	notifier Notifier
}

// NewStaff builds the staff command dispatcher.
func NewStaff(st store.TicketStore, n Notifier) *Staff {
	return &Staff{store: st, notifier: n}
}

// Reply relays message to the owner of an open ticket, tagged with the
// ticket id. Returns store.ErrNotFound for an unknown ticket and
// ErrTicketClosed for a closed one; callers decide whether those are
// surfaced or swallowed.
func (s *Staff) Reply(ctx context.Context, ticketID, message string) error {
	t, err := s.store.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	if !t.IsOpen() {
		return fmt.Errorf("%w: %s", ErrTicketClosed, ticketID)
	}

	if err := s.notifier.SendTo(ctx, t.UserID, StaffReply(ticketID, message)); err != nil {
		return fmt.Errorf("relay reply: %w", err)
	}

	logger.SVCStaff.InfoContext(ctx, "reply relayed",
		slog.String("event", "staff.reply"),
		slog.String("ticket_id", ticketID),
		slog.Int64("user_id", t.UserID),
	)
	return nil
}

// Close transitions an open ticket to closed and notifies its owner.
// Closing is idempotent at the caller level: a missing ticket yields
// store.ErrNotFound, an already-closed one ErrTicketClosed, and in
// neither case is a notice sent.
func (s *Staff) Close(ctx context.Context, ticketID string) error {
	t, err := s.store.Get(ctx, ticketID)
	if err != nil {
		return err
	}
	if !t.IsOpen() {
		return fmt.Errorf("%w: %s", ErrTicketClosed, ticketID)
	}

	if err := s.store.Close(ctx, ticketID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost the race against a concurrent close.
			return fmt.Errorf("%w: %s", ErrTicketClosed, ticketID)
		}
		return err
	}

	logger.SVCStaff.InfoContext(ctx, "ticket closed",
		slog.String("event", "staff.close"),
		slog.String("ticket_id", ticketID),
		slog.Int64("user_id", t.UserID),
	)

	if err := s.notifier.SendTo(ctx, t.UserID, ClosureNotice(ticketID)); err != nil {
		logger.SVCStaff.WarnContext(ctx, "closure notice not accepted",
			slog.String("event", "staff.close.notify.fail"),
			slog.String("ticket_id", ticketID),
			slog.Int64("user_id", t.UserID),
			slog.String("err", logger.Sanitize(err.Error())),
		)
	}
	return nil
}
