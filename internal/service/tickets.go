package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ticketbot/core/logger"
	"ticketbot/internal/config"
	"ticketbot/internal/model"
	"ticketbot/internal/store"
	"log/slog"
)

// ErrUnknownDepartment is returned when an issue targets a department
// tag that is not configured.
var ErrUnknownDepartment = errors.New("unknown department")

// Tickets implements the intake side of the ticket lifecycle: creating
// tickets and routing their notifications to department group chats.
type Tickets struct {
	store    store.TicketStore
	notifier Notifier
	channels map[string]int64
}

// NewTickets builds the ticket router over the given store, notifier
// and department registry.
func NewTickets(st store.TicketStore, n Notifier, departments []config.Department) *Tickets {
	channels := make(map[string]int64, len(departments))
	for _, d := range departments {
		channels[d.Tag] = d.ChatID
	}
	return &Tickets{store: st, notifier: n, channels: channels}
}

// SubmitIssue creates an open ticket for the user's issue and dispatches
// the structured notification to the department's group chat.
//
// Creation and notification are deliberately independent steps: a
// notification failure is logged but does not roll the ticket back, so
// the returned ticket is always persisted when err is nil.
func (s *Tickets) SubmitIssue(ctx context.Context, userID int64, department, issue string) (*model.Ticket, error) {
	department = strings.ToLower(strings.TrimSpace(department))
	chatID, ok := s.channels[department]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}

	t := &model.Ticket{
		UserID:     userID,
		Department: department,
		Issue:      issue,
		Status:     model.StatusOpen,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	logger.SVCTickets.InfoContext(ctx, "ticket created",
		slog.String("event", "ticket.created"),
		slog.String("ticket_id", t.ID),
		slog.Int64("user_id", t.UserID),
		slog.String("department", t.Department),
	)

	if err := s.notifier.SendTo(ctx, chatID, GroupNotification(t)); err != nil {
		// Ticket stays created; delivery has its own retry path.
		logger.SVCTickets.WarnContext(ctx, "group notification not accepted",
			slog.String("event", "ticket.notify.fail"),
			slog.String("ticket_id", t.ID),
			slog.String("department", t.Department),
			slog.Int64("chat_id", chatID),
			slog.String("err", logger.Sanitize(err.Error())),
		)
	}

	return t, nil
}

// Department reports whether the tag is a configured department.
func (s *Tickets) Department(tag string) bool {
	_, ok := s.channels[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}
