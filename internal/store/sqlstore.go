package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ticketbot/core/logger"
	"ticketbot/internal/model"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// SQLStore persists tickets in a relational database through sqlx.
// Works against both PostgreSQL and SQLite; placeholders are rebound
// per driver.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an already-connected database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, t *model.Ticket) error {
	if t == nil {
		return fmt.Errorf("sqlstore: nil ticket")
	}
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	query := s.db.Rebind(`
		INSERT INTO tickets (ticket_id, user_id, department, status, issue, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	assigned := t.ID == ""
	for attempt := 1; ; attempt++ {
		if assigned {
			t.ID = NewID()
		}
		_, err := s.db.ExecContext(ctx, query,
			t.ID, t.UserID, t.Department, t.Status, t.Issue, t.CreatedAt)
		if err == nil {
			return nil
		}
		if !assigned || !isUniqueViolation(err) || attempt >= createAttempts {
			return fmt.Errorf("sqlstore: insert ticket: %w", err)
		}
		logger.DB.Warn("ticket id collision",
			slog.String("event", "ticket.id_collision"),
			slog.String("ticket_id", t.ID),
			slog.Int("attempt", attempt),
		)
	}
}

func (s *SQLStore) Get(ctx context.Context, id string) (*model.Ticket, error) {
	query := s.db.Rebind(`
		SELECT ticket_id, user_id, department, status, issue, created_at, closed_at
		FROM tickets WHERE ticket_id = ?`)

	var t model.Ticket
	if err := s.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("sqlstore: select ticket: %w", err)
	}
	return &t, nil
}

func (s *SQLStore) Close(ctx context.Context, id string) error {
	query := s.db.Rebind(`
		UPDATE tickets SET status = ?, closed_at = ?
		WHERE ticket_id = ? AND status = ?`)

	res, err := s.db.ExecContext(ctx, query,
		model.StatusClosed, time.Now().UTC(), id, model.StatusOpen)
	if err != nil {
		return fmt.Errorf("sqlstore: close ticket: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: close ticket: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
