package store

import (
	"context"
	"testing"

	"ticketbot/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE tickets (
    ticket_id  TEXT PRIMARY KEY,
    user_id    BIGINT NOT NULL,
    department TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'open',
    issue      TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    closed_at  TIMESTAMP
)`

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return NewSQLStore(db)
}

func TestCreateAssignsShortID(t *testing.T) {
	s := newTestStore(t)

	ticket := &model.Ticket{
		UserID:     1001,
		Department: "payments",
		Issue:      "card declined twice",
	}
	require.NoError(t, s.Create(context.Background(), ticket))

	assert.Len(t, ticket.ID, 8)
	assert.Equal(t, model.StatusOpen, ticket.Status)
	assert.False(t, ticket.CreatedAt.IsZero())
}

func TestCreateDuplicateExplicitID(t *testing.T) {
	s := newTestStore(t)

	first := &model.Ticket{ID: "ab12cd34", UserID: 1, Department: "tech", Issue: "a"}
	require.NoError(t, s.Create(context.Background(), first))

	// Caller-provided ids are not regenerated on conflict.
	dup := &model.Ticket{ID: "ab12cd34", UserID: 2, Department: "tech", Issue: "b"}
	err := s.Create(context.Background(), dup)
	require.Error(t, err)
}

func TestGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	ticket := &model.Ticket{
		UserID:     1001,
		Department: "tech",
		Issue:      "screen flickers",
	}
	require.NoError(t, s.Create(context.Background(), ticket))

	got, err := s.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
	assert.Equal(t, int64(1001), got.UserID)
	assert.Equal(t, "tech", got.Department)
	assert.Equal(t, model.StatusOpen, got.Status)
	assert.Equal(t, "screen flickers", got.Issue)
	assert.Nil(t, got.ClosedAt)
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseTransitionsOnce(t *testing.T) {
	s := newTestStore(t)

	ticket := &model.Ticket{UserID: 1, Department: "others", Issue: "misc"}
	require.NoError(t, s.Create(context.Background(), ticket))

	require.NoError(t, s.Close(context.Background(), ticket.ID))

	got, err := s.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, got.Status)
	require.NotNil(t, got.ClosedAt)

	// Already closed: no row matches the open predicate.
	err = s.Close(context.Background(), ticket.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.Close(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewIDShape(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Len(t, id, 8)
		assert.NotContains(t, id, "-")
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 90, "ids should be effectively unique")
}
