package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ticketbot/internal/config"
	"ticketbot/internal/model"
	"ticketbot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// memStore is an in-memory TicketStore for service-level tests.
type memStore struct {
	mu      sync.Mutex
	tickets map[string]*model.Ticket
}

func newMemStore() *memStore {
	return &memStore{tickets: make(map[string]*model.Ticket)}
}

func (m *memStore) Create(_ context.Context, t *model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = store.NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	cp := *t
	m.tickets[t.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) Close(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok || t.Status != model.StatusOpen {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	t.Status = model.StatusClosed
	t.ClosedAt = &now
	return nil
}

var testDepartments = []config.Department{
	{Tag: "queries", Label: "🧾 Queries", ChatID: -5212355257},
	{Tag: "payments", Label: "💳 Payment Issues", ChatID: -4632730127},
	{Tag: "tech", Label: "🛠 Technical Support", ChatID: -5129927362},
	{Tag: "others", Label: "📦 Others", ChatID: -1003860208390},
}

func TestSubmitIssueRoutesToDepartmentChannel(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := newMemStore()
	notifier := NewMockNotifier(ctrl)

	var notified string
	notifier.EXPECT().
		SendTo(gomock.Any(), int64(-4632730127), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, text string) error {
			notified = text
			return nil
		}).
		Times(1)

	svc := NewTickets(st, notifier, testDepartments)

	ticket, err := svc.SubmitIssue(context.Background(), 1001, "payments", "card declined twice")
	require.NoError(t, err)
	require.NotNil(t, ticket)

	assert.Len(t, ticket.ID, 8)
	assert.Equal(t, "payments", ticket.Department)
	assert.Equal(t, model.StatusOpen, ticket.Status)

	stored, err := st.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), stored.UserID)
	assert.Equal(t, "card declined twice", stored.Issue)

	assert.Contains(t, notified, "🎫 NEW TICKET")
	assert.Contains(t, notified, "Ticket ID: #"+ticket.ID)
	assert.Contains(t, notified, "User ID: 1001")
	assert.Contains(t, notified, "Department: PAYMENTS")
	assert.Contains(t, notified, "card declined twice")
	assert.Contains(t, notified, "/reply "+ticket.ID)
	assert.Contains(t, notified, "/close "+ticket.ID)
}

func TestSubmitIssueUnknownDepartment(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := newMemStore()
	notifier := NewMockNotifier(ctrl)

	svc := NewTickets(st, notifier, testDepartments)

	ticket, err := svc.SubmitIssue(context.Background(), 1001, "billing", "anything")
	require.ErrorIs(t, err, ErrUnknownDepartment)
	assert.Nil(t, ticket)
	assert.Empty(t, st.tickets)
}

func TestSubmitIssueNotifyFailureKeepsTicket(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := newMemStore()
	notifier := NewMockNotifier(ctrl)

	notifier.EXPECT().
		SendTo(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("queue full")).
		Times(1)

	svc := NewTickets(st, notifier, testDepartments)

	ticket, err := svc.SubmitIssue(context.Background(), 7, "tech", "screen flickers")
	require.NoError(t, err, "delivery failure must not undo creation")
	require.NotNil(t, ticket)

	stored, err := st.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, stored.Status)
}

func TestUserConfirmationCarriesVerificationPair(t *testing.T) {
	ticket := &model.Ticket{ID: "ab12cd34", UserID: 1001}
	text := UserConfirmation(ticket)

	assert.Contains(t, text, "✅ Ticket Created")
	assert.Contains(t, text, "User ID: 1001")
	assert.Contains(t, text, "Ticket ID: #ab12cd34")
}

func TestDepartmentLookup(t *testing.T) {
	svc := NewTickets(newMemStore(), nil, testDepartments)

	assert.True(t, svc.Department("payments"))
	assert.True(t, svc.Department(" PAYMENTS "))
	assert.False(t, svc.Department("billing"))
}
