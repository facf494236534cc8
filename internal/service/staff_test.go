package service

import (
	"context"
	"testing"

	"ticketbot/internal/model"
	"ticketbot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func seedTicket(t *testing.T, st *memStore, status model.Status) *model.Ticket {
	t.Helper()
	ticket := &model.Ticket{
		ID:         "ab12cd34",
		UserID:     1001,
		Department: "tech",
		Status:     status,
		Issue:      "screen flickers",
	}
	require.NoError(t, st.Create(context.Background(), ticket))
	return ticket
}

func TestReplyRelaysToTicketOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := newMemStore()
	seedTicket(t, st, model.StatusOpen)
	notifier := NewMockNotifier(ctrl)

	notifier.EXPECT().
		SendTo(gomock.Any(), int64(1001), "📩 Support Reply (Ticket #ab12cd34):\n\nplease update the driver").
		Return(nil).
		Times(1)

	svc := NewStaff(st, notifier)
	err := svc.Reply(context.Background(), "ab12cd34", "please update the driver")
	require.NoError(t, err)
}

func TestReplyMissingTicket(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := newMemStore()
	notifier := NewMockNotifier(ctrl)

	svc := NewStaff(st, notifier)
	err := svc.Reply(context.Background(), "deadbeef", "hello")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReplyClosedTicket(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := newMemStore()
	seedTicket(t, st, model.StatusClosed)
	notifier := NewMockNotifier(ctrl)

	svc := NewStaff(st, notifier)
	err := svc.Reply(context.Background(), "ab12cd34", "hello")
	assert.ErrorIs(t, err, ErrTicketClosed)
}

func TestCloseNotifiesOwnerOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := newMemStore()
	seedTicket(t, st, model.StatusOpen)
	notifier := NewMockNotifier(ctrl)

	notifier.EXPECT().
		SendTo(gomock.Any(), int64(1001), "✅ Your ticket #ab12cd34 has been closed.").
		Return(nil).
		Times(1)

	svc := NewStaff(st, notifier)

	require.NoError(t, svc.Close(context.Background(), "ab12cd34"))

	stored, err := st.Get(context.Background(), "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, stored.Status)
	require.NotNil(t, stored.ClosedAt)

	// Second close is a no-op: no second notice, typed error for the caller.
	err = svc.Close(context.Background(), "ab12cd34")
	assert.ErrorIs(t, err, ErrTicketClosed)
}

func TestCloseMissingTicket(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := newMemStore()
	notifier := NewMockNotifier(ctrl)

	svc := NewStaff(st, notifier)
	err := svc.Close(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
