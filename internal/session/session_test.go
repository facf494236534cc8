package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectAndConsume(t *testing.T) {
	m := NewManager(time.Minute)

	assert.Equal(t, StateIdle, m.State(42))

	m.Select(42, "payments")
	assert.True(t, m.InProgress(42))
	assert.Equal(t, StateAwaitingIssue, m.State(42))

	dept, ok := m.PendingDepartment(42)
	require.True(t, ok)
	assert.Equal(t, "payments", dept)
	assert.True(t, m.InProgress(42), "peek must not consume")

	dept, ok = m.Consume(42)
	require.True(t, ok)
	assert.Equal(t, "payments", dept)
	assert.False(t, m.InProgress(42))

	_, ok = m.Consume(42)
	assert.False(t, ok)
}

func TestSelectOverwritesPrevious(t *testing.T) {
	m := NewManager(time.Minute)

	m.Select(7, "queries")
	m.Select(7, "tech")

	dept, ok := m.Consume(7)
	require.True(t, ok)
	assert.Equal(t, "tech", dept)
}

func TestClear(t *testing.T) {
	m := NewManager(time.Minute)

	m.Select(7, "others")
	m.Clear(7)

	assert.False(t, m.InProgress(7))
	_, ok := m.PendingDepartment(7)
	assert.False(t, ok)
}

func TestUsersAreIsolated(t *testing.T) {
	m := NewManager(time.Minute)

	m.Select(1, "tech")
	m.Select(2, "payments")

	dept, ok := m.Consume(1)
	require.True(t, ok)
	assert.Equal(t, "tech", dept)
	assert.True(t, m.InProgress(2))
}

func TestSelectionExpires(t *testing.T) {
	m := NewManager(20 * time.Millisecond)
	m.Start()
	defer m.Stop()

	m.Select(9, "queries")
	require.True(t, m.InProgress(9))

	time.Sleep(60 * time.Millisecond)
	assert.False(t, m.InProgress(9))
}
