package session

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// State is the intake conversation state for a single user.
type State string

const (
	// StateIdle means no department is on record for the user.
	StateIdle State = "idle"
	// StateAwaitingIssue means a department was chosen and the next
	// free-text message is treated as the issue description.
	StateAwaitingIssue State = "awaiting_issue"
)

// Manager tracks per-user intake state: which department a user picked
// while the bot waits for their issue description. Entries expire after
// a fixed TTL counted from the selection, so abandoned conversations do
// not linger.
type Manager struct {
	cache *ttlcache.Cache[int64, string]
}

// NewManager builds a manager whose selections live for ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		cache: ttlcache.New(
			ttlcache.WithTTL[int64, string](ttl),
			ttlcache.WithDisableTouchOnHit[int64, string](),
		),
	}
}

// Start launches background expiry. Call once; pair with Stop.
func (m *Manager) Start() {
	go m.cache.Start()
}

// Stop terminates background expiry.
func (m *Manager) Stop() {
	m.cache.Stop()
}

// Select records the department a user picked. A new selection
// overwrites any previous one and restarts the TTL.
func (m *Manager) Select(userID int64, department string) {
	m.cache.Set(userID, department, ttlcache.DefaultTTL)
}

// PendingDepartment returns the active selection without consuming it.
func (m *Manager) PendingDepartment(userID int64) (string, bool) {
	item := m.cache.Get(userID)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

// Consume returns the active selection and clears it, completing the
// intake conversation.
func (m *Manager) Consume(userID int64) (string, bool) {
	dept, ok := m.PendingDepartment(userID)
	if ok {
		m.cache.Delete(userID)
	}
	return dept, ok
}

// Clear drops any selection for the user.
func (m *Manager) Clear(userID int64) {
	m.cache.Delete(userID)
}

// State returns the user's current conversation state.
func (m *Manager) State(userID int64) State {
	if _, ok := m.PendingDepartment(userID); ok {
		return StateAwaitingIssue
	}
	return StateIdle
}

// InProgress reports whether the user has a pending selection, i.e.
// the next text message from them is an issue description.
func (m *Manager) InProgress(userID int64) bool {
	return m.State(userID) == StateAwaitingIssue
}
