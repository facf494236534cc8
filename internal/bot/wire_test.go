package bot

import (
	"testing"
	"time"

	"ticketbot/internal/config"
	"ticketbot/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandlers() *Handlers {
	cfg := &config.Config{
		Departments: []config.Department{
			{Tag: "payments", Label: "💳 Payment Issues", ChatID: -4632730127},
		},
	}
	return NewHandlers(cfg, session.NewManager(time.Minute), nil, nil)
}

func TestBuildRegistryCommands(t *testing.T) {
	reg := BuildRegistry(testHandlers())

	for _, name := range []string{"/start", "/help", "/reply", "/close"} {
		_, _, ok := reg.LookupCommand(name)
		assert.True(t, ok, "command %s must be registered", name)
	}

	// Staff commands stay out of the public command list.
	visible := reg.ListCommands(true)
	names := make([]string, 0, len(visible))
	for _, c := range visible {
		names = append(names, c.Text)
	}
	assert.NotContains(t, names, "reply")
	assert.NotContains(t, names, "close")
	assert.Contains(t, names, "start")
}

func TestBuildRegistryDepartmentCallback(t *testing.T) {
	reg := BuildRegistry(testHandlers())

	h, ok := reg.GetCallback(deptCallbackKey)
	require.True(t, ok)
	assert.NotNil(t, h)
}

func TestRoutesCoverAllEndpoints(t *testing.T) {
	h := testHandlers()
	reg := BuildRegistry(h)

	routes := Routes(reg, h, session.NewManager(time.Minute))

	// Four commands plus the callback and text routers.
	assert.Len(t, routes, 6)
}
