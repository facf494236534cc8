package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Core.Telegram.Token = "123456:test-token"
	cfg.Departments = []Department{
		{Tag: "payments", Label: "💳 Payment Issues", ChatID: -4632730127},
	}
	return cfg
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, 30, cfg.Session.TTLMinutes)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL())
	assert.Equal(t, "longpoll", cfg.Core.Telegram.RunMode)
}

func TestNormalizeRequiresDepartments(t *testing.T) {
	cfg := validConfig()
	cfg.Departments = nil

	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "department")
}

func TestNormalizeRejectsDuplicateTags(t *testing.T) {
	cfg := validConfig()
	cfg.Departments = append(cfg.Departments,
		Department{Tag: "Payments", Label: "dup", ChatID: -1})

	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNormalizeCanonicalizesTags(t *testing.T) {
	cfg := validConfig()
	cfg.Departments[0].Tag = "  PayMents "

	require.NoError(t, Normalize(cfg))
	assert.Equal(t, "payments", cfg.Departments[0].Tag)
}

func TestNormalizeRejectsMissingChatID(t *testing.T) {
	cfg := validConfig()
	cfg.Departments[0].ChatID = 0

	err := Normalize(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat_id")
}

func TestDepartmentLookup(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	d, ok := cfg.Department("payments")
	require.True(t, ok)
	assert.Equal(t, int64(-4632730127), d.ChatID)

	_, ok = cfg.Department("billing")
	assert.False(t, ok)
}
