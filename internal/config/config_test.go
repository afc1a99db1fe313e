package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, "CR", cfg.DefaultRegion)
	assert.Equal(t, int64(100), cfg.CommissionPerApprovedCents)
	assert.Equal(t, int64(2500), cfg.MinWithdrawCents)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 30, cfg.SessionTTLMinutes)
	assert.Equal(t, 24, cfg.ReminderAfterHours)
	assert.Empty(t, cfg.AdminIDs)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("ADMIN_USER_IDS", "1, 2,notanid,3")
	t.Setenv("GROUP_CHAT_ID", "-100456")
	t.Setenv("COMMISSION_PER_APPROVED_CENTS", "250")
	t.Setenv("MIN_WITHDRAW_CENTS", "bogus")

	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.Equal(t, "/tmp/test.db", cfg.SQLitePath)
	assert.Equal(t, []int64{1, 2, 3}, cfg.AdminIDs)
	assert.Equal(t, int64(-100456), cfg.GroupChatID)
	assert.Equal(t, int64(250), cfg.CommissionPerApprovedCents)
	// Unparseable values fall back to the default.
	assert.Equal(t, int64(2500), cfg.MinWithdrawCents)
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminIDs: []int64{10, 20}}
	assert.True(t, cfg.IsAdmin(10))
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(30))
}
