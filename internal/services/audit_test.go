package services

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndList(t *testing.T) {
	ts := setupTest(t)
	user := createTestUser(t, ts, "alice@src.local", "correct-horse", rbac.RoleMember)

	ts.securityLog.Record(&user.ID, EventLoginSuccess, "successful login", testIP, SeverityLow)
	ts.securityLog.Record(nil, EventIPBlocked, "blocked probe", "198.51.100.1", SeverityHigh)

	entries, err := ts.securityLog.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, EventIPBlocked, entries[0].EventType)
	assert.Nil(t, entries[0].UserID)
	assert.Equal(t, EventLoginSuccess, entries[1].EventType)
	require.NotNil(t, entries[1].UserID)
	assert.Equal(t, user.ID, *entries[1].UserID)
}

func TestExportCSV(t *testing.T) {
	ts := setupTest(t)
	user := createTestUser(t, ts, "alice@src.local", "correct-horse", rbac.RoleMember)

	ts.securityLog.Record(&user.ID, EventLoginSuccess, "successful login", testIP, SeverityLow)
	ts.securityLog.Record(nil, EventIPBlocked, "blocked probe", "198.51.100.1", SeverityHigh)

	var buf strings.Builder
	require.NoError(t, ts.securityLog.ExportCSV(&buf, 7))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Date", "Time", "User", "Event Type", "Description", "IP Address", "Severity"}, records[0])

	// Newest first under the header
	assert.Equal(t, "system", records[1][2])
	assert.Equal(t, EventIPBlocked, records[1][3])
	assert.Equal(t, "alice@src.local", records[2][2])
	assert.Equal(t, SeverityLow, records[2][6])
}

func TestExportCSVWindow(t *testing.T) {
	ts := setupTest(t)

	ts.securityLog.Record(nil, EventIPBlocked, "recent", testIP, SeverityHigh)

	// Backdate one entry beyond the export window
	var entry models.SecurityLog
	require.NoError(t, models.DB.First(&entry).Error)
	require.NoError(t, models.DB.Exec(
		"UPDATE security_logs SET created_at = datetime('now', '-40 days') WHERE id = ?", entry.ID).Error)
	ts.securityLog.Record(nil, EventIPBlocked, "fresh", testIP, SeverityHigh)

	var buf strings.Builder
	require.NoError(t, ts.securityLog.ExportCSV(&buf, 30))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "fresh", records[1][4])
}

func TestSettingsSeedAndUpdate(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)

	require.NoError(t, ts.settings.SeedDefaults())
	// Re-seeding keeps existing values
	require.NoError(t, ts.settings.SeedDefaults())

	assert.Equal(t, 5, ts.settings.GetInt(SettingMaxLoginAttempts, 99))
	assert.False(t, ts.settings.GetBool(SettingEnableIPWhitelist, true))

	require.NoError(t, ts.settings.Set(SettingMaxLoginAttempts, "3", admin.ID))
	assert.Equal(t, 3, ts.settings.GetInt(SettingMaxLoginAttempts, 99))

	// Re-seeding still keeps the edited value
	require.NoError(t, ts.settings.SeedDefaults())
	assert.Equal(t, 3, ts.settings.GetInt(SettingMaxLoginAttempts, 99))

	assert.ErrorIs(t, ts.settings.Set("no_such_key", "1", admin.ID), ErrSettingNotFound)
	assert.ErrorIs(t, ts.settings.Set(SettingMaxLoginAttempts, "many", admin.ID), ErrInvalidSettingValue)
}

func TestLoweredThresholdTakesEffect(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)
	createTestUser(t, ts, "a@x.com", "correct-horse", rbac.RoleStudent)

	require.NoError(t, ts.settings.SeedDefaults())
	require.NoError(t, ts.settings.Set(SettingMaxLoginAttempts, "2", admin.ID))

	ts.auth.Authenticate("a@x.com", "wrong", testIP, "go-test")
	ts.auth.Authenticate("a@x.com", "wrong", testIP, "go-test")

	_, _, err := ts.auth.Authenticate("a@x.com", "correct-horse", testIP, "go-test")
	assert.ErrorIs(t, err, ErrAccountLocked)
}
