package services

import (
	"testing"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIPDefaultAllow(t *testing.T) {
	ts := setupTest(t)

	allowed, err := ts.ipAccess.CheckIP("10.0.0.5")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckIPRejectsGarbage(t *testing.T) {
	ts := setupTest(t)

	allowed, err := ts.ipAccess.CheckIP("not-an-ip")
	assert.ErrorIs(t, err, ErrInvalidIP)
	assert.False(t, allowed)
}

func TestBlacklistDenies(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)

	_, err := ts.ipAccess.Add("10.0.0.5", IPTypeBlacklist, "abuse", admin.ID, nil)
	require.NoError(t, err)

	allowed, err := ts.ipAccess.CheckIP("10.0.0.5")
	require.NoError(t, err)
	assert.False(t, allowed)

	// A neighbour is unaffected
	allowed, err = ts.ipAccess.CheckIP("10.0.0.6")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestBlacklistCIDRRange(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)

	_, err := ts.ipAccess.Add("192.0.2.0/24", IPTypeBlacklist, "scanner subnet", admin.ID, nil)
	require.NoError(t, err)

	allowed, err := ts.ipAccess.CheckIP("192.0.2.77")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = ts.ipAccess.CheckIP("192.0.3.77")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestExpiredBlacklistEntryStopsDenying(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)

	expires := time.Now().Add(50 * time.Millisecond)
	_, err := ts.ipAccess.Add("10.0.0.5", IPTypeBlacklist, "short ban", admin.ID, &expires)
	require.NoError(t, err)

	allowed, err := ts.ipAccess.CheckIP("10.0.0.5")
	require.NoError(t, err)
	assert.False(t, allowed)

	time.Sleep(100 * time.Millisecond)

	// The row is untouched but no longer matches
	allowed, err = ts.ipAccess.CheckIP("10.0.0.5")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestWhitelistMode(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)

	require.NoError(t, ts.settings.SeedDefaults())
	require.NoError(t, ts.settings.Set(SettingEnableIPWhitelist, "true", admin.ID))

	// Nothing whitelisted yet: everyone is out
	allowed, err := ts.ipAccess.CheckIP("10.0.0.5")
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = ts.ipAccess.Add("10.0.0.5", IPTypeWhitelist, "council office", admin.ID, nil)
	require.NoError(t, err)

	allowed, err = ts.ipAccess.CheckIP("10.0.0.5")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = ts.ipAccess.CheckIP("10.0.0.9")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestBlacklistBeatsWhitelist(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)

	_, err := ts.ipAccess.Add("10.0.0.5", IPTypeWhitelist, "office", admin.ID, nil)
	require.NoError(t, err)
	_, err = ts.ipAccess.Add("10.0.0.5", IPTypeBlacklist, "compromised", admin.ID, nil)
	require.NoError(t, err)

	allowed, err := ts.ipAccess.CheckIP("10.0.0.5")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAddValidatesSyntax(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)

	_, err := ts.ipAccess.Add("999.1.2.3", IPTypeBlacklist, "typo", admin.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidIP)

	_, err = ts.ipAccess.Add("10.0.0.5", "greylist", "typo", admin.ID, nil)
	assert.Error(t, err)
}

func TestRemoveDeactivatesEntry(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)

	entry, err := ts.ipAccess.Add("10.0.0.5", IPTypeBlacklist, "abuse", admin.ID, nil)
	require.NoError(t, err)

	require.NoError(t, ts.ipAccess.Remove(entry.ID, admin.ID))

	allowed, err := ts.ipAccess.CheckIP("10.0.0.5")
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.ErrorIs(t, ts.ipAccess.Remove(99999, admin.ID), ErrIPEntryNotFound)
}

func TestStorageFailureIsNotReportedAsBlock(t *testing.T) {
	ts := setupTest(t)
	createTestUser(t, ts, "alice@src.local", "correct-horse", rbac.RoleMember)

	require.NoError(t, models.DB.Migrator().DropTable(&models.IPAccessEntry{}))

	_, _, err := ts.auth.Authenticate("alice@src.local", "correct-horse", testIP, "go-test")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrIPBlocked)

	// And no ip_blocked event was fabricated for it
	var count int64
	models.DB.Model(&models.SecurityLog{}).
		Where("event_type = ?", EventIPBlocked).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestBlockedIPCannotAuthenticate(t *testing.T) {
	ts := setupTest(t)
	admin := createTestUser(t, ts, "admin@src.local", "admin-pass-1", rbac.RoleAdmin)
	createTestUser(t, ts, "alice@src.local", "correct-horse", rbac.RoleMember)

	_, err := ts.ipAccess.Add("10.0.0.5", IPTypeBlacklist, "abuse", admin.ID, nil)
	require.NoError(t, err)

	_, _, err = ts.auth.Authenticate("alice@src.local", "correct-horse", "10.0.0.5", "go-test")
	assert.ErrorIs(t, err, ErrIPBlocked)
}
