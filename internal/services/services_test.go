package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/config"
	"github.com/eben2468/srcwebsite-sub006/internal/mail"
	"github.com/eben2468/srcwebsite-sub006/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	cfg         *config.Config
	settings    *SettingsService
	attempts    *LoginAttemptService
	lockouts    *LockoutService
	ipAccess    *IPAccessService
	securityLog *SecurityLogService
	auth        *AuthService
	reset       *PasswordResetService
}

// setupTest initializes a throwaway sqlite database and the full service
// graph against it.
func setupTest(t *testing.T) *testServices {
	t.Helper()

	testDBPath := fmt.Sprintf("%s/srcportal_test_%d.db", os.TempDir(), time.Now().UnixNano())

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type:   "sqlite",
			SQLite: config.SQLiteConfig{Path: testDBPath},
		},
		JWT: config.JWTConfig{
			Secret: "test-secret-key-for-testing-only",
			Issuer: "src-portal-test",
		},
		Security: config.SecurityConfig{
			BcryptCost:             4,
			MaxLoginAttempts:       5,
			AttemptWindowMinutes:   10,
			LockoutDurationMinutes: 30,
			SessionTimeoutMinutes:  60,
			MaxConcurrentSessions:  2,
			PasswordMinLength:      8,
		},
	}

	require.NoError(t, models.InitDB(cfg))

	t.Cleanup(func() {
		if models.DB != nil {
			if sqlDB, err := models.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		models.DB = nil
		os.Remove(testDBPath)
	})

	securityLog := NewSecurityLogService(zerolog.Nop())
	settings := NewSettingsService(cfg)
	attempts := NewLoginAttemptService()
	lockouts := NewLockoutService(securityLog)
	ipAccess := NewIPAccessService(settings, securityLog)
	auth := NewAuthService(cfg, settings, attempts, lockouts, ipAccess, securityLog)
	reset := NewPasswordResetService(cfg, auth, mail.NoopMailer{}, securityLog, zerolog.Nop())

	return &testServices{
		cfg:         cfg,
		settings:    settings,
		attempts:    attempts,
		lockouts:    lockouts,
		ipAccess:    ipAccess,
		securityLog: securityLog,
		auth:        auth,
		reset:       reset,
	}
}

// createTestUser registers a user that is past the forced password change.
func createTestUser(t *testing.T, ts *testServices, email, password, role string) *models.User {
	t.Helper()
	user, err := ts.auth.CreateUser(email, "Test User", password, role, false)
	require.NoError(t, err)
	return user
}
