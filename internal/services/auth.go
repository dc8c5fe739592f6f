package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/config"
	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrIPBlocked          = errors.New("access from this address is blocked")
	ErrSessionInvalid     = errors.New("invalid or expired session")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooShort   = errors.New("password does not meet the minimum length")
)

// AuthService is the session manager. Authenticate runs the whole login
// pipeline: IP control, lockout check, credential verify, attempt recording,
// threshold lockout, session issue with concurrent-session cap.
type AuthService struct {
	cfg         *config.Config
	settings    *SettingsService
	attempts    *LoginAttemptService
	lockouts    *LockoutService
	ipAccess    *IPAccessService
	securityLog *SecurityLogService
}

func NewAuthService(cfg *config.Config, settings *SettingsService, attempts *LoginAttemptService,
	lockouts *LockoutService, ipAccess *IPAccessService, securityLog *SecurityLogService) *AuthService {
	return &AuthService{
		cfg:         cfg,
		settings:    settings,
		attempts:    attempts,
		lockouts:    lockouts,
		ipAccess:    ipAccess,
		securityLog: securityLog,
	}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// CreateUser creates a new user. isDefaultPassword marks accounts that must
// change their password on first login (admin-created and bulk-imported ones).
func (s *AuthService) CreateUser(email, name, password, role string, isDefaultPassword bool) (*models.User, error) {
	if !rbac.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if len(password) < s.settings.GetInt(SettingPasswordMinLength, s.cfg.Security.PasswordMinLength) {
		return nil, ErrPasswordTooShort
	}

	var existingUser models.User
	if err := models.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:             email,
		Name:              name,
		PasswordHash:      hashedPassword,
		Role:              role,
		Status:            "active",
		IsDefaultPassword: isDefaultPassword,
	}

	if err := models.DB.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials and issues a session. The returned user's
// IsDefaultPassword flag tells the caller whether a password change must be
// forced before anything else.
func (s *AuthService) Authenticate(email, password, ip, userAgent string) (*models.Session, *models.User, error) {
	allowed, err := s.ipAccess.CheckIP(ip)
	if err != nil && !errors.Is(err, ErrInvalidIP) {
		// Storage trouble, not an access decision; don't report it as a block.
		return nil, nil, err
	}
	if err != nil || !allowed {
		s.securityLog.Record(nil, EventIPBlocked,
			fmt.Sprintf("login attempt from blocked address for %s", email), ip, SeverityHigh)
		return nil, nil, ErrIPBlocked
	}

	lockout, err := s.lockouts.ActiveLockout(email)
	if err != nil {
		return nil, nil, err
	}
	if lockout != nil {
		_ = s.attempts.Record(email, ip, false, "account_locked")
		return nil, nil, ErrAccountLocked
	}

	var user models.User
	if err := models.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailure(email, ip, "unknown_email", nil)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if user.Status != "active" {
		s.recordFailure(email, ip, "account_suspended", &user.ID)
		return nil, nil, ErrAccountSuspended
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		s.recordFailure(email, ip, "wrong_password", &user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.attempts.Record(email, ip, true, ""); err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(&user, ip, userAgent)
	if err != nil {
		return nil, nil, err
	}

	s.securityLog.Record(&user.ID, EventLoginSuccess, "successful login", ip, SeverityLow)
	return session, &user, nil
}

// recordFailure appends a failed attempt and locks the account once the
// rolling failure count reaches the threshold.
func (s *AuthService) recordFailure(email, ip, reason string, userID *uint) {
	_ = s.attempts.Record(email, ip, false, reason)
	s.securityLog.Record(userID, EventLoginFailed,
		fmt.Sprintf("failed login for %s (%s)", email, reason), ip, SeverityLow)

	window := s.settings.GetDuration(SettingAttemptWindowMinutes, s.cfg.Security.AttemptWindowMinutes)
	count, err := s.attempts.FailureCount(email, window)
	if err != nil {
		return
	}

	maxAttempts := int64(s.settings.GetInt(SettingMaxLoginAttempts, s.cfg.Security.MaxLoginAttempts))
	if count >= maxAttempts {
		unlockAt := time.Now().Add(s.settings.GetDuration(SettingLockoutDurationMinutes, s.cfg.Security.LockoutDurationMinutes))
		_, _ = s.lockouts.Lock(email, ip, LockReasonFailedAttempts, userID, &unlockAt)
	}
}

// createSession issues a token and enforces the concurrent-session cap by
// deactivating the least-recently-active sessions. Enforcement is
// best-effort: two logins racing at the cap can transiently leave cap+1
// active rows.
func (s *AuthService) createSession(user *models.User, ip, userAgent string) (*models.Session, error) {
	timeout := s.settings.GetDuration(SettingSessionTimeoutMinutes, s.cfg.Security.SessionTimeoutMinutes)
	expiresAt := time.Now().Add(timeout)

	token, err := s.generateToken(user, expiresAt)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       user.ID,
		Token:        token,
		IPAddress:    ip,
		UserAgent:    userAgent,
		IsActive:     true,
		LastActivity: time.Now(),
		ExpiresAt:    expiresAt,
	}
	if err := models.DB.Create(session).Error; err != nil {
		return nil, err
	}

	maxSessions := s.settings.GetInt(SettingMaxConcurrentSessions, s.cfg.Security.MaxConcurrentSessions)
	var active []models.Session
	if err := models.DB.
		Where("user_id = ? AND is_active = ? AND expires_at > ?", user.ID, true, time.Now()).
		Order("last_activity DESC").
		Find(&active).Error; err != nil {
		return session, nil
	}
	if len(active) > maxSessions {
		for _, old := range active[maxSessions:] {
			models.DB.Model(&models.Session{}).Where("id = ?", old.ID).Update("is_active", false)
		}
	}

	return session, nil
}

// generateToken signs a JWT for the session. The jti keeps tokens unique even
// for back-to-back logins by the same user.
func (s *AuthService) generateToken(user *models.User, expiresAt time.Time) (string, error) {
	secret := s.cfg.JWT.Secret
	if secret == "" {
		return "", errors.New("JWT secret is not configured")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
		"iss":     s.cfg.JWT.Issuer,
		"jti":     uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Validate loads the session for a bearer token. Each successful validate
// refreshes last_activity; expires_at never moves, so the session still dies
// at its absolute timeout however active it is.
func (s *AuthService) Validate(token string) (*models.Session, error) {
	var session models.Session
	err := models.DB.
		Where("token = ? AND is_active = ? AND expires_at > ?", token, true, time.Now()).
		Preload("User").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}

	models.DB.Model(&models.Session{}).Where("id = ?", session.ID).Update("last_activity", time.Now())
	return &session, nil
}

// Invalidate deactivates a single session (logout).
func (s *AuthService) Invalidate(token string) error {
	return models.DB.Model(&models.Session{}).
		Where("token = ?", token).
		Update("is_active", false).Error
}

// InvalidateAll deactivates every active session of a user (forced logout).
func (s *AuthService) InvalidateAll(userID uint) (int64, error) {
	res := models.DB.Model(&models.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// CleanExpiredSessions bulk-deactivates sessions past their expiry. Safe to
// run repeatedly; expiry is already enforced at read time so this is
// housekeeping, not correctness.
func (s *AuthService) CleanExpiredSessions() (int64, error) {
	res := models.DB.Model(&models.Session{}).
		Where("is_active = ? AND expires_at < ?", true, time.Now()).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// ActiveSessions lists a user's live sessions.
func (s *AuthService) ActiveSessions(userID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := models.DB.
		Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, time.Now()).
		Order("last_activity DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ChangePassword verifies the current password, stores the new hash, and
// clears the default-password flag. Existing sessions are left alone.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var user models.User
	if err := models.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.VerifyPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < s.settings.GetInt(SettingPasswordMinLength, s.cfg.Security.PasswordMinLength) {
		return ErrPasswordTooShort
	}

	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	user.IsDefaultPassword = false
	if err := models.DB.Save(&user).Error; err != nil {
		return err
	}

	s.securityLog.Record(&userID, EventPasswordChanged, "password changed", "", SeverityLow)
	return nil
}

// CreateDefaultUser seeds the configured super admin when the users table is
// empty.
func (s *AuthService) CreateDefaultUser() error {
	var count int64
	models.DB.Model(&models.User{}).Count(&count)

	if count == 0 {
		_, err := s.CreateUser(
			s.cfg.DefaultUser.Email,
			s.cfg.DefaultUser.Name,
			s.cfg.DefaultUser.Password,
			s.cfg.DefaultUser.Role,
			true,
		)
		return err
	}

	return nil
}
