package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/config"
	"github.com/eben2468/srcwebsite-sub006/internal/mail"
	"github.com/eben2468/srcwebsite-sub006/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrTokenInvalidOrExpired = errors.New("reset token is invalid or expired")

const resetTokenTTL = time.Hour

// PasswordResetService issues and redeems single-use reset tokens.
// RequestReset never reveals whether an email is registered; the response is
// the same either way.
type PasswordResetService struct {
	cfg         *config.Config
	auth        *AuthService
	mailer      mail.Mailer
	securityLog *SecurityLogService
	log         zerolog.Logger
}

func NewPasswordResetService(cfg *config.Config, auth *AuthService, mailer mail.Mailer,
	securityLog *SecurityLogService, log zerolog.Logger) *PasswordResetService {
	return &PasswordResetService{
		cfg:         cfg,
		auth:        auth,
		mailer:      mailer,
		securityLog: securityLog,
		log:         log,
	}
}

// RequestReset issues a token for the email if it belongs to a user. The
// caller always gets a nil error for unknown emails so responses cannot be
// used to enumerate accounts. The email is sent off the request path; a send
// failure is logged and still looks like success to the caller.
func (s *PasswordResetService) RequestReset(email, ip string) error {
	var user models.User
	if err := models.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	row := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := models.DB.Create(&row).Error; err != nil {
		return err
	}

	s.securityLog.Record(&user.ID, EventResetRequested, "password reset requested", ip, SeverityLow)

	go func() {
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.SMTP.BaseURL, token)
		msg := mail.Message{
			To:      user.Email,
			Subject: "SRC Portal password reset",
			TextBody: fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account. "+
				"Use the link below within one hour:\n\n%s\n\nIf you did not request this, ignore this message.\n",
				user.Name, resetURL),
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>A password reset was requested for your account. "+
				"Use the link below within one hour:</p><p><a href=%q>%s</a></p>"+
				"<p>If you did not request this, ignore this message.</p>",
				user.Name, resetURL, resetURL),
		}
		if err := s.mailer.Send(msg); err != nil {
			s.log.Error().Err(err).Str("email", user.Email).Msg("reset email send failed")
		}
	}()

	return nil
}

// Redeem consumes a token and sets the new password. Marking the token used
// is a conditional update keyed on used = false, so two concurrent
// redemptions of the same token cannot both succeed. Sibling tokens for the
// same user deliberately stay valid.
func (s *PasswordResetService) Redeem(token, newPassword, ip string) error {
	var row models.PasswordResetToken
	err := models.DB.Where("token = ?", token).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenInvalidOrExpired
		}
		return err
	}

	if row.Used || row.ExpiresAt.Before(time.Now()) {
		return ErrTokenInvalidOrExpired
	}

	if len(newPassword) < s.auth.settings.GetInt(SettingPasswordMinLength, s.cfg.Security.PasswordMinLength) {
		return ErrPasswordTooShort
	}

	res := models.DB.Model(&models.PasswordResetToken{}).
		Where("id = ? AND used = ?", row.ID, false).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to a concurrent redemption.
		return ErrTokenInvalidOrExpired
	}

	hashed, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := models.DB.Model(&models.User{}).
		Where("id = ?", row.UserID).
		Updates(map[string]interface{}{
			"password_hash":       hashed,
			"is_default_password": false,
		}).Error; err != nil {
		return err
	}

	s.securityLog.Record(&row.UserID, EventPasswordReset, "password reset via token", ip, SeverityMedium)
	return nil
}

// generateResetToken returns 256 bits of randomness, hex-encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
