package services

import (
	"errors"
	"fmt"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"

	"gorm.io/gorm"
)

var ErrSelfDelete = errors.New("cannot delete your own account")

type UserService struct {
	auth        *AuthService
	securityLog *SecurityLogService
}

func NewUserService(auth *AuthService, securityLog *SecurityLogService) *UserService {
	return &UserService{auth: auth, securityLog: securityLog}
}

// GetUsers returns all users
func (s *UserService) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := models.DB.Order("name").Find(&users).Error; err != nil {
		return nil, err
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, nil
}

// GetUser returns a specific user by ID
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.PasswordHash = ""
	return &user, nil
}

// CreateUser creates a user via an admin action; the account carries the
// default-password flag until its owner changes the password.
func (s *UserService) CreateUser(email, name, password, role string, createdBy uint) (*models.User, error) {
	user, err := s.auth.CreateUser(email, name, password, role, true)
	if err != nil {
		return nil, err
	}

	s.securityLog.Record(&createdBy, EventUserCreated,
		fmt.Sprintf("user %s created with role %s", email, role), "", SeverityLow)

	user.PasswordHash = ""
	return user, nil
}

// UpdateUser updates name, role, and status (not password)
func (s *UserService) UpdateUser(id uint, name, role, status string) (*models.User, error) {
	if !rbac.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if status != "active" && status != "suspended" {
		return nil, errors.New("invalid status")
	}

	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Name = name
	user.Role = role
	user.Status = status

	if err := models.DB.Save(&user).Error; err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &user, nil
}

// SetPassword sets a user's password from an admin action and re-arms the
// default-password flag so the owner is forced to pick their own.
func (s *UserService) SetPassword(id uint, newPassword string) error {
	if len(newPassword) < s.auth.settings.GetInt(SettingPasswordMinLength, s.auth.cfg.Security.PasswordMinLength) {
		return ErrPasswordTooShort
	}

	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hashed, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	user.IsDefaultPassword = true
	return models.DB.Save(&user).Error
}

// DeleteUser deletes a user. Deleting yourself is refused.
func (s *UserService) DeleteUser(id, actingUserID uint) error {
	if id == actingUserID {
		return ErrSelfDelete
	}

	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := models.DB.Delete(&user).Error; err != nil {
		return err
	}

	s.securityLog.Record(&actingUserID, EventUserDeleted,
		fmt.Sprintf("user %s deleted", user.Email), "", SeverityMedium)
	return nil
}
