package models

import (
	"time"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Email             string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name              string    `json:"name" gorm:"type:varchar(255);not null"`
	PasswordHash      string    `json:"-" gorm:"type:varchar(255);not null"`
	Role              string    `json:"role" gorm:"type:varchar(50);default:'student'"` // super_admin, admin, member, finance, student, electoral_commission
	Status            string    `json:"status" gorm:"type:varchar(20);default:'active'"` // active, suspended
	IsDefaultPassword bool      `json:"is_default_password" gorm:"default:false"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Session struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Token        string    `json:"token" gorm:"type:varchar(500);uniqueIndex;not null"`
	IPAddress    string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent    string    `json:"user_agent" gorm:"type:varchar(500)"`
	IsActive     bool      `json:"is_active" gorm:"default:true;index"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	User         User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
