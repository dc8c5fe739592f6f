package models

import (
	"time"
)

type Election struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'draft';index"` // draft, active, closed
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Position struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ElectionID uint      `json:"election_id" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time `json:"created_at"`
	Election   Election  `json:"election,omitempty" gorm:"foreignKey:ElectionID"`
}

// Candidate is owned by the applying user; ownership drives the withdraw
// permission override.
type Candidate struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PositionID uint      `json:"position_id" gorm:"not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Manifesto  string    `json:"manifesto" gorm:"type:text"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected, withdrawn
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Position   Position  `json:"position,omitempty" gorm:"foreignKey:PositionID"`
	User       User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Vote carries a composite unique index so a voter gets exactly one ballot
// per position even under concurrent submissions.
type Vote struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PositionID  uint      `json:"position_id" gorm:"not null;uniqueIndex:idx_one_vote"`
	VoterID     uint      `json:"voter_id" gorm:"not null;uniqueIndex:idx_one_vote"`
	CandidateID uint      `json:"candidate_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
}

type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Location    string    `json:"location" gorm:"type:varchar(255)"`
	StartsAt    time.Time `json:"starts_at"`
	OrganizerID uint      `json:"organizer_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Organizer   User      `json:"organizer,omitempty" gorm:"foreignKey:OrganizerID"`
}
