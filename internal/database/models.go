package database

import (
	"time"

	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
	Role       string `gorm:"size:16;not null;default:patient"`
}

// ToDomain converts the row into a domain user
func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:         u.ID,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       domain.Role(u.Role),
	}
}

// CheckIn is stored one row per user and date. Date stays a string column so
// rows written by older clients with bad dates can still be read back.
type CheckIn struct {
	ID                   uint `gorm:"primaryKey"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	UserID               uint   `gorm:"not null;uniqueIndex:idx_check_ins_user_date"`
	Date                 string `gorm:"size:10;not null;uniqueIndex:idx_check_ins_user_date"`
	RelaxationDone       string `gorm:"size:8"`
	RelaxationDuration   string `gorm:"size:32"`
	SoundTherapyDone     string `gorm:"size:8"`
	SoundTherapyDuration string `gorm:"size:32"`
	TinnitusLevel        *int
	AnxietyLevel         *int
}

// ToDomain converts the row into a domain check-in
func (c *CheckIn) ToDomain() domain.CheckIn {
	return domain.CheckIn{
		UserID:               c.UserID,
		Date:                 c.Date,
		RelaxationDone:       domain.Answer(c.RelaxationDone),
		RelaxationDuration:   c.RelaxationDuration,
		SoundTherapyDone:     domain.Answer(c.SoundTherapyDone),
		SoundTherapyDuration: c.SoundTherapyDuration,
		TinnitusLevel:        c.TinnitusLevel,
		AnxietyLevel:         c.AnxietyLevel,
	}
}

// CheckInFromDomain builds a row for insertion
func CheckInFromDomain(ci *domain.CheckIn) *CheckIn {
	return &CheckIn{
		UserID:               ci.UserID,
		Date:                 ci.Date,
		RelaxationDone:       string(ci.RelaxationDone),
		RelaxationDuration:   ci.RelaxationDuration,
		SoundTherapyDone:     string(ci.SoundTherapyDone),
		SoundTherapyDuration: ci.SoundTherapyDuration,
		TinnitusLevel:        ci.TinnitusLevel,
		AnxietyLevel:         ci.AnxietyLevel,
	}
}
