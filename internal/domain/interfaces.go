package domain

import (
	"context"
)

// CheckInReader supplies a user's stored check-ins. The returned slice may be
// unsorted and may hold several records for the same date.
type CheckInReader interface {
	ListByUser(ctx context.Context, userID uint) ([]CheckIn, error)
}

// CheckInStore persists check-ins, one per user and date
type CheckInStore interface {
	CheckInReader
	Upsert(ctx context.Context, checkIn *CheckIn) error
	GetByUserAndDate(ctx context.Context, userID uint, date string) (*CheckIn, error)
}

// UserStore persists users
type UserStore interface {
	GetOrCreate(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	SetRole(ctx context.Context, id uint, role Role) error
}
