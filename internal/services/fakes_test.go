package services_test

import (
	"context"
	"sync"

	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
)

type fakeCheckInStore struct {
	mu      sync.Mutex
	records []domain.CheckIn
	err     error
}

func (f *fakeCheckInStore) Upsert(_ context.Context, ci *domain.CheckIn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.records {
		if f.records[i].UserID == ci.UserID && f.records[i].Date == ci.Date {
			f.records[i] = *ci
			return nil
		}
	}
	f.records = append(f.records, *ci)
	return nil
}

func (f *fakeCheckInStore) ListByUser(_ context.Context, userID uint) ([]domain.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.CheckIn
	for _, ci := range f.records {
		if ci.UserID == userID {
			out = append(out, ci)
		}
	}
	return out, nil
}

func (f *fakeCheckInStore) GetByUserAndDate(_ context.Context, userID uint, date string) (*domain.CheckIn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ci := range f.records {
		if ci.UserID == userID && ci.Date == date {
			found := ci
			return &found, nil
		}
	}
	return nil, apperrors.NewCheckInNotFoundError(userID, date)
}

type fakeUserStore struct {
	mu    sync.Mutex
	users []domain.User
}

func (f *fakeUserStore) GetOrCreate(_ context.Context, user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].TelegramID == user.TelegramID {
			found := f.users[i]
			return &found, nil
		}
	}
	created := *user
	created.ID = uint(len(f.users) + 1)
	f.users = append(f.users, created)
	return &created, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.NewUserNotFoundError(id)
}

func (f *fakeUserStore) GetByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.TelegramID == telegramID {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) SetRole(_ context.Context, id uint, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Role = role
			return nil
		}
	}
	return apperrors.NewUserNotFoundError(id)
}

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}
