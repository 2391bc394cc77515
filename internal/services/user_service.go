package services

import (
	"context"
	"log/slog"

	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
)

type UserService struct {
	users  domain.UserStore
	admins map[int64]bool
	log    *slog.Logger
}

func NewUserService(users domain.UserStore, adminTelegramIDs []int64) *UserService {
	admins := make(map[int64]bool, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		admins[id] = true
	}
	return &UserService{
		users:  users,
		admins: admins,
		log:    logger.ForComponent("user_service"),
	}
}

// RegisterUser gets or creates the user behind a telegram account. Accounts
// listed as admins are promoted on every registration.
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	user, err := s.users.GetOrCreate(ctx, &domain.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		Role:       domain.RolePatient,
	})
	if err != nil {
		return nil, err
	}

	if s.admins[telegramID] && user.Role != domain.RoleAdmin {
		if err := s.users.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
			return nil, err
		}
		user.Role = domain.RoleAdmin
		s.log.Info("User promoted to admin", "user_id", user.ID, "telegram_id", telegramID)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}

// ListPatients lists every patient for admin review
func (s *UserService) ListPatients(ctx context.Context, session domain.Session) ([]domain.User, error) {
	if !session.IsAdmin() {
		return nil, apperrors.NewUnauthorizedError("only admins can list patients").
			WithContext("user_id", session.UserID)
	}
	return s.users.ListByRole(ctx, domain.RolePatient)
}

// Session returns the identity services use for permission checks
func Session(user *domain.User) domain.Session {
	return domain.Session{UserID: user.ID, Role: user.Role}
}
