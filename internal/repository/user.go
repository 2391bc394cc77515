package repository

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/tinnitus-helper/internal/database"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate returns the user with the given telegram ID, creating it from
// the supplied profile when missing. Existing users keep their role; their
// names are refreshed from the profile.
func (r *UserRepository) GetOrCreate(ctx context.Context, user *domain.User) (*domain.User, error) {
	var row database.User
	err := r.db.WithContext(ctx).Where("telegram_id = ?", user.TelegramID).First(&row).Error
	switch {
	case err == nil:
		if row.Username != user.Username || row.FirstName != user.FirstName || row.LastName != user.LastName {
			row.Username, row.FirstName, row.LastName = user.Username, user.FirstName, user.LastName
			if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
				return nil, apperrors.NewDatabaseError(err)
			}
		}
		return row.ToDomain(), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.NewDatabaseError(err)
	}

	role := user.Role
	if role == "" {
		role = domain.RolePatient
	}
	row = database.User{
		TelegramID: user.TelegramID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       string(role),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return row.ToDomain(), nil
}

// GetByID gets a user by primary key
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var row database.User
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewUserNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return row.ToDomain(), nil
}

// GetByTelegramID gets a user by their Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var row database.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrorTypeNotFound, "USER_NOT_FOUND", "User not found").
				WithContext("telegram_id", telegramID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return row.ToDomain(), nil
}

// ListByRole lists users with the role, oldest first
func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var rows []database.User
	if err := r.db.WithContext(ctx).Where("role = ?", string(role)).Order("id").Find(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	users := make([]domain.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, nil
}

// SetRole changes a user's role
func (r *UserRepository) SetRole(ctx context.Context, id uint, role domain.Role) error {
	result := r.db.WithContext(ctx).Model(&database.User{}).Where("id = ?", id).Update("role", string(role))
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewUserNotFoundError(id)
	}
	return nil
}
