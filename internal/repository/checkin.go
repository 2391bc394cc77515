package repository

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/tinnitus-helper/internal/database"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckInRepository handles check-in data operations
type CheckInRepository struct {
	db *gorm.DB
}

// NewCheckInRepository creates a new check-in repository
func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// Upsert stores the check-in, replacing the answers of an existing entry for
// the same user and date.
func (r *CheckInRepository) Upsert(ctx context.Context, checkIn *domain.CheckIn) error {
	row := database.CheckInFromDomain(checkIn)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"relaxation_done",
			"relaxation_duration",
			"sound_therapy_done",
			"sound_therapy_duration",
			"tinnitus_level",
			"anxiety_level",
			"updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return apperrors.NewDatabaseError(err).WithContext("user_id", checkIn.UserID)
	}
	return nil
}

// ListByUser returns all of a user's check-ins ordered by date
func (r *CheckInRepository) ListByUser(ctx context.Context, userID uint) ([]domain.CheckIn, error) {
	var rows []database.CheckIn
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date, id").Find(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("user_id", userID)
	}
	checkIns := make([]domain.CheckIn, len(rows))
	for i := range rows {
		checkIns[i] = rows[i].ToDomain()
	}
	return checkIns, nil
}

// GetByUserAndDate returns the check-in for one day
func (r *CheckInRepository) GetByUserAndDate(ctx context.Context, userID uint, date string) (*domain.CheckIn, error) {
	var row database.CheckIn
	err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewCheckInNotFoundError(userID, date)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	checkIn := row.ToDomain()
	return &checkIn, nil
}
