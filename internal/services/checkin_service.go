package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"github.com/vladimiradmaev/tinnitus-helper/internal/utils"
)

// Clock returns the current instant. Services take one so tests can pin "today".
type Clock func() time.Time

// CheckInInput is the answers of one daily check-in form
type CheckInInput struct {
	RelaxationDone       domain.Answer
	RelaxationDuration   string
	SoundTherapyDone     domain.Answer
	SoundTherapyDuration string
	TinnitusLevel        *int
	AnxietyLevel         *int
}

type CheckInService struct {
	store domain.CheckInStore
	loc   *time.Location
	now   Clock
	log   *slog.Logger
}

func NewCheckInService(store domain.CheckInStore, loc *time.Location, now Clock) *CheckInService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &CheckInService{
		store: store,
		loc:   loc,
		now:   now,
		log:   logger.ForComponent("checkin_service"),
	}
}

// Today is the current calendar date in the service timezone
func (s *CheckInService) Today() time.Time {
	return utils.Day(s.now().In(s.loc))
}

// SaveToday validates the answers and stores them as today's check-in,
// replacing an earlier submission for the same day.
func (s *CheckInService) SaveToday(ctx context.Context, userID uint, in CheckInInput) (*domain.CheckIn, error) {
	if err := ValidateCheckIn(in); err != nil {
		return nil, err
	}

	checkIn := &domain.CheckIn{
		UserID:               userID,
		Date:                 utils.FormatDate(s.Today()),
		RelaxationDone:       in.RelaxationDone,
		RelaxationDuration:   in.RelaxationDuration,
		SoundTherapyDone:     in.SoundTherapyDone,
		SoundTherapyDuration: in.SoundTherapyDuration,
		TinnitusLevel:        in.TinnitusLevel,
		AnxietyLevel:         in.AnxietyLevel,
	}
	// a skipped activity has no duration
	if !checkIn.RelaxationDone.Done() {
		checkIn.RelaxationDuration = ""
	}
	if !checkIn.SoundTherapyDone.Done() {
		checkIn.SoundTherapyDuration = ""
	}

	if err := s.store.Upsert(ctx, checkIn); err != nil {
		return nil, err
	}
	s.log.Info("Check-in saved", "user_id", userID, "date", checkIn.Date)
	return checkIn, nil
}

// GetToday returns today's check-in, or nil when the user has not checked in
func (s *CheckInService) GetToday(ctx context.Context, userID uint) (*domain.CheckIn, error) {
	checkIn, err := s.store.GetByUserAndDate(ctx, userID, utils.FormatDate(s.Today()))
	if err != nil {
		if errors.Is(err, apperrors.ErrCheckInNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return checkIn, nil
}

// ValidateCheckIn checks answers, duration buckets and level bounds
func ValidateCheckIn(in CheckInInput) error {
	if !in.RelaxationDone.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("relaxation answer must be Yes or No, got %q", in.RelaxationDone))
	}
	if !in.SoundTherapyDone.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("sound therapy answer must be Yes or No, got %q", in.SoundTherapyDone))
	}
	if in.RelaxationDone.Done() && !slices.Contains(domain.RelaxationDurations, in.RelaxationDuration) {
		return apperrors.NewValidationError(fmt.Sprintf("unknown relaxation duration %q", in.RelaxationDuration))
	}
	if in.SoundTherapyDone.Done() && !slices.Contains(domain.SoundTherapyDurations, in.SoundTherapyDuration) {
		return apperrors.NewValidationError(fmt.Sprintf("unknown sound therapy duration %q", in.SoundTherapyDuration))
	}
	if err := validateLevel("tinnitus", in.TinnitusLevel); err != nil {
		return err
	}
	return validateLevel("anxiety", in.AnxietyLevel)
}

func validateLevel(name string, level *int) error {
	if level == nil {
		return nil
	}
	if *level < domain.MinLevel || *level > domain.MaxLevel {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s level must be between %d and %d, got %d", name, domain.MinLevel, domain.MaxLevel, *level))
	}
	return nil
}

// Recommendation nudges the user about skipped exercises. Empty when both
// were done.
func Recommendation(checkIn domain.CheckIn) string {
	relaxation := checkIn.RelaxationDone.Done()
	soundTherapy := checkIn.SoundTherapyDone.Done()
	switch {
	case !relaxation && !soundTherapy:
		return "You skipped both relaxation and sound therapy. Would you like to update your check-in?"
	case !relaxation:
		return "You skipped relaxation today. Would you like to update it?"
	case !soundTherapy:
		return "You skipped sound therapy today. Want to log it now?"
	default:
		return ""
	}
}
