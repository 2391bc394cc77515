package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vladimiradmaev/tinnitus-helper/internal/config"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
	"github.com/vladimiradmaev/tinnitus-helper/internal/utils"
)

// ReportRequest selects a report window. Nil fields use the defaults.
type ReportRequest struct {
	Kind                   report.Kind
	Start                  *time.Time
	End                    *time.Time
	ExtendToMonthEnd       *bool
	UseCalendarDenominator *bool
}

// PatientReport is a built report together with the patient it describes
type PatientReport struct {
	Patient *domain.User
	*report.Result
}

type ReportService struct {
	users    domain.UserStore
	checkIns domain.CheckInReader
	agg      *report.Aggregator
	cfg      config.ReportConfig
	loc      *time.Location
	now      Clock
	log      *slog.Logger
}

func NewReportService(users domain.UserStore, checkIns domain.CheckInReader, cfg config.ReportConfig, now Clock) (*ReportService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	log := logger.ForComponent("report_service")
	agg := report.New(report.Options{
		ExtendToMonthEnd: cfg.ExtendMonthToEnd,
		ChunkSize:        cfg.ChunkSize,
		Logger:           log,
	})
	return &ReportService{
		users:    users,
		checkIns: checkIns,
		agg:      agg,
		cfg:      cfg,
		loc:      loc,
		now:      now,
		log:      log,
	}, nil
}

// Build produces one report for patientID. Patients may only see their own
// reports; admins may see anyone's.
func (s *ReportService) Build(ctx context.Context, session domain.Session, patientID uint, req ReportRequest) (*PatientReport, error) {
	patient, records, err := s.load(ctx, session, patientID)
	if err != nil {
		return nil, err
	}
	return s.build(patient, records, req)
}

// BuildAll produces the weekly, monthly and full-history reports from a
// single read of the patient's check-ins.
func (s *ReportService) BuildAll(ctx context.Context, session domain.Session, patientID uint) ([]*PatientReport, error) {
	patient, records, err := s.load(ctx, session, patientID)
	if err != nil {
		return nil, err
	}
	reports := make([]*PatientReport, 0, len(report.Kinds))
	for _, kind := range report.Kinds {
		r, err := s.build(patient, records, ReportRequest{Kind: kind})
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (s *ReportService) load(ctx context.Context, session domain.Session, patientID uint) (*domain.User, []domain.CheckIn, error) {
	if !session.IsAdmin() && session.UserID != patientID {
		return nil, nil, apperrors.NewUnauthorizedError("reports are only visible to their owner and admins").
			WithContext("user_id", session.UserID).
			WithContext("patient_id", patientID)
	}
	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.checkIns.ListByUser(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}
	return patient, records, nil
}

func (s *ReportService) build(patient *domain.User, records []domain.CheckIn, req ReportRequest) (*PatientReport, error) {
	result, err := s.agg.Build(report.BuildRequest{
		Kind:                   req.Kind,
		Today:                  utils.Day(s.now().In(s.loc)),
		Records:                records,
		SignupDate:             utils.Day(patient.CreatedAt.In(s.loc)),
		OverrideStart:          req.Start,
		OverrideEnd:            req.End,
		ExtendToMonthEnd:       req.ExtendToMonthEnd,
		UseCalendarDenominator: req.UseCalendarDenominator,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Report built",
		"patient_id", patient.ID,
		"range", string(req.Kind),
		"start", utils.FormatDate(result.Range.Start),
		"end", utils.FormatDate(result.Range.End),
		"recorded_days", result.Report.RecordedDays,
	)
	return &PatientReport{Patient: patient, Result: result}, nil
}

// Suggestion advises on technique based on a weekly report: high combined
// averages point to an audiologist, low ones are encouraged. Other ranges and
// empty weeks get no suggestion.
func (s *ReportService) Suggestion(result *report.Result) string {
	if result == nil || result.Kind != report.KindWeekly || result.Report.RecordedDays == 0 {
		return ""
	}
	avg := (result.Report.AverageTinnitus + result.Report.AverageAnxiety) / 2
	switch {
	case avg >= s.cfg.HighScoreThreshold:
		return "Your average weekly scores are high. Contact your audiologist for expert advice."
	case avg <= s.cfg.ProgressThreshold:
		return "You're making progress. Continue practicing."
	default:
		return ""
	}
}
