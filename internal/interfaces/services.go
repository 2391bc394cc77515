package interfaces

import (
	"context"

	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
	"github.com/vladimiradmaev/tinnitus-helper/internal/services"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error)
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	ListPatients(ctx context.Context, session domain.Session) ([]domain.User, error)
}

// CheckInServiceInterface defines the contract for daily check-in operations
type CheckInServiceInterface interface {
	SaveToday(ctx context.Context, userID uint, in services.CheckInInput) (*domain.CheckIn, error)
	GetToday(ctx context.Context, userID uint) (*domain.CheckIn, error)
}

// ReportServiceInterface defines the contract for report operations
type ReportServiceInterface interface {
	Build(ctx context.Context, session domain.Session, patientID uint, req services.ReportRequest) (*services.PatientReport, error)
	BuildAll(ctx context.Context, session domain.Session, patientID uint) ([]*services.PatientReport, error)
	Suggestion(result *report.Result) string
}

// NarrativeServiceInterface defines the contract for report summaries
type NarrativeServiceInterface interface {
	Summarize(ctx context.Context, patientName string, res *report.Result) string
}

var (
	_ UserServiceInterface      = (*services.UserService)(nil)
	_ CheckInServiceInterface   = (*services.CheckInService)(nil)
	_ ReportServiceInterface    = (*services.ReportService)(nil)
	_ NarrativeServiceInterface = (*services.NarrativeService)(nil)
)
