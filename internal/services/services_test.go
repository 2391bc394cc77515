package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vladimiradmaev/tinnitus-helper/internal/config"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
	"github.com/vladimiradmaev/tinnitus-helper/internal/services"
)

// 22:30 UTC on Friday 2024-03-15
var fixedNow = time.Date(2024, time.March, 15, 22, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func reportConfig() config.ReportConfig {
	return config.ReportConfig{
		Timezone:           "UTC",
		HighScoreThreshold: 7,
		ProgressThreshold:  5,
		ChunkSize:          7,
	}
}

// =============================================================================
// CheckInService
// Rules:
// - answers are Yes/No, durations come from the fixed buckets
// - levels are 1..10 or skipped
// - "today" is the calendar date in the configured timezone
// - a second save on the same day replaces the first
// =============================================================================

func TestCheckInService_SaveToday(t *testing.T) {
	store := &fakeCheckInStore{}
	svc := services.NewCheckInService(store, time.UTC, clock)
	ctx := context.Background()

	saved, err := svc.SaveToday(ctx, 1, services.CheckInInput{
		RelaxationDone:       domain.AnswerYes,
		RelaxationDuration:   "10-20 min",
		SoundTherapyDone:     domain.AnswerNo,
		SoundTherapyDuration: "10-30 min",
		TinnitusLevel:        domain.Level(7),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if saved.Date != "2024-03-15" {
		t.Errorf("Expected 2024-03-15, got %s", saved.Date)
	}
	if saved.SoundTherapyDuration != "" {
		t.Errorf("Expected duration cleared for a skipped activity, got %q", saved.SoundTherapyDuration)
	}

	_, err = svc.SaveToday(ctx, 1, services.CheckInInput{
		RelaxationDone:   domain.AnswerNo,
		SoundTherapyDone: domain.AnswerNo,
		AnxietyLevel:     domain.Level(2),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("Expected one record for the day, got %d", len(store.records))
	}
	if store.records[0].TinnitusLevel != nil || *store.records[0].AnxietyLevel != 2 {
		t.Errorf("Expected replaced answers, got %+v", store.records[0])
	}

	today, err := svc.GetToday(ctx, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if today == nil || today.RelaxationDone != domain.AnswerNo {
		t.Errorf("Expected today's check-in, got %+v", today)
	}

	none, err := svc.GetToday(ctx, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if none != nil {
		t.Errorf("Expected nil for a user without a check-in, got %+v", none)
	}
}

func TestCheckInService_TodayFollowsTimezone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	store := &fakeCheckInStore{}
	svc := services.NewCheckInService(store, kolkata, clock)

	saved, err := svc.SaveToday(context.Background(), 1, services.CheckInInput{
		RelaxationDone:   domain.AnswerNo,
		SoundTherapyDone: domain.AnswerNo,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if saved.Date != "2024-03-16" {
		t.Errorf("Expected 2024-03-16 in Asia/Kolkata, got %s", saved.Date)
	}
}

func TestValidateCheckIn(t *testing.T) {
	valid := services.CheckInInput{
		RelaxationDone:       domain.AnswerYes,
		RelaxationDuration:   "<5 min",
		SoundTherapyDone:     domain.AnswerYes,
		SoundTherapyDuration: ">1 hour",
		TinnitusLevel:        domain.Level(1),
		AnxietyLevel:         domain.Level(10),
	}

	tests := []struct {
		name   string
		mutate func(in *services.CheckInInput)
	}{
		{"unknown relaxation answer", func(in *services.CheckInInput) { in.RelaxationDone = "Maybe" }},
		{"missing sound therapy answer", func(in *services.CheckInInput) { in.SoundTherapyDone = "" }},
		{"relaxation duration from the other list", func(in *services.CheckInInput) { in.RelaxationDuration = "10-30 min" }},
		{"missing sound therapy duration", func(in *services.CheckInInput) { in.SoundTherapyDuration = "" }},
		{"tinnitus below range", func(in *services.CheckInInput) { in.TinnitusLevel = domain.Level(0) }},
		{"anxiety above range", func(in *services.CheckInInput) { in.AnxietyLevel = domain.Level(11) }},
	}

	if err := services.ValidateCheckIn(valid); err != nil {
		t.Fatalf("Expected valid input, got %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := services.ValidateCheckIn(in)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		relaxation, sound domain.Answer
		want              string
	}{
		{domain.AnswerNo, domain.AnswerNo, "skipped both"},
		{domain.AnswerNo, domain.AnswerYes, "skipped relaxation"},
		{domain.AnswerYes, domain.AnswerNo, "skipped sound therapy"},
		{domain.AnswerYes, domain.AnswerYes, ""},
	}
	for _, tt := range tests {
		got := services.Recommendation(domain.CheckIn{RelaxationDone: tt.relaxation, SoundTherapyDone: tt.sound})
		if tt.want == "" && got != "" {
			t.Errorf("Expected no recommendation, got %q", got)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Expected %q in %q", tt.want, got)
		}
	}
}

// =============================================================================
// UserService
// =============================================================================

func TestUserService_RegisterPromotesAdmins(t *testing.T) {
	store := &fakeUserStore{}
	svc := services.NewUserService(store, []int64{99})
	ctx := context.Background()

	patient, err := svc.RegisterUser(ctx, 1, "pat", "Pat", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if patient.Role != domain.RolePatient {
		t.Errorf("Expected patient role, got %s", patient.Role)
	}

	admin, err := svc.RegisterUser(ctx, 99, "doc", "Doc", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Errorf("Expected admin role, got %s", admin.Role)
	}

	if _, err := svc.ListPatients(ctx, services.Session(patient)); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for a patient, got %v", err)
	}
	patients, err := svc.ListPatients(ctx, services.Session(admin))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(patients) != 1 || patients[0].ID != patient.ID {
		t.Errorf("Expected only the patient, got %+v", patients)
	}
}

// =============================================================================
// ReportService
// Rules:
// - patients see only their own reports, admins see everyone's
// - since_signup starts at the signup date when there are no check-ins
// - suggestions only apply to weekly reports with data
// =============================================================================

func setupReportService(t *testing.T) (*services.ReportService, *fakeUserStore, *fakeCheckInStore) {
	t.Helper()
	users := &fakeUserStore{users: []domain.User{
		{ID: 1, Role: domain.RolePatient, FirstName: "Pat", CreatedAt: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)},
		{ID: 2, Role: domain.RolePatient, FirstName: "Other", CreatedAt: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)},
		{ID: 3, Role: domain.RoleAdmin, FirstName: "Doc"},
	}}
	checkIns := &fakeCheckInStore{}
	svc, err := services.NewReportService(users, checkIns, reportConfig(), clock)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return svc, users, checkIns
}

func TestReportService_Permissions(t *testing.T) {
	svc, _, _ := setupReportService(t)
	ctx := context.Background()
	req := services.ReportRequest{Kind: report.KindWeekly}

	patient := domain.Session{UserID: 1, Role: domain.RolePatient}
	admin := domain.Session{UserID: 3, Role: domain.RoleAdmin}

	if _, err := svc.Build(ctx, patient, 1, req); err != nil {
		t.Errorf("Expected own report to be visible, got %v", err)
	}
	if _, err := svc.Build(ctx, patient, 2, req); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Build(ctx, admin, 2, req); err != nil {
		t.Errorf("Expected admin access, got %v", err)
	}
	if _, err := svc.Build(ctx, admin, 42, req); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Build(ctx, admin, 1, services.ReportRequest{Kind: "yearly"}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestReportService_BuildWeekly(t *testing.T) {
	svc, _, store := setupReportService(t)
	store.records = []domain.CheckIn{
		{UserID: 1, Date: "2024-03-15", RelaxationDone: domain.AnswerYes, TinnitusLevel: domain.Level(8), AnxietyLevel: domain.Level(6)},
		{UserID: 1, Date: "2024-03-11", RelaxationDone: domain.AnswerNo, TinnitusLevel: domain.Level(6)},
		{UserID: 1, Date: "2024-03-01", RelaxationDone: domain.AnswerYes, TinnitusLevel: domain.Level(1)},
		{UserID: 2, Date: "2024-03-12", TinnitusLevel: domain.Level(10)},
	}

	got, err := svc.Build(context.Background(), domain.Session{UserID: 1, Role: domain.RolePatient}, 1,
		services.ReportRequest{Kind: report.KindWeekly})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Patient.FirstName != "Pat" {
		t.Errorf("Expected patient attached, got %+v", got.Patient)
	}
	if got.Range.String() != "2024-03-09 to 2024-03-15" {
		t.Errorf("Unexpected range %s", got.Range)
	}
	if got.Report.RecordedDays != 2 || got.Report.AverageTinnitus != 7 || got.Report.RelaxationDays != 1 {
		t.Errorf("Unexpected report %+v", got.Report)
	}
	if len(got.Labels()) != len(got.Report.TinnitusLevels) {
		t.Errorf("Expected labels to match series length")
	}
}

func TestReportService_SinceSignupWithoutRecords(t *testing.T) {
	svc, _, _ := setupReportService(t)

	got, err := svc.Build(context.Background(), domain.Session{UserID: 1, Role: domain.RolePatient}, 1,
		services.ReportRequest{Kind: report.KindSinceSignup})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Range.String() != "2024-03-04 to 2024-03-15" {
		t.Errorf("Expected range from signup, got %s", got.Range)
	}
	if got.Series.Len() != 2 {
		t.Errorf("Expected 2 weekly slots, got %d", got.Series.Len())
	}
	if got.Report.AverageTinnitus != 0 || len(got.Weeks) != 0 {
		t.Errorf("Expected empty report, got %+v", got.Report)
	}
}

func TestReportService_BuildAll(t *testing.T) {
	svc, _, store := setupReportService(t)
	store.records = []domain.CheckIn{
		{UserID: 2, Date: "2024-02-20", TinnitusLevel: domain.Level(5)},
		{UserID: 2, Date: "2024-03-14", TinnitusLevel: domain.Level(7)},
	}

	all, err := svc.BuildAll(context.Background(), domain.Session{UserID: 3, Role: domain.RoleAdmin}, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(all))
	}
	wantRecorded := []int{1, 1, 2}
	for i, kind := range report.Kinds {
		if all[i].Kind != kind {
			t.Errorf("Expected %s at %d, got %s", kind, i, all[i].Kind)
		}
		if all[i].Report.RecordedDays != wantRecorded[i] {
			t.Errorf("%s: expected %d recorded days, got %d", kind, wantRecorded[i], all[i].Report.RecordedDays)
		}
	}
}

func TestReportService_Suggestion(t *testing.T) {
	svc, _, _ := setupReportService(t)

	weekly := func(tinnitus, anxiety float64, recorded int) *report.Result {
		return &report.Result{
			Kind: report.KindWeekly,
			Report: report.WeeklyReport{
				AverageTinnitus: tinnitus,
				AverageAnxiety:  anxiety,
				RecordedDays:    recorded,
			},
		}
	}

	if got := svc.Suggestion(weekly(8, 7, 3)); !strings.Contains(got, "audiologist") {
		t.Errorf("Expected audiologist advice, got %q", got)
	}
	if got := svc.Suggestion(weekly(7, 7, 3)); !strings.Contains(got, "audiologist") {
		t.Errorf("Expected audiologist advice at the threshold, got %q", got)
	}
	if got := svc.Suggestion(weekly(4, 6, 3)); !strings.Contains(got, "progress") {
		t.Errorf("Expected progress message, got %q", got)
	}
	if got := svc.Suggestion(weekly(6, 6.5, 3)); got != "" {
		t.Errorf("Expected no suggestion between thresholds, got %q", got)
	}
	if got := svc.Suggestion(weekly(0, 0, 0)); got != "" {
		t.Errorf("Expected no suggestion without data, got %q", got)
	}
	monthly := weekly(9, 9, 3)
	monthly.Kind = report.KindMonthly
	if got := svc.Suggestion(monthly); got != "" {
		t.Errorf("Expected no suggestion for monthly reports, got %q", got)
	}
}

// =============================================================================
// NarrativeService
// =============================================================================

func TestNarrativeService_Summarize(t *testing.T) {
	res := &report.Result{
		Kind:  report.KindWeekly,
		Range: report.DateRange{Start: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		Report: report.WeeklyReport{
			RecordedDays:    4,
			DenominatorDays: 4,
			RelaxationDays:  2,
			AverageTinnitus: 6.5,
		},
	}
	ctx := context.Background()

	plain := services.NewNarrativeService(nil).Summarize(ctx, "Pat", res)
	for _, want := range []string{"Weekly report for Pat", "2024-03-09 to 2024-03-15", "Average tinnitus: 6.5", "Relaxation: 2/4 days (50%)"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Expected %q in %q", want, plain)
		}
	}

	gen := &fakeGenerator{text: "Tinnitus is stable."}
	if got := services.NewNarrativeService(gen).Summarize(ctx, "Pat", res); got != "Tinnitus is stable." {
		t.Errorf("Expected generated text, got %q", got)
	}
	if !strings.Contains(gen.prompt, "Average tinnitus: 6.5") {
		t.Errorf("Expected figures in the prompt, got %q", gen.prompt)
	}

	for _, cause := range []error{
		errors.New("quota exceeded"),
		apperrors.NewExternalAPIError(errors.New("503 Service Unavailable"), "gemini"),
	} {
		failing := &fakeGenerator{err: cause}
		if got := services.NewNarrativeService(failing).Summarize(ctx, "Pat", res); got != plain {
			t.Errorf("Expected fallback summary for %v, got %q", cause, got)
		}
	}
}
