package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/menus"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
	"github.com/vladimiradmaev/tinnitus-helper/internal/services"
)

// ReportHandler shows reports and the admin patient list
type ReportHandler struct {
	api  menus.Sender
	deps Dependencies
}

// NewReportHandler creates a new report handler
func NewReportHandler(api menus.Sender, deps Dependencies) *ReportHandler {
	return &ReportHandler{api: api, deps: deps}
}

// SendRanges asks which report to show for patientID
func (h *ReportHandler) SendRanges(ctx context.Context, chatID int64, user *domain.User, patientID uint) error {
	patient := user
	if patientID != user.ID {
		if !user.IsAdmin() {
			return replyError(ctx, h.api, chatID,
				apperrors.NewUnauthorizedError("reports are only visible to their owner and admins"))
		}
		p, err := h.deps.UserService.GetUser(ctx, patientID)
		if err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		patient = p
	}
	return menus.SendReportRangeMenu(h.api, chatID, patient)
}

// SendReport renders one report as a message
func (h *ReportHandler) SendReport(ctx context.Context, chatID int64, user *domain.User, kind report.Kind, patientID uint) error {
	pr, err := h.deps.ReportSvc.Build(ctx, services.Session(user), patientID, services.ReportRequest{Kind: kind})
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	logger.Infof("User %d viewed %s report of patient %d", user.ID, kind, patientID)

	msg := tgbotapi.NewMessage(chatID, menus.ReportText(pr, h.deps.ReportSvc.Suggestion(pr.Result)))
	msg.ReplyMarkup = keyboards.ReportActions(kind, patientID)
	_, err = h.api.Send(msg)
	return err
}

// SendSummary sends the narrative summary of a report
func (h *ReportHandler) SendSummary(ctx context.Context, chatID int64, user *domain.User, kind report.Kind, patientID uint) error {
	pr, err := h.deps.ReportSvc.Build(ctx, services.Session(user), patientID, services.ReportRequest{Kind: kind})
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}

	// Gemini can take a few seconds
	_, _ = h.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))

	text := h.deps.NarrativeSvc.Summarize(ctx, pr.Patient.DisplayName(), pr.Result)
	_, err = h.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendPatients lists patients to an admin
func (h *ReportHandler) SendPatients(ctx context.Context, chatID int64, user *domain.User) error {
	patients, err := h.deps.UserService.ListPatients(ctx, services.Session(user))
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	return menus.SendPatientsMenu(h.api, chatID, patients)
}
