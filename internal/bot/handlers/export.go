package handlers

import (
	"bytes"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/menus"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
	"github.com/vladimiradmaev/tinnitus-helper/internal/services"
	"github.com/vladimiradmaev/tinnitus-helper/internal/utils"
)

// ExportHandler sends reports as CSV documents
type ExportHandler struct {
	api  menus.Sender
	deps Dependencies
}

// NewExportHandler creates a new export handler
func NewExportHandler(api menus.Sender, deps Dependencies) *ExportHandler {
	return &ExportHandler{api: api, deps: deps}
}

// Handle builds the report and uploads it as a CSV file
func (h *ExportHandler) Handle(ctx context.Context, chatID int64, user *domain.User, kind report.Kind, patientID uint) error {
	pr, err := h.deps.ReportSvc.Build(ctx, services.Session(user), patientID, services.ReportRequest{Kind: kind})
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, pr.Result); err != nil {
		return fmt.Errorf("failed to render csv: %w", err)
	}

	_, _ = h.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadDocument))

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  ExportFileName(pr.Result),
		Bytes: buf.Bytes(),
	})
	doc.Caption = menus.ReportTitle(kind, pr.Patient) + "\n" + pr.Range.String()
	if _, err := h.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send export: %w", err)
	}
	logger.Infof("User %d exported %s report of patient %d", user.ID, kind, patientID)
	return nil
}

// ExportFileName names an export uniquely so repeated downloads do not clash
// in the user's files
func ExportFileName(res *report.Result) string {
	return fmt.Sprintf("tinnitus-%s-%s-%s.csv", res.Kind, utils.FormatDate(res.Range.End), uuid.NewString()[:8])
}
