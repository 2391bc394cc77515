package handlers

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/menus"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/state"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          menus.Sender
	stateManager state.StateManager
	checkIn      *CheckInHandler
	reports      *ReportHandler
	export       *ExportHandler
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api menus.Sender, stateManager state.StateManager, checkIn *CheckInHandler, reports *ReportHandler, export *ExportHandler) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		stateManager: stateManager,
		checkIn:      checkIn,
		reports:      reports,
		export:       export,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		return err
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	parts := strings.Split(query.Data, ":")
	switch parts[0] {
	case keyboards.CallbackMainMenu:
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendMainMenu(h.api, chatID, user)
	case keyboards.CallbackHelp:
		return menus.SendHelp(h.api, chatID)
	case keyboards.CallbackCheckIn:
		return h.checkIn.Start(ctx, chatID, user)
	case keyboards.CallbackAnswer:
		if len(parts) != 3 {
			break
		}
		return h.checkIn.HandleAnswer(ctx, chatID, user, parts[1], parts[2])
	case keyboards.CallbackPatients:
		return h.reports.SendPatients(ctx, chatID, user)
	case keyboards.CallbackReports, keyboards.CallbackPatient:
		patientID := user.ID
		if len(parts) == 2 {
			id, ok := parseID(parts[1])
			if !ok {
				break
			}
			patientID = id
		}
		return h.reports.SendRanges(ctx, chatID, user, patientID)
	case keyboards.CallbackReport, keyboards.CallbackExport, keyboards.CallbackSummary:
		if len(parts) != 3 {
			break
		}
		kind, err := report.ParseKind(parts[1])
		if err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		patientID, ok := parseID(parts[2])
		if !ok {
			break
		}
		switch parts[0] {
		case keyboards.CallbackReport:
			return h.reports.SendReport(ctx, chatID, user, kind, patientID)
		case keyboards.CallbackExport:
			return h.export.Handle(ctx, chatID, user, kind, patientID)
		default:
			return h.reports.SendSummary(ctx, chatID, user, kind, patientID)
		}
	}
	return h.handleUnknownCallback(chatID)
}

// handleUnknownCallback handles stale or malformed buttons
func (h *CallbackHandler) handleUnknownCallback(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "This button is no longer supported. Use /start to open the menu.")
	_, err := h.api.Send(msg)
	return err
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
