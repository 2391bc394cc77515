package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/menus"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/state"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
)

// Commands is the command list published to Telegram
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Show the main menu"},
	{Command: "checkin", Description: "Record today's check-in"},
	{Command: "report", Description: "View your progress reports"},
	{Command: "patients", Description: "Review patients (admins)"},
	{Command: "cancel", Description: "Abort the current check-in"},
	{Command: "help", Description: "Show help"},
}

// CommandHandler handles bot commands
type CommandHandler struct {
	api          menus.Sender
	stateManager state.StateManager
	checkIn      *CheckInHandler
	reports      *ReportHandler
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api menus.Sender, stateManager state.StateManager, checkIn *CheckInHandler, reports *ReportHandler) *CommandHandler {
	return &CommandHandler{
		api:          api,
		stateManager: stateManager,
		checkIn:      checkIn,
		reports:      reports,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	logger.WithFields("user_id", user.ID, "chat_id", message.Chat.ID).Info("Handling command", "command", message.Command())
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return menus.SendMainMenu(h.api, chatID, user)
	case "help":
		return menus.SendHelp(h.api, chatID)
	case "checkin":
		return h.checkIn.Start(ctx, chatID, user)
	case "cancel":
		return h.checkIn.Cancel(chatID, user)
	case "report":
		return h.reports.SendRanges(ctx, chatID, user, user.ID)
	case "patients":
		return h.reports.SendPatients(ctx, chatID, user)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Unknown command. Use /help to see the available commands.")
	_, err := h.api.Send(msg)
	return err
}
