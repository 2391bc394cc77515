package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/menus"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
)

// TextHandler handles text messages
type TextHandler struct {
	api     menus.Sender
	checkIn *CheckInHandler
}

// NewTextHandler creates a new text handler
func NewTextHandler(api menus.Sender, checkIn *CheckInHandler) *TextHandler {
	return &TextHandler{
		api:     api,
		checkIn: checkIn,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	if h.checkIn.InProgress(user) {
		return h.checkIn.HandleText(ctx, message, user)
	}
	return h.handleDefaultText(message.Chat.ID, user)
}

// handleDefaultText handles text outside any conversation
func (h *TextHandler) handleDefaultText(chatID int64, user *domain.User) error {
	return menus.SendMainMenu(h.api, chatID, user)
}
