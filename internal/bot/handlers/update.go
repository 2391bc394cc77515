package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/menus"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/state"
	"github.com/vladimiradmaev/tinnitus-helper/internal/interfaces"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             menus.Sender
	userService     interfaces.UserServiceInterface
	stateManager    state.StateManager
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(
	api menus.Sender,
	deps Dependencies,
	stateManager state.StateManager,
) *UpdateHandler {
	checkIn := NewCheckInHandler(api, deps, stateManager)
	reports := NewReportHandler(api, deps)
	export := NewExportHandler(api, deps)
	return &UpdateHandler{
		api:             api,
		userService:     deps.UserService,
		stateManager:    stateManager,
		callbackHandler: NewCallbackHandler(api, stateManager, checkIn, reports, export),
		commandHandler:  NewCommandHandler(api, stateManager, checkIn, reports),
		textHandler:     NewTextHandler(api, checkIn),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var from *tgbotapi.User
	switch {
	case update.Message != nil:
		from = update.Message.From
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	}
	if from == nil {
		return nil
	}

	user, err := h.userService.RegisterUser(ctx, from.ID, from.UserName, from.FirstName, from.LastName)
	if err != nil {
		return fmt.Errorf("failed to get/create user: %w", err)
	}

	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, user)
	}

	if update.Message.IsCommand() {
		return h.commandHandler.Handle(ctx, update.Message, user)
	}
	if update.Message.Text != "" {
		return h.textHandler.Handle(ctx, update.Message, user)
	}
	return nil
}
