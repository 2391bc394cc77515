package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/state"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
)

type Bot struct {
	api           *tgbotapi.BotAPI
	updateHandler *handlers.UpdateHandler
	log           *slog.Logger
}

func NewBot(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log := logger.ForComponent("bot")
	log.Info("Bot authorized", "account", api.Self.UserName)

	if _, err := api.Request(tgbotapi.NewSetMyCommands(handlers.Commands...)); err != nil {
		log.Warn("Failed to publish command list", "error", err.Error())
	}

	return &Bot{
		api:           api,
		updateHandler: handlers.NewUpdateHandler(api, deps, stateManager),
		log:           log,
	}, nil
}

// Start polls for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Bot is shutting down")
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Panic while handling update", "update_id", update.UpdateID, "panic", fmt.Sprint(r))
		}
	}()

	if update.Message != nil && update.Message.From != nil {
		b.log.Debug("Received message", "telegram_id", update.Message.From.ID, "text", update.Message.Text)
	}
	if err := b.updateHandler.Handle(ctx, update); err != nil {
		b.log.Error("Error handling update", "update_id", update.UpdateID, "error", err.Error())
	}
}
