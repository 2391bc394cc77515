package handlers

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/menus"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/interfaces"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService  interfaces.UserServiceInterface
	CheckInSvc   interfaces.CheckInServiceInterface
	ReportSvc    interfaces.ReportServiceInterface
	NarrativeSvc interfaces.NarrativeServiceInterface
}

// replyError logs err and tells the user what went wrong in plain words.
// Only a failure to send the reply is returned.
func replyError(ctx context.Context, api menus.Sender, chatID int64, err error) error {
	apperrors.NewHandler(logger.ForComponent("bot")).Handle(ctx, err)

	text := "⚠️ Something went wrong. Please try again later."
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrDatabaseError):
		text = "⚠️ Your data is temporarily unavailable. Please try again in a minute."
	case errors.As(err, &appErr):
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			text = "⚠️ " + appErr.Message
		case apperrors.ErrorTypePermission:
			text = "⛔ You don't have access to this."
		case apperrors.ErrorTypeNotFound:
			text = "🔍 Nothing found."
		}
	}
	_, sendErr := api.Send(tgbotapi.NewMessage(chatID, text))
	return sendErr
}
