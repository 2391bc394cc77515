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
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"github.com/vladimiradmaev/tinnitus-helper/internal/services"
)

// Wizard steps, as used in callback data
const (
	stepRelaxation           = "relax"
	stepRelaxationDuration   = "relax_dur"
	stepSoundTherapy         = "sound"
	stepSoundTherapyDuration = "sound_dur"
	stepTinnitus             = "tinnitus"
	stepAnxiety              = "anxiety"
)

// stepStates maps a wizard step to the state the user must be in to answer it
var stepStates = map[string]string{
	stepRelaxation:           state.CheckInRelaxation,
	stepRelaxationDuration:   state.CheckInRelaxationDuration,
	stepSoundTherapy:         state.CheckInSoundTherapy,
	stepSoundTherapyDuration: state.CheckInSoundTherapyDuration,
	stepTinnitus:             state.CheckInTinnitus,
	stepAnxiety:              state.CheckInAnxiety,
}

// temp data keys of the check-in draft
const (
	keyRelaxation           = "relaxation"
	keyRelaxationDuration   = "relaxation_duration"
	keySoundTherapy         = "sound_therapy"
	keySoundTherapyDuration = "sound_therapy_duration"
	keyTinnitus             = "tinnitus"
	keyAnxiety              = "anxiety"
)

// CheckInHandler runs the daily check-in conversation
type CheckInHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
}

// NewCheckInHandler creates a new check-in handler
func NewCheckInHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager) *CheckInHandler {
	return &CheckInHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Start begins a new check-in, discarding any unfinished one
func (h *CheckInHandler) Start(ctx context.Context, chatID int64, user *domain.User) error {
	h.stateManager.ClearTempData(user.TelegramID)
	h.stateManager.SetUserState(user.TelegramID, state.CheckInRelaxation)

	text := "📝 Daily check-in\n\nDid you do your relaxation exercises today?"
	if existing, err := h.deps.CheckInSvc.GetToday(ctx, user.ID); err == nil && existing != nil {
		text = "📝 You already checked in today. Your new answers will replace the earlier ones.\n\nDid you do your relaxation exercises today?"
	}
	return h.ask(chatID, text, keyboards.AnswerMenu(stepRelaxation))
}

// Cancel aborts an unfinished check-in
func (h *CheckInHandler) Cancel(chatID int64, user *domain.User) error {
	h.stateManager.ClearTempData(user.TelegramID)
	h.stateManager.SetUserState(user.TelegramID, state.None)
	_, err := h.api.Send(tgbotapi.NewMessage(chatID, "Check-in cancelled."))
	return err
}

// InProgress reports whether the user is waiting on a level answer, the only
// steps that accept typed text
func (h *CheckInHandler) InProgress(user *domain.User) bool {
	s := h.stateManager.GetUserState(user.TelegramID)
	return s == state.CheckInTinnitus || s == state.CheckInAnxiety
}

// HandleText accepts a typed level for the current level step
func (h *CheckInHandler) HandleText(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	step := stepTinnitus
	if h.stateManager.GetUserState(user.TelegramID) == state.CheckInAnxiety {
		step = stepAnxiety
	}
	value := strings.ToLower(strings.TrimSpace(message.Text))
	return h.HandleAnswer(ctx, message.Chat.ID, user, step, value)
}

// HandleAnswer applies one answer and moves the wizard forward
func (h *CheckInHandler) HandleAnswer(ctx context.Context, chatID int64, user *domain.User, step, value string) error {
	uid := user.TelegramID
	expected, known := stepStates[step]
	if !known || h.stateManager.GetUserState(uid) != expected {
		_, err := h.api.Send(tgbotapi.NewMessage(chatID, "This question is no longer active. Use /checkin to start again."))
		return err
	}

	switch step {
	case stepRelaxation, stepSoundTherapy:
		answer := domain.Answer(value)
		if !answer.Valid() {
			return h.ask(chatID, "Please answer Yes or No.", keyboards.AnswerMenu(step))
		}
		if step == stepRelaxation {
			h.stateManager.SetTempData(uid, keyRelaxation, value)
			if answer.Done() {
				h.stateManager.SetUserState(uid, state.CheckInRelaxationDuration)
				return h.ask(chatID, "How long did you practise relaxation?",
					keyboards.DurationMenu(stepRelaxationDuration, domain.RelaxationDurations))
			}
			return h.askSoundTherapy(chatID, uid)
		}
		h.stateManager.SetTempData(uid, keySoundTherapy, value)
		if answer.Done() {
			h.stateManager.SetUserState(uid, state.CheckInSoundTherapyDuration)
			return h.ask(chatID, "How long did you use sound therapy?",
				keyboards.DurationMenu(stepSoundTherapyDuration, domain.SoundTherapyDurations))
		}
		return h.askLevel(chatID, uid, stepTinnitus)

	case stepRelaxationDuration:
		duration, ok := bucket(domain.RelaxationDurations, value)
		if !ok {
			return h.ask(chatID, "Please pick one of the options.",
				keyboards.DurationMenu(step, domain.RelaxationDurations))
		}
		h.stateManager.SetTempData(uid, keyRelaxationDuration, duration)
		return h.askSoundTherapy(chatID, uid)

	case stepSoundTherapyDuration:
		duration, ok := bucket(domain.SoundTherapyDurations, value)
		if !ok {
			return h.ask(chatID, "Please pick one of the options.",
				keyboards.DurationMenu(step, domain.SoundTherapyDurations))
		}
		h.stateManager.SetTempData(uid, keySoundTherapyDuration, duration)
		return h.askLevel(chatID, uid, stepTinnitus)

	case stepTinnitus, stepAnxiety:
		if value != keyboards.SkipValue {
			level, err := strconv.Atoi(value)
			if err != nil || level < domain.MinLevel || level > domain.MaxLevel {
				return h.ask(chatID, "Please send a number from 1 to 10, or tap Skip.", keyboards.LevelMenu(step))
			}
		}
		if step == stepTinnitus {
			h.stateManager.SetTempData(uid, keyTinnitus, value)
			return h.askLevel(chatID, uid, stepAnxiety)
		}
		h.stateManager.SetTempData(uid, keyAnxiety, value)
		return h.finish(ctx, chatID, user)
	}
	return nil
}

func (h *CheckInHandler) askSoundTherapy(chatID, uid int64) error {
	h.stateManager.SetUserState(uid, state.CheckInSoundTherapy)
	return h.ask(chatID, "Did you do sound therapy today?", keyboards.AnswerMenu(stepSoundTherapy))
}

func (h *CheckInHandler) askLevel(chatID, uid int64, step string) error {
	h.stateManager.SetUserState(uid, stepStates[step])
	question := "How loud was your tinnitus today? (1 = barely noticeable, 10 = unbearable)"
	if step == stepAnxiety {
		question = "How anxious did you feel today? (1 = calm, 10 = very anxious)"
	}
	return h.ask(chatID, question, keyboards.LevelMenu(step))
}

func (h *CheckInHandler) finish(ctx context.Context, chatID int64, user *domain.User) error {
	uid := user.TelegramID
	get := func(key string) string {
		v, _ := h.stateManager.GetTempData(uid, key)
		return v
	}

	in := services.CheckInInput{
		RelaxationDone:       domain.Answer(get(keyRelaxation)),
		RelaxationDuration:   get(keyRelaxationDuration),
		SoundTherapyDone:     domain.Answer(get(keySoundTherapy)),
		SoundTherapyDuration: get(keySoundTherapyDuration),
		TinnitusLevel:        parseLevel(get(keyTinnitus)),
		AnxietyLevel:         parseLevel(get(keyAnxiety)),
	}

	h.stateManager.ClearTempData(uid)
	h.stateManager.SetUserState(uid, state.None)

	saved, err := h.deps.CheckInSvc.SaveToday(ctx, user.ID, in)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	logger.Infof("User %d completed check-in for %s", user.ID, saved.Date)

	msg := tgbotapi.NewMessage(chatID, menus.CheckInSavedText(saved, services.Recommendation(*saved)))
	msg.ReplyMarkup = keyboards.MainMenu(user.IsAdmin())
	_, err = h.api.Send(msg)
	return err
}

func (h *CheckInHandler) ask(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := h.api.Send(msg)
	return err
}

func bucket(options []string, value string) (string, bool) {
	i, err := strconv.Atoi(value)
	if err != nil || i < 0 || i >= len(options) {
		return "", false
	}
	return options[i], true
}

func parseLevel(value string) *int {
	level, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return domain.Level(level)
}
