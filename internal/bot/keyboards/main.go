package keyboards

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
)

// Callback data prefixes. Payloads follow the prefix, colon separated:
// reports:<patientID>, patient:<patientID>, report|export|summary:<kind>:<patientID>
// and ci:<step>:<value>.
const (
	CallbackMainMenu = "main_menu"
	CallbackHelp     = "help"
	CallbackCheckIn  = "checkin"
	CallbackReports  = "reports"
	CallbackPatients = "patients"
	CallbackPatient  = "patient"
	CallbackReport   = "report"
	CallbackExport   = "export"
	CallbackSummary  = "summary"
	CallbackAnswer   = "ci"
)

// SkipValue marks a skipped level
const SkipValue = "skip"

// MainMenu creates the main menu keyboard
func MainMenu(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Daily check-in", CallbackCheckIn),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My reports", CallbackReports),
		),
	)
	if isAdmin {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👥 Patients", CallbackPatients),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", CallbackHelp),
		),
	)
	return keyboard
}

// AnswerMenu offers Yes/No for a check-in step
func AnswerMenu(step string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", answerData(step, string(domain.AnswerYes))),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", answerData(step, string(domain.AnswerNo))),
		),
	)
}

// DurationMenu offers the duration buckets of a step. Buttons carry the
// bucket index since bucket labels contain characters awkward in callbacks.
func DurationMenu(step string, options []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, answerData(step, strconv.Itoa(i))),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// LevelMenu offers the 1-10 scale in two rows plus Skip
func LevelMenu(step string) tgbotapi.InlineKeyboardMarkup {
	var first, second []tgbotapi.InlineKeyboardButton
	for level := domain.MinLevel; level <= domain.MaxLevel; level++ {
		button := tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(level), answerData(step, strconv.Itoa(level)))
		if level <= 5 {
			first = append(first, button)
		} else {
			second = append(second, button)
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		first,
		second,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭️ Skip", answerData(step, SkipValue)),
		),
	)
}

// ReportRangeMenu lets the user pick a report range for a patient
func ReportRangeMenu(patientID uint) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, kind := range report.Kinds {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 "+kind.Label(), reportData(CallbackReport, kind, patientID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ReportActions is shown under a rendered report
func ReportActions(kind report.Kind, patientID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 Export CSV", reportData(CallbackExport, kind, patientID)),
			tgbotapi.NewInlineKeyboardButtonData("📝 Summary", reportData(CallbackSummary, kind, patientID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Ranges", fmt.Sprintf("%s:%d", CallbackReports, patientID)),
		),
	)
}

// PatientsMenu lists patients for admin review
func PatientsMenu(patients []domain.User) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range patients {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 "+p.DisplayName(), fmt.Sprintf("%s:%d", CallbackPatient, p.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func answerData(step, value string) string {
	return fmt.Sprintf("%s:%s:%s", CallbackAnswer, step, value)
}

func reportData(prefix string, kind report.Kind, patientID uint) string {
	return fmt.Sprintf("%s:%s:%d", prefix, kind, patientID)
}
