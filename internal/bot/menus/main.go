package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/tinnitus-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
	"github.com/vladimiradmaev/tinnitus-helper/internal/services"
)

// Sender is the part of the Telegram API the bot uses. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const HelpText = `Available commands:
/start - Show the main menu
/checkin - Record today's check-in
/report - View your progress reports
/patients - Review patients (admins only)
/cancel - Abort the current check-in
/help - Show this message

Check in once a day. Answering again the same day replaces your earlier answers.`

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64, user *domain.User) error {
	text := fmt.Sprintf(`👋 Hello, %s!

This bot helps you follow your tinnitus retraining programme:
• Record a short daily check-in
• Track tinnitus and anxiety over time
• Export reports for your audiologist

Choose an action:`, user.DisplayName())

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.MainMenu(user.IsAdmin())
	_, err := api.Send(msg)
	return err
}

// SendHelp sends the command overview
func SendHelp(api Sender, chatID int64) error {
	_, err := api.Send(tgbotapi.NewMessage(chatID, HelpText))
	return err
}

// SendReportRangeMenu asks which report to show
func SendReportRangeMenu(api Sender, chatID int64, patient *domain.User) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Which report for %s?", patient.DisplayName()))
	msg.ReplyMarkup = keyboards.ReportRangeMenu(patient.ID)
	_, err := api.Send(msg)
	return err
}

// SendPatientsMenu lists patients for an admin
func SendPatientsMenu(api Sender, chatID int64, patients []domain.User) error {
	text := "Select a patient:"
	if len(patients) == 0 {
		text = "No patients have registered yet."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.PatientsMenu(patients)
	_, err := api.Send(msg)
	return err
}

// ReportText renders a report with its per-slot series and suggestion
func ReportText(pr *services.PatientReport, suggestion string) string {
	var sb strings.Builder
	sb.WriteString(services.FormatSummary(pr.Patient.DisplayName(), pr.Result))

	if pr.Report.RecordedDays > 0 {
		sb.WriteString("\n\nTinnitus / anxiety:\n")
		labels := pr.Labels()
		for i, pt := range pr.Series.Points {
			fmt.Fprintf(&sb, "%s  %s / %s\n", labels[i], levelText(pt.Tinnitus), levelText(pt.Anxiety))
		}
	}

	if len(pr.Weeks) > 1 {
		sb.WriteString("\nCheck-in blocks:\n")
		for i, week := range pr.Weeks {
			fmt.Fprintf(&sb, "#%d  tinnitus %.1f, anxiety %.1f\n", i+1, week.AverageTinnitus, week.AverageAnxiety)
		}
	}

	if suggestion != "" {
		sb.WriteString("\n💡 ")
		sb.WriteString(suggestion)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// CheckInSavedText confirms a stored check-in
func CheckInSavedText(checkIn *domain.CheckIn, recommendation string) string {
	text := fmt.Sprintf("✅ Check-in for %s saved.", checkIn.Date)
	if recommendation != "" {
		text += "\n\n💡 " + recommendation + " Use /checkin to update it."
	}
	return text
}

func levelText(level *int) string {
	if level == nil {
		return "–"
	}
	return fmt.Sprintf("%d", *level)
}

// ReportTitle names a report for captions
func ReportTitle(kind report.Kind, patient *domain.User) string {
	return fmt.Sprintf("%s report – %s", kind.Label(), patient.DisplayName())
}
