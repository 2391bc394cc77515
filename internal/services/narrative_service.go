package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
	"google.golang.org/api/option"
)

// TextGenerator produces free text from a prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator generates text with a Gemini model
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "gemini")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty response from Gemini")
	}
	return strings.TrimSpace(sb.String()), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// NarrativeService writes short clinician-facing report summaries
type NarrativeService struct {
	generator TextGenerator
	log       *slog.Logger
}

// NewNarrativeService creates the service. A nil generator always yields the
// plain text summary.
func NewNarrativeService(generator TextGenerator) *NarrativeService {
	return &NarrativeService{
		generator: generator,
		log:       logger.ForComponent("narrative_service"),
	}
}

// Summarize describes the report in a few sentences. It falls back to
// FormatSummary when no generator is configured or generation fails.
func (s *NarrativeService) Summarize(ctx context.Context, patientName string, res *report.Result) string {
	fallback := FormatSummary(patientName, res)
	if s.generator == nil || res.Report.RecordedDays == 0 {
		return fallback
	}

	text, err := s.generator.Generate(ctx, narrativePrompt(patientName, res))
	if err != nil {
		if !errors.Is(err, apperrors.ErrExternalAPI) {
			err = apperrors.NewExternalAPIError(err, "narrative")
		}
		apperrors.NewHandler(s.log).Handle(ctx, err)
		return fallback
	}
	return text
}

func narrativePrompt(patientName string, res *report.Result) string {
	return fmt.Sprintf(`You are assisting an audiologist reviewing a tinnitus retraining patient.
Write at most four sentences in plain English describing the trend below.
Do not give a diagnosis and do not invent numbers.

%s`, FormatSummary(patientName, res))
}

// FormatSummary renders the report figures as text
func FormatSummary(patientName string, res *report.Result) string {
	r := res.Report
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s report for %s\n", res.Kind.Label(), patientName)
	fmt.Fprintf(&sb, "Period: %s\n", res.Range)
	if r.RecordedDays == 0 {
		sb.WriteString("No check-ins recorded in this period.")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Check-ins: %d\n", r.RecordedDays)
	fmt.Fprintf(&sb, "Average tinnitus: %.1f\n", r.AverageTinnitus)
	fmt.Fprintf(&sb, "Average anxiety: %.1f\n", r.AverageAnxiety)
	fmt.Fprintf(&sb, "Relaxation: %d/%d days (%.0f%%)\n", r.RelaxationDays, r.DenominatorDays, r.RelaxationRatio()*100)
	fmt.Fprintf(&sb, "Sound therapy: %d/%d days (%.0f%%)", r.SoundTherapyDays, r.DenominatorDays, r.SoundTherapyRatio()*100)
	return sb.String()
}
