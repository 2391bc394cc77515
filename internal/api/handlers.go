package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/interfaces"
	"github.com/vladimiradmaev/tinnitus-helper/internal/report"
	"github.com/vladimiradmaev/tinnitus-helper/internal/services"
	"github.com/vladimiradmaev/tinnitus-helper/internal/utils"
)

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	ping func(ctx context.Context) error
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReportResponse is the JSON form of one report. Labels, Tinnitus and
// Anxiety always have the same length.
type ReportResponse struct {
	PatientID   uint                  `json:"patient_id"`
	Patient     string                `json:"patient"`
	Range       report.Kind           `json:"range"`
	Start       string                `json:"start"`
	End         string                `json:"end"`
	Granularity string                `json:"granularity"`
	Labels      []string              `json:"labels"`
	Tinnitus    []*int                `json:"tinnitus"`
	Anxiety     []*int                `json:"anxiety"`
	Report      report.WeeklyReport   `json:"report"`
	Weeks       []report.WeeklyReport `json:"weeks,omitempty"`
	Suggestion  string                `json:"suggestion,omitempty"`
}

// ReportHandler serves patient reports
type ReportHandler struct {
	reports interfaces.ReportServiceInterface
}

func NewReportHandler(reports interfaces.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetReport serves GET /api/patients/:id/report
//
// Query: range (required), start, end (YYYY-MM-DD), extend_month,
// calendar_denominator (booleans) and format=csv for a file download.
func (h *ReportHandler) GetReport(c *gin.Context) {
	patientID, err := patientIDParam(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	req, err := parseReportRequest(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	pr, err := h.reports.Build(c.Request.Context(), sessionFrom(c), patientID, req)
	if err != nil {
		RespondError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, pr.Result); err != nil {
			RespondError(c, apperrors.NewInternalError(err))
			return
		}
		filename := fmt.Sprintf("tinnitus-%d-%s-%s.csv", patientID, pr.Kind, utils.FormatDate(pr.Range.End))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
		return
	}

	RespondOK(c, h.toResponse(pr))
}

// GetReports serves GET /api/patients/:id/reports with every range at once
func (h *ReportHandler) GetReports(c *gin.Context) {
	patientID, err := patientIDParam(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	all, err := h.reports.BuildAll(c.Request.Context(), sessionFrom(c), patientID)
	if err != nil {
		RespondError(c, err)
		return
	}

	out := make([]ReportResponse, len(all))
	for i, pr := range all {
		out[i] = h.toResponse(pr)
	}
	RespondOK(c, gin.H{"reports": out})
}

func (h *ReportHandler) toResponse(pr *services.PatientReport) ReportResponse {
	return ReportResponse{
		PatientID:   pr.Patient.ID,
		Patient:     pr.Patient.DisplayName(),
		Range:       pr.Kind,
		Start:       utils.FormatDate(pr.Range.Start),
		End:         utils.FormatDate(pr.Range.End),
		Granularity: pr.Series.Granularity.String(),
		Labels:      pr.Labels(),
		Tinnitus:    pr.Report.TinnitusLevels,
		Anxiety:     pr.Report.AnxietyLevels,
		Report:      pr.Report,
		Weeks:       pr.Weeks,
		Suggestion:  h.reports.Suggestion(pr.Result),
	}
}

func patientIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewInvalidArgumentError(fmt.Sprintf("invalid patient id %q", c.Param("id")))
	}
	return uint(id), nil
}

func parseReportRequest(c *gin.Context) (services.ReportRequest, error) {
	var req services.ReportRequest

	kind, err := report.ParseKind(c.Query("range"))
	if err != nil {
		return req, err
	}
	req.Kind = kind

	if req.Start, err = optionalDate(c, "start"); err != nil {
		return req, err
	}
	if req.End, err = optionalDate(c, "end"); err != nil {
		return req, err
	}
	if req.ExtendToMonthEnd, err = optionalBool(c, "extend_month"); err != nil {
		return req, err
	}
	if req.UseCalendarDenominator, err = optionalBool(c, "calendar_denominator"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("%s must be YYYY-MM-DD, got %q", key, raw))
	}
	return &d, nil
}

func optionalBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("%s must be a boolean, got %q", key, raw))
	}
	return &b, nil
}
