// Package report turns a user's stored check-ins into the date ranges, padded
// chart series and summary statistics shown by every report surface. It is the
// single place where report windows are computed; bot views, the HTTP API and
// exports all go through Build.
//
// Everything here is synchronous and free of I/O. An Aggregator is immutable
// after New and may be shared between goroutines.
package report

import (
	"log/slog"
	"sort"
	"time"

	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"github.com/vladimiradmaev/tinnitus-helper/internal/utils"
)

// DefaultChunkSize is the number of daily records per long-history chunk
const DefaultChunkSize = 7

// Options configures an Aggregator
type Options struct {
	// ExtendToMonthEnd is the default for monthly ranges; see RangeOptions.
	ExtendToMonthEnd bool
	// ChunkSize groups full-history records; DefaultChunkSize when <= 0.
	ChunkSize int
	// Logger receives data-quality warnings; discarded when nil.
	Logger *slog.Logger
}

// Aggregator builds reports from check-ins
type Aggregator struct {
	opts Options
	log  *slog.Logger
}

// New creates an Aggregator
func New(opts Options) *Aggregator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Aggregator{opts: opts, log: log}
}

// dated pairs a check-in with its parsed calendar date
type dated struct {
	day     time.Time
	checkIn domain.CheckIn
}

// parse drops records whose date cannot be parsed, warning once per record,
// and returns the rest stably sorted by date.
func (a *Aggregator) parse(records []domain.CheckIn) []dated {
	out := make([]dated, 0, len(records))
	for _, ci := range records {
		day, err := utils.ParseDate(ci.Date)
		if err != nil {
			appErr := apperrors.NewMalformedDateError(err, ci.Date).WithContext("user_id", ci.UserID)
			a.log.Warn("Skipping check-in with malformed date", appErr.LogFields()...)
			continue
		}
		out = append(out, dated{day: day, checkIn: ci})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].day.Before(out[j].day) })
	return out
}

// FilterByRange keeps records dated inside r, both ends included. Records with
// malformed dates are dropped with a warning. The result is a fresh slice in
// chronological order.
func (a *Aggregator) FilterByRange(records []domain.CheckIn, r DateRange) []domain.CheckIn {
	return unwrap(filterDated(a.parse(records), r))
}

func filterDated(records []dated, r DateRange) []dated {
	out := make([]dated, 0, len(records))
	for _, d := range records {
		if r.Contains(d.day) {
			out = append(out, d)
		}
	}
	return out
}

// Dedupe keeps one check-in per calendar day: the first one after a stable
// sort by date, so ties resolve to input order. It shares the parsing rule of
// Build, so malformed dates are dropped with a warning.
func (a *Aggregator) Dedupe(records []domain.CheckIn) []domain.CheckIn {
	return unwrap(dedupeDated(a.parse(records)))
}

// dedupeDated expects records sorted by day
func dedupeDated(records []dated) []dated {
	out := make([]dated, 0, len(records))
	for i, d := range records {
		if i > 0 && d.day.Equal(records[i-1].day) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func unwrap(records []dated) []domain.CheckIn {
	out := make([]domain.CheckIn, len(records))
	for i, d := range records {
		out[i] = cloneCheckIn(d.checkIn)
	}
	return out
}

// cloneCheckIn copies level pointers so results never alias caller data
func cloneCheckIn(ci domain.CheckIn) domain.CheckIn {
	ci.TinnitusLevel = cloneLevel(ci.TinnitusLevel)
	ci.AnxietyLevel = cloneLevel(ci.AnxietyLevel)
	return ci
}

func cloneLevel(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
