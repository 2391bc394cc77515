package report

import (
	"time"

	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
)

// BuildRequest is everything needed to produce one report
type BuildRequest struct {
	Kind    Kind
	Today   time.Time
	Records []domain.CheckIn
	// SignupDate seeds since_signup ranges when there are no records yet.
	SignupDate time.Time
	// OverrideStart / OverrideEnd pin the window, e.g. to regenerate an
	// earlier export.
	OverrideStart *time.Time
	OverrideEnd   *time.Time
	// ExtendToMonthEnd overrides the aggregator default when set.
	ExtendToMonthEnd *bool
	// UseCalendarDenominator overrides DefaultCalendarDenominator(Kind) when set.
	UseCalendarDenominator *bool
}

// Result is a report plus the series and range it was computed over
type Result struct {
	Kind   Kind
	Range  DateRange
	Series Padded
	Report WeeklyReport
	// Weeks holds the per-chunk summaries of a since_signup report.
	Weeks []WeeklyReport
}

// Labels returns one axis label per series slot
func (r *Result) Labels() []string {
	return r.Series.Labels()
}

// Build resolves the range, filters and pads the records and aggregates them.
// The output depends only on the request and the aggregator options.
func (a *Aggregator) Build(req BuildRequest) (*Result, error) {
	records := a.parse(req.Records)

	opts := RangeOptions{
		ExtendToMonthEnd: a.opts.ExtendToMonthEnd,
		SignupDate:       req.SignupDate,
		OverrideStart:    req.OverrideStart,
		OverrideEnd:      req.OverrideEnd,
	}
	if req.ExtendToMonthEnd != nil {
		opts.ExtendToMonthEnd = *req.ExtendToMonthEnd
	}
	if len(records) > 0 {
		opts.Earliest = &records[0].day
	}

	r, err := ResolveRange(req.Kind, req.Today, opts)
	if err != nil {
		return nil, err
	}

	calendar := DefaultCalendarDenominator(req.Kind)
	if req.UseCalendarDenominator != nil {
		calendar = *req.UseCalendarDenominator
	}

	padded := pad(records, r, req.Kind.Granularity())
	result := &Result{
		Kind:   req.Kind,
		Range:  r,
		Series: padded,
		Report: Aggregate(padded, calendar),
	}
	if req.Kind == KindSinceSignup {
		result.Weeks = Chunk(padded.Records, a.opts.ChunkSize)
	}
	return result, nil
}
