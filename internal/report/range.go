package report

import (
	"fmt"
	"time"

	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/utils"
)

// DateRange is an inclusive pair of calendar dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days is the number of calendar days covered, both ends included
func (r DateRange) Days() int {
	return utils.DaysInclusive(r.Start, r.End)
}

// MaxSeriesSlots bounds the length of a padded series. Daily ranges may span
// about 350 years and weekly ones the whole calendar.
const MaxSeriesSlots = 1 << 17

// Slots is the number of series points r yields at granularity g
func (r DateRange) Slots(g Granularity) int {
	if g == Weekly {
		return utils.DaysInclusive(utils.WeekStart(r.Start), utils.WeekStart(r.End))/7 + 1
	}
	return r.Days()
}

// Contains reports whether the civil date d falls inside the range
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", utils.FormatDate(r.Start), utils.FormatDate(r.End))
}

// RangeOptions carries the inputs range resolution needs beyond kind and today
type RangeOptions struct {
	// ExtendToMonthEnd makes monthly ranges run to the last day of the month
	// instead of today.
	ExtendToMonthEnd bool
	// Earliest is the first recorded check-in date; nil when there are none.
	Earliest *time.Time
	// SignupDate is used by since_signup when there are no check-ins yet.
	SignupDate time.Time
	// Overrides win over computed bounds, for regenerating a past report.
	OverrideStart *time.Time
	OverrideEnd   *time.Time
}

// ResolveRange computes the inclusive window for kind relative to today.
// All returned dates are civil dates at midnight UTC.
func ResolveRange(kind Kind, today time.Time, opts RangeOptions) (DateRange, error) {
	today = utils.Day(today)

	var r DateRange
	switch kind {
	case KindWeekly:
		r = DateRange{Start: today.AddDate(0, 0, -6), End: today}
	case KindMonthly:
		r = DateRange{Start: utils.FirstOfMonth(today), End: today}
		if opts.ExtendToMonthEnd {
			r.End = utils.LastOfMonth(today)
		}
	case KindSinceSignup:
		r = DateRange{Start: today, End: today}
		switch {
		case opts.Earliest != nil:
			r.Start = utils.Day(*opts.Earliest)
		case !opts.SignupDate.IsZero():
			r.Start = utils.Day(opts.SignupDate)
		}
		// records dated after today must not push the start past the end
		if r.Start.After(r.End) {
			r.Start = r.End
		}
	default:
		return DateRange{}, apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown report range %q", kind)).
			WithContext("range", string(kind))
	}

	if opts.OverrideStart != nil {
		r.Start = utils.Day(*opts.OverrideStart)
	}
	if opts.OverrideEnd != nil {
		r.End = utils.Day(*opts.OverrideEnd)
	}
	if r.Start.After(r.End) {
		return DateRange{}, apperrors.NewInvalidArgumentError("report start is after report end").
			WithContext("start", utils.FormatDate(r.Start)).
			WithContext("end", utils.FormatDate(r.End))
	}
	if slots := r.Slots(kind.Granularity()); slots > MaxSeriesSlots {
		return DateRange{}, apperrors.NewInvalidArgumentError(
			fmt.Sprintf("report range %s needs %d slots, more than the %d allowed", r, slots, MaxSeriesSlots)).
			WithContext("start", utils.FormatDate(r.Start)).
			WithContext("end", utils.FormatDate(r.End))
	}
	return r, nil
}
