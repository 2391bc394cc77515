package report

import (
	"fmt"
	"strings"

	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
)

// Kind names the policy used to derive a report window from "today"
type Kind string

const (
	KindWeekly      Kind = "weekly"
	KindMonthly     Kind = "monthly"
	KindSinceSignup Kind = "since_signup"
)

// Kinds lists every supported kind in display order
var Kinds = []Kind{KindWeekly, KindMonthly, KindSinceSignup}

// ParseKind converts a user or API supplied string into a Kind.
// There is no default: anything unknown is an invalid argument.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown report range %q", s)).
			WithContext("range", s)
	}
	return k, nil
}

// Valid reports whether k is one of the supported kinds
func (k Kind) Valid() bool {
	switch k {
	case KindWeekly, KindMonthly, KindSinceSignup:
		return true
	}
	return false
}

// Label is the human readable report title
func (k Kind) Label() string {
	switch k {
	case KindWeekly:
		return "Weekly"
	case KindMonthly:
		return "Monthly"
	case KindSinceSignup:
		return "Full History"
	default:
		return "Report"
	}
}

// Granularity is the slot size used when padding a series of this kind
func (k Kind) Granularity() Granularity {
	if k == KindSinceSignup {
		return Weekly
	}
	return Daily
}

// DefaultCalendarDenominator is the adherence denominator policy historically
// used for each kind: full history divides by weeks × 7, the others by
// recorded days.
func DefaultCalendarDenominator(k Kind) bool {
	return k == KindSinceSignup
}

// Granularity is the width of one slot of a padded series
type Granularity int

const (
	Daily Granularity = iota
	Weekly
)

func (g Granularity) String() string {
	if g == Weekly {
		return "weekly"
	}
	return "daily"
}
