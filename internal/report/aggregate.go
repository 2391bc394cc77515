package report

import (
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
)

// WeeklyReport summarises a series of check-ins. The name is historical: the
// same shape is used for weekly, monthly and full-history views.
type WeeklyReport struct {
	TinnitusLevels   []*int  `json:"tinnitus_levels"`
	AnxietyLevels    []*int  `json:"anxiety_levels"`
	RelaxationDays   int     `json:"relaxation_days"`
	SoundTherapyDays int     `json:"sound_therapy_days"`
	AverageTinnitus  float64 `json:"average_tinnitus"`
	AverageAnxiety   float64 `json:"average_anxiety"`
	// RecordedDays is the number of distinct days with a check-in.
	RecordedDays int `json:"recorded_days"`
	// DenominatorDays is the day count adherence ratios divide by.
	DenominatorDays int `json:"denominator_days"`
}

// RelaxationRatio is the share of denominator days with relaxation done
func (r WeeklyReport) RelaxationRatio() float64 {
	return ratio(r.RelaxationDays, r.DenominatorDays)
}

// SoundTherapyRatio is the share of denominator days with sound therapy done
func (r WeeklyReport) SoundTherapyRatio() float64 {
	return ratio(r.SoundTherapyDays, r.DenominatorDays)
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Aggregate summarises a padded series.
//
// Level slices mirror the padded slots. Averages and adherence counts come
// from the recorded check-ins only, so padding never adds phantom entries.
// The adherence denominator is the number of recorded days, or, when
// useCalendarDenominator is set, the calendar capacity of the series
// (slots × 7 for weekly slots, slots for daily ones).
func Aggregate(p Padded, useCalendarDenominator bool) WeeklyReport {
	r := summarise(p.Records)
	r.TinnitusLevels = p.TinnitusSeries()
	r.AnxietyLevels = p.AnxietySeries()

	if useCalendarDenominator {
		r.DenominatorDays = p.Len()
		if p.Granularity == Weekly {
			r.DenominatorDays = p.Len() * 7
		}
	}
	return r
}

// Chunk partitions chronologically sorted daily records into consecutive
// groups of size (the last may be shorter) and summarises each group on its
// own. A non-positive size falls back to DefaultChunkSize.
func Chunk(sorted []domain.CheckIn, size int) []WeeklyReport {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([]WeeklyReport, 0, (len(sorted)+size-1)/size)
	for start := 0; start < len(sorted); start += size {
		end := min(start+size, len(sorted))
		group := sorted[start:end]

		r := summarise(group)
		r.TinnitusLevels = make([]*int, len(group))
		r.AnxietyLevels = make([]*int, len(group))
		for i, ci := range group {
			r.TinnitusLevels[i] = cloneLevel(ci.TinnitusLevel)
			r.AnxietyLevels[i] = cloneLevel(ci.AnxietyLevel)
		}
		chunks = append(chunks, r)
	}
	return chunks
}

// summarise counts adherence and averages levels over recorded check-ins.
// The denominator defaults to the number of records.
func summarise(records []domain.CheckIn) WeeklyReport {
	var (
		r                       WeeklyReport
		tinnitusSum, anxietySum int
		tinnitusN, anxietyN     int
	)
	for _, ci := range records {
		if ci.RelaxationDone.Done() {
			r.RelaxationDays++
		}
		if ci.SoundTherapyDone.Done() {
			r.SoundTherapyDays++
		}
		if ci.TinnitusLevel != nil {
			tinnitusSum += *ci.TinnitusLevel
			tinnitusN++
		}
		if ci.AnxietyLevel != nil {
			anxietySum += *ci.AnxietyLevel
			anxietyN++
		}
	}
	r.AverageTinnitus = mean(tinnitusSum, tinnitusN)
	r.AverageAnxiety = mean(anxietySum, anxietyN)
	r.RecordedDays = len(records)
	r.DenominatorDays = len(records)
	return r
}

// mean is 0 for an empty set rather than NaN
func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
