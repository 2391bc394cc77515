package report

import (
	"math"
	"time"

	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	"github.com/vladimiradmaev/tinnitus-helper/internal/utils"
)

// Point is one calendar slot of a padded series: a day, or an ISO week
// starting on Monday. Nil levels mark slots without data.
type Point struct {
	Start    time.Time
	Tinnitus *int
	Anxiety  *int
	// Entries is the number of recorded check-ins that fell into the slot.
	Entries int
	// CheckIn is the record behind a daily slot; always nil for weekly slots.
	CheckIn *domain.CheckIn
}

// Padded is a calendar-aligned series plus the records it was built from
type Padded struct {
	Range       DateRange
	Granularity Granularity
	Points      []Point
	// Records are the de-duplicated, in-range check-ins in date order.
	Records []domain.CheckIn
}

// Len is the number of slots
func (p Padded) Len() int {
	return len(p.Points)
}

// Labels returns one axis label per slot: "2006-01-02" for days, "2024-W11"
// for weeks.
func (p Padded) Labels() []string {
	labels := make([]string, len(p.Points))
	for i, pt := range p.Points {
		if p.Granularity == Weekly {
			labels[i] = utils.WeekLabel(pt.Start)
		} else {
			labels[i] = utils.FormatDate(pt.Start)
		}
	}
	return labels
}

// TinnitusSeries returns the tinnitus value of every slot
func (p Padded) TinnitusSeries() []*int {
	out := make([]*int, len(p.Points))
	for i, pt := range p.Points {
		out[i] = cloneLevel(pt.Tinnitus)
	}
	return out
}

// AnxietySeries returns the anxiety value of every slot
func (p Padded) AnxietySeries() []*int {
	out := make([]*int, len(p.Points))
	for i, pt := range p.Points {
		out[i] = cloneLevel(pt.Anxiety)
	}
	return out
}

// Pad lays the check-ins inside r onto a calendar grid of the given
// granularity. The grid always covers the whole range, so an empty input
// yields a full-length series of absent slots.
func (a *Aggregator) Pad(records []domain.CheckIn, r DateRange, g Granularity) Padded {
	return pad(a.parse(records), r, g)
}

func pad(records []dated, r DateRange, g Granularity) Padded {
	inRange := dedupeDated(filterDated(records, r))

	p := Padded{
		Range:       r,
		Granularity: g,
		Records:     unwrap(inRange),
	}
	if g == Weekly {
		p.Points = padWeekly(inRange, r)
	} else {
		p.Points = padDaily(p.Records, r)
	}
	return p
}

// padDaily expects records to be de-duplicated, in range and sorted
func padDaily(records []domain.CheckIn, r DateRange) []Point {
	points := make([]Point, r.Days())
	for i := range points {
		points[i].Start = r.Start.AddDate(0, 0, i)
	}
	for i := range records {
		day, _ := utils.ParseDate(records[i].Date)
		idx := utils.DaysInclusive(r.Start, day) - 1
		pt := &points[idx]
		pt.CheckIn = &records[i]
		pt.Tinnitus = cloneLevel(records[i].TinnitusLevel)
		pt.Anxiety = cloneLevel(records[i].AnxietyLevel)
		pt.Entries = 1
	}
	return points
}

// weekAccumulator sums the non-absent levels of one week
type weekAccumulator struct {
	tinnitusSum, tinnitusN int
	anxietySum, anxietyN   int
	entries                int
}

func (w *weekAccumulator) add(ci domain.CheckIn) {
	w.entries++
	if ci.TinnitusLevel != nil {
		w.tinnitusSum += *ci.TinnitusLevel
		w.tinnitusN++
	}
	if ci.AnxietyLevel != nil {
		w.anxietySum += *ci.AnxietyLevel
		w.anxietyN++
	}
}

func padWeekly(records []dated, r DateRange) []Point {
	first := utils.WeekStart(r.Start)
	weeks := r.Slots(Weekly)

	acc := make([]weekAccumulator, weeks)
	for _, d := range records {
		idx := (utils.DaysInclusive(first, utils.WeekStart(d.day)) - 1) / 7
		acc[idx].add(d.checkIn)
	}

	points := make([]Point, weeks)
	for i := range points {
		points[i] = Point{
			Start:    first.AddDate(0, 0, 7*i),
			Tinnitus: roundedMean(acc[i].tinnitusSum, acc[i].tinnitusN),
			Anxiety:  roundedMean(acc[i].anxietySum, acc[i].anxietyN),
			Entries:  acc[i].entries,
		}
	}
	return points
}

// roundedMean is nil for an empty set, otherwise the mean rounded half away
// from zero
func roundedMean(sum, n int) *int {
	if n == 0 {
		return nil
	}
	v := int(math.Round(float64(sum) / float64(n)))
	return &v
}
