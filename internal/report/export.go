package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vladimiradmaev/tinnitus-helper/internal/utils"
)

var csvHeader = []string{
	"slot", "start", "tinnitus", "anxiety", "entries",
	"relaxation", "relaxation_duration", "sound_therapy", "sound_therapy_duration",
}

// WriteCSV writes one row per series slot followed by the summary figures.
// Empty slots have blank level cells.
func WriteCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	labels := res.Labels()
	for i, pt := range res.Series.Points {
		row := []string{
			labels[i],
			utils.FormatDate(pt.Start),
			levelCell(pt.Tinnitus),
			levelCell(pt.Anxiety),
			strconv.Itoa(pt.Entries),
			"", "", "", "",
		}
		if ci := pt.CheckIn; ci != nil {
			row[5] = string(ci.RelaxationDone)
			row[6] = ci.RelaxationDuration
			row[7] = string(ci.SoundTherapyDone)
			row[8] = ci.SoundTherapyDuration
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	r := res.Report
	summary := [][]string{
		{},
		{"range", string(res.Kind), res.Range.String()},
		{"recorded_days", strconv.Itoa(r.RecordedDays)},
		{"average_tinnitus", fmt.Sprintf("%.2f", r.AverageTinnitus)},
		{"average_anxiety", fmt.Sprintf("%.2f", r.AverageAnxiety)},
		{"relaxation_days", strconv.Itoa(r.RelaxationDays), strconv.Itoa(r.DenominatorDays)},
		{"sound_therapy_days", strconv.Itoa(r.SoundTherapyDays), strconv.Itoa(r.DenominatorDays)},
	}
	if err := cw.WriteAll(summary); err != nil {
		return err
	}
	return cw.Error()
}

func levelCell(level *int) string {
	if level == nil {
		return ""
	}
	return strconv.Itoa(*level)
}
