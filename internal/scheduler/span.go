package scheduler

import (
	"time"

	model "github.com/fbedussi/ganpro/internal/models"
)

// ProjectSpan returns the earliest start and latest end over a task set. ok
// is false for an empty set.
func ProjectSpan(tasks []model.Task) (start, end model.Day, ok bool) {
	if len(tasks) == 0 {
		return model.Day{}, model.Day{}, false
	}

	start = tasks[0].StartDate
	end = tasks[0].EndDate
	for _, t := range tasks[1:] {
		if t.StartDate.Before(start) {
			start = t.StartDate
		}
		if t.EndDate.After(end) {
			end = t.EndDate
		}
	}
	return start, end, true
}

// Months lists every month touched by the task set, inclusive, as "YYYY-MM"
// keys for the calendar header.
func Months(tasks []model.Task) []string {
	start, end, ok := ProjectSpan(tasks)
	if !ok {
		return nil
	}

	cur := time.Date(start.Year(), start.Time().Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Time().Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []string
	for !cur.After(last) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}
