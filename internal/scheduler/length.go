// Package scheduler is the task scheduling engine: it turns a nominal
// working-day length into a calendar span, derives the dependency graph from
// the stored dependency-id lists, validates edits, and propagates date shifts
// to dependent tasks.
package scheduler

import (
	"context"

	model "github.com/fbedussi/ganpro/internal/models"
)

// Calendar is the part of the holiday calendar the engine needs.
type Calendar interface {
	IsNonWorkingDay(ctx context.Context, d model.Day) bool
}

// EffectiveLength computes the calendar-day span of a task: walking forward
// from start, a day consumes one unit of the nominal length only if it is a
// working day, and every day walked counts toward the span. The walk stops
// once the nominal length is used up, so the last day is always a working
// day.
func EffectiveLength(ctx context.Context, cal Calendar, start model.Day, length int) int {
	remaining := length
	days := 0
	day := start

	for remaining > 0 {
		days++
		if !cal.IsNonWorkingDay(ctx, day) {
			remaining--
		}
		day = day.AddDays(1)
	}

	return days
}

// EndDate is the last calendar day of a task spanning effectiveLength days.
func EndDate(start model.Day, effectiveLength int) model.Day {
	return start.AddDays(effectiveLength - 1)
}
