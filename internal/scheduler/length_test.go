package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/fbedussi/ganpro/internal/calendar"
	model "github.com/fbedussi/ganpro/internal/models"
)

func italyCalendar(t *testing.T) *calendar.Service {
	t.Helper()
	cal, err := calendar.New("IT", nil)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}
	return cal
}

func TestEffectiveLength(t *testing.T) {
	cal := italyCalendar(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		start  model.Day
		length int
		want   int
	}{
		{
			name:   "no weekend or holiday inside the window",
			start:  model.NewDay(2024, time.April, 15),
			length: 3,
			want:   3,
		},
		{
			name:   "friday start spans the weekend",
			start:  model.NewDay(2024, time.April, 26),
			length: 2,
			want:   4,
		},
		{
			name:   "window overlaps liberation day",
			start:  model.NewDay(2024, time.April, 24),
			length: 2,
			want:   3,
		},
		{
			name:   "weekend and holidays both absorbed",
			start:  model.NewDay(2024, time.April, 24),
			length: 5,
			want:   9,
		},
		{
			name:   "start right after a holiday is not penalized",
			start:  model.NewDay(2024, time.May, 2),
			length: 2,
			want:   2,
		},
		{
			name:   "single day task",
			start:  model.NewDay(2024, time.April, 15),
			length: 1,
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveLength(ctx, cal, tt.start, tt.length)
			if got != tt.want {
				t.Errorf("EffectiveLength(%s, %d) = %d, want %d", tt.start, tt.length, got, tt.want)
			}
		})
	}
}

func TestEffectiveLengthIsIdempotent(t *testing.T) {
	cal := italyCalendar(t)
	ctx := context.Background()
	start := model.NewDay(2024, time.April, 24)

	first := EffectiveLength(ctx, cal, start, 5)
	second := EffectiveLength(ctx, cal, start, 5)
	if first != second {
		t.Errorf("same inputs gave %d then %d", first, second)
	}
}

func TestEffectiveLengthNeverShrinksAsLengthGrows(t *testing.T) {
	cal := italyCalendar(t)
	ctx := context.Background()
	start := model.NewDay(2024, time.April, 22)

	prev := 0
	for length := 1; length <= 20; length++ {
		got := EffectiveLength(ctx, cal, start, length)
		if got < length {
			t.Errorf("length %d: effective length %d is below the nominal length", length, got)
		}
		if got < prev {
			t.Errorf("length %d: effective length dropped from %d to %d", length, prev, got)
		}
		prev = got
	}
}

func TestEndDate(t *testing.T) {
	start := model.NewDay(2024, time.April, 26)

	if got := EndDate(start, 4); !got.Equal(model.NewDay(2024, time.April, 29)) {
		t.Errorf("EndDate = %s, want 2024-04-29", got)
	}
	if got := EndDate(start, 1); !got.Equal(start) {
		t.Errorf("single day task must end on its start date, got %s", got)
	}
}
