// Package calendar answers "is this a working day?" for a configured country.
// Holiday definitions come from rickar/cal; computed year sets are memoized
// per process and optionally shared through a cache so that repeated
// scheduling passes never recompute them.
package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/us"

	model "github.com/fbedussi/ganpro/internal/models"
)

// Range is an inclusive span of holiday days. Consecutive holiday days (e.g.
// Christmas and St. Stephen's in Italy) collapse into a single range.
type Range struct {
	Start model.Day `json:"start"`
	End   model.Day `json:"end"`
}

func (r Range) Contains(d model.Day) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

var countries = map[string][]*cal.Holiday{
	"DE": de.Holidays,
	"FR": fr.Holidays,
	"GB": gb.Holidays,
	"IT": it.Holidays,
	"US": us.Holidays,
}

// Service is the holiday calendar for one country. It is constructed once at
// the composition root and injected wherever the engine needs it.
type Service struct {
	country  string
	holidays []*cal.Holiday
	cache    Cache

	mu     sync.Mutex
	byYear map[int][]Range
}

// New builds a Service for a two-letter country code. cache may be nil; it is
// only an optimization layer shared between processes.
func New(country string, cache Cache) (*Service, error) {
	holidays, ok := countries[country]
	if !ok {
		return nil, fmt.Errorf("unsupported calendar country %q", country)
	}
	return &Service{
		country:  country,
		holidays: holidays,
		cache:    cache,
		byYear:   make(map[int][]Range),
	}, nil
}

func (s *Service) Country() string {
	return s.country
}

// Holidays returns the holiday ranges of a year, sorted by start date.
func (s *Service) Holidays(ctx context.Context, year int) []Range {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ranges, ok := s.byYear[year]; ok {
		return ranges
	}

	if s.cache != nil {
		if ranges, ok := s.cache.Get(ctx, s.country, year); ok {
			s.byYear[year] = ranges
			return ranges
		}
	}

	ranges := s.compute(year)
	s.byYear[year] = ranges
	if s.cache != nil {
		s.cache.Set(ctx, s.country, year, ranges)
	}
	return ranges
}

func (s *Service) compute(year int) []Range {
	days := make([]model.Day, 0, len(s.holidays))
	for _, h := range s.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		days = append(days, model.DayOf(actual))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var ranges []Range
	for _, d := range days {
		if n := len(ranges); n > 0 && !d.After(ranges[n-1].End.AddDays(1)) {
			if d.After(ranges[n-1].End) {
				ranges[n-1].End = d
			}
			continue
		}
		ranges = append(ranges, Range{Start: d, End: d})
	}
	return ranges
}

// IsHoliday reports whether d falls inside any holiday range of its year.
func (s *Service) IsHoliday(ctx context.Context, d model.Day) bool {
	for _, r := range s.Holidays(ctx, d.Year()) {
		if r.Contains(d) {
			return true
		}
	}
	return false
}

// IsNonWorkingDay reports whether d is a weekend day or a holiday.
func (s *Service) IsNonWorkingDay(ctx context.Context, d model.Day) bool {
	return d.IsWeekend() || s.IsHoliday(ctx, d)
}
