// Package convert builds timezone-aware instants for parsed time
// mentions and maps them into target timezones, tracking per-endpoint
// day rollover. DST transition rules are honored at the exact instant
// involved, not at "now".
package convert

import (
	"time"

	"TimezoneBot/internal/model"
)

// Endpoint is one converted instant in a target timezone. DayOffset is
// the signed difference in local calendar days, target minus source.
type Endpoint struct {
	Timezone  string
	Time      time.Time
	DayOffset int
}

// ConvertedMention is one time mention with its source instants and all
// target conversions. A TIME mention has one source instant, a RANGE two
// (start, end); every target carries the matching arity.
type ConvertedMention struct {
	Mention        model.TimeMention
	SourceTimezone string
	Source         []time.Time
	Targets        map[string][]Endpoint
}

// dayOffset computes the local-calendar-day delta between two instants.
func dayOffset(source, target time.Time) int {
	return model.DateOf(source).DaysUntil(model.DateOf(target))
}

// sourceInstants pins a mention onto a calendar date in the source zone.
// Without a resolved date the date of "now" in the source zone is used,
// so day-offset output stays meaningful. A range whose end is not after
// its start spills over midnight onto the next day.
func sourceInstants(m model.TimeMention, date model.Date, loc *time.Location) []time.Time {
	start := m.Start.At(date, loc)
	if m.Kind != model.KindRange || m.End == nil {
		return []time.Time{start}
	}
	end := m.End.At(date, loc)
	if !end.After(start) {
		end = m.End.At(date.AddDays(1), loc)
	}
	return []time.Time{start, end}
}

// ConvertMentions converts every mention from sourceTZ into each target
// timezone. All timezones are validated eagerly, so one bad target fails
// the whole call instead of partially succeeding. resolvedDate may be
// nil; reference is injectable for tests and defaults to time.Now.
func ConvertMentions(
	mentions []model.TimeMention,
	sourceTZ string,
	targetTZs []string,
	resolvedDate *model.Date,
	reference time.Time,
) ([]ConvertedMention, error) {
	sourceLoc, err := LoadLocation(sourceTZ)
	if err != nil {
		return nil, err
	}
	targetLocs := make(map[string]*time.Location, len(targetTZs))
	for _, tz := range targetTZs {
		loc, err := LoadLocation(tz)
		if err != nil {
			return nil, err
		}
		targetLocs[tz] = loc
	}

	if reference.IsZero() {
		reference = time.Now()
	}
	date := model.DateOf(reference.In(sourceLoc))
	if resolvedDate != nil {
		date = *resolvedDate
	}

	out := make([]ConvertedMention, 0, len(mentions))
	for _, m := range mentions {
		source := sourceInstants(m, date, sourceLoc)

		targets := make(map[string][]Endpoint, len(targetTZs))
		for _, tz := range targetTZs {
			endpoints := make([]Endpoint, 0, len(source))
			for _, src := range source {
				tgt := src.In(targetLocs[tz])
				endpoints = append(endpoints, Endpoint{
					Timezone:  tz,
					Time:      tgt,
					DayOffset: dayOffset(src, tgt),
				})
			}
			targets[tz] = endpoints
		}

		out = append(out, ConvertedMention{
			Mention:        m,
			SourceTimezone: sourceTZ,
			Source:         source,
			Targets:        targets,
		})
	}
	return out, nil
}
