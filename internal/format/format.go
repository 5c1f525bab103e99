// Package format renders converted mentions into user-facing text,
// mirroring the sender's time style and language. Formatting is pure:
// the same input always yields byte-identical output.
package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"TimezoneBot/internal/convert"
	"TimezoneBot/internal/model"
	"TimezoneBot/internal/tzdata"
)

var (
	enWeekdaysShort = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	ruWeekdaysShort = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

	ruMonthsShort = [12]string{
		"янв", "фев", "мар", "апр", "мая", "июн",
		"июл", "авг", "сен", "окт", "ноя", "дек",
	}
)

// Target pairs an IANA timezone with the display label shown to users.
type Target struct {
	TZ    string
	Label string
}

func dateWithWeekday(t time.Time, lang model.Language) string {
	d := model.DateOf(t)
	if lang == model.LangRU {
		return fmt.Sprintf("%s, %d %s", ruWeekdaysShort[d.Weekday()], d.Day, ruMonthsShort[d.Month-1])
	}
	return fmt.Sprintf("%s, %s %d", enWeekdaysShort[d.Weekday()], t.Format("Jan"), d.Day)
}

func weekdayMarker(t time.Time, lang model.Language) string {
	if lang == model.LangRU {
		return ruWeekdaysShort[model.DateOf(t).Weekday()]
	}
	return enWeekdaysShort[model.DateOf(t).Weekday()]
}

func time24(t time.Time) string {
	return t.Format("15:04")
}

func time12(t time.Time, dropZeroMinutes bool) string {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}
	suffix := "am"
	if t.Hour() >= 12 {
		suffix = "pm"
	}
	if t.Minute() == 0 && dropZeroMinutes {
		return fmt.Sprintf("%d%s", hour12, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", hour12, t.Minute(), suffix)
}

// timeOnly renders one clock reading, mirroring the mention's style.
// Russian output is always 24-hour regardless of how the sender wrote
// the time (colloquial PM-hour phrasing reads awkwardly). For 12h
// mentions, ":00" is kept only when the raw text carried a minute
// separator.
func timeOnly(t time.Time, m model.TimeMention, lang model.Language) string {
	if lang == model.LangRU || m.Style == model.StyleH24 {
		return time24(t)
	}
	raw := strings.ToLower(m.Raw)
	dropZero := !strings.Contains(raw, ":") && !strings.Contains(raw, "h")
	return time12(t, dropZero)
}

func utcOffsetSeconds(t time.Time) int {
	_, offset := t.Zone()
	return offset
}

// rolloverMarker reports whether any target endpoint of the mention
// lands on a different local calendar day than its source instant.
func rolloverMarker(cm convert.ConvertedMention) bool {
	for _, endpoints := range cm.Targets {
		for _, ep := range endpoints {
			if ep.DayOffset != 0 {
				return true
			}
		}
	}
	return false
}

func oneSide(t time.Time, label string, cm convert.ConvertedMention, lang model.Language, includeDate, marker bool) string {
	clock := timeOnly(t, cm.Mention, lang)
	label = tzdata.TranslateLabel(label, lang)

	if includeDate {
		return fmt.Sprintf("%s — %s %s", dateWithWeekday(t, lang), clock, label)
	}
	if marker {
		return fmt.Sprintf("%s %s (%s)", clock, label, weekdayMarker(t, lang))
	}
	return fmt.Sprintf("%s %s", clock, label)
}

// rangeSide renders one side of a range with its label after both ends:
// "10:00–11:00 Amsterdam", or "23:30 (Wed)–00:30 (Thu) Yerevan" when a
// rollover marker applies.
func rangeSide(a, b time.Time, label string, cm convert.ConvertedMention, lang model.Language, includeDate, marker bool) string {
	label = tzdata.TranslateLabel(label, lang)
	body := timeOnly(a, cm.Mention, lang) + "–" + timeOnly(b, cm.Mention, lang)
	if marker {
		body = fmt.Sprintf("%s (%s)–%s (%s)",
			timeOnly(a, cm.Mention, lang), weekdayMarker(a, lang),
			timeOnly(b, cm.Mention, lang), weekdayMarker(b, lang))
	}
	if includeDate {
		return fmt.Sprintf("%s — %s %s", dateWithWeekday(a, lang), body, label)
	}
	return body + " " + label
}

// Single renders one-to-one delivery: every mention on its own line as
// "source → target".
func Single(converted []convert.ConvertedMention, lang model.Language, sourceLabel, targetLabel string, includeResolvedDate bool) string {
	lines := make([]string, 0, len(converted))

	for _, cm := range converted {
		var endpoints []convert.Endpoint
		for _, eps := range cm.Targets {
			endpoints = eps
			break
		}
		if len(endpoints) == 0 {
			continue
		}
		marker := !includeResolvedDate && rolloverMarker(cm)

		if cm.Mention.Kind == model.KindRange && len(cm.Source) == 2 && len(endpoints) == 2 {
			src := rangeSide(cm.Source[0], cm.Source[1], sourceLabel, cm, lang, includeResolvedDate, marker)
			tgt := rangeSide(endpoints[0].Time, endpoints[1].Time, targetLabel, cm, lang, includeResolvedDate, marker)
			lines = append(lines, fmt.Sprintf("%s → %s", src, tgt))
		} else {
			src := oneSide(cm.Source[0], sourceLabel, cm, lang, includeResolvedDate, marker)
			tgt := oneSide(endpoints[0].Time, targetLabel, cm, lang, includeResolvedDate, marker)
			lines = append(lines, fmt.Sprintf("%s → %s", src, tgt))
		}
	}
	return strings.Join(lines, "\n")
}

// Multi renders broadcast delivery: one source against an ordered list
// of targets. The maxTargets cap applies to the caller-supplied order
// before any sorting; sorting orders targets ascending by each target
// instant's UTC offset, ties keeping the original order.
func Multi(
	converted []convert.ConvertedMention,
	lang model.Language,
	sourceLabel string,
	targets []Target,
	includeResolvedDate bool,
	sortByOffset bool,
	maxTargets int,
) string {
	if maxTargets > 0 && len(targets) > maxTargets {
		targets = targets[:maxTargets]
	}

	lines := make([]string, 0, len(converted))
	for _, cm := range converted {
		if cm.Mention.Kind == model.KindRange && len(cm.Source) == 2 {
			lines = append(lines, multiRange(cm, lang, sourceLabel, targets, includeResolvedDate, sortByOffset))
		} else {
			lines = append(lines, multiSingle(cm, lang, sourceLabel, targets, includeResolvedDate, sortByOffset))
		}
	}
	return strings.Join(lines, "\n")
}

type targetTimes struct {
	label     string
	endpoints []convert.Endpoint
}

func orderedTargets(cm convert.ConvertedMention, targets []Target, sortByOffset bool) []targetTimes {
	items := make([]targetTimes, 0, len(targets))
	for _, t := range targets {
		endpoints, ok := cm.Targets[t.TZ]
		if !ok || len(endpoints) == 0 {
			continue
		}
		items = append(items, targetTimes{label: t.Label, endpoints: endpoints})
	}
	if sortByOffset {
		sort.SliceStable(items, func(i, j int) bool {
			return utcOffsetSeconds(items[i].endpoints[0].Time) < utcOffsetSeconds(items[j].endpoints[0].Time)
		})
	}
	return items
}

func multiSingle(cm convert.ConvertedMention, lang model.Language, sourceLabel string, targets []Target, includeResolvedDate, sortByOffset bool) string {
	src := cm.Source[0]
	items := orderedTargets(cm, targets, sortByOffset)

	if includeResolvedDate {
		sameDate := true
		for _, it := range items {
			if model.DateOf(it.endpoints[0].Time) != model.DateOf(src) {
				sameDate = false
				break
			}
		}
		if sameDate {
			parts := []string{fmt.Sprintf("%s %s", timeOnly(src, cm.Mention, lang), tzdata.TranslateLabel(sourceLabel, lang))}
			for _, it := range items {
				parts = append(parts, fmt.Sprintf("%s %s", timeOnly(it.endpoints[0].Time, cm.Mention, lang), tzdata.TranslateLabel(it.label, lang)))
			}
			return dateWithWeekday(src, lang) + " — " + strings.Join(parts, ", ")
		}

		// Dates differ across timezones: each side prints its own date,
		// joined with a heavier separator.
		parts := []string{oneSide(src, sourceLabel, cm, lang, true, false)}
		for _, it := range items {
			parts = append(parts, oneSide(it.endpoints[0].Time, it.label, cm, lang, true, false))
		}
		return strings.Join(parts, "; ")
	}

	marker := rolloverMarker(cm)
	parts := []string{oneSide(src, sourceLabel, cm, lang, false, marker)}
	for _, it := range items {
		t := it.endpoints[0].Time
		if marker {
			parts = append(parts, fmt.Sprintf("%s (%s) %s", timeOnly(t, cm.Mention, lang), weekdayMarker(t, lang), tzdata.TranslateLabel(it.label, lang)))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", timeOnly(t, cm.Mention, lang), tzdata.TranslateLabel(it.label, lang)))
		}
	}
	return strings.Join(parts, ", ")
}

func multiRange(cm convert.ConvertedMention, lang model.Language, sourceLabel string, targets []Target, includeResolvedDate, sortByOffset bool) string {
	srcStart, srcEnd := cm.Source[0], cm.Source[1]
	items := orderedTargets(cm, targets, sortByOffset)

	rangeText := func(a, b time.Time) string {
		return timeOnly(a, cm.Mention, lang) + "–" + timeOnly(b, cm.Mention, lang)
	}

	if includeResolvedDate {
		sameDate := model.DateOf(srcStart) == model.DateOf(srcEnd)
		for _, it := range items {
			if model.DateOf(it.endpoints[0].Time) != model.DateOf(srcStart) ||
				model.DateOf(it.endpoints[1].Time) != model.DateOf(srcStart) {
				sameDate = false
			}
		}
		if sameDate {
			parts := []string{rangeText(srcStart, srcEnd) + " " + tzdata.TranslateLabel(sourceLabel, lang)}
			for _, it := range items {
				parts = append(parts, rangeText(it.endpoints[0].Time, it.endpoints[1].Time)+" "+tzdata.TranslateLabel(it.label, lang))
			}
			return dateWithWeekday(srcStart, lang) + " — " + strings.Join(parts, ", ")
		}

		parts := []string{rangeSide(srcStart, srcEnd, sourceLabel, cm, lang, true, false)}
		for _, it := range items {
			parts = append(parts, rangeSide(it.endpoints[0].Time, it.endpoints[1].Time, it.label, cm, lang, true, false))
		}
		return strings.Join(parts, "; ")
	}

	marker := rolloverMarker(cm)
	parts := []string{rangeSide(srcStart, srcEnd, sourceLabel, cm, lang, false, marker)}
	for _, it := range items {
		parts = append(parts, rangeSide(it.endpoints[0].Time, it.endpoints[1].Time, it.label, cm, lang, false, marker))
	}
	return strings.Join(parts, ", ")
}
