package timeparse

import (
	"regexp"
	"strings"

	"TimezoneBot/internal/model"
)

var enWeekdays = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tues": 1, "tuesday": 1,
	"wed": 2, "wednesday": 2,
	"thu": 3, "thur": 3, "thurs": 3, "thursday": 3,
	"fri": 4, "friday": 4,
	"sat": 5, "saturday": 5,
	"sun": 6, "sunday": 6,
}

var ruWeekdays = map[string]int{
	"пн": 0, "понедельник": 0, "понедельника": 0,
	"вт": 1, "вторник": 1, "вторника": 1,
	"ср": 2, "среда": 2, "среду": 2,
	"чт": 3, "четверг": 3, "четверга": 3,
	"пт": 4, "пятница": 4, "пятницу": 4,
	"сб": 5, "суббота": 5, "субботу": 5,
	"вс": 6, "воскресенье": 6, "воскресенья": 6,
}

var (
	todayRe    = regexp.MustCompile(`(?i)` + bndL + `(today|сегодня)` + bndR)
	tomorrowRe = regexp.MustCompile(`(?i)` + bndL + `(tomorrow|завтра)` + bndR)

	enWeekdayRe = regexp.MustCompile(
		`(?i)\b(?:(next|this|last|previous|past)\s+)?` +
			`(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)\b`)

	// Alternatives are ordered longest-first: Go picks the leftmost-first
	// alternative, so "среду" must not be shadowed by "ср".
	ruWeekdayRe = regexp.MustCompile(
		`(?i)` + bndL + `((?:во?\s+)?` +
			`(?:(следующ[а-яё]*|эт[а-яё]*|прошл[а-яё]*|тот|той)\s+)?` +
			`(понедельника|понедельник|пн|вторника|вторник|вт|среда|среду|ср|` +
			`четверга|четверг|чт|пятница|пятницу|пт|суббота|субботу|сб|` +
			`воскресенье|воскресенья|вс)` +
			`(\s+на\s+той\s+неделе)?)` + bndR)
)

// extractDateAnchor finds at most one date anchor. Literal today/tomorrow
// take precedence over weekday phrases; when both EN and RU weekday
// patterns match, whichever starts earliest in the text wins.
func extractDateAnchor(text string) *model.DateAnchor {
	if todayRe.MatchString(text) {
		return &model.DateAnchor{Kind: model.AnchorToday, Weekday: -1, Modifier: model.ModifierDefaultNext}
	}
	if tomorrowRe.MatchString(text) {
		return &model.DateAnchor{Kind: model.AnchorTomorrow, Weekday: -1, Modifier: model.ModifierDefaultNext}
	}

	mEN := enWeekdayRe.FindStringSubmatchIndex(text)
	mRU := ruWeekdayRe.FindStringSubmatchIndex(text)

	if mEN != nil && (mRU == nil || mEN[0] <= mRU[2]) {
		return enWeekdayAnchor(text, mEN)
	}
	if mRU != nil {
		return ruWeekdayAnchor(text, mRU)
	}
	return nil
}

func enWeekdayAnchor(text string, m []int) *model.DateAnchor {
	weekday, ok := enWeekdays[strings.ToLower(group(text, m, 2))]
	if !ok {
		return nil
	}
	modifier := model.ModifierDefaultNext
	switch strings.ToLower(group(text, m, 1)) {
	case "next":
		modifier = model.ModifierNext
	case "this":
		modifier = model.ModifierThis
	case "last", "previous", "past":
		modifier = model.ModifierLast
	}
	return &model.DateAnchor{Kind: model.AnchorWeekday, Weekday: weekday, Modifier: modifier}
}

func ruWeekdayAnchor(text string, m []int) *model.DateAnchor {
	weekday, ok := ruWeekdays[strings.ToLower(group(text, m, 3))]
	if !ok {
		return nil
	}

	// "на той неделе" forces LAST regardless of any modifier word.
	if group(text, m, 4) != "" {
		return &model.DateAnchor{Kind: model.AnchorWeekday, Weekday: weekday, Modifier: model.ModifierLast}
	}

	modifier := model.ModifierDefaultNext
	word := strings.ToLower(group(text, m, 2))
	switch {
	case strings.HasPrefix(word, "следующ"):
		modifier = model.ModifierNext
	case strings.HasPrefix(word, "эт"):
		modifier = model.ModifierThis
	case strings.HasPrefix(word, "прошл"):
		modifier = model.ModifierLast
	case word == "тот" || word == "той":
		modifier = model.ModifierLast
	}
	return &model.DateAnchor{Kind: model.AnchorWeekday, Weekday: weekday, Modifier: modifier}
}
