package timeparse

import (
	"regexp"
	"strconv"
	"strings"

	"TimezoneBot/internal/model"
)

// Go's \b is ASCII-only, so patterns anchored on Cyrillic words carry
// explicit boundary groups instead. Every matcher regex wraps the phrase
// itself in group 1; submatches of interest start at group 2.
const (
	bndL = `(?:^|[^0-9\pL])`
	bndR = `(?:[^0-9\pL]|$)`
)

var ruHourWords = map[string]int{
	// nominative
	"один": 1, "два": 2, "три": 3, "четыре": 4, "пять": 5, "шесть": 6,
	"семь": 7, "восемь": 8, "девять": 9, "десять": 10, "одиннадцать": 11, "двенадцать": 12,
	// genitive, used in "полпятого" / "половина пятого"
	"первого": 1, "второго": 2, "третьего": 3, "четвертого": 4, "четвёртого": 4,
	"пятого": 5, "шестого": 6, "седьмого": 7, "восьмого": 8, "девятого": 9,
	"десятого": 10, "одиннадцатого": 11, "двенадцатого": 12,
	"полдень": 12, "полночь": 0, "полуночь": 0,
}

var enHourWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

func parseHourTokenEN(token string) (int, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}
	h, ok := enHourWords[token]
	return h, ok
}

func parseHourTokenRU(token string) (int, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}
	h, ok := ruHourWords[token]
	return h, ok
}

// applyQualifier maps an hour in 1..12 plus a Russian time-of-day
// qualifier onto the 24-hour scale. "12 дня" stays noon while
// "12 вечера" degrades to midnight; the inconsistency is pinned by a
// test rather than fixed, pending product clarification.
func applyQualifier(hour int, qualifier string) int {
	switch strings.ToLower(qualifier) {
	case "утра", "ночи":
		if hour == 12 {
			return 0
		}
		return hour
	case "дня":
		if hour == 12 {
			return 12
		}
		return hour + 12
	case "вечера":
		if hour == 12 {
			return 0
		}
		return hour + 12
	}
	return hour
}

// halfToHour implements the "half to the next hour" family shared by
// "quarter to X", "полX", "половина X" and "без N X": the rendered hour
// is X-1, with 12 wrapping to 12 rather than 0.
func halfToHour(target int) int {
	h := target - 1
	if h == 0 {
		h = 12
	}
	return h % 24
}

func timeFromAMPM(hourStr, minuteStr, ampm string) model.Clock {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}
	switch strings.ReplaceAll(strings.ToLower(ampm), ".", "") {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour != 12 {
			hour += 12
		}
	}
	return model.Clock{Hour: hour, Minute: minute}
}

func clockFromDigits(h, m string) model.Clock {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	return model.Clock{Hour: hour, Minute: minute}
}

type span struct{ start, end int }

func (a span) overlaps(b span) bool {
	return a.start < b.end && b.start < a.end
}

type candidate struct {
	span    span
	mention model.TimeMention
}

// matcher is one pattern recognizer: a compiled regex whose group 1 is
// the claimed phrase, plus a constructor for the mention. Matchers run
// in a fixed precedence order and never override earlier claims.
type matcher struct {
	re *regexp.Regexp
	// build receives absolute submatch offsets; returning false drops
	// the candidate (e.g. an unknown hour word).
	build func(text string, m []int) (model.TimeMention, bool)
}

// find returns all candidates left to right. Scanning resumes at the end
// of the phrase group, not the whole match, so a boundary character
// consumed by bndR does not hide an adjacent mention.
func (mt matcher) find(text string) []candidate {
	var out []candidate
	pos := 0
	for pos <= len(text) {
		loc := mt.re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		abs := make([]int, len(loc))
		for i, v := range loc {
			if v >= 0 {
				abs[i] = v + pos
			} else {
				abs[i] = -1
			}
		}
		if m, ok := mt.build(text, abs); ok {
			out = append(out, candidate{span: span{abs[2], abs[3]}, mention: m})
		}
		next := abs[3]
		if next <= pos {
			next = pos + 1
		}
		pos = next
	}
	return out
}

func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

// rangeMatcher claims explicit 24h ranges before anything else runs.
var rangeMatcher = matcher{
	re: regexp.MustCompile(`\b(([01]?\d|2[0-3]):([0-5]\d)\s*[–-]\s*([01]?\d|2[0-3]):([0-5]\d))\b`),
	build: func(text string, m []int) (model.TimeMention, bool) {
		end := clockFromDigits(group(text, m, 4), group(text, m, 5))
		return model.TimeMention{
			Raw:   group(text, m, 1),
			Style: model.StyleH24,
			Kind:  model.KindRange,
			Start: clockFromDigits(group(text, m, 2), group(text, m, 3)),
			End:   &end,
		}, true
	},
}

// singleMatchers is the precedence-ordered list of single-time
// recognizers, evaluated after ranges have claimed their spans.
var singleMatchers = []matcher{
	// "в 10:30"
	{
		re: regexp.MustCompile(`(?i)` + bndL + `(в\s+([01]?\d|2[0-3]):([0-5]\d))\b`),
		build: func(text string, m []int) (model.TimeMention, bool) {
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH24,
				Kind:  model.KindTime,
				Start: clockFromDigits(group(text, m, 2), group(text, m, 3)),
			}, true
		},
	},
	// "10:30 am", "10.30 P.M.", before bare HH:MM so the suffix is kept
	{
		re: regexp.MustCompile(`(?i)\b((1[0-2]|0?[1-9])[:.]([0-5]\d)\s*(a\.?m\.?|p\.?m\.?))\b`),
		build: func(text string, m []int) (model.TimeMention, bool) {
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH12,
				Kind:  model.KindTime,
				Start: timeFromAMPM(group(text, m, 2), group(text, m, 3), group(text, m, 4)),
			}, true
		},
	},
	// bare "10:30"; the leading class keeps "+04:00"-style offsets for
	// the timezone scan
	{
		re: regexp.MustCompile(`(?:^|[^+\-0-9:])(([01]?\d|2[0-3]):([0-5]\d))\b`),
		build: func(text string, m []int) (model.TimeMention, bool) {
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH24,
				Kind:  model.KindTime,
				Start: clockFromDigits(group(text, m, 2), group(text, m, 3)),
			}, true
		},
	},
	// "22h30"
	{
		re: regexp.MustCompile(`(?i)\b(([01]?\d|2[0-3])h([0-5]\d))\b`),
		build: func(text string, m []int) (model.TimeMention, bool) {
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH24,
				Kind:  model.KindTime,
				Start: clockFromDigits(group(text, m, 2), group(text, m, 3)),
			}, true
		},
	},
	// "10am", "10 p.m."
	{
		re: regexp.MustCompile(`(?i)\b((1[0-2]|0?[1-9])\s*(a\.?m\.?|p\.?m\.?))\b`),
		build: func(text string, m []int) (model.TimeMention, bool) {
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH12,
				Kind:  model.KindTime,
				Start: timeFromAMPM(group(text, m, 2), "", group(text, m, 3)),
			}, true
		},
	},
	// noon / midnight
	{
		re: regexp.MustCompile(`(?i)\b(noon)\b`),
		build: func(text string, m []int) (model.TimeMention, bool) {
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH12,
				Kind:  model.KindTime,
				Start: model.Clock{Hour: 12},
			}, true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(midnight)\b`),
		build: func(text string, m []int) (model.TimeMention, bool) {
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH12,
				Kind:  model.KindTime,
				Start: model.Clock{},
			}, true
		},
	},
	// "в 10 утра/дня/вечера/ночи"
	{
		re: regexp.MustCompile(`(?i)` + bndL + `(в\s+(1[0-2]|0?[1-9])\s+(утра|вечера|дня|ночи))` + bndR),
		build: func(text string, m []int) (model.TimeMention, bool) {
			hour, _ := strconv.Atoi(group(text, m, 2))
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH12,
				Kind:  model.KindTime,
				Start: model.Clock{Hour: applyQualifier(hour, group(text, m, 3)) % 24},
			}, true
		},
	},
	// "в три часа дня", "в пять утра", "в полдень"
	{
		re: regexp.MustCompile(`(?i)` + bndL +
			`(в\s+(один|два|три|четыре|пять|шесть|семь|восемь|девять|десять|одиннадцать|двенадцать|полдень|полночь|полуночь)` +
			`(?:\s+час(?:а|ов)?)?(?:\s+(утра|вечера|дня|ночи))?)` + bndR),
		build: func(text string, m []int) (model.TimeMention, bool) {
			hour, ok := ruHourWords[strings.ToLower(group(text, m, 2))]
			if !ok {
				return model.TimeMention{}, false
			}
			qualifier := group(text, m, 3)
			style := model.StyleH24
			if qualifier != "" {
				hour = applyQualifier(hour, qualifier)
				style = model.StyleH12
			}
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: style,
				Kind:  model.KindTime,
				Start: model.Clock{Hour: hour % 24},
			}, true
		},
	},
	// "в час", "в час дня"
	{
		re: regexp.MustCompile(`(?i)` + bndL + `(в\s+час(?:\s+(утра|вечера|дня|ночи))?)` + bndR),
		build: func(text string, m []int) (model.TimeMention, bool) {
			hour := 1
			qualifier := group(text, m, 2)
			style := model.StyleH24
			if qualifier != "" {
				hour = applyQualifier(hour, qualifier)
				style = model.StyleH12
			}
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: style,
				Kind:  model.KindTime,
				Start: model.Clock{Hour: hour % 24},
			}, true
		},
	},
	// "half past ten"
	{
		re:    regexp.MustCompile(`(?i)\b(half\s+past\s+([a-z0-9]+))\b`),
		build: enPhrase(0, 30),
	},
	// "quarter past ten"
	{
		re:    regexp.MustCompile(`(?i)\b(quarter\s+past\s+([a-z0-9]+))\b`),
		build: enPhrase(0, 15),
	},
	// "quarter to ten" -> 09:45
	{
		re:    regexp.MustCompile(`(?i)\b(quarter\s+to\s+([a-z0-9]+))\b`),
		build: enPhrase(-1, 45),
	},
	// "ten and a half"
	{
		re:    regexp.MustCompile(`(?i)\b(([a-z0-9]+)\s+and\s+a\s+half)\b`),
		build: enPhrase(0, 30),
	},
	// "полпятого" -> 04:30
	{
		re:    regexp.MustCompile(`(?i)` + bndL + `(пол([а-яё]+))` + bndR),
		build: ruHalf,
	},
	// "половина пятого" / "в половину пятого"
	{
		re:    regexp.MustCompile(`(?i)` + bndL + `((?:в\s+)?половин[ау]\s+([а-яё]+))` + bndR),
		build: ruHalf,
	},
	// "без пяти пять" -> 04:55, "без четверти пять" -> 04:45
	{
		re: regexp.MustCompile(`(?i)` + bndL + `(без\s+(пяти|5|четверти|15|\d{1,2})\s+([а-яё]+|\d{1,2}))` + bndR),
		build: func(text string, m []int) (model.TimeMention, bool) {
			target, ok := parseHourTokenRU(group(text, m, 3))
			if !ok {
				return model.TimeMention{}, false
			}
			var delta int
			switch token := strings.ToLower(group(text, m, 2)); token {
			case "четверти":
				delta = 15
			case "пяти":
				delta = 5
			default:
				n, err := strconv.Atoi(token)
				if err != nil {
					return model.TimeMention{}, false
				}
				delta = n
			}
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH24,
				Kind:  model.KindTime,
				Start: model.Clock{Hour: halfToHour(target), Minute: 60 - delta},
			}, true
		},
	},
	// "пять тридцать" -> 05:30
	{
		re: regexp.MustCompile(`(?i)` + bndL + `(([а-яё]+|\d{1,2})\s+(тридцать|30))` + bndR),
		build: func(text string, m []int) (model.TimeMention, bool) {
			hour, ok := parseHourTokenRU(group(text, m, 2))
			if !ok {
				return model.TimeMention{}, false
			}
			return model.TimeMention{
				Raw:   group(text, m, 1),
				Style: model.StyleH24,
				Kind:  model.KindTime,
				Start: model.Clock{Hour: hour % 24, Minute: 30},
			}, true
		},
	},
}

// enPhrase builds natural-language English mentions: the hour token is
// group 2, hourShift is -1 for the "to" family, minute is fixed.
func enPhrase(hourShift, minute int) func(string, []int) (model.TimeMention, bool) {
	return func(text string, m []int) (model.TimeMention, bool) {
		hour, ok := parseHourTokenEN(group(text, m, 2))
		if !ok {
			return model.TimeMention{}, false
		}
		if hourShift < 0 {
			hour = halfToHour(hour)
		}
		return model.TimeMention{
			Raw:   group(text, m, 1),
			Style: model.StyleH24,
			Kind:  model.KindTime,
			Start: model.Clock{Hour: hour % 24, Minute: minute},
		}, true
	}
}

func ruHalf(text string, m []int) (model.TimeMention, bool) {
	target, ok := parseHourTokenRU(group(text, m, 2))
	if !ok {
		return model.TimeMention{}, false
	}
	return model.TimeMention{
		Raw:   group(text, m, 1),
		Style: model.StyleH24,
		Kind:  model.KindTime,
		Start: model.Clock{Hour: halfToHour(target), Minute: 30},
	}, true
}
