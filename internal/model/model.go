// Package model holds the value types passed between pipeline stages.
// Every type here is immutable after construction: stages consume inputs
// read-only and allocate fresh outputs, so concurrent message handling
// needs no coordination.
package model

import (
	"fmt"
	"time"
)

type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformDiscord  Platform = "discord"
)

type Language string

const (
	LangEN Language = "en"
	LangRU Language = "ru"
)

// TimeStyle captures how the user wrote the time. It only drives output
// rendering and carries no timezone information.
type TimeStyle string

const (
	StyleH24 TimeStyle = "24h"
	StyleH12 TimeStyle = "12h"
)

type TimeMentionKind string

const (
	KindTime  TimeMentionKind = "time"
	KindRange TimeMentionKind = "range"
)

// Clock is a time of day with minute precision, detached from any date
// or zone.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// At pins the clock time onto a calendar date in the given location.
func (c Clock) At(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

// Date is a calendar date without a zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

// Weekday returns the ISO index Mon=0 .. Sun=6.
func (d Date) Weekday() int {
	wd := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(wd) + 6) % 7
}

// DaysUntil returns other - d in whole calendar days.
func (d Date) DaysUntil(other Date) int {
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(other.Year, other.Month, other.Day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeMention is one detected clock time or range in a message.
// Kind==KindRange requires End set; Kind==KindTime requires End nil.
type TimeMention struct {
	Raw   string
	Style TimeStyle
	Kind  TimeMentionKind
	Start Clock
	End   *Clock
}

type DateAnchorKind string

const (
	AnchorNone     DateAnchorKind = "none"
	AnchorToday    DateAnchorKind = "today"
	AnchorTomorrow DateAnchorKind = "tomorrow"
	AnchorWeekday  DateAnchorKind = "weekday"
)

// WeekdayModifier controls which occurrence of a named weekday an anchor
// resolves to.
type WeekdayModifier string

const (
	ModifierDefaultNext WeekdayModifier = "default_next"
	ModifierThis        WeekdayModifier = "this"
	ModifierNext        WeekdayModifier = "next"
	ModifierLast        WeekdayModifier = "last"
)

// DateAnchor is a relative date reference not yet resolved to a concrete
// date. Weekday is the Mon=0..Sun=6 index and is only meaningful when
// Kind==AnchorWeekday; it is -1 otherwise.
type DateAnchor struct {
	Kind     DateAnchorKind
	Weekday  int
	Modifier WeekdayModifier
}

// ExplicitTimezoneMention is a timezone token written directly in the
// message ("Amsterdam", "Europe/Amsterdam", "UTC+4", "CET"). It is not
// validated at parse time.
type ExplicitTimezoneMention struct {
	Raw string
}

// ParseResult is the parser output for one message, consumed read-only
// by the downstream stages.
type ParseResult struct {
	Language         Language
	Times            []TimeMention
	ExplicitTimezone *ExplicitTimezoneMention
	DateAnchor       *DateAnchor
}

// SourceReason records how the source timezone of a message was decided.
type SourceReason string

const (
	ReasonExplicit             SourceReason = "explicit"
	ReasonSenderProfile        SourceReason = "sender_profile"
	ReasonExplicitUnrecognized SourceReason = "explicit_unrecognized"
	ReasonMissing              SourceReason = "missing"
)

// SourceResolution is the outcome of deciding which timezone the detected
// times were authored in. Timezone is empty unless Reason is
// ReasonExplicit or ReasonSenderProfile.
type SourceResolution struct {
	Timezone string
	Reason   SourceReason
}
