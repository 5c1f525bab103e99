package convert

import (
	"errors"
	"fmt"
	"time"

	"TimezoneBot/internal/model"
)

// ErrInvalidAnchor marks a WEEKDAY anchor without a weekday index. That
// is a parser invariant violation, a programming error rather than a
// user-facing condition.
var ErrInvalidAnchor = errors.New("weekday anchor requires a weekday index")

// ResolveAnchorDate turns a parsed date anchor into a concrete calendar
// date in the source timezone. A nil or NONE anchor resolves to nil.
// reference is injectable for deterministic tests; the zero value means
// "now in sourceTZ".
func ResolveAnchorDate(anchor *model.DateAnchor, sourceTZ string, reference time.Time) (*model.Date, error) {
	if anchor == nil || anchor.Kind == model.AnchorNone {
		return nil, nil
	}

	loc, err := LoadLocation(sourceTZ)
	if err != nil {
		return nil, err
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	base := model.DateOf(reference.In(loc))

	switch anchor.Kind {
	case model.AnchorToday:
		return &base, nil
	case model.AnchorTomorrow:
		d := base.AddDays(1)
		return &d, nil
	case model.AnchorWeekday:
		if anchor.Weekday < 0 || anchor.Weekday > 6 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidAnchor, anchor.Weekday)
		}
		d := ResolveWeekday(base, anchor.Weekday, anchor.Modifier)
		return &d, nil
	}
	return nil, nil
}

// ResolveWeekday maps a weekday reference onto a concrete date relative
// to base. DEFAULT_NEXT and THIS take the next occurrence and may land
// on base itself ("this Monday" on a Monday is today); NEXT always skips
// the immediate occurrence; LAST takes the most recent past occurrence
// and never resolves to today. The asymmetry is deliberate.
func ResolveWeekday(base model.Date, targetWeekday int, modifier model.WeekdayModifier) model.Date {
	forward := ((targetWeekday - base.Weekday()) % 7 + 7) % 7

	switch modifier {
	case model.ModifierNext:
		return base.AddDays(forward + 7)
	case model.ModifierLast:
		backward := ((base.Weekday() - targetWeekday) % 7 + 7) % 7
		if backward == 0 {
			backward = 7
		}
		return base.AddDays(-backward)
	default: // DEFAULT_NEXT and THIS
		return base.AddDays(forward)
	}
}
