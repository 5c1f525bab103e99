package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimezone marks a source or target timezone string that is
// neither a known IANA identifier nor a supported UTC offset form.
var ErrInvalidTimezone = errors.New("invalid timezone")

// LoadLocation resolves an IANA identifier or a fixed-offset token
// ("UTC+4", "UTC-2:30", "+04:00") into a *time.Location. Unlike
// time.LoadLocation it never silently falls back: an unknown name is an
// ErrInvalidTimezone the caller can distinguish.
func LoadLocation(tz string) (*time.Location, error) {
	// time.LoadLocation("") means UTC; here an empty name is a bug.
	if strings.TrimSpace(tz) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTimezone)
	}
	if loc, ok := fixedOffsetZone(tz); ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// IsValid reports whether LoadLocation would accept tz.
func IsValid(tz string) bool {
	_, err := LoadLocation(tz)
	return err == nil
}

func fixedOffsetZone(name string) (*time.Location, bool) {
	trimmed := strings.TrimSpace(strings.ToUpper(name))
	rest := strings.TrimPrefix(trimmed, "UTC")
	if rest == trimmed && !strings.HasPrefix(rest, "+") && !strings.HasPrefix(rest, "-") {
		return nil, false
	}
	if rest == "" || rest == "Z" || rest == "+0" || rest == "+00:00" {
		return time.UTC, true
	}

	sign := 1
	switch {
	case strings.HasPrefix(rest, "+"):
		rest = rest[1:]
	case strings.HasPrefix(rest, "-"):
		sign = -1
		rest = rest[1:]
	default:
		return nil, false
	}

	parts := strings.SplitN(rest, ":", 2)
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh > 14 {
		return nil, false
	}
	mm := 0
	if len(parts) == 2 {
		mm, err = strconv.Atoi(parts[1])
		if err != nil || mm > 59 {
			return nil, false
		}
	}
	offset := sign * (hh*3600 + mm*60)
	return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", sign*hh, mm), offset), true
}
