package timeparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func explicitTZ(t *testing.T, text string) string {
	t.Helper()
	pr := Parse(text)
	if pr.ExplicitTimezone == nil {
		return ""
	}
	return pr.ExplicitTimezone.Raw
}

func TestExplicitTimezoneExtraction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"iana id", "call at 15:00 Europe/Amsterdam", "Europe/Amsterdam"},
		{"utc offset", "15:00 UTC+4 works", "UTC+4"},
		{"bare offset", "deadline 15:00 +04:00", "+04:00"},
		{"known city en", "10am in Amsterdam", "Amsterdam"},
		{"known city lowercase hit", "10am in amsterdam", "Amsterdam"},
		{"known city ru", "в 15:00 Москва", "Москва"},
		{"declined city ru", "в 15:00 по Москве", "Москва"},
		{"declined city ru dative", "в 15:00 по Амстердаму", "Амстердам"},
		{"abbreviation", "15:00 MSK", "MSK"},
		{"unknown abbreviation kept raw", "15:00 WAT", "WAT"},
		{"capitalized fallback", "15:00 Tashkent time", "Tashkent"},
		{"none", "meeting at 15:00 with the team", ""},
		{"stop word not a city", "Tomorrow at 15:00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, explicitTZ(t, tt.text))
		})
	}
}

func TestTimeSpansMaskedBeforeTimezoneSearch(t *testing.T) {
	// "10.30 P.M" is claimed as a time, so the abbreviation scan must
	// not see the "PM" letters; the remaining text holds no timezone.
	require.Equal(t, "", explicitTZ(t, "maybe 10.30 P.M. then"))
}

func TestIANAPrecedenceOverCity(t *testing.T) {
	require.Equal(t, "Europe/Moscow", explicitTZ(t, "15:00 Europe/Moscow или Амстердам"))
}

func TestNormalizeRussianCity(t *testing.T) {
	require.Equal(t, "Москва", normalizeRussianCity("Москве"))
	require.Equal(t, "Амстердам", normalizeRussianCity("Амстердаму"))
	// Unknown bases come back with the ending stripped.
	require.Equal(t, "Воронеж", normalizeRussianCity("Воронежу"))
	// Too-short words are left alone.
	require.Equal(t, "Уфе", normalizeRussianCity("Уфе"))
}
