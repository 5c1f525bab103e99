package timeparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"TimezoneBot/internal/model"
)

func TestExtractDateAnchor(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		kind     model.DateAnchorKind
		weekday  int
		modifier model.WeekdayModifier
	}{
		{"today en", "today at 15:00", model.AnchorToday, -1, model.ModifierDefaultNext},
		{"today ru", "сегодня в 15:00", model.AnchorToday, -1, model.ModifierDefaultNext},
		{"tomorrow en", "tomorrow 7pm", model.AnchorTomorrow, -1, model.ModifierDefaultNext},
		{"tomorrow ru", "завтра в 7 вечера", model.AnchorTomorrow, -1, model.ModifierDefaultNext},
		{"bare weekday en", "on monday at 15:00", model.AnchorWeekday, 0, model.ModifierDefaultNext},
		{"short weekday en", "fri 15:00", model.AnchorWeekday, 4, model.ModifierDefaultNext},
		{"next weekday", "next friday 15:00", model.AnchorWeekday, 4, model.ModifierNext},
		{"this weekday", "this wednesday 15:00", model.AnchorWeekday, 2, model.ModifierThis},
		{"last weekday", "last tuesday 15:00", model.AnchorWeekday, 1, model.ModifierLast},
		{"previous weekday", "previous sunday", model.AnchorWeekday, 6, model.ModifierLast},
		{"bare weekday ru", "во вторник в 15:00", model.AnchorWeekday, 1, model.ModifierDefaultNext},
		{"accusative ru", "в среду в 15:00", model.AnchorWeekday, 2, model.ModifierDefaultNext},
		{"next ru", "в следующий понедельник", model.AnchorWeekday, 0, model.ModifierNext},
		{"next ru feminine", "в следующую пятницу", model.AnchorWeekday, 4, model.ModifierNext},
		{"this ru", "в этот четверг", model.AnchorWeekday, 3, model.ModifierThis},
		{"last ru", "в прошлую пятницу", model.AnchorWeekday, 4, model.ModifierLast},
		{"na toi nedele", "в среду на той неделе", model.AnchorWeekday, 2, model.ModifierLast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := extractDateAnchor(tt.text)
			require.NotNil(t, a)
			require.Equal(t, tt.kind, a.Kind)
			require.Equal(t, tt.weekday, a.Weekday)
			require.Equal(t, tt.modifier, a.Modifier)
		})
	}
}

func TestAnchorPrecedence(t *testing.T) {
	// Literal today/tomorrow beat weekday phrases anywhere in the text.
	a := extractDateAnchor("в пятницу или сегодня")
	require.NotNil(t, a)
	require.Equal(t, model.AnchorToday, a.Kind)
}

func TestNoAnchor(t *testing.T) {
	require.Nil(t, extractDateAnchor("meeting at 15:00"))
	require.Nil(t, extractDateAnchor("встреча в 15:00"))
}
