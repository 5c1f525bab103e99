package timeparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"TimezoneBot/internal/model"
)

func clock(h, m int) model.Clock { return model.Clock{Hour: h, Minute: m} }

func TestParseEnglishTimes(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		raw   string
		start model.Clock
		style model.TimeStyle
	}{
		{"bare 24h", "meeting at 15:00 sharp", "15:00", clock(15, 0), model.StyleH24},
		{"12h with minutes", "call at 10:30 am", "10:30 am", clock(10, 30), model.StyleH12},
		// \b cannot sit between "." and space, so the trailing dot of
		// "P.M." stays outside the claimed span.
		{"12h dotted pm", "maybe 10.30 P.M. works", "10.30 P.M", clock(22, 30), model.StyleH12},
		{"bare 12h", "see you at 7pm", "7pm", clock(19, 0), model.StyleH12},
		{"12am is midnight", "landing at 12am", "12am", clock(0, 0), model.StyleH12},
		{"12pm is noon", "lunch at 12 pm", "12 pm", clock(12, 0), model.StyleH12},
		{"h separator", "train at 22h30", "22h30", clock(22, 30), model.StyleH24},
		{"noon", "let's do noon", "noon", clock(12, 0), model.StyleH12},
		{"midnight", "deploy at midnight", "midnight", clock(0, 0), model.StyleH12},
		{"half past", "half past ten", "half past ten", clock(10, 30), model.StyleH24},
		{"quarter past", "quarter past ten", "quarter past ten", clock(10, 15), model.StyleH24},
		{"quarter to", "quarter to ten", "quarter to ten", clock(9, 45), model.StyleH24},
		{"quarter to one wraps", "quarter to one", "quarter to one", clock(12, 45), model.StyleH24},
		{"and a half", "ten and a half", "ten and a half", clock(10, 30), model.StyleH24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := Parse(tt.text)
			require.Equal(t, model.LangEN, pr.Language)
			require.Len(t, pr.Times, 1)
			m := pr.Times[0]
			require.Equal(t, tt.raw, m.Raw)
			require.Equal(t, model.KindTime, m.Kind)
			require.Equal(t, tt.start, m.Start)
			require.Equal(t, tt.style, m.Style)
		})
	}
}

func TestParseRussianTimes(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		raw   string
		start model.Clock
		style model.TimeStyle
	}{
		{"v HH:MM", "встреча в 15:00", "в 15:00", clock(15, 0), model.StyleH24},
		{"utra", "созвон в 10 утра", "в 10 утра", clock(10, 0), model.StyleH12},
		{"dnya", "в 3 дня наверное", "в 3 дня", clock(15, 0), model.StyleH12},
		{"vechera", "давай в 7 вечера", "в 7 вечера", clock(19, 0), model.StyleH12},
		{"nochi", "прилетаю в 2 ночи", "в 2 ночи", clock(2, 0), model.StyleH12},
		{"12 dnya is noon", "обед в 12 дня", "в 12 дня", clock(12, 0), model.StyleH12},
		{"word hour", "в три часа дня", "в три часа дня", clock(15, 0), model.StyleH12},
		{"word hour plain", "в восемь часов", "в восемь часов", clock(8, 0), model.StyleH24},
		{"polden", "в полдень", "в полдень", clock(12, 0), model.StyleH24},
		{"v chas dnya", "в час дня", "в час дня", clock(13, 0), model.StyleH12},
		{"v chas", "зайду в час", "в час", clock(1, 0), model.StyleH24},
		{"polX", "полпятого", "полпятого", clock(4, 30), model.StyleH24},
		{"polovina", "в половину пятого", "в половину пятого", clock(4, 30), model.StyleH24},
		{"pol pervogo wraps", "полпервого", "полпервого", clock(12, 30), model.StyleH24},
		{"bez pyati", "без пяти пять", "без пяти пять", clock(4, 55), model.StyleH24},
		{"bez chetverti", "без четверти пять", "без четверти пять", clock(4, 45), model.StyleH24},
		{"bez literal", "без 20 шесть", "без 20 шесть", clock(5, 40), model.StyleH24},
		{"word tridtsat", "пять тридцать", "пять тридцать", clock(5, 30), model.StyleH24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := Parse(tt.text)
			require.Equal(t, model.LangRU, pr.Language)
			require.Len(t, pr.Times, 1)
			m := pr.Times[0]
			require.Equal(t, tt.raw, m.Raw)
			require.Equal(t, tt.start, m.Start)
			require.Equal(t, tt.style, m.Style)
		})
	}
}

// "12 вечера" maps to midnight rather than noon. That follows the
// qualifier table as shipped; pinned here so a change is deliberate.
func TestTwelveVecheraQuirk(t *testing.T) {
	pr := Parse("в 12 вечера")
	require.Len(t, pr.Times, 1)
	require.Equal(t, clock(0, 0), pr.Times[0].Start)

	pr = Parse("в двенадцать часов вечера")
	require.Len(t, pr.Times, 1)
	require.Equal(t, clock(0, 0), pr.Times[0].Start)
}

func TestParseRange(t *testing.T) {
	for _, text := range []string{"слот 10:00-11:30 свободен", "slot 10:00–11:30 works"} {
		pr := Parse(text)
		require.Len(t, pr.Times, 1, text)
		m := pr.Times[0]
		require.Equal(t, model.KindRange, m.Kind)
		require.Equal(t, clock(10, 0), m.Start)
		require.NotNil(t, m.End)
		require.Equal(t, clock(11, 30), *m.End)
	}
}

func TestRangeClaimsBeatSingles(t *testing.T) {
	// The range claims its span first; the bare HH:MM matcher must not
	// re-report either endpoint.
	pr := Parse("10:00-11:00")
	require.Len(t, pr.Times, 1)
	require.Equal(t, model.KindRange, pr.Times[0].Kind)
}

func TestMultipleMentionsSortedByOffset(t *testing.T) {
	pr := Parse("either 15:00 or 7pm, maybe noon")
	require.Len(t, pr.Times, 3)
	require.Equal(t, "15:00", pr.Times[0].Raw)
	require.Equal(t, "7pm", pr.Times[1].Raw)
	require.Equal(t, "noon", pr.Times[2].Raw)
}

func TestUnrecognizedFormsIgnored(t *testing.T) {
	for _, text := range []string{
		"see you at 10",     // bare number
		"в 10",              // bare number after preposition
		"version 10.30 out", // dotted number without am/pm
		"room 1030",
	} {
		pr := Parse(text)
		require.Empty(t, pr.Times, text)
	}
}

func TestCodeBlocksIgnored(t *testing.T) {
	pr := Parse("run `job at 15:00` later")
	require.Empty(t, pr.Times)

	pr = Parse("```\ncron 15:00\n```\nbut 16:00 works")
	require.Len(t, pr.Times, 1)
	require.Equal(t, "16:00", pr.Times[0].Raw)
}

func TestDetectLanguage(t *testing.T) {
	require.Equal(t, model.LangEN, DetectLanguage("meeting at noon"))
	require.Equal(t, model.LangRU, DetectLanguage("встреча at noon"))
	require.Equal(t, model.LangEN, DetectLanguage(""))
}

func TestAdjacentMentions(t *testing.T) {
	// Boundary characters consumed by one match must not hide the next
	// mention right after it.
	pr := Parse("в 15:00 в 16:00")
	require.Len(t, pr.Times, 2)
}
