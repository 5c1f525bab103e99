package llm

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"TimezoneBot/internal/model"
	"TimezoneBot/internal/timeparse"
)

const extractSystemPrompt = `You extract time mentions from chat messages written in English or Russian.
Reply with ONE JSON object and nothing else, no prose, no code fences:
{
  "times": [
    {"raw": "<exact substring>", "style": "24h" or "12h",
     "kind": "time" or "range",
     "start": {"hour": 0-23, "minute": 0-59},
     "end": {"hour": 0-23, "minute": 0-59} or null}
  ],
  "timezone": "<explicit timezone/city token from the text>" or null,
  "date_anchor": {"kind": "today" or "tomorrow" or "weekday",
                  "weekday": 0-6 (Monday=0, only for kind weekday),
                  "modifier": "default_next" or "this" or "next" or "last"} or null,
  "language": "en" or "ru"
}
Rules: hours are 24-hour in "start"/"end" even for 12h-style mentions.
Only report times the author actually wrote; do not infer. Ignore text
inside code blocks. If nothing qualifies, return {"times": []}.`

type wireClock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

type wireTime struct {
	Raw   string     `json:"raw"`
	Style string     `json:"style"`
	Kind  string     `json:"kind"`
	Start *wireClock `json:"start"`
	End   *wireClock `json:"end"`
}

type wireAnchor struct {
	Kind     string `json:"kind"`
	Weekday  int    `json:"weekday"`
	Modifier string `json:"modifier"`
}

type wireResult struct {
	Times      []wireTime  `json:"times"`
	Timezone   *string     `json:"timezone"`
	DateAnchor *wireAnchor `json:"date_anchor"`
	Language   string      `json:"language"`
}

func clockOf(w *wireClock) *model.Clock {
	if w == nil || w.Hour < 0 || w.Hour > 23 || w.Minute < 0 || w.Minute > 59 {
		return nil
	}
	return &model.Clock{Hour: w.Hour, Minute: w.Minute}
}

func anchorOf(w *wireAnchor) *model.DateAnchor {
	if w == nil {
		return nil
	}
	a := model.DateAnchor{Weekday: -1, Modifier: model.ModifierDefaultNext}
	switch w.Kind {
	case "today":
		a.Kind = model.AnchorToday
	case "tomorrow":
		a.Kind = model.AnchorTomorrow
	case "weekday":
		if w.Weekday < 0 || w.Weekday > 6 {
			return nil
		}
		a.Kind = model.AnchorWeekday
		a.Weekday = w.Weekday
		switch w.Modifier {
		case "this":
			a.Modifier = model.ModifierThis
		case "next":
			a.Modifier = model.ModifierNext
		case "last":
			a.Modifier = model.ModifierLast
		}
	default:
		return nil
	}
	return &a
}

// decodeResult parses the model reply, tolerating stray code fences.
func decodeResult(reply string) (*wireResult, bool) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	var w wireResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &w); err != nil {
		return nil, false
	}
	return &w, true
}

func mentionsOf(times []wireTime) []model.TimeMention {
	out := make([]model.TimeMention, 0, len(times))
	for _, t := range times {
		start := clockOf(t.Start)
		if start == nil || t.Raw == "" {
			continue
		}
		m := model.TimeMention{Raw: t.Raw, Kind: model.KindTime, Style: model.StyleH24, Start: *start}
		if t.Style == "12h" {
			m.Style = model.StyleH12
		}
		if t.Kind == "range" {
			end := clockOf(t.End)
			if end == nil {
				continue
			}
			m.Kind = model.KindRange
			m.End = end
		}
		out = append(out, m)
	}
	return out
}

// Hybrid runs the regex pipeline first and falls back to the chat
// model only when no time mentions were found. Regex results are
// authoritative: its date anchor and explicit timezone are kept even
// when the fallback fires.
type Hybrid struct {
	provider *Provider
}

func NewHybrid(provider *Provider) *Hybrid { return &Hybrid{provider: provider} }

func (h *Hybrid) Parse(ctx context.Context, text string) *model.ParseResult {
	pr := timeparse.Parse(text)
	if len(pr.Times) > 0 || h.provider == nil {
		return pr
	}

	reply, err := h.provider.Complete(ctx, extractSystemPrompt, text)
	if err != nil {
		log.Printf("llm: fallback parse: %v", err)
		return pr
	}
	w, ok := decodeResult(reply)
	if !ok {
		log.Printf("llm: fallback parse: unparseable reply")
		return pr
	}

	mentions := mentionsOf(w.Times)
	if len(mentions) == 0 {
		return pr
	}
	pr.Times = mentions
	if pr.DateAnchor == nil {
		pr.DateAnchor = anchorOf(w.DateAnchor)
	}
	if pr.ExplicitTimezone == nil && w.Timezone != nil && *w.Timezone != "" {
		pr.ExplicitTimezone = &model.ExplicitTimezoneMention{Raw: *w.Timezone}
	}
	return pr
}
