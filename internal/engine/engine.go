// Package engine ties the parse, resolve, convert and format stages
// together and applies chat-level policy: who the bot listens to,
// which timezones it answers with, and what it says when it cannot
// resolve a sender's timezone.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"TimezoneBot/internal/convert"
	"TimezoneBot/internal/format"
	"TimezoneBot/internal/model"
	"TimezoneBot/internal/storage"
	"TimezoneBot/internal/timeparse"
	"TimezoneBot/internal/tzdata"
)

// Parser extracts time mentions from a message. The context matters
// only for implementations that call out to an LLM.
type Parser interface {
	Parse(ctx context.Context, text string) *model.ParseResult
}

// RegexParser adapts the pure matcher pipeline to the Parser interface.
type RegexParser struct{}

func (RegexParser) Parse(_ context.Context, text string) *model.ParseResult {
	return timeparse.Parse(text)
}

// TimezonePanel yields the timezones a chat's reply should cover.
type TimezonePanel interface {
	ActiveTimezones(ctx context.Context, platform, chatID string) ([]string, error)
}

type Message struct {
	Platform string
	ChatID   string
	UserID   string
	Text     string
	FromBot  bool
	Edited   bool
}

type Reply struct {
	Text string
}

type Engine struct {
	parser   Parser
	profiles storage.ProfilesRepo
	groups   storage.GroupsRepo
	members  storage.MembersRepo
	events   storage.EventsRepo
	panel    TimezonePanel

	maxTargets int
	now        func() time.Time
}

func New(parser Parser, profiles storage.ProfilesRepo, groups storage.GroupsRepo, members storage.MembersRepo, events storage.EventsRepo, panel TimezonePanel, maxTargets int) *Engine {
	if parser == nil {
		parser = RegexParser{}
	}
	return &Engine{
		parser:     parser,
		profiles:   profiles,
		groups:     groups,
		members:    members,
		events:     events,
		panel:      panel,
		maxTargets: maxTargets,
		now:        time.Now,
	}
}

// ResolveTimezoneToken maps a raw explicit-timezone token to an IANA
// zone or fixed offset the converter accepts. Precedence follows the
// extraction side: curated city, known abbreviation, IANA id, offset.
func ResolveTimezoneToken(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if tz, ok := tzdata.ResolveCity(raw); ok {
		return tz, true
	}
	if tz, ok := tzdata.ResolveAbbreviation(raw); ok {
		return tz, true
	}
	if strings.Contains(raw, "/") && convert.IsValid(raw) {
		return raw, true
	}
	if convert.IsValid(raw) {
		return raw, true
	}
	return "", false
}

// ResolveSource decides which timezone the mentioned times are in.
// An explicit token always wins over the sender's saved timezone; an
// explicit token that cannot be resolved is reported as such rather
// than silently falling back to the profile.
func ResolveSource(pr *model.ParseResult, profileTZ string) model.SourceResolution {
	if pr.ExplicitTimezone != nil {
		if tz, ok := ResolveTimezoneToken(pr.ExplicitTimezone.Raw); ok {
			return model.SourceResolution{Timezone: tz, Reason: model.ReasonExplicit}
		}
		return model.SourceResolution{Reason: model.ReasonExplicitUnrecognized}
	}
	if profileTZ != "" {
		return model.SourceResolution{Timezone: profileTZ, Reason: model.ReasonSenderProfile}
	}
	return model.SourceResolution{Reason: model.ReasonMissing}
}

func onboardingText(lang model.Language) string {
	if lang == model.LangRU {
		return "Я пока не знаю ваш часовой пояс. Отправьте /tz <город или зона IANA>, например /tz Амстердам или /tz Europe/Amsterdam."
	}
	return "I don't know your timezone yet. Send /tz <city or IANA zone>, e.g. /tz Amsterdam or /tz Europe/Amsterdam."
}

func unknownTimezoneText(lang model.Language, raw string) string {
	if lang == model.LangRU {
		return fmt.Sprintf("Не удалось распознать часовой пояс %q. Попробуйте город или зону IANA, например Europe/Amsterdam.", raw)
	}
	return fmt.Sprintf("I couldn't recognize the timezone %q. Try a city or an IANA zone like Europe/Amsterdam.", raw)
}

func (e *Engine) logEvent(ctx context.Context, kind string, msg Message) {
	if e.events == nil {
		return
	}
	// Best effort: metrics must never fail the reply path.
	if err := e.events.Log(ctx, kind, msg.Platform, msg.ChatID, msg.UserID); err != nil {
		log.Printf("engine: log event %s: %v", kind, err)
	}
}

func (e *Engine) senderProfile(ctx context.Context, msg Message) (storage.Profile, error) {
	p, err := e.profiles.Get(ctx, msg.Platform, msg.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Profile{}, nil
	}
	return p, err
}

// HandleGroupMessage runs the public-reply flow: parse the message,
// convert any times into the chat's active timezones and return the
// reply text. A nil reply means stay silent.
func (e *Engine) HandleGroupMessage(ctx context.Context, msg Message) (*Reply, error) {
	if msg.FromBot || msg.Edited {
		return nil, nil
	}
	monitored, err := e.groups.Monitoring(ctx, msg.Platform, msg.ChatID)
	if err != nil {
		return nil, fmt.Errorf("monitoring check: %w", err)
	}
	if !monitored {
		return nil, nil
	}
	if err := e.members.Touch(ctx, msg.Platform, msg.ChatID, msg.UserID); err != nil {
		log.Printf("engine: touch member: %v", err)
	}

	pr := e.parser.Parse(ctx, msg.Text)
	if len(pr.Times) == 0 {
		return nil, nil
	}

	profile, err := e.senderProfile(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile.Muted {
		return nil, nil
	}

	res := ResolveSource(pr, profile.Timezone)
	switch res.Reason {
	case model.ReasonMissing:
		e.logEvent(ctx, "onboarding_hint", msg)
		return &Reply{Text: onboardingText(pr.Language)}, nil
	case model.ReasonExplicitUnrecognized:
		e.logEvent(ctx, "unknown_timezone", msg)
		return &Reply{Text: unknownTimezoneText(pr.Language, pr.ExplicitTimezone.Raw)}, nil
	}

	active, err := e.panel.ActiveTimezones(ctx, msg.Platform, msg.ChatID)
	if err != nil {
		return nil, fmt.Errorf("active timezones: %w", err)
	}
	targets := dedupeTargets(active, res.Timezone)
	if len(targets) == 0 {
		return nil, nil
	}

	date, err := convert.ResolveAnchorDate(pr.DateAnchor, res.Timezone, e.now())
	if err != nil {
		return nil, fmt.Errorf("resolve anchor: %w", err)
	}
	conv, err := convert.ConvertMentions(pr.Times, res.Timezone, targets, date, e.now())
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	labeled := make([]format.Target, len(targets))
	for i, tz := range targets {
		labeled[i] = format.Target{TZ: tz, Label: tzdata.DisplayName(tz, pr.Language)}
	}
	text := format.Multi(conv, pr.Language, tzdata.DisplayName(res.Timezone, pr.Language), labeled, date != nil, true, e.maxTargets)
	if text == "" {
		return nil, nil
	}
	e.logEvent(ctx, "conversion", msg)
	return &Reply{Text: text}, nil
}

// HandleDirectMessage converts times the user sends in a private chat
// into the user's own saved timezone. The message should carry an
// explicit source timezone; without one the saved timezone is both
// source and target, which still renders (with zero shift).
func (e *Engine) HandleDirectMessage(ctx context.Context, msg Message) (*Reply, error) {
	if msg.FromBot || msg.Edited {
		return nil, nil
	}
	profile, err := e.senderProfile(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !profile.DMEnabled && profile.UserID != "" {
		return nil, nil
	}

	pr := e.parser.Parse(ctx, msg.Text)
	if len(pr.Times) == 0 {
		return nil, nil
	}
	if profile.Timezone == "" {
		e.logEvent(ctx, "onboarding_hint", msg)
		return &Reply{Text: onboardingText(pr.Language)}, nil
	}

	res := ResolveSource(pr, profile.Timezone)
	if res.Reason == model.ReasonExplicitUnrecognized {
		e.logEvent(ctx, "unknown_timezone", msg)
		return &Reply{Text: unknownTimezoneText(pr.Language, pr.ExplicitTimezone.Raw)}, nil
	}

	date, err := convert.ResolveAnchorDate(pr.DateAnchor, res.Timezone, e.now())
	if err != nil {
		return nil, fmt.Errorf("resolve anchor: %w", err)
	}
	conv, err := convert.ConvertMentions(pr.Times, res.Timezone, []string{profile.Timezone}, date, e.now())
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	text := format.Single(conv, pr.Language,
		tzdata.DisplayName(res.Timezone, pr.Language),
		tzdata.DisplayName(profile.Timezone, pr.Language),
		date != nil)
	if text == "" {
		return nil, nil
	}
	e.logEvent(ctx, "dm_conversion", msg)
	return &Reply{Text: text}, nil
}

// dedupeTargets keeps the first occurrence of each timezone and drops
// the source timezone itself.
func dedupeTargets(active []string, sourceTZ string) []string {
	seen := make(map[string]struct{}, len(active))
	out := make([]string, 0, len(active))
	for _, tz := range active {
		if tz == "" || tz == sourceTZ {
			continue
		}
		if _, ok := seen[tz]; ok {
			continue
		}
		seen[tz] = struct{}{}
		out = append(out, tz)
	}
	return out
}
