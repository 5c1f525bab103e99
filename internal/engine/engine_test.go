package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TimezoneBot/internal/model"
	"TimezoneBot/internal/storage"
)

type fakeProfiles struct {
	profiles map[string]storage.Profile // keyed by userID
}

func (f *fakeProfiles) Get(_ context.Context, _, userID string) (storage.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return storage.Profile{}, storage.ErrNotFound
	}
	return p, nil
}
func (f *fakeProfiles) SetTimezone(_ context.Context, platform, userID, tz string) error {
	p := f.profiles[userID]
	p.Platform, p.UserID, p.Timezone = platform, userID, tz
	f.profiles[userID] = p
	return nil
}
func (f *fakeProfiles) SetDMEnabled(_ context.Context, _, userID string, enabled bool) error {
	p := f.profiles[userID]
	p.DMEnabled = enabled
	f.profiles[userID] = p
	return nil
}
func (f *fakeProfiles) SetMuted(_ context.Context, _, userID string, muted bool) error {
	p := f.profiles[userID]
	p.Muted = muted
	f.profiles[userID] = p
	return nil
}
func (f *fakeProfiles) Delete(_ context.Context, _, userID string) error {
	delete(f.profiles, userID)
	return nil
}

type fakeGroups struct{ monitored bool }

func (f *fakeGroups) SetMonitor(_ context.Context, _, _ string, enabled bool) error {
	f.monitored = enabled
	return nil
}
func (f *fakeGroups) Monitoring(_ context.Context, _, _ string) (bool, error) {
	return f.monitored, nil
}

type fakeMembers struct{ touched []string }

func (f *fakeMembers) Touch(_ context.Context, _, _, userID string) error {
	f.touched = append(f.touched, userID)
	return nil
}
func (f *fakeMembers) Remove(context.Context, string, string, string) error { return nil }
func (f *fakeMembers) List(context.Context, string, string) ([]string, error) {
	return nil, nil
}

type fakeEvents struct{ kinds []string }

func (f *fakeEvents) Log(_ context.Context, kind, _, _, _ string) error {
	f.kinds = append(f.kinds, kind)
	return nil
}

type fakePanel struct{ zones []string }

func (f *fakePanel) ActiveTimezones(context.Context, string, string) ([]string, error) {
	return f.zones, nil
}

type fixture struct {
	engine   *Engine
	profiles *fakeProfiles
	groups   *fakeGroups
	members  *fakeMembers
	events   *fakeEvents
	panel    *fakePanel
}

func newFixture(zones ...string) *fixture {
	f := &fixture{
		profiles: &fakeProfiles{profiles: map[string]storage.Profile{}},
		groups:   &fakeGroups{monitored: true},
		members:  &fakeMembers{},
		events:   &fakeEvents{},
		panel:    &fakePanel{zones: zones},
	}
	f.engine = New(nil, f.profiles, f.groups, f.members, f.events, f.panel, 12)
	// Wednesday 2026-01-28, winter.
	f.engine.now = func() time.Time { return time.Date(2026, 1, 28, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) setProfile(userID, tz string) {
	f.profiles.profiles[userID] = storage.Profile{UserID: userID, Timezone: tz, DMEnabled: true}
}

func groupMsg(text string) Message {
	return Message{Platform: "telegram", ChatID: "c1", UserID: "u1", Text: text}
}

func TestResolveSource(t *testing.T) {
	explicit := &model.ParseResult{ExplicitTimezone: &model.ExplicitTimezoneMention{Raw: "Amsterdam"}}
	res := ResolveSource(explicit, "Europe/Moscow")
	require.Equal(t, model.ReasonExplicit, res.Reason)
	require.Equal(t, "Europe/Amsterdam", res.Timezone)

	unknown := &model.ParseResult{ExplicitTimezone: &model.ExplicitTimezoneMention{Raw: "Gotham"}}
	res = ResolveSource(unknown, "Europe/Moscow")
	require.Equal(t, model.ReasonExplicitUnrecognized, res.Reason)
	require.Empty(t, res.Timezone)

	res = ResolveSource(&model.ParseResult{}, "Europe/Moscow")
	require.Equal(t, model.ReasonSenderProfile, res.Reason)
	require.Equal(t, "Europe/Moscow", res.Timezone)

	res = ResolveSource(&model.ParseResult{}, "")
	require.Equal(t, model.ReasonMissing, res.Reason)
}

func TestResolveTimezoneToken(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"Amsterdam", "Europe/Amsterdam", true},
		{"амстердам", "Europe/Amsterdam", true},
		{"MSK", "Europe/Moscow", true},
		{"msk", "Europe/Moscow", true},
		{"Europe/Belgrade", "Europe/Belgrade", true},
		{"UTC+4", "UTC+4", true},
		{"+04:00", "+04:00", true},
		{"Gotham", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveTimezoneToken(tt.raw)
		require.Equal(t, tt.ok, ok, tt.raw)
		require.Equal(t, tt.want, got, tt.raw)
	}
}

func TestGroupMessageProfileSource(t *testing.T) {
	f := newFixture("Europe/Amsterdam", "Asia/Yerevan")
	f.setProfile("u1", "Europe/Amsterdam")

	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("meeting at 15:00"))
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Equal(t, "15:00 Amsterdam, 18:00 Yerevan", reply.Text)
	require.Contains(t, f.events.kinds, "conversion")
	require.Equal(t, []string{"u1"}, f.members.touched)
}

func TestGroupMessageExplicitBeatsProfile(t *testing.T) {
	f := newFixture("Europe/Amsterdam", "Asia/Yerevan")
	f.setProfile("u1", "Europe/Amsterdam")

	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("встреча в 15:00 по Москве"))
	require.NoError(t, err)
	require.NotNil(t, reply)
	// Moscow is the source; both panel zones remain targets.
	require.Equal(t, "15:00 Москва, 13:00 Амстердам, 16:00 Ереван", reply.Text)
}

func TestGroupMessageOnboarding(t *testing.T) {
	f := newFixture("Europe/Amsterdam")

	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("meeting at 15:00"))
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Contains(t, reply.Text, "/tz")
	require.Contains(t, f.events.kinds, "onboarding_hint")
}

func TestGroupMessageUnknownExplicit(t *testing.T) {
	f := newFixture("Europe/Amsterdam")
	f.setProfile("u1", "Europe/Amsterdam")

	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("meeting at 15:00 Gotham time"))
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Contains(t, reply.Text, "Gotham")
	require.Contains(t, f.events.kinds, "unknown_timezone")
}

func TestGroupMessageSilences(t *testing.T) {
	f := newFixture("Europe/Amsterdam", "Asia/Yerevan")
	f.setProfile("u1", "Europe/Amsterdam")

	cases := []Message{
		{Platform: "telegram", ChatID: "c1", UserID: "u1", Text: "meeting at 15:00", FromBot: true},
		{Platform: "telegram", ChatID: "c1", UserID: "u1", Text: "meeting at 15:00", Edited: true},
		groupMsg("no times here"),
	}
	for _, msg := range cases {
		reply, err := f.engine.HandleGroupMessage(context.Background(), msg)
		require.NoError(t, err)
		require.Nil(t, reply)
	}
}

func TestGroupMessageNotMonitored(t *testing.T) {
	f := newFixture("Europe/Amsterdam", "Asia/Yerevan")
	f.setProfile("u1", "Europe/Amsterdam")
	f.groups.monitored = false

	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("meeting at 15:00"))
	require.NoError(t, err)
	require.Nil(t, reply)
	require.Empty(t, f.members.touched)
}

func TestGroupMessageMutedSender(t *testing.T) {
	f := newFixture("Europe/Amsterdam", "Asia/Yerevan")
	f.profiles.profiles["u1"] = storage.Profile{UserID: "u1", Timezone: "Europe/Amsterdam", DMEnabled: true, Muted: true}

	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("meeting at 15:00"))
	require.NoError(t, err)
	require.Nil(t, reply)
}

func TestGroupMessageSourceDropsFromTargets(t *testing.T) {
	// The sender's zone is the only active one: nothing to convert to.
	f := newFixture("Europe/Amsterdam")
	f.setProfile("u1", "Europe/Amsterdam")

	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("meeting at 15:00"))
	require.NoError(t, err)
	require.Nil(t, reply)
}

func TestGroupMessageDedupesTargets(t *testing.T) {
	f := newFixture("Asia/Yerevan", "Asia/Yerevan", "Europe/Amsterdam")
	f.setProfile("u1", "Europe/Amsterdam")

	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("meeting at 15:00"))
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Equal(t, "15:00 Amsterdam, 18:00 Yerevan", reply.Text)
}

func TestGroupMessageWithAnchor(t *testing.T) {
	f := newFixture("Europe/Amsterdam", "Asia/Yerevan")
	f.setProfile("u1", "Europe/Amsterdam")

	// Sent Wed 2026-01-28; "next monday" skips the upcoming Monday.
	reply, err := f.engine.HandleGroupMessage(context.Background(), groupMsg("next monday at 10:00"))
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Equal(t, "Mon, Feb 9 — 10:00 Amsterdam, 13:00 Yerevan", reply.Text)
}

func TestDirectMessageConvertsToOwnZone(t *testing.T) {
	f := newFixture()
	f.setProfile("u1", "Europe/Amsterdam")

	reply, err := f.engine.HandleDirectMessage(context.Background(), groupMsg("встреча в 15:00 по Москве"))
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Equal(t, "15:00 Москва → 13:00 Амстердам", reply.Text)
	require.Contains(t, f.events.kinds, "dm_conversion")
}

func TestDirectMessageNeedsProfile(t *testing.T) {
	f := newFixture()

	reply, err := f.engine.HandleDirectMessage(context.Background(), groupMsg("15:00 по Москве"))
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Contains(t, reply.Text, "/tz")
}

func TestDirectMessageRespectsDMDisabled(t *testing.T) {
	f := newFixture()
	f.profiles.profiles["u1"] = storage.Profile{UserID: "u1", Timezone: "Europe/Amsterdam", DMEnabled: false}

	reply, err := f.engine.HandleDirectMessage(context.Background(), groupMsg("15:00 по Москве"))
	require.NoError(t, err)
	require.Nil(t, reply)
}
