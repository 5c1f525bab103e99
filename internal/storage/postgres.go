package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("storage: not found")

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() { s.pool.Close() }

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Profile holds a user's saved timezone and delivery preferences.
// IDs are strings so the same schema serves every chat platform.
type Profile struct {
	Platform  string
	UserID    string
	Timezone  string
	DMEnabled bool
	Muted     bool
	UpdatedAt time.Time
}

type ProfilesRepo interface {
	Get(ctx context.Context, platform, userID string) (Profile, error)
	SetTimezone(ctx context.Context, platform, userID, tz string) error
	SetDMEnabled(ctx context.Context, platform, userID string, enabled bool) error
	SetMuted(ctx context.Context, platform, userID string, muted bool) error
	Delete(ctx context.Context, platform, userID string) error
}

type profilesPG struct{ db *pgxpool.Pool }

func (s *Storage) Profiles() ProfilesRepo { return &profilesPG{s.pool} }

func (r *profilesPG) Get(ctx context.Context, platform, userID string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `SELECT platform, user_id, timezone, dm_enabled, muted, updated_at
	           FROM user_profiles WHERE platform=$1 AND user_id=$2`
	var p Profile
	err := r.db.QueryRow(ctx, q, platform, userID).Scan(&p.Platform, &p.UserID, &p.Timezone, &p.DMEnabled, &p.Muted, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (r *profilesPG) SetTimezone(ctx context.Context, platform, userID, tz string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO user_profiles (platform, user_id, timezone, updated_at)
VALUES ($1,$2,$3,now())
ON CONFLICT (platform, user_id) DO UPDATE SET timezone=EXCLUDED.timezone, updated_at=now()`
	_, err := r.db.Exec(ctx, q, platform, userID, tz)
	return err
}

func (r *profilesPG) SetDMEnabled(ctx context.Context, platform, userID string, enabled bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO user_profiles (platform, user_id, timezone, dm_enabled, updated_at)
VALUES ($1,$2,'',$3,now())
ON CONFLICT (platform, user_id) DO UPDATE SET dm_enabled=EXCLUDED.dm_enabled, updated_at=now()`
	_, err := r.db.Exec(ctx, q, platform, userID, enabled)
	return err
}

func (r *profilesPG) SetMuted(ctx context.Context, platform, userID string, muted bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO user_profiles (platform, user_id, timezone, muted, updated_at)
VALUES ($1,$2,'',$3,now())
ON CONFLICT (platform, user_id) DO UPDATE SET muted=EXCLUDED.muted, updated_at=now()`
	_, err := r.db.Exec(ctx, q, platform, userID, muted)
	return err
}

func (r *profilesPG) Delete(ctx context.Context, platform, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.db.Exec(ctx, `DELETE FROM user_profiles WHERE platform=$1 AND user_id=$2`, platform, userID)
	return err
}

type GroupsRepo interface {
	SetMonitor(ctx context.Context, platform, chatID string, enabled bool) error
	Monitoring(ctx context.Context, platform, chatID string) (bool, error)
}

type groupsPG struct{ db *pgxpool.Pool }

func (s *Storage) Groups() GroupsRepo { return &groupsPG{s.pool} }

func (r *groupsPG) SetMonitor(ctx context.Context, platform, chatID string, enabled bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO group_settings (platform, chat_id, monitor_enabled)
VALUES ($1,$2,$3)
ON CONFLICT (platform, chat_id) DO UPDATE SET monitor_enabled=EXCLUDED.monitor_enabled`
	_, err := r.db.Exec(ctx, q, platform, chatID, enabled)
	return err
}

// Monitoring reports whether conversion is enabled for the chat.
// Chats with no settings row are not monitored.
func (r *groupsPG) Monitoring(ctx context.Context, platform, chatID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `SELECT monitor_enabled FROM group_settings WHERE platform=$1 AND chat_id=$2`
	var enabled bool
	err := r.db.QueryRow(ctx, q, platform, chatID).Scan(&enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return enabled, err
}

type MembersRepo interface {
	Touch(ctx context.Context, platform, chatID, userID string) error
	Remove(ctx context.Context, platform, chatID, userID string) error
	List(ctx context.Context, platform, chatID string) ([]string, error)
}

type membersPG struct{ db *pgxpool.Pool }

func (s *Storage) Members() MembersRepo { return &membersPG{s.pool} }

func (r *membersPG) Touch(ctx context.Context, platform, chatID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO group_members (platform, chat_id, user_id, last_seen)
VALUES ($1,$2,$3,now())
ON CONFLICT (platform, chat_id, user_id) DO UPDATE SET last_seen=now()`
	_, err := r.db.Exec(ctx, q, platform, chatID, userID)
	return err
}

func (r *membersPG) Remove(ctx context.Context, platform, chatID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `DELETE FROM group_members WHERE platform=$1 AND chat_id=$2 AND user_id=$3`
	_, err := r.db.Exec(ctx, q, platform, chatID, userID)
	return err
}

func (r *membersPG) List(ctx context.Context, platform, chatID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `SELECT user_id FROM group_members WHERE platform=$1 AND chat_id=$2 ORDER BY last_seen`
	rows, err := r.db.Query(ctx, q, platform, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Override modes for a chat's timezone panel.
const (
	OverrideAdd    = "add"
	OverrideRemove = "remove"
)

type Override struct {
	Timezone string
	Mode     string
}

type OverridesRepo interface {
	Set(ctx context.Context, platform, chatID, tz, mode string) error
	Clear(ctx context.Context, platform, chatID, tz string) error
	List(ctx context.Context, platform, chatID string) ([]Override, error)
}

type overridesPG struct{ db *pgxpool.Pool }

func (s *Storage) Overrides() OverridesRepo { return &overridesPG{s.pool} }

func (r *overridesPG) Set(ctx context.Context, platform, chatID, tz, mode string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
INSERT INTO group_timezones (platform, chat_id, timezone, mode)
VALUES ($1,$2,$3,$4)
ON CONFLICT (platform, chat_id, timezone) DO UPDATE SET mode=EXCLUDED.mode`
	_, err := r.db.Exec(ctx, q, platform, chatID, tz, mode)
	return err
}

func (r *overridesPG) Clear(ctx context.Context, platform, chatID, tz string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `DELETE FROM group_timezones WHERE platform=$1 AND chat_id=$2 AND timezone=$3`
	_, err := r.db.Exec(ctx, q, platform, chatID, tz)
	return err
}

func (r *overridesPG) List(ctx context.Context, platform, chatID string) ([]Override, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `SELECT timezone, mode FROM group_timezones WHERE platform=$1 AND chat_id=$2 ORDER BY timezone`
	rows, err := r.db.Query(ctx, q, platform, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(&o.Timezone, &o.Mode); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ActiveTimezones computes the timezone panel for a chat: the distinct
// profile timezones of seen members, plus "add" overrides, minus
// "remove" overrides. Order follows first appearance in the chat.
func (s *Storage) ActiveTimezones(ctx context.Context, platform, chatID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `
SELECT tz FROM (
    SELECT p.timezone AS tz, min(m.last_seen) AS first_seen
    FROM group_members m
    JOIN user_profiles p ON p.platform=m.platform AND p.user_id=m.user_id
    WHERE m.platform=$1 AND m.chat_id=$2 AND p.timezone <> ''
    GROUP BY p.timezone
  UNION
    SELECT timezone AS tz, now() AS first_seen
    FROM group_timezones
    WHERE platform=$1 AND chat_id=$2 AND mode='add'
) u
WHERE tz NOT IN (
    SELECT timezone FROM group_timezones
    WHERE platform=$1 AND chat_id=$2 AND mode='remove'
)
ORDER BY first_seen, tz`
	rows, err := s.pool.Query(ctx, q, platform, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var tz string
		if err := rows.Scan(&tz); err != nil {
			return nil, err
		}
		out = append(out, tz)
	}
	return out, rows.Err()
}

type EventsRepo interface {
	Log(ctx context.Context, kind, platform, chatID, userID string) error
}

type eventsPG struct{ db *pgxpool.Pool }

func (s *Storage) Events() EventsRepo { return &eventsPG{s.pool} }

func (r *eventsPG) Log(ctx context.Context, kind, platform, chatID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `INSERT INTO events (kind, platform, chat_id, user_id) VALUES ($1,$2,$3,$4)`
	_, err := r.db.Exec(ctx, q, kind, platform, chatID, userID)
	return err
}

type FeedbackRepo interface {
	Add(ctx context.Context, platform, userID, message string) error
}

type feedbackPG struct{ db *pgxpool.Pool }

func (s *Storage) Feedback() FeedbackRepo { return &feedbackPG{s.pool} }

func (r *feedbackPG) Add(ctx context.Context, platform, userID, message string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	const q = `INSERT INTO feedback (platform, user_id, message) VALUES ($1,$2,$3)`
	_, err := r.db.Exec(ctx, q, platform, userID, message)
	return err
}
