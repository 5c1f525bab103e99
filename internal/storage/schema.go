package storage

import (
	"context"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
    platform   text        NOT NULL,
    user_id    text        NOT NULL,
    timezone   text        NOT NULL DEFAULT '',
    dm_enabled boolean     NOT NULL DEFAULT true,
    muted      boolean     NOT NULL DEFAULT false,
    updated_at timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (platform, user_id)
);

CREATE TABLE IF NOT EXISTS group_settings (
    platform        text    NOT NULL,
    chat_id         text    NOT NULL,
    monitor_enabled boolean NOT NULL DEFAULT false,
    PRIMARY KEY (platform, chat_id)
);

CREATE TABLE IF NOT EXISTS group_members (
    platform  text        NOT NULL,
    chat_id   text        NOT NULL,
    user_id   text        NOT NULL,
    last_seen timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (platform, chat_id, user_id)
);

CREATE TABLE IF NOT EXISTS group_timezones (
    platform text NOT NULL,
    chat_id  text NOT NULL,
    timezone text NOT NULL,
    mode     text NOT NULL CHECK (mode IN ('add', 'remove')),
    PRIMARY KEY (platform, chat_id, timezone)
);

CREATE TABLE IF NOT EXISTS events (
    id         bigserial PRIMARY KEY,
    kind       text        NOT NULL,
    platform   text        NOT NULL,
    chat_id    text        NOT NULL DEFAULT '',
    user_id    text        NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS feedback (
    id         bigserial PRIMARY KEY,
    platform   text        NOT NULL,
    user_id    text        NOT NULL,
    message    text        NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now()
);
`

// EnsureSchema creates missing tables. Safe to run on every start.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, schema)
	return err
}
