package db

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            VARCHAR PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         VARCHAR PRIMARY KEY,
	user_id    VARCHAR NOT NULL REFERENCES users(id),
	token      TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	revoked_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS exercises (
	id          VARCHAR PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	metric_type TEXT NOT NULL CHECK (metric_type IN ('count', 'weight', 'duration', 'distance')),
	unit        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workout_sessions (
	id         VARCHAR PRIMARY KEY,
	user_id    VARCHAR NOT NULL REFERENCES users(id),
	started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	ended_at   TIMESTAMPTZ,
	note       TEXT
);

-- at most one active (un-ended) session per user
CREATE UNIQUE INDEX IF NOT EXISTS ux_sessions_active
	ON workout_sessions (user_id) WHERE ended_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_sessions_user_started
	ON workout_sessions (user_id, started_at DESC);

CREATE TABLE IF NOT EXISTS workout_sets (
	id              VARCHAR PRIMARY KEY,
	session_id      VARCHAR NOT NULL REFERENCES workout_sessions(id),
	exercise_id     VARCHAR NOT NULL REFERENCES exercises(id),
	reps            INT,
	weight          DOUBLE PRECISION,
	duration_sec    INT,
	distance_meters DOUBLE PRECISION,
	note            TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sets_session ON workout_sets(session_id);
CREATE INDEX IF NOT EXISTS idx_sets_exercise ON workout_sets(exercise_id);

CREATE TABLE IF NOT EXISTS challenges (
	id         VARCHAR PRIMARY KEY,
	title      TEXT NOT NULL,
	activity   TEXT NOT NULL,
	metric     TEXT NOT NULL DEFAULT 'count',
	unit       TEXT NOT NULL DEFAULT 'reps',
	start_at   TIMESTAMPTZ NOT NULL,
	end_at     TIMESTAMPTZ NOT NULL,
	created_by VARCHAR NOT NULL REFERENCES users(id),
	status     TEXT NOT NULL DEFAULT 'upcoming',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS challenge_participants (
	id           VARCHAR PRIMARY KEY,
	challenge_id VARCHAR NOT NULL REFERENCES challenges(id),
	user_id      VARCHAR NOT NULL REFERENCES users(id),
	UNIQUE (challenge_id, user_id)
);

CREATE TABLE IF NOT EXISTS challenge_entries (
	id           VARCHAR PRIMARY KEY,
	challenge_id VARCHAR NOT NULL REFERENCES challenges(id),
	user_id      VARCHAR NOT NULL REFERENCES users(id),
	value        INT NOT NULL,
	note         TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_entries_challenge ON challenge_entries(challenge_id);
`

// Migrate ensures tables exist. Call once at startup.
func Migrate(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schema)
	return err
}
