package workout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/db"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// StartSession returns the user's active session when one exists, otherwise
// creates one. The partial unique index on (user_id) WHERE ended_at IS NULL
// closes the race between two concurrent starts: the loser's insert hits the
// constraint and re-reads the winner's row.
func (s *Service) StartSession(ctx context.Context, userID string, note *string) (Session, error) {
	if active, err := s.ActiveSession(ctx, userID); err != nil {
		return Session{}, err
	} else if active != nil {
		return *active, nil
	}

	session := Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Note:   note,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO workout_sessions (id, user_id, note)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) WHERE ended_at IS NULL DO NOTHING
		RETURNING started_at
	`, session.ID, session.UserID, session.Note)
	err := row.Scan(&session.StartedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// lost the race, someone else's session is active now
		active, err := s.ActiveSession(ctx, userID)
		if err != nil {
			return Session{}, err
		}
		if active == nil {
			return Session{}, apperr.Conflict("session already active")
		}
		return *active, nil
	}
	if err != nil {
		return Session{}, err
	}

	s.notify(userID, "session_started", session.ID)
	return session, nil
}

// ActiveSession is a single indexed lookup, nil when the user has no
// in-progress session.
func (s *Service) ActiveSession(ctx context.Context, userID string) (*Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, started_at, ended_at, note
		FROM workout_sessions
		WHERE user_id=$1 AND ended_at IS NULL
	`, userID)
	var session Session
	err := row.Scan(&session.ID, &session.UserID, &session.StartedAt, &session.EndedAt, &session.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// EndSession stamps ended_at. Ending an already-ended session is a no-op.
func (s *Service) EndSession(ctx context.Context, userID, id string) (Session, error) {
	session, err := s.ownedSession(ctx, userID, id)
	if err != nil {
		return Session{}, err
	}
	if session.EndedAt != nil {
		return session, nil
	}

	row := s.db.QueryRow(ctx, `
		UPDATE workout_sessions SET ended_at=now()
		WHERE id=$1
		RETURNING ended_at
	`, id)
	if err := row.Scan(&session.EndedAt); err != nil {
		return Session{}, err
	}

	s.notify(userID, "session_ended", id)
	return session, nil
}

// UpdateSession merges the patch with stored values and re-validates the
// temporal invariant against the merged result, so a partial update of one
// endpoint is always checked against the other's current value.
func (s *Service) UpdateSession(ctx context.Context, userID, id string, p SessionPatch) (Session, error) {
	session, err := s.ownedSession(ctx, userID, id)
	if err != nil {
		return Session{}, err
	}

	if p.StartedAt.Set && p.StartedAt.Null {
		return Session{}, apperr.Validation("startedAt cannot be cleared")
	}

	session.Note = p.Note.Apply(session.Note)
	if p.StartedAt.Set {
		session.StartedAt = p.StartedAt.Value
	}
	session.EndedAt = p.EndedAt.Apply(session.EndedAt)

	if session.EndedAt != nil && session.EndedAt.Before(session.StartedAt) {
		return Session{}, apperr.Validation("end time cannot precede start time")
	}

	_, err = s.db.Exec(ctx, `
		UPDATE workout_sessions
		SET note=$2, started_at=$3, ended_at=$4
		WHERE id=$1
	`, session.ID, session.Note, session.StartedAt, session.EndedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Session{}, apperr.Conflict("session already active")
		}
		return Session{}, err
	}

	s.notify(userID, "session_updated", id)
	return session, nil
}

// DeleteSession removes the session and its sets in one transaction.
func (s *Service) DeleteSession(ctx context.Context, userID, id string) error {
	if _, err := s.ownedSession(ctx, userID, id); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM workout_sets WHERE session_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM workout_sessions WHERE id=$1`, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.notify(userID, "session_deleted", id)
	return nil
}

func (s *Service) ListSessions(ctx context.Context, filter ListFilter) ([]Session, error) {
	query := `
		SELECT id, user_id, started_at, ended_at, note
		FROM workout_sessions
		WHERE user_id=$1`
	args := []any{filter.UserID}

	if filter.Before != nil {
		args = append(args, *filter.Before)
		query += fmt.Sprintf(" AND started_at < $%d", len(args))
	}
	if filter.After != nil {
		args = append(args, *filter.After)
		query += fmt.Sprintf(" AND started_at > $%d", len(args))
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(&session.ID, &session.UserID, &session.StartedAt, &session.EndedAt, &session.Note); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// AddSet persists a set under an existing session. Absent numeric fields are
// stored as NULL; an explicit zero is stored as 0.
func (s *Service) AddSet(ctx context.Context, userID, sessionID string, input Set) (Set, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return Set{}, apperr.Referential("session")
		}
		return Set{}, err
	}
	if input.ExerciseID == "" {
		return Set{}, apperr.Validation("exerciseId required")
	}
	if err := s.exerciseExists(ctx, input.ExerciseID); err != nil {
		return Set{}, err
	}

	input.ID = uuid.NewString()
	input.SessionID = sessionID
	row := s.db.QueryRow(ctx, `
		INSERT INTO workout_sets (id, session_id, exercise_id, reps, weight, duration_sec, distance_meters, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.SessionID, input.ExerciseID, input.Reps, input.Weight, input.DurationSec, input.DistanceMeters, input.Note)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Set{}, err
	}

	s.notify(userID, "set_changed", sessionID)
	return input, nil
}

// UpdateSet applies a three-valued merge per field. The owning session is
// immutable: any payload naming sessionId is rejected before storage.
func (s *Service) UpdateSet(ctx context.Context, userID, id string, p SetPatch) (Set, error) {
	if p.SessionID.Set {
		return Set{}, apperr.Validation("sessionId cannot be changed")
	}

	set, err := s.ownedSet(ctx, userID, id)
	if err != nil {
		return Set{}, err
	}

	if p.ExerciseID.Set {
		if p.ExerciseID.Null || p.ExerciseID.Value == "" {
			return Set{}, apperr.Validation("exerciseId required")
		}
		if err := s.exerciseExists(ctx, p.ExerciseID.Value); err != nil {
			return Set{}, err
		}
		set.ExerciseID = p.ExerciseID.Value
	}

	set.Reps = p.Reps.Apply(set.Reps)
	set.Weight = p.Weight.Apply(set.Weight)
	set.DurationSec = p.DurationSec.Apply(set.DurationSec)
	set.DistanceMeters = p.DistanceMeters.Apply(set.DistanceMeters)
	set.Note = p.Note.Apply(set.Note)

	_, err = s.db.Exec(ctx, `
		UPDATE workout_sets
		SET exercise_id=$2, reps=$3, weight=$4, duration_sec=$5, distance_meters=$6, note=$7
		WHERE id=$1
	`, set.ID, set.ExerciseID, set.Reps, set.Weight, set.DurationSec, set.DistanceMeters, set.Note)
	if err != nil {
		return Set{}, err
	}

	s.notify(userID, "set_changed", set.SessionID)
	return set, nil
}

func (s *Service) DeleteSet(ctx context.Context, userID, id string) error {
	set, err := s.ownedSet(ctx, userID, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM workout_sets WHERE id=$1`, id); err != nil {
		return err
	}

	s.notify(userID, "set_changed", set.SessionID)
	return nil
}

func (s *Service) ListSets(ctx context.Context, sessionID string) ([]Set, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, exercise_id, reps, weight, duration_sec, distance_meters, note, created_at
		FROM workout_sets
		WHERE session_id=$1
		ORDER BY created_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []Set
	for rows.Next() {
		var set Set
		if err := rows.Scan(&set.ID, &set.SessionID, &set.ExerciseID, &set.Reps, &set.Weight,
			&set.DurationSec, &set.DistanceMeters, &set.Note, &set.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// ownedSession is the single ownership guard for every session mutation.
func (s *Service) ownedSession(ctx context.Context, userID, id string) (Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, started_at, ended_at, note
		FROM workout_sessions WHERE id=$1
	`, id)
	var session Session
	err := row.Scan(&session.ID, &session.UserID, &session.StartedAt, &session.EndedAt, &session.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, apperr.NotFound("session")
	}
	if err != nil {
		return Session{}, err
	}
	if session.UserID != userID {
		return Session{}, apperr.Forbidden("session belongs to another user")
	}
	return session, nil
}

// ownedSet resolves the set and checks ownership transitively through its
// session.
func (s *Service) ownedSet(ctx context.Context, userID, id string) (Set, error) {
	row := s.db.QueryRow(ctx, `
		SELECT ws.id, ws.session_id, ws.exercise_id, ws.reps, ws.weight, ws.duration_sec,
		       ws.distance_meters, ws.note, ws.created_at, s.user_id
		FROM workout_sets ws
		JOIN workout_sessions s ON s.id = ws.session_id
		WHERE ws.id=$1
	`, id)
	var set Set
	var ownerID string
	err := row.Scan(&set.ID, &set.SessionID, &set.ExerciseID, &set.Reps, &set.Weight,
		&set.DurationSec, &set.DistanceMeters, &set.Note, &set.CreatedAt, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Set{}, apperr.NotFound("set")
	}
	if err != nil {
		return Set{}, err
	}
	if ownerID != userID {
		return Set{}, apperr.Forbidden("set belongs to another user")
	}
	return set, nil
}

func (s *Service) exerciseExists(ctx context.Context, exerciseID string) error {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM exercises WHERE id=$1)`, exerciseID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperr.Referential("exercise")
	}
	return nil
}

func (s *Service) notify(userID, kind, sessionID string) {
	if s.hub == nil {
		return
	}
	s.hub.WorkoutChanged(userID, stream.ChangeEvent{Kind: kind, SessionID: sessionID, At: time.Now()})
}
