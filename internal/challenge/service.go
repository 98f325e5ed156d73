package challenge

import (
	"context"
	"errors"
	"sort"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/auth"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/db"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/exercise"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateChallenge(ctx context.Context, input Challenge) (Challenge, error) {
	if input.Title == "" || input.Activity == "" || input.CreatedBy == "" {
		return Challenge{}, apperr.Validation("title, activity and createdBy required")
	}
	if input.Metric == "" {
		input.Metric = string(exercise.MetricCount)
	}
	if !exercise.MetricType(input.Metric).Valid() {
		return Challenge{}, apperr.Validation("metric must be one of count, weight, duration, distance")
	}
	if input.Unit == "" {
		input.Unit = "reps"
	}
	if input.Status == "" {
		input.Status = StatusUpcoming
	}
	if !validStatus(input.Status) {
		return Challenge{}, apperr.Validation("status must be upcoming, active or completed")
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO challenges (id, title, activity, metric, unit, start_at, end_at, created_by, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, input.ID, input.Title, input.Activity, input.Metric, input.Unit, input.StartAt, input.EndAt, input.CreatedBy, input.Status)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Challenge{}, err
	}
	return input, nil
}

// ListChallenges filters composably: status alone, participation alone, or
// both. With a userID only challenges the user participates in are returned.
func (s *Service) ListChallenges(ctx context.Context, filter ListFilter) ([]Challenge, error) {
	query := `
		SELECT id, title, activity, metric, unit, start_at, end_at, created_by, status, created_at
		FROM challenges
		WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status=$1`
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		if len(args) == 1 {
			query += ` AND id IN (SELECT challenge_id FROM challenge_participants WHERE user_id=$1)`
		} else {
			query += ` AND id IN (SELECT challenge_id FROM challenge_participants WHERE user_id=$2)`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []Challenge
	for rows.Next() {
		var ch Challenge
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.Activity, &ch.Metric, &ch.Unit,
			&ch.StartAt, &ch.EndAt, &ch.CreatedBy, &ch.Status, &ch.CreatedAt); err != nil {
			return nil, err
		}
		challenges = append(challenges, ch)
	}
	return challenges, rows.Err()
}

func (s *Service) GetChallenge(ctx context.Context, id string) (Challenge, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, activity, metric, unit, start_at, end_at, created_by, status, created_at
		FROM challenges WHERE id=$1
	`, id)
	var ch Challenge
	err := row.Scan(&ch.ID, &ch.Title, &ch.Activity, &ch.Metric, &ch.Unit,
		&ch.StartAt, &ch.EndAt, &ch.CreatedBy, &ch.Status, &ch.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Challenge{}, apperr.NotFound("challenge")
	}
	if err != nil {
		return Challenge{}, err
	}
	return ch, nil
}

// UpdateStatus flips the status explicitly. There is no scheduler: upcoming,
// active and completed never transition on their own.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !validStatus(status) {
		return apperr.Validation("status must be upcoming, active or completed")
	}
	tag, err := s.db.Exec(ctx, `UPDATE challenges SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("challenge")
	}
	return nil
}

// AddParticipants is idempotent: re-adding a user is swallowed by the unique
// (challenge_id, user_id) constraint.
func (s *Service) AddParticipants(ctx context.Context, challengeID string, userIDs []string) error {
	if _, err := s.GetChallenge(ctx, challengeID); err != nil {
		return err
	}
	for _, userID := range userIDs {
		_, err := s.db.Exec(ctx, `
			INSERT INTO challenge_participants (id, challenge_id, user_id)
			VALUES ($1,$2,$3)
			ON CONFLICT (challenge_id, user_id) DO NOTHING
		`, uuid.NewString(), challengeID, userID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListParticipants(ctx context.Context, challengeID string) ([]auth.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.username, u.name, u.created_at
		FROM challenge_participants cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.challenge_id=$1
		ORDER BY cp.id
	`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		var u auth.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Service) CreateEntry(ctx context.Context, input Entry) (Entry, error) {
	if input.UserID == "" {
		return Entry{}, apperr.Validation("userId required")
	}
	if _, err := s.GetChallenge(ctx, input.ChallengeID); err != nil {
		return Entry{}, err
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO challenge_entries (id, challenge_id, user_id, value, note)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.ChallengeID, input.UserID, input.Value, input.Note)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Entry{}, err
	}
	return input, nil
}

func (s *Service) ListEntries(ctx context.Context, challengeID string) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, challenge_id, user_id, value, note, created_at
		FROM challenge_entries
		WHERE challenge_id=$1
		ORDER BY created_at DESC
	`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ChallengeID, &e.UserID, &e.Value, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM challenge_entries WHERE id=$1`, id)
	return err
}

// Leaderboard totals each participant's entries (0 when none), sorts
// descending with participant-list order as the stable tie break, assigns
// 1-based ranks and the distance to the leader. The leader's delta is 0; an
// empty challenge yields an empty board. Reading the entries directly means a
// fresh entry shows up on the very next leaderboard fetch.
func (s *Service) Leaderboard(ctx context.Context, challengeID string) ([]LeaderboardEntry, error) {
	participants, err := s.ListParticipants(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ListEntries(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, entry := range entries {
		totals[entry.UserID] += entry.Value
	}

	board := make([]LeaderboardEntry, 0, len(participants))
	for _, user := range participants {
		board = append(board, LeaderboardEntry{
			User:  user,
			Total: totals[user.ID],
		})
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Total > board[j].Total
	})

	var leaderTotal int
	if len(board) > 0 {
		leaderTotal = board[0].Total
	}
	for i := range board {
		board[i].Rank = i + 1
		board[i].DeltaFromLeader = leaderTotal - board[i].Total
	}
	return board, nil
}

func validStatus(status string) bool {
	switch status {
	case StatusUpcoming, StatusActive, StatusCompleted:
		return true
	}
	return false
}
