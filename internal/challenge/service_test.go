package challenge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"

	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func challengeColumns() []string {
	return []string{"id", "title", "activity", "metric", "unit", "start_at", "end_at", "created_by", "status", "created_at"}
}

func TestCreateChallengeDefaults(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO challenges`).
		WithArgs(pgxmock.AnyArg(), "March Pushups", "pushups", "count", "reps",
			pgxmock.AnyArg(), pgxmock.AnyArg(), "user-1", StatusUpcoming).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	ch, err := svc.CreateChallenge(context.Background(), Challenge{
		Title:     "March Pushups",
		Activity:  "pushups",
		CreatedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	if ch.Metric != "count" || ch.Unit != "reps" || ch.Status != StatusUpcoming {
		t.Fatalf("defaults not applied: %+v", ch)
	}
}

func TestCreateChallengeRejectsBadMetric(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.CreateChallenge(context.Background(), Challenge{
		Title:     "Bad",
		Activity:  "x",
		CreatedBy: "user-1",
		Metric:    "steps",
	})
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE challenges SET status`).
		WithArgs("missing", StatusActive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	svc := NewService(mock)
	err := svc.UpdateStatus(context.Background(), "missing", StatusActive)
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc := NewService(nil)
	err := svc.UpdateStatus(context.Background(), "ch-1", "paused")
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListChallengesCombinedFilter(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`AND status=\$1 AND id IN`).
		WithArgs(StatusActive, "user-1").
		WillReturnRows(pgxmock.NewRows(challengeColumns()).
			AddRow("ch-1", "March Pushups", "pushups", "count", "reps", time.Now(), time.Now().Add(24*time.Hour), "user-1", StatusActive, time.Now()))

	svc := NewService(mock)
	challenges, err := svc.ListChallenges(context.Background(), ListFilter{Status: StatusActive, UserID: "user-1"})
	if err != nil {
		t.Fatalf("list challenges: %v", err)
	}
	if len(challenges) != 1 || challenges[0].ID != "ch-1" {
		t.Fatalf("unexpected result: %+v", challenges)
	}
}

func TestAddParticipantsIdempotentInsert(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM challenges WHERE id`).
		WithArgs("ch-1").
		WillReturnRows(pgxmock.NewRows(challengeColumns()).
			AddRow("ch-1", "March Pushups", "pushups", "count", "reps", time.Now(), time.Now(), "user-1", StatusActive, time.Now()))

	mock.ExpectExec(`INSERT INTO challenge_participants`).
		WithArgs(pgxmock.AnyArg(), "ch-1", "user-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	// duplicate swallowed by the unique constraint
	mock.ExpectExec(`INSERT INTO challenge_participants`).
		WithArgs(pgxmock.AnyArg(), "ch-1", "user-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	svc := NewService(mock)
	if err := svc.AddParticipants(context.Background(), "ch-1", []string{"user-2", "user-2"}); err != nil {
		t.Fatalf("add participants: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateEntryUnknownChallenge(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM challenges WHERE id`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(challengeColumns()))

	svc := NewService(mock)
	_, err := svc.CreateEntry(context.Background(), Entry{ChallengeID: "missing", UserID: "user-1", Value: 10})
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func leaderboardFixture(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	now := time.Now()

	mock.ExpectQuery(`FROM challenge_participants cp`).
		WithArgs("ch-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "name", "created_at"}).
			AddRow("u1", "alice", "Alice", now).
			AddRow("u2", "bob", "Bob", now).
			AddRow("u3", "carol", "Carol", now))

	mock.ExpectQuery(`FROM challenge_entries`).
		WithArgs("ch-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "challenge_id", "user_id", "value", "note", "created_at"}).
			AddRow("e1", "ch-1", "u1", 150, nil, now).
			AddRow("e2", "ch-1", "u2", 200, nil, now).
			AddRow("e3", "ch-1", "u2", 100, nil, now).
			AddRow("e4", "ch-1", "u3", 300, nil, now))
}

func TestLeaderboardRanksAndDeltas(t *testing.T) {
	mock := newMock(t)
	leaderboardFixture(t, mock)

	svc := NewService(mock)
	board, err := svc.Leaderboard(context.Background(), "ch-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(board))
	}

	// u2 and u3 tie at 300; u2 precedes u3 in participant order so the
	// stable sort keeps u2 first. u1 trails at 150.
	if board[0].User.ID != "u2" || board[0].Rank != 1 || board[0].Total != 300 || board[0].DeltaFromLeader != 0 {
		t.Fatalf("unexpected leader: %+v", board[0])
	}
	if board[1].User.ID != "u3" || board[1].Rank != 2 || board[1].DeltaFromLeader != 0 {
		t.Fatalf("unexpected second: %+v", board[1])
	}
	if board[2].User.ID != "u1" || board[2].Rank != 3 || board[2].Total != 150 || board[2].DeltaFromLeader != 150 {
		t.Fatalf("unexpected third: %+v", board[2])
	}
}

func TestLeaderboardParticipantWithoutEntries(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM challenge_participants cp`).
		WithArgs("ch-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "name", "created_at"}).
			AddRow("u1", "alice", "Alice", now))

	mock.ExpectQuery(`FROM challenge_entries`).
		WithArgs("ch-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "challenge_id", "user_id", "value", "note", "created_at"}))

	svc := NewService(mock)
	board, err := svc.Leaderboard(context.Background(), "ch-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 1 || board[0].Total != 0 || board[0].Rank != 1 || board[0].DeltaFromLeader != 0 {
		t.Fatalf("participant without entries should rank with total 0: %+v", board)
	}
}

func TestLeaderboardEmptyChallenge(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM challenge_participants cp`).
		WithArgs("ch-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "name", "created_at"}))

	mock.ExpectQuery(`FROM challenge_entries`).
		WithArgs("ch-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "challenge_id", "user_id", "value", "note", "created_at"}))

	svc := NewService(mock)
	board, err := svc.Leaderboard(context.Background(), "ch-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 0 {
		t.Fatalf("expected empty board, got %+v", board)
	}
}
