package challenge

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newChallengeApp(t *testing.T) (*fiber.App, pgxmock.PgxPoolIface) {
	t.Helper()
	mock := newMock(t)
	app := fiber.New()
	noAuth := func(c *fiber.Ctx) error { return c.Next() }
	svc := NewService(mock)
	RegisterRoutes(app.Group("/challenges"), svc, noAuth)
	RegisterEntryRoutes(app.Group("/entries"), svc, noAuth)
	return app, mock
}

func TestAddParticipantsRequiresArray(t *testing.T) {
	app, _ := newChallengeApp(t)

	req := httptest.NewRequest("POST", "/challenges/ch-1/participants", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLeaderboardRoute(t *testing.T) {
	app, mock := newChallengeApp(t)
	leaderboardFixture(t, mock)

	resp, err := app.Test(httptest.NewRequest("GET", "/challenges/ch-1/leaderboard", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var board []LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(board) != 3 || board[0].Rank != 1 || board[2].DeltaFromLeader != 150 {
		t.Fatalf("unexpected board: %+v", board)
	}
}

func TestGetChallengeNotFound(t *testing.T) {
	app, mock := newChallengeApp(t)

	mock.ExpectQuery(`FROM challenges WHERE id`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(challengeColumns()))

	resp, err := app.Test(httptest.NewRequest("GET", "/challenges/missing", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPatchStatusRequiresStatus(t *testing.T) {
	app, _ := newChallengeApp(t)

	req := httptest.NewRequest("PATCH", "/challenges/ch-1/status", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteEntryRoute(t *testing.T) {
	app, mock := newChallengeApp(t)

	mock.ExpectExec(`DELETE FROM challenge_entries`).
		WithArgs("e1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	resp, err := app.Test(httptest.NewRequest("DELETE", "/entries/e1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
