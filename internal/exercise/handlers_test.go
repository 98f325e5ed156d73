package exercise

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newExerciseApp(t *testing.T) (*fiber.App, pgxmock.PgxPoolIface) {
	t.Helper()
	mock := newMock(t)
	app := fiber.New()
	noAuth := func(c *fiber.Ctx) error { return c.Next() }
	RegisterRoutes(app.Group("/exercises"), NewService(mock), noAuth)
	return app, mock
}

func TestCreateExerciseRoute(t *testing.T) {
	app, mock := newExerciseApp(t)

	mock.ExpectQuery(`INSERT INTO exercises`).
		WithArgs(pgxmock.AnyArg(), "Air Pushup", "count", "reps").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	req := httptest.NewRequest("POST", "/exercises/", strings.NewReader(`{"name":"Air Pushup","metricType":"count","unit":"reps"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var created Exercise
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Name != "Air Pushup" || created.ID == "" {
		t.Fatalf("unexpected exercise: %+v", created)
	}
}

func TestCreateExerciseRouteRejectsBadMetric(t *testing.T) {
	app, _ := newExerciseApp(t)

	req := httptest.NewRequest("POST", "/exercises/", strings.NewReader(`{"name":"Sprint","metricType":"velocity"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetExerciseRoute(t *testing.T) {
	app, mock := newExerciseApp(t)

	mock.ExpectQuery(`FROM exercises WHERE id`).
		WithArgs("ex-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "metric_type", "unit", "created_at"}).
			AddRow("ex-1", "Bench Press", MetricWeight, "kg", time.Now()))

	resp, err := app.Test(httptest.NewRequest("GET", "/exercises/ex-1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var e Exercise
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.ID != "ex-1" || e.MetricType != MetricWeight {
		t.Fatalf("unexpected exercise: %+v", e)
	}
}

func TestGetExerciseRouteNotFound(t *testing.T) {
	app, mock := newExerciseApp(t)

	mock.ExpectQuery(`FROM exercises WHERE id`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "metric_type", "unit", "created_at"}))

	resp, err := app.Test(httptest.NewRequest("GET", "/exercises/ghost", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListExercisesRoute(t *testing.T) {
	app, mock := newExerciseApp(t)

	mock.ExpectQuery(`FROM exercises ORDER BY name`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "metric_type", "unit", "created_at"}))

	resp, err := app.Test(httptest.NewRequest("GET", "/exercises/", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
