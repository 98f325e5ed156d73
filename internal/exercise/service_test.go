package exercise

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

func TestCreateExercise(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO exercises`).
		WithArgs(pgxmock.AnyArg(), "Bench Press", "weight", "kg").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	created, err := svc.CreateExercise(context.Background(), Exercise{
		Name:       "Bench Press",
		MetricType: MetricWeight,
		Unit:       "kg",
	})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestCreateExerciseValidation(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.CreateExercise(context.Background(), Exercise{MetricType: MetricCount})
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("missing name should fail validation, got %v", err)
	}

	_, err = svc.CreateExercise(context.Background(), Exercise{Name: "Sprint", MetricType: "velocity"})
	if !errors.As(err, &validation) {
		t.Fatalf("bad metric type should fail validation, got %v", err)
	}
}

func TestMetricTypeValid(t *testing.T) {
	for _, mt := range []MetricType{MetricCount, MetricWeight, MetricDuration, MetricDistance} {
		if !mt.Valid() {
			t.Fatalf("%s should be valid", mt)
		}
	}
	if MetricType("steps").Valid() {
		t.Fatalf("unknown metric type should be invalid")
	}
}

func TestListExercisesSorted(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM exercises ORDER BY name`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "metric_type", "unit", "created_at"}).
			AddRow("ex-1", "Bench Press", MetricWeight, "kg", time.Now()).
			AddRow("ex-2", "Trail Run", MetricDistance, "meters", time.Now()))

	svc := NewService(mock)
	exercises, err := svc.ListExercises(context.Background())
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(exercises) != 2 || exercises[0].Name != "Bench Press" {
		t.Fatalf("unexpected result: %+v", exercises)
	}
}
