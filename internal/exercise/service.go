package exercise

import (
	"context"
	"errors"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreateExercise(ctx context.Context, input Exercise) (Exercise, error) {
	if input.Name == "" {
		return Exercise{}, apperr.Validation("name required")
	}
	if !input.MetricType.Valid() {
		return Exercise{}, apperr.Validation("metricType must be one of count, weight, duration, distance")
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO exercises (id, name, metric_type, unit)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, input.ID, input.Name, string(input.MetricType), input.Unit)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Exercise{}, err
	}
	return input, nil
}

func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, metric_type, unit, created_at
		FROM exercises ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MetricType, &e.Unit, &e.CreatedAt); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, nil
}

func (s *Service) GetExercise(ctx context.Context, id string) (Exercise, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, metric_type, unit, created_at
		FROM exercises WHERE id=$1
	`, id)
	var e Exercise
	err := row.Scan(&e.ID, &e.Name, &e.MetricType, &e.Unit, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Exercise{}, apperr.NotFound("exercise")
	}
	if err != nil {
		return Exercise{}, err
	}
	return e, nil
}
