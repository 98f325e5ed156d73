package analytics

import (
	"time"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/exercise"
)

// PersonalRecord is the best value ever logged for one exercise, measured in
// the exercise's own metric.
type PersonalRecord struct {
	ExerciseID   string              `json:"exerciseId"`
	ExerciseName string              `json:"exerciseName"`
	MetricType   exercise.MetricType `json:"metricType"`
	Unit         string              `json:"unit"`
	Value        float64             `json:"value"`
	SetID        string              `json:"setId"`
	AchievedAt   time.Time           `json:"achievedAt"`
}

// TimeseriesPoint is one non-empty bucket; buckets with no sets are omitted.
type TimeseriesPoint struct {
	Date        string  `json:"date"` // bucket start, YYYY-MM-DD
	MaxValue    float64 `json:"maxValue"`
	TotalVolume float64 `json:"totalVolume"`
}

type TodayStats struct {
	TotalSets     int     `json:"totalSets"`
	TotalVolume   float64 `json:"totalVolume"`
	WorkoutTime   int     `json:"workoutTime"` // whole minutes
	ExerciseCount int     `json:"exerciseCount"`
}
