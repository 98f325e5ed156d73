package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/apperr"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/db"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/exercise"
)

type Service struct {
	db  db.Querier
	now func() time.Time
}

func NewService(db db.Querier) *Service {
	return &Service{db: db, now: time.Now}
}

type loggedSet struct {
	SetID          string
	CreatedAt      time.Time
	Reps           *int
	Weight         *float64
	DurationSec    *int
	DistanceMeters *float64
	ExerciseID     string
	ExerciseName   string
	MetricType     exercise.MetricType
	Unit           string
}

// metricValue picks the field the exercise's metric type makes meaningful.
// The second return is false when that field was not logged on the set.
func metricValue(set loggedSet) (float64, bool) {
	switch set.MetricType {
	case exercise.MetricCount:
		if set.Reps != nil {
			return float64(*set.Reps), true
		}
	case exercise.MetricWeight:
		if set.Weight != nil {
			return *set.Weight, true
		}
	case exercise.MetricDuration:
		if set.DurationSec != nil {
			return float64(*set.DurationSec), true
		}
	case exercise.MetricDistance:
		if set.DistanceMeters != nil {
			return *set.DistanceMeters, true
		}
	}
	return 0, false
}

// PersonalRecords keeps, per exercise, the maximum metric value ever logged.
// A record is replaced only by a strictly greater value. Sorted by exercise
// name.
func (s *Service) PersonalRecords(ctx context.Context, userID string) ([]PersonalRecord, error) {
	sets, err := s.userSets(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	best := make(map[string]PersonalRecord)
	for _, set := range sets {
		value, ok := metricValue(set)
		if !ok {
			continue
		}
		current, seen := best[set.ExerciseID]
		if seen && value <= current.Value {
			continue
		}
		best[set.ExerciseID] = PersonalRecord{
			ExerciseID:   set.ExerciseID,
			ExerciseName: set.ExerciseName,
			MetricType:   set.MetricType,
			Unit:         set.Unit,
			Value:        value,
			SetID:        set.SetID,
			AchievedAt:   set.CreatedAt,
		}
	}

	records := make([]PersonalRecord, 0, len(best))
	for _, record := range best {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ExerciseName < records[j].ExerciseName
	})
	return records, nil
}

// ExerciseTimeseries buckets a user's sets for one exercise by calendar day
// or by Sunday-aligned week, accumulating the running max and the volume sum
// per bucket. Empty buckets are omitted; output ascends by date.
func (s *Service) ExerciseTimeseries(ctx context.Context, userID, exerciseID, granularity string) ([]TimeseriesPoint, error) {
	if granularity != "day" && granularity != "week" {
		return nil, apperr.Validation("granularity must be day or week")
	}

	sets, err := s.userSets(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	buckets := make(map[time.Time]*TimeseriesPoint)
	for _, set := range sets {
		value, ok := metricValue(set)
		if !ok {
			continue
		}
		start := bucketStart(set.CreatedAt, granularity)
		point, seen := buckets[start]
		if !seen {
			point = &TimeseriesPoint{Date: start.Format("2006-01-02")}
			buckets[start] = point
		}
		if value > point.MaxValue {
			point.MaxValue = value
		}
		point.TotalVolume += value
	}

	starts := make([]time.Time, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	points := make([]TimeseriesPoint, 0, len(starts))
	for _, start := range starts {
		points = append(points, *buckets[start])
	}
	return points, nil
}

// bucketStart maps a timestamp to its calendar day, or to the Sunday that
// starts its week.
func bucketStart(t time.Time, granularity string) time.Time {
	t = t.Local()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if granularity == "week" {
		return day.AddDate(0, 0, -int(day.Weekday()))
	}
	return day
}

// TodayStats rolls up all of today's sessions: set count, metric-weighted
// volume, workout minutes (an active session counts up to now) and distinct
// exercises.
func (s *Service) TodayStats(ctx context.Context, userID string) (TodayStats, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var stats TodayStats

	rows, err := s.db.Query(ctx, `
		SELECT started_at, ended_at
		FROM workout_sessions
		WHERE user_id=$1 AND started_at >= $2 AND started_at < $3
	`, userID, dayStart, dayEnd)
	if err != nil {
		return TodayStats{}, err
	}
	defer rows.Close()

	var totalTime time.Duration
	for rows.Next() {
		var startedAt time.Time
		var endedAt *time.Time
		if err := rows.Scan(&startedAt, &endedAt); err != nil {
			return TodayStats{}, err
		}
		if endedAt != nil {
			totalTime += endedAt.Sub(startedAt)
		} else {
			totalTime += now.Sub(startedAt)
		}
	}
	if err := rows.Err(); err != nil {
		return TodayStats{}, err
	}
	stats.WorkoutTime = int(totalTime.Round(time.Minute) / time.Minute)

	setRows, err := s.db.Query(ctx, `
		SELECT st.id, st.created_at, st.reps, st.weight, st.duration_sec, st.distance_meters,
		       e.id, e.name, e.metric_type, e.unit
		FROM workout_sets st
		JOIN workout_sessions s ON s.id = st.session_id
		JOIN exercises e ON e.id = st.exercise_id
		WHERE s.user_id=$1 AND s.started_at >= $2 AND s.started_at < $3
	`, userID, dayStart, dayEnd)
	if err != nil {
		return TodayStats{}, err
	}
	defer setRows.Close()

	exercises := make(map[string]struct{})
	for setRows.Next() {
		var set loggedSet
		if err := setRows.Scan(&set.SetID, &set.CreatedAt, &set.Reps, &set.Weight, &set.DurationSec,
			&set.DistanceMeters, &set.ExerciseID, &set.ExerciseName, &set.MetricType, &set.Unit); err != nil {
			return TodayStats{}, err
		}
		stats.TotalSets++
		stats.TotalVolume += volume(set)
		exercises[set.ExerciseID] = struct{}{}
	}
	if err := setRows.Err(); err != nil {
		return TodayStats{}, err
	}
	stats.ExerciseCount = len(exercises)

	return stats, nil
}

// volume is the metric-weighted contribution of one set: reps for count,
// weight x reps (or bare weight) for weight, seconds for duration, meters
// for distance.
func volume(set loggedSet) float64 {
	switch set.MetricType {
	case exercise.MetricCount:
		if set.Reps != nil {
			return float64(*set.Reps)
		}
	case exercise.MetricWeight:
		if set.Weight == nil {
			return 0
		}
		if set.Reps != nil {
			return *set.Weight * float64(*set.Reps)
		}
		return *set.Weight
	case exercise.MetricDuration:
		if set.DurationSec != nil {
			return float64(*set.DurationSec)
		}
	case exercise.MetricDistance:
		if set.DistanceMeters != nil {
			return *set.DistanceMeters
		}
	}
	return 0
}

func (s *Service) userSets(ctx context.Context, userID, exerciseID string) ([]loggedSet, error) {
	query := `
		SELECT st.id, st.created_at, st.reps, st.weight, st.duration_sec, st.distance_meters,
		       e.id, e.name, e.metric_type, e.unit
		FROM workout_sets st
		JOIN workout_sessions s ON s.id = st.session_id
		JOIN exercises e ON e.id = st.exercise_id
		WHERE s.user_id=$1`
	args := []any{userID}
	if exerciseID != "" {
		query += ` AND st.exercise_id=$2`
		args = append(args, exerciseID)
	}
	query += ` ORDER BY st.created_at`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []loggedSet
	for rows.Next() {
		var set loggedSet
		if err := rows.Scan(&set.SetID, &set.CreatedAt, &set.Reps, &set.Weight, &set.DurationSec,
			&set.DistanceMeters, &set.ExerciseID, &set.ExerciseName, &set.MetricType, &set.Unit); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}
