package exercise

import "time"

// MetricType decides which numeric field of a workout set carries the
// meaningful value for an exercise.
type MetricType string

const (
	MetricCount    MetricType = "count"
	MetricWeight   MetricType = "weight"
	MetricDuration MetricType = "duration"
	MetricDistance MetricType = "distance"
)

func (m MetricType) Valid() bool {
	switch m {
	case MetricCount, MetricWeight, MetricDuration, MetricDistance:
		return true
	}
	return false
}

type Exercise struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	MetricType MetricType `json:"metricType"`
	Unit       string     `json:"unit"`
	CreatedAt  time.Time  `json:"createdAt"`
}
