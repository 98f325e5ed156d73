package workout

import (
	"time"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/shared/patch"
)

type Session struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
	Note      *string    `json:"note"`
}

func (s Session) Active() bool {
	return s.EndedAt == nil
}

// Set numeric fields are pointers so a logged zero survives the round trip
// to storage as 0 while an absent field stays NULL.
type Set struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	ExerciseID     string    `json:"exerciseId"`
	Reps           *int      `json:"reps"`
	Weight         *float64  `json:"weight"`
	DurationSec    *int      `json:"durationSec"`
	DistanceMeters *float64  `json:"distanceMeters"`
	Note           *string   `json:"note"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SessionPatch is a partial session update. Action "end" short-circuits to
// EndSession at the handler.
type SessionPatch struct {
	Action    string                 `json:"action"`
	Note      patch.Field[string]    `json:"note"`
	StartedAt patch.Field[time.Time] `json:"startedAt"`
	EndedAt   patch.Field[time.Time] `json:"endedAt"`
}

type SetPatch struct {
	SessionID      patch.Field[string]  `json:"sessionId"`
	ExerciseID     patch.Field[string]  `json:"exerciseId"`
	Reps           patch.Field[int]     `json:"reps"`
	Weight         patch.Field[float64] `json:"weight"`
	DurationSec    patch.Field[int]     `json:"durationSec"`
	DistanceMeters patch.Field[float64] `json:"distanceMeters"`
	Note           patch.Field[string]  `json:"note"`
}

type ListFilter struct {
	UserID string
	Limit  int
	Before *time.Time
	After  *time.Time
}
