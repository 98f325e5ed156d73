package challenge

import (
	"time"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/auth"
)

const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

type Challenge struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Activity  string    `json:"activity"`
	Metric    string    `json:"metric"`
	Unit      string    `json:"unit"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	CreatedBy string    `json:"createdBy"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Entry struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challengeId"`
	UserID      string    `json:"userId"`
	Value       int       `json:"value"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}

type LeaderboardEntry struct {
	User            auth.User `json:"user"`
	Total           int       `json:"total"`
	Rank            int       `json:"rank"`
	DeltaFromLeader int       `json:"deltaFromLeader"`
}

type ListFilter struct {
	Status string
	UserID string
}
