// Package activeworkout keeps a client's view of the in-progress workout in
// step with the server. It polls on an interval, re-fetches immediately when
// another client signals a change through the hub, and drives a one-second
// elapsed display while a session is active.
package activeworkout

import (
	"context"
	"sync"
	"time"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/stream"
	"github.com/ben-carson/SweatyDudesWorkingOut/internal/workout"
)

const (
	defaultPollInterval = 30 * time.Second
	tickInterval        = time.Second
)

type Snapshot struct {
	Session        *workout.Session
	ElapsedSeconds int
}

type Coordinator struct {
	api    API
	hub    *stream.Hub
	userID string

	pollInterval time.Duration
	now          func() time.Time

	mu      sync.RWMutex
	session *workout.Session
	elapsed int
}

func NewCoordinator(api API, hub *stream.Hub, userID string) *Coordinator {
	return &Coordinator{
		api:          api,
		hub:          hub,
		userID:       userID,
		pollInterval: defaultPollInterval,
		now:          time.Now,
	}
}

// Run blocks until ctx is canceled. The poll result is authoritative: it
// replaces the cached session and thereby the timer's reference start. The
// tick only recomputes the elapsed display and never talks to the server.
func (c *Coordinator) Run(ctx context.Context) error {
	var signals chan []byte
	if c.hub != nil {
		client := c.hub.Register(c.userID)
		defer c.hub.Unregister(client)
		signals = client.Send
	}

	_ = c.Refresh(ctx)

	poll := time.NewTicker(c.pollInterval)
	defer poll.Stop()
	tick := time.NewTicker(tickInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-poll.C:
			_ = c.Refresh(ctx)
		case _, ok := <-signals:
			if !ok {
				signals = nil
				continue
			}
			_ = c.Refresh(ctx)
		case <-tick.C:
			c.recomputeElapsed()
		}
	}
}

// Refresh pulls the server's notion of the active session.
func (c *Coordinator) Refresh(ctx context.Context) error {
	session, err := c.api.ActiveSession(ctx, c.userID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	c.recomputeElapsed()
	return nil
}

func (c *Coordinator) recomputeElapsed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.elapsed = 0
		return
	}
	c.elapsed = int(c.now().Sub(c.session.StartedAt) / time.Second)
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{Session: c.session, ElapsedSeconds: c.elapsed}
}

func (c *Coordinator) StartWorkout(ctx context.Context, note *string) (workout.Session, error) {
	session, err := c.api.StartSession(ctx, c.userID, note)
	if err != nil {
		return workout.Session{}, c.reconcile(ctx, err)
	}
	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()
	c.recomputeElapsed()
	c.signal("session_started", session.ID)
	return session, nil
}

func (c *Coordinator) EndWorkout(ctx context.Context) error {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil {
		return nil
	}

	if _, err := c.api.EndSession(ctx, c.userID, session.ID); err != nil {
		return c.reconcile(ctx, err)
	}
	c.mu.Lock()
	c.session = nil
	c.elapsed = 0
	c.mu.Unlock()
	c.signal("session_ended", session.ID)
	return nil
}

func (c *Coordinator) AddSet(ctx context.Context, input workout.Set) (workout.Set, error) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil {
		return workout.Set{}, errNoActiveSession
	}

	set, err := c.api.AddSet(ctx, c.userID, session.ID, input)
	if err != nil {
		return workout.Set{}, c.reconcile(ctx, err)
	}
	c.signal("set_changed", session.ID)
	return set, nil
}

func (c *Coordinator) UpdateSet(ctx context.Context, setID string, p workout.SetPatch) (workout.Set, error) {
	set, err := c.api.UpdateSet(ctx, c.userID, setID, p)
	if err != nil {
		return workout.Set{}, c.reconcile(ctx, err)
	}
	c.signal("set_changed", set.SessionID)
	return set, nil
}

func (c *Coordinator) DeleteSet(ctx context.Context, setID string) error {
	if err := c.api.DeleteSet(ctx, c.userID, setID); err != nil {
		return c.reconcile(ctx, err)
	}
	c.signal("set_changed", "")
	return nil
}

// reconcile re-fetches after a failed mutation so the cached state never
// stays diverged from the server, then reports the original error.
func (c *Coordinator) reconcile(ctx context.Context, cause error) error {
	_ = c.Refresh(ctx)
	return cause
}

func (c *Coordinator) signal(kind, sessionID string) {
	if c.hub == nil {
		return
	}
	c.hub.WorkoutChanged(c.userID, stream.ChangeEvent{Kind: kind, SessionID: sessionID, At: c.now()})
}
