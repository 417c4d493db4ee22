package refresh

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Watcher re-runs a Pipeline on a cron schedule and keeps the most recent
// successful Snapshot.
type Watcher struct {
	pipeline Pipeline
	schedule string
	cron     *cron.Cron
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	latest  Snapshot
	ok      bool
	lastErr error
	subs    map[int]chan Snapshot
	nextSub int
	stopped bool
}

// NewWatcher schedules p with a standard cron spec or descriptor such as
// "@every 1m". Nothing runs until Start.
func NewWatcher(p Pipeline, schedule string) (*Watcher, error) {
	w := &Watcher{
		pipeline: p,
		schedule: schedule,
		log:      p.Log.With().Str("component", "watcher").Logger(),
		subs:     make(map[int]chan Snapshot),
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	cl := cronLogger{log: w.log}
	w.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := w.cron.AddFunc(schedule, func() {
		_, _ = w.RunOnce(w.ctx)
	}); err != nil {
		w.cancel()
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start runs one refresh immediately, then hands the schedule to cron.
// A failed first run is logged and kept in Err; the schedule still starts.
func (w *Watcher) Start() {
	w.log.Info().Str("schedule", w.schedule).Msg("starting watcher")
	_, _ = w.RunOnce(w.ctx)
	w.cron.Start()
}

// Stop halts the schedule, waits for a running refresh to finish and
// closes every subscriber channel.
func (w *Watcher) Stop() {
	w.cancel()
	<-w.cron.Stop().Done()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	for id, ch := range w.subs {
		close(ch)
		delete(w.subs, id)
	}
	w.log.Info().Msg("watcher stopped")
}

// RunOnce refreshes now, outside the schedule.
func (w *Watcher) RunOnce(ctx context.Context) (Snapshot, error) {
	snap, err := w.pipeline.Run(ctx)

	w.mu.Lock()
	w.lastErr = err
	if err != nil {
		w.mu.Unlock()
		w.log.Error().Err(err).Msg("refresh failed")
		return snap, err
	}
	w.latest, w.ok = snap, true
	w.publish(snap)
	w.mu.Unlock()

	return snap, nil
}

// publish must be called with w.mu held. Slow subscribers miss updates
// rather than stall the schedule.
func (w *Watcher) publish(snap Snapshot) {
	if w.stopped {
		return
	}
	for id, ch := range w.subs {
		select {
		case ch <- snap:
		default:
			w.log.Debug().Int("subscriber", id).Msg("subscriber full, update dropped")
		}
	}
}

// Latest returns the last successful snapshot. ok is false until one
// refresh has succeeded.
func (w *Watcher) Latest() (Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest, w.ok
}

// Err returns the error of the most recent refresh, or nil.
func (w *Watcher) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

// Subscribe returns a channel receiving each successful snapshot and a
// function that cancels the subscription. The channel is closed by the
// cancel function or by Stop.
func (w *Watcher) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		close(ch)
		return ch, func() {}
	}
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch

	return ch, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if c, ok := w.subs[id]; ok {
			close(c)
			delete(w.subs, id)
		}
	}
}

// cronLogger sends cron's own messages to zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
