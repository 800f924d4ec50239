package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler turns interval timers into dispatched tasks: every firing is
// posted to the dispatch function and runs to completion there, atomically
// with ordinary commands. The clock is injected so tests advance time
// deterministically instead of sleeping.
type Scheduler struct {
	clock    clockwork.Clock
	dispatch func(func())
}

func NewScheduler(clock clockwork.Clock, dispatch func(func())) *Scheduler {
	return &Scheduler{clock: clock, dispatch: dispatch}
}

// TickerHandle is a stoppable repeating timer. Stopping is idempotent.
type TickerHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *TickerHandle) Stop() {
	h.once.Do(func() { close(h.stop) })
}

// Every fires fn on the dispatch goroutine once per interval until the
// returned handle is stopped. Cancellation is the only control: a paused
// game keeps its ticker and no-ops inside fn instead.
func (s *Scheduler) Every(interval time.Duration, fn func()) *TickerHandle {
	h := &TickerHandle{stop: make(chan struct{})}
	go func() {
		ticker := s.clock.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.Chan():
				s.dispatch(fn)
			}
		}
	}()
	return h
}
