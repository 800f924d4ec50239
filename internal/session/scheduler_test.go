package session

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestSchedulerDispatchesEveryInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tasks := make(chan func(), 8)
	s := NewScheduler(clock, func(fn func()) { tasks <- fn })

	fired := 0
	h := s.Every(time.Second, func() { fired++ })
	defer h.Stop()

	if err := clock.BlockUntilContext(t.Context(), 1); err != nil {
		t.Fatalf("ticker never armed: %v", err)
	}

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		select {
		case fn := <-tasks:
			fn()
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never dispatched", i+1)
		}
	}
	if fired != 3 {
		t.Fatalf("fired = %d, want 3", fired)
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tasks := make(chan func(), 8)
	s := NewScheduler(clock, func(fn func()) { tasks <- fn })

	h := s.Every(time.Second, func() {})
	h.Stop()
	h.Stop()

	clock.Advance(5 * time.Second)
	select {
	case <-tasks:
		t.Fatal("stopped ticker must not dispatch")
	case <-time.After(50 * time.Millisecond):
	}
}
