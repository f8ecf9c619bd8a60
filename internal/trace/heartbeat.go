package trace

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event every interval while a check runs.
// Beats that keep coming without any crate span ending point at a processor
// or a wave that hangs; the goroutine count tells a stuck errgroup apart
// from a stuck single crate.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	started  time.Time
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		started:  time.Now(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer close(h.stopped)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for beat := 1; ; beat++ {
		select {
		case <-ticker.C:
			h.tracer.Emit(h.event(beat))
		case <-h.done:
			return
		}
	}
}

func (h *Heartbeat) event(beat int) *Event {
	return &Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    getGoroutineID(),
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d", beat),
		Extra: map[string]string{
			"uptime":     time.Since(h.started).Round(time.Millisecond).String(),
			"goroutines": strconv.Itoa(runtime.NumGoroutine()),
		},
	}
}

// Stop ends the loop and waits for it; safe on nil and when called twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	<-h.stopped
}
