package debugger

import (
	"sync"
	"time"
)

// Transition is delivered by Watcher whenever the attach state changes.
type Transition struct {
	Attached bool
	At       time.Time
	Polls    uint64 // number of polls performed so far
}

// Watcher periodically polls a Detector and reports state changes.
// The first poll always produces a Transition so consumers learn the
// initial state.
type Watcher struct {
	detector Detector
	interval time.Duration
	events   chan Transition
	stopCh   chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// Watch creates and starts a Watcher. It returns nil when d is nil or the
// interval is not positive.
func Watch(d Detector, interval time.Duration) *Watcher {
	if d == nil || interval <= 0 {
		return nil
	}

	w := &Watcher{
		detector: d,
		interval: interval,
		events:   make(chan Transition, 1),
		stopCh:   make(chan struct{}),
	}

	w.mu.Lock()
	w.started = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()

	return w
}

// Events returns the channel of transitions. It is closed after Stop.
func (w *Watcher) Events() <-chan Transition {
	return w.events
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.events)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		polls uint64
		last  bool
	)
	poll := func() bool {
		polls++
		now := w.detector.Attached()
		if polls > 1 && now == last {
			return true
		}
		last = now
		select {
		case w.events <- Transition{Attached: now, At: time.Now(), Polls: polls}:
			return true
		case <-w.stopCh:
			return false
		}
	}

	if !poll() {
		return
	}
	for {
		select {
		case <-ticker.C:
			if !poll() {
				return
			}
		case <-w.stopCh:
			return
		}
	}
}

// Stop halts polling and waits for the goroutine to exit. Safe to call more
// than once and on a nil Watcher.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}

	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
}
