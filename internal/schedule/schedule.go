// Package schedule runs periodic jobs behind an interface so tests can drive
// time by hand.
package schedule

import (
	"sync"
	"time"
)

type Scheduler interface {
	// Every runs fn once per period until the returned stop function is
	// called. Stop may be called more than once.
	Every(period time.Duration, fn func()) (stop func())
}

type Ticker struct{}

func (Ticker) Every(period time.Duration, fn func()) func() {
	ticker := time.NewTicker(period)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

// Manual is a Scheduler driven by Advance. Jobs run synchronously on the
// caller's goroutine.
type Manual struct {
	mu   sync.Mutex
	jobs map[int]*manualJob
	next int
}

type manualJob struct {
	period  time.Duration
	elapsed time.Duration
	fn      func()
}

func NewManual() *Manual {
	return &Manual{jobs: make(map[int]*manualJob)}
}

func (m *Manual) Every(period time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.next
	m.next++
	m.jobs[id] = &manualJob{period: period, fn: fn}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.jobs, id)
	}
}

// Advance moves virtual time forward by d and runs every job as many times
// as its period fits.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	var due []func()
	for id := 0; id < m.next; id++ {
		job, ok := m.jobs[id]
		if !ok || job.period <= 0 {
			continue
		}
		job.elapsed += d
		for job.elapsed >= job.period {
			job.elapsed -= job.period
			due = append(due, job.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Jobs reports how many jobs are registered.
func (m *Manual) Jobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}
