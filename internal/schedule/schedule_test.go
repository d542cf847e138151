package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestManualRunsDueJobs(t *testing.T) {
	m := NewManual()
	var fast, slow int

	stopFast := m.Every(10*time.Second, func() { fast++ })
	m.Every(time.Minute, func() { slow++ })
	assert.Equal(t, 2, m.Jobs())

	m.Advance(35 * time.Second)
	assert.Equal(t, 3, fast)
	assert.Equal(t, 0, slow)

	m.Advance(25 * time.Second)
	assert.Equal(t, 6, fast)
	assert.Equal(t, 1, slow)

	stopFast()
	stopFast()
	assert.Equal(t, 1, m.Jobs())

	m.Advance(time.Minute)
	assert.Equal(t, 6, fast)
	assert.Equal(t, 2, slow)
}

func TestManualJobMayStopItself(t *testing.T) {
	m := NewManual()
	var runs int
	var stop func()
	stop = m.Every(time.Second, func() {
		runs++
		stop()
	})

	m.Advance(time.Second)
	m.Advance(time.Second)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 0, m.Jobs())
}

func TestTickerStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	stop := Ticker{}.Every(time.Millisecond, func() { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	stop()
	stop()
}
