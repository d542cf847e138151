package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/coach-bot/internal/handlers"
	"github.com/xaenox/coach-bot/internal/models"
	"github.com/xaenox/coach-bot/internal/schedule"
	"go.uber.org/zap"
)

type InsightConfig struct {
	Period time.Duration
	// Confidence is attached to every generated insight.
	Confidence int
	// Threshold is the minimum confidence an insight needs to be shown.
	Threshold int
	Enabled   bool
}

type SnapshotSource interface {
	Current() *models.TeamSnapshot
}

// InsightScheduler posts an unsolicited analysis every period while it is
// enabled. Insights below the confidence threshold are dropped, not retried.
type InsightScheduler struct {
	period     time.Duration
	confidence int
	data       SnapshotSource
	transcript Transcript
	scheduler  schedule.Scheduler
	logger     *zap.Logger

	pick  func(n int) int
	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	threshold int
	stop      func()
}

func NewInsightScheduler(cfg InsightConfig, data SnapshotSource, transcript Transcript, scheduler schedule.Scheduler, logger *zap.Logger) *InsightScheduler {
	if cfg.Period <= 0 {
		cfg.Period = 30 * time.Second
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var rngMu sync.Mutex

	s := &InsightScheduler{
		period:     cfg.Period,
		confidence: cfg.Confidence,
		data:       data,
		transcript: transcript,
		scheduler:  scheduler,
		logger:     logger,
		pick: func(n int) int {
			rngMu.Lock()
			defer rngMu.Unlock()
			return rng.Intn(n)
		},
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		threshold: clampPercent(cfg.Threshold),
	}
	if cfg.Enabled {
		s.SetEnabled(true)
	}
	return s
}

func (s *InsightScheduler) SetThreshold(value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = clampPercent(value)
}

func (s *InsightScheduler) Threshold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

// SetEnabled starts or stops the periodic job. Repeated calls with the same
// value do nothing.
func (s *InsightScheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case enabled && s.stop == nil:
		s.stop = s.scheduler.Every(s.period, s.Tick)
		s.logger.Info("Auto analysis enabled", zap.Duration("period", s.period))
	case !enabled && s.stop != nil:
		s.stop()
		s.stop = nil
		s.logger.Info("Auto analysis disabled")
	}
}

func (s *InsightScheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Tick generates one insight and appends it if it clears the threshold.
func (s *InsightScheduler) Tick() {
	statements := handlers.InsightStatements(s.data.Current())
	content := statements[s.pick(len(statements))]

	threshold := s.Threshold()
	if s.confidence < threshold {
		s.logger.Debug("Insight below threshold",
			zap.Int("confidence", s.confidence),
			zap.Int("threshold", threshold))
		return
	}

	confidence := s.confidence
	s.transcript.Append(models.Message{
		ID:         s.newID(),
		Sender:     models.SenderEngine,
		Content:    "💡 " + content,
		Timestamp:  s.now(),
		Kind:       models.KindAnalysis,
		Confidence: &confidence,
		Priority:   models.PriorityMedium,
	})
}

// Stop cancels the periodic job.
func (s *InsightScheduler) Stop() {
	s.SetEnabled(false)
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
