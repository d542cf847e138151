// Package engine runs the chat turn: it records the user message, asks the
// remote assistant, falls back to the local classifier and handlers, and
// appends the answer to the transcript.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/coach-bot/internal/assistant"
	"github.com/xaenox/coach-bot/internal/handlers"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/zap"
)

const saveFailed = "I couldn't save that change. Please try again in a moment."

// SnapshotProvider hands out the current team snapshot and applies handler
// mutations by swapping in a new one.
type SnapshotProvider interface {
	Current() *models.TeamSnapshot
	Apply(ctx context.Context, m *models.Mutation) error
}

type Config struct {
	RemoteTimeout       time.Duration
	MinRemoteConfidence int
	// Request is copied into every turn; Now is filled in per turn.
	Request models.RequestContext
}

type Engine struct {
	cfg        Config
	data       SnapshotProvider
	transcript Transcript
	remote     assistant.Service
	fallback   *Fallback
	logger     *zap.Logger

	now       func() time.Time
	newID     func() string
	onLoading func(bool)

	mu       sync.Mutex
	seq      uint64
	inFlight int
	cancel   context.CancelFunc
}

// New builds an engine. remote may be nil, in which case every turn is
// answered locally.
func New(cfg Config, data SnapshotProvider, transcript Transcript, remote assistant.Service, fallback *Fallback, logger *zap.Logger) *Engine {
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = 20 * time.Second
	}
	return &Engine{
		cfg:        cfg,
		data:       data,
		transcript: transcript,
		remote:     remote,
		fallback:   fallback,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
		onLoading:  func(bool) {},
	}
}

// OnLoading registers fn to be told when a turn starts (true) and ends
// (false). Each Submit produces exactly one of each.
func (e *Engine) OnLoading(fn func(loading bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onLoading = fn
}

// Loading reports whether any turn is still running.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight > 0
}

// Submit runs one chat turn and blocks until its answer is appended. A newer
// Submit supersedes an older one still in flight: the older turn is
// cancelled and its answer dropped.
func (e *Engine) Submit(ctx context.Context, text string) {
	rc := e.cfg.Request
	rc.Now = e.now()

	e.transcript.Append(models.Message{
		ID:        e.newID(),
		Sender:    models.SenderUser,
		Content:   text,
		Timestamp: rc.Now,
		Kind:      models.KindText,
	})

	ctx, seq, done := e.begin(ctx)
	defer done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Turn failed", zap.String("panic", fmt.Sprint(r)))
			e.transcript.Append(e.engineMessage(handlers.ApologyResponse(0)))
		}
	}()

	snap := e.data.Current()
	resp, ok := e.askRemote(ctx, rc, text, snap)
	if !ok && !e.superseded(seq) {
		resp = e.fallback.Respond(rc, text, snap)
	}

	if e.superseded(seq) {
		e.logger.Info("Dropping superseded response", zap.Uint64("turn", seq))
		return
	}

	if resp.Mutation != nil {
		if err := e.data.Apply(context.WithoutCancel(ctx), resp.Mutation); err != nil {
			e.logger.Error("Failed to apply mutation", zap.Error(err))
			resp = models.Response{
				Content:    saveFailed,
				Kind:       models.KindWarning,
				Confidence: resp.Confidence,
				Priority:   models.PriorityMedium,
			}
		}
	}

	e.transcript.Append(e.engineMessage(resp))
}

func (e *Engine) begin(ctx context.Context) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.seq++
	seq := e.seq
	e.cancel = cancel
	e.inFlight++
	notify := e.onLoading
	e.mu.Unlock()

	notify(true)

	return ctx, seq, func() {
		cancel()
		e.mu.Lock()
		e.inFlight--
		if e.seq == seq {
			e.cancel = nil
		}
		notify := e.onLoading
		e.mu.Unlock()
		notify(false)
	}
}

func (e *Engine) superseded(seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq != seq
}

func (e *Engine) askRemote(ctx context.Context, rc models.RequestContext, text string, snap *models.TeamSnapshot) (models.Response, bool) {
	if e.remote == nil {
		return models.Response{}, false
	}

	sport := rc.Sport
	summary := ""
	if snap != nil {
		summary = snap.Summary()
		if sport == "" {
			sport = snap.Sport
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.RemoteTimeout)
	defer cancel()

	reply, err := e.remote.Respond(ctx, assistant.Request{
		Message: text,
		Context: assistant.RequestContext{
			UserID:              rc.UserID,
			Sport:               sport,
			TeamSnapshotSummary: summary,
			Language:            rc.Language,
			IsPremiumUser:       rc.IsPremiumUser,
		},
	})
	if err != nil {
		e.logger.Warn("Remote assistant failed, answering locally",
			zap.Error(err),
			zap.Int64("user_id", rc.UserID))
		return models.Response{}, false
	}
	if reply == nil {
		e.logger.Warn("Remote assistant returned no reply, answering locally",
			zap.Int64("user_id", rc.UserID))
		return models.Response{}, false
	}
	if reply.Confidence < e.cfg.MinRemoteConfidence {
		e.logger.Info("Remote answer below confidence floor, answering locally",
			zap.Int("confidence", reply.Confidence),
			zap.Int("min_confidence", e.cfg.MinRemoteConfidence))
		return models.Response{}, false
	}

	return models.Response{
		Category:    models.General,
		Content:     withFollowUps(reply.Content, reply.FollowUpQuestions),
		Kind:        models.KindText,
		Confidence:  reply.Confidence,
		Priority:    models.PriorityMedium,
		Suggestions: reply.Suggestions,
	}, true
}

func withFollowUps(content string, questions []string) string {
	if len(questions) == 0 {
		return content
	}
	var b strings.Builder
	b.WriteString(content)
	b.WriteString("\n")
	for _, q := range questions {
		b.WriteString("\n❓ ")
		b.WriteString(q)
	}
	return b.String()
}

func (e *Engine) engineMessage(resp models.Response) models.Message {
	content := resp.Content
	if len(resp.Suggestions) > 0 {
		content += "\n\nTry: " + strings.Join(resp.Suggestions, " · ")
	}
	confidence := resp.Confidence
	return models.Message{
		ID:         e.newID(),
		Sender:     models.SenderEngine,
		Content:    content,
		Timestamp:  e.now(),
		Kind:       resp.Kind,
		Confidence: &confidence,
		Priority:   resp.Priority,
	}
}
