package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/coach-bot/internal/assistant"
	"github.com/xaenox/coach-bot/internal/classifier"
	"github.com/xaenox/coach-bot/internal/handlers"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeProvider struct {
	mu       sync.Mutex
	snap     *models.TeamSnapshot
	applyErr error
	applied  []*models.Mutation
}

func (p *fakeProvider) Current() *models.TeamSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

func (p *fakeProvider) Apply(ctx context.Context, m *models.Mutation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applyErr != nil {
		return p.applyErr
	}
	p.applied = append(p.applied, m)
	p.snap = p.snap.Apply(m)
	return nil
}

type panicHandler struct{}

func (panicHandler) Handle(models.RequestContext, models.IntentCategory, string, *models.TeamSnapshot, int) models.Response {
	panic("boom")
}

type loadingRecorder struct {
	mu     sync.Mutex
	events []bool
}

func (r *loadingRecorder) record(loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, loading)
}

func (r *loadingRecorder) Events() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.events...)
}

func testSnapshot() *models.TeamSnapshot {
	return &models.TeamSnapshot{
		TeamName: "FC Test",
		Sport:    "football",
		Players: []models.Player{
			{ID: "p1", Name: "Marco Silva", Position: "GK", Rating: 80, Fitness: 90, Form: 7, Status: models.StatusFit},
			{ID: "p2", Name: "Tom Becker", Position: "CM", Rating: 84, Fitness: 70, Form: 8, Status: models.StatusFit},
		},
		Stats: models.TeamStats{Wins: 6, Draws: 2, Losses: 2, Formation: "4-3-3"},
		Analytics: models.AdvancedAnalytics{
			FitnessMetrics: models.FitnessMetrics{AverageFitness: 80, InjuryRisk: 35},
		},
	}
}

func newTestFallback(handler Handler) *Fallback {
	if handler == nil {
		handler = handlers.NewRegistry(zap.NewNop())
	}
	clf := classifier.NewClassifier(classifier.DefaultWeights(), classifier.DefaultTerms)
	return NewFallback(clf, handler, 40, zap.NewNop())
}

func newTestEngine(remote assistant.Service, fallback *Fallback) (*Engine, *MemoryTranscript, *fakeProvider, *loadingRecorder) {
	if fallback == nil {
		fallback = newTestFallback(nil)
	}
	transcript := NewMemoryTranscript()
	provider := &fakeProvider{snap: testSnapshot()}
	e := New(Config{
		RemoteTimeout:       time.Second,
		MinRemoteConfidence: 50,
		Request:             models.RequestContext{UserID: 7, Sport: "football", Language: "English", IsPremiumUser: true},
	}, provider, transcript, remote, fallback, zap.NewNop())

	n := 0
	var idMu sync.Mutex
	e.newID = func() string {
		idMu.Lock()
		defer idMu.Unlock()
		n++
		return fmt.Sprintf("msg-%d", n)
	}

	rec := &loadingRecorder{}
	e.OnLoading(rec.record)
	return e, transcript, provider, rec
}

func engineMessages(msgs []models.Message) []models.Message {
	var out []models.Message
	for _, m := range msgs {
		if m.Sender == models.SenderEngine {
			out = append(out, m)
		}
	}
	return out
}

func failingRemote(err error) assistant.Service {
	return assistant.ServiceFunc(func(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
		return nil, err
	})
}

func TestSubmitRemoteFailureFallsBack(t *testing.T) {
	e, transcript, _, rec := newTestEngine(failingRemote(errors.New("network down")), nil)

	e.Submit(context.Background(), "Show me all players")

	msgs := transcript.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.SenderUser, msgs[0].Sender)
	assert.Equal(t, "Show me all players", msgs[0].Content)

	reply := msgs[1]
	assert.Equal(t, models.SenderEngine, reply.Sender)
	assert.Equal(t, models.KindAnalysis, reply.Kind)
	assert.Contains(t, reply.Content, "Squad overview (2 players)")
	require.NotNil(t, reply.Confidence)

	assert.False(t, e.Loading())
	assert.Equal(t, []bool{true, false}, rec.Events())
}

func TestSubmitWithoutRemote(t *testing.T) {
	e, transcript, _, rec := newTestEngine(nil, nil)

	e.Submit(context.Background(), "What's the injury risk?")

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Content, handlers.HighRiskMarker)
	assert.Equal(t, models.PriorityCritical, replies[0].Priority)
	assert.Equal(t, []bool{true, false}, rec.Events())
}

func TestSubmitRemoteSuccess(t *testing.T) {
	var got assistant.Request
	remote := assistant.ServiceFunc(func(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
		got = req
		return &assistant.Reply{
			Content:           "Switch to a 4-4-2 against them.",
			Confidence:        90,
			Suggestions:       []string{"Show tactics"},
			FollowUpQuestions: []string{"Who is fit?"},
		}, nil
	})
	e, transcript, _, _ := newTestEngine(remote, nil)

	e.Submit(context.Background(), "How do we beat City Rovers")

	assert.Equal(t, "How do we beat City Rovers", got.Message)
	assert.Equal(t, int64(7), got.Context.UserID)
	assert.Equal(t, "football", got.Context.Sport)
	assert.Equal(t, "English", got.Context.Language)
	assert.True(t, got.Context.IsPremiumUser)
	assert.Contains(t, got.Context.TeamSnapshotSummary, "FC Test")

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Equal(t, "Switch to a 4-4-2 against them.\n\n❓ Who is fit?\n\nTry: Show tactics", replies[0].Content)
	require.NotNil(t, replies[0].Confidence)
	assert.Equal(t, 90, *replies[0].Confidence)
	assert.Equal(t, models.KindText, replies[0].Kind)
}

func TestSubmitNilRemoteReplyFallsBack(t *testing.T) {
	remote := assistant.ServiceFunc(func(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
		return nil, nil
	})
	e, transcript, _, rec := newTestEngine(remote, nil)

	e.Submit(context.Background(), "Show me all players")

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Content, "Squad overview (2 players)")
	assert.NotEqual(t, handlers.Apology, replies[0].Content)
	assert.Equal(t, []bool{true, false}, rec.Events())
}

func TestSubmitLowRemoteConfidenceFallsBack(t *testing.T) {
	remote := assistant.ServiceFunc(func(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
		return &assistant.Reply{Content: "not sure", Confidence: 20}, nil
	})
	e, transcript, _, _ := newTestEngine(remote, nil)

	e.Submit(context.Background(), "Show me all players")

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Content, "Squad overview")
}

func TestSubmitRemoteTimeoutFallsBack(t *testing.T) {
	remote := assistant.ServiceFunc(func(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	e, transcript, _, _ := newTestEngine(remote, nil)
	e.cfg.RemoteTimeout = 10 * time.Millisecond

	e.Submit(context.Background(), "Show me all players")

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Content, "Squad overview")
}

func TestSubmitHandlerPanicYieldsApology(t *testing.T) {
	e, transcript, _, rec := newTestEngine(nil, newTestFallback(panicHandler{}))

	require.NotPanics(t, func() {
		e.Submit(context.Background(), "Show me all players")
	})

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Equal(t, handlers.Apology, replies[0].Content)
	assert.False(t, e.Loading())
	assert.Equal(t, []bool{true, false}, rec.Events())
}

func TestSubmitPanicOutsideHandlerYieldsApology(t *testing.T) {
	e, transcript, _, rec := newTestEngine(nil, nil)
	e.data = panicProvider{}

	require.NotPanics(t, func() {
		e.Submit(context.Background(), "Show me all players")
	})

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Equal(t, handlers.Apology, replies[0].Content)
	assert.Equal(t, []bool{true, false}, rec.Events())
}

type panicProvider struct{}

func (panicProvider) Current() *models.TeamSnapshot {
	panic("storage exploded")
}

func (panicProvider) Apply(context.Context, *models.Mutation) error {
	return nil
}

func TestSubmitAppliesMutation(t *testing.T) {
	e, transcript, provider, _ := newTestEngine(nil, nil)

	e.Submit(context.Background(), "Add player John Doe as striker age 22")

	require.Len(t, provider.applied, 1)
	require.NotNil(t, provider.applied[0].AddPlayer)
	assert.Equal(t, "John Doe", provider.applied[0].AddPlayer.Name)
	assert.Len(t, provider.Current().Players, 3)

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Equal(t, models.KindSuccess, replies[0].Kind)
}

func TestSubmitApplyFailureWarns(t *testing.T) {
	e, transcript, provider, _ := newTestEngine(nil, nil)
	provider.applyErr = errors.New("db down")

	e.Submit(context.Background(), "Add player John Doe as striker age 22")

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Equal(t, models.KindWarning, replies[0].Kind)
	assert.Equal(t, saveFailed, replies[0].Content)
	assert.Len(t, provider.Current().Players, 2)
}

func TestSubmitIsIdempotentForSameInput(t *testing.T) {
	e, transcript, _, _ := newTestEngine(nil, nil)

	e.Submit(context.Background(), "hi")
	e.Submit(context.Background(), "hi")

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 2)
	assert.Equal(t, replies[0].Content, replies[1].Content)
	assert.Equal(t, *replies[0].Confidence, *replies[1].Confidence)
	assert.NotEqual(t, replies[0].ID, replies[1].ID)
}

func TestSubmitEmptyInputIsGeneral(t *testing.T) {
	e, transcript, _, _ := newTestEngine(nil, nil)

	e.Submit(context.Background(), "")

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	require.NotNil(t, replies[0].Confidence)
	assert.LessOrEqual(t, *replies[0].Confidence, 30)
	assert.Equal(t, models.KindText, replies[0].Kind)
	assert.Contains(t, replies[0].Content, "Try: Show me all players")
}

func TestSubmitNewerTurnSupersedesOlder(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	var calls int
	var callsMu sync.Mutex
	remote := assistant.ServiceFunc(func(ctx context.Context, req assistant.Request) (*assistant.Reply, error) {
		callsMu.Lock()
		calls++
		first := calls == 1
		callsMu.Unlock()

		if first {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &assistant.Reply{Content: "second answer", Confidence: 80}, nil
	})
	e, transcript, _, rec := newTestEngine(remote, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Submit(context.Background(), "first question")
	}()
	<-started

	e.Submit(context.Background(), "second question")
	<-done

	replies := engineMessages(transcript.Messages())
	require.Len(t, replies, 1)
	assert.Equal(t, "second answer", replies[0].Content)

	assert.False(t, e.Loading())
	// Each turn reports start and end once, interleaving aside.
	var starts, ends int
	for _, loading := range rec.Events() {
		if loading {
			starts++
		} else {
			ends++
		}
	}
	assert.Equal(t, 2, starts)
	assert.Equal(t, 2, ends)
}

func TestFallbackBelowFloorIsGeneral(t *testing.T) {
	f := newTestFallback(panicHandler{})

	// "hi" scores 31, under the floor, so the handler is never reached.
	resp := f.Respond(models.RequestContext{}, "hi", testSnapshot())
	assert.Equal(t, models.General, resp.Category)
	assert.Equal(t, 31, resp.Confidence)
	assert.Len(t, resp.Suggestions, 3)
}

func TestMultiTranscript(t *testing.T) {
	a, b := NewMemoryTranscript(), NewMemoryTranscript()
	multi := MultiTranscript{a, b}

	multi.Append(models.Message{ID: "1", Content: "hello"})

	assert.Len(t, a.Messages(), 1)
	assert.Len(t, b.Messages(), 1)

	// Messages hands out a copy.
	msgs := a.Messages()
	msgs[0].Content = "changed"
	assert.Equal(t, "hello", a.Messages()[0].Content)
}
