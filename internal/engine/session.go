package engine

import "context"

// Session is the inbound surface of one chat: user turns plus the insight
// settings.
type Session struct {
	engine   *Engine
	insights *InsightScheduler
}

func NewSession(engine *Engine, insights *InsightScheduler) *Session {
	return &Session{engine: engine, insights: insights}
}

func (s *Session) Submit(ctx context.Context, text string) {
	s.engine.Submit(ctx, text)
}

func (s *Session) SetConfidenceThreshold(value int) {
	s.insights.SetThreshold(value)
}

func (s *Session) SetAutoAnalysisEnabled(enabled bool) {
	s.insights.SetEnabled(enabled)
}

func (s *Session) Engine() *Engine {
	return s.engine
}

func (s *Session) Insights() *InsightScheduler {
	return s.insights
}

// Close stops the session timers.
func (s *Session) Close() {
	s.insights.Stop()
}
