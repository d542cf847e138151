package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/coach-bot/internal/models"
)

func TestMatchPredictionNoUpcomingMatch(t *testing.T) {
	r := newTestRegistry()
	snap := testSnapshot()
	snap.Matches = snap.Matches[:1] // only the completed one
	snap.Predictions = nil

	resp := r.Handle(testRequest(), models.MatchPredictionIntent, "Predict next match", snap, 65)
	assert.Equal(t, NoMatchScheduled, resp.Content)
	assert.Equal(t, models.KindInfo, resp.Kind)

	resp = r.Handle(testRequest(), models.MatchPreparation, "prepare for the next game", snap, 65)
	assert.Equal(t, NoMatchScheduled, resp.Content)
	assert.Equal(t, models.KindInfo, resp.Kind)
}

func TestMatchPredictionWithoutFixtureUsesPrediction(t *testing.T) {
	r := newTestRegistry()
	snap := testSnapshot()
	snap.Matches = snap.Matches[:1]

	resp := r.Handle(testRequest(), models.MatchPredictionIntent, "Predict next match", snap, 65)
	assert.Equal(t, models.KindPrediction, resp.Kind)
	assert.Contains(t, resp.Content, "FC Test vs City Rovers")
	assert.Contains(t, resp.Content, "Win: 46%")

	// Preparation needs a fixture.
	resp = r.Handle(testRequest(), models.MatchPreparation, "prepare for the next game", snap, 65)
	assert.Equal(t, NoMatchScheduled, resp.Content)
}

func TestMatchPredictionUsesStoredPrediction(t *testing.T) {
	r := newTestRegistry()
	resp := r.Handle(testRequest(), models.MatchPredictionIntent, "Predict next match", testSnapshot(), 65)

	assert.Equal(t, models.KindPrediction, resp.Kind)
	assert.Contains(t, resp.Content, "FC Test vs City Rovers")
	assert.Contains(t, resp.Content, "Win: 46%")
	assert.Contains(t, resp.Content, "Draw: 28%")
	assert.Contains(t, resp.Content, "Loss: 26%")
	assert.Contains(t, resp.Content, "Recommended formation: 4-2-3-1")
	assert.Contains(t, resp.Content, "Key players: Tom Becker")
	assert.NotContains(t, resp.Content, "Ade Okafor")
	assert.Equal(t, models.PriorityMedium, resp.Priority)
}

func TestMatchPredictionNamedOpponentWithoutPrediction(t *testing.T) {
	r := newTestRegistry()
	resp := r.Handle(testRequest(), models.MatchPredictionIntent, "predict our match vs Eastfield Town", testSnapshot(), 65)

	// Falls back to the season record: 6W 2D 2L.
	assert.Equal(t, models.KindPrediction, resp.Kind)
	assert.Contains(t, resp.Content, "vs Eastfield Town")
	assert.Contains(t, resp.Content, "Win: 60%")
	assert.Contains(t, resp.Content, "Draw: 20%")
	assert.Contains(t, resp.Content, "Loss: 20%")
}

func TestCapProbabilities(t *testing.T) {
	win, draw, loss := capProbabilities(80, 30, 20)
	assert.LessOrEqual(t, win+draw+loss, 100.0)
	assert.Greater(t, win, draw)
	assert.Greater(t, draw, loss)

	win, draw, loss = capProbabilities(40, 30, 20)
	assert.Equal(t, []float64{40, 30, 20}, []float64{win, draw, loss})

	win, draw, loss = capProbabilities(-5, 50, 50)
	assert.Equal(t, []float64{0, 50, 50}, []float64{win, draw, loss})
}

func TestMatchPredictionProbabilitiesCapped(t *testing.T) {
	r := newTestRegistry()
	snap := testSnapshot()
	snap.Predictions[0].WinProbability = 90
	snap.Predictions[0].DrawProbability = 60
	snap.Predictions[0].LossProbability = 50

	resp := r.Handle(testRequest(), models.MatchPredictionIntent, "Predict next match", snap, 65)
	// 200% in total scales by one half.
	assert.Contains(t, resp.Content, "Win: 45%")
	assert.Contains(t, resp.Content, "Draw: 30%")
	assert.Contains(t, resp.Content, "Loss: 25%")
}

func TestMatchPreparation(t *testing.T) {
	r := newTestRegistry()
	resp := r.Handle(testRequest(), models.MatchPreparation, "help me prepare", testSnapshot(), 70)

	assert.Equal(t, models.KindAnalysis, resp.Kind)
	assert.Contains(t, resp.Content, "FC Test vs City Rovers")
	assert.Contains(t, resp.Content, "3 days to go")
	assert.Contains(t, resp.Content, "Formation: 4-2-3-1")
	assert.Contains(t, resp.Content, "Unavailable: Ade Okafor (injured)")
	assert.Contains(t, resp.Content, "Opponent strengths: counter attacks")
	assert.Equal(t, models.PriorityMedium, resp.Priority)

	rc := testRequest()
	rc.Now = testNow.AddDate(0, 0, 2)
	resp = r.Handle(rc, models.MatchPreparation, "help me prepare", testSnapshot(), 70)
	assert.Equal(t, models.PriorityHigh, resp.Priority)
}

func TestInjuryAnalysisBands(t *testing.T) {
	tests := []struct {
		risk     float64
		priority models.Priority
		marker   bool
		band     string
	}{
		{35, models.PriorityCritical, true, ""},
		{31, models.PriorityCritical, true, ""},
		{30, models.PriorityMedium, false, "moderate"},
		{15, models.PriorityMedium, false, "moderate"},
		{10, models.PriorityMedium, false, "low"},
	}

	r := newTestRegistry()
	for _, tt := range tests {
		snap := testSnapshot()
		snap.Analytics.FitnessMetrics.InjuryRisk = tt.risk

		resp := r.Handle(testRequest(), models.InjuryAnalysis, "What's the injury risk?", snap, 75)
		assert.Equal(t, tt.priority, resp.Priority, "risk %v", tt.risk)
		if tt.marker {
			assert.Contains(t, resp.Content, HighRiskMarker, "risk %v", tt.risk)
			assert.NotEmpty(t, resp.Suggestions)
		} else {
			assert.NotContains(t, resp.Content, HighRiskMarker, "risk %v", tt.risk)
			assert.Contains(t, resp.Content, "("+tt.band+")", "risk %v", tt.risk)
		}
		assert.Contains(t, resp.Content, "Ade Okafor (hamstring)")
	}
}

func TestFitnessTracking(t *testing.T) {
	r := newTestRegistry()
	snap := testSnapshot()

	resp := r.Handle(testRequest(), models.FitnessTracking, "fitness report", snap, 70)
	assert.Contains(t, resp.Content, "Below 75% fitness: Tom Becker (70%), Ade Okafor (65%)")
	assert.Equal(t, models.PriorityMedium, resp.Priority)

	snap.Analytics.FitnessMetrics.FatigueLevel = 80
	resp = r.Handle(testRequest(), models.FitnessTracking, "fitness report", snap, 70)
	assert.Equal(t, models.PriorityHigh, resp.Priority)
}

func TestTrainingPlanDefaults(t *testing.T) {
	r := newTestRegistry()
	resp := r.Handle(testRequest(), models.TrainingPlanning, "Create a training plan", testSnapshot(), 60)

	assert.Equal(t, models.KindSuccess, resp.Kind)
	require.NotNil(t, resp.Mutation)
	plan := resp.Mutation.AddTrainingPlan
	require.NotNil(t, plan)

	assert.Equal(t, DefaultTrainingDays, plan.DurationDays)
	assert.Equal(t, models.IntensityMedium, plan.Intensity)
	assert.Equal(t, []string{DefaultFocus}, plan.FocusAreas)
	assert.Equal(t, []string{"p1", "p2"}, plan.TargetPlayerIDs)

	require.Len(t, plan.Exercises, 5)
	var minutes []int
	for _, ex := range plan.Exercises {
		minutes = append(minutes, ex.DurationMin)
	}
	assert.Equal(t, []int{15, 25, 25, 20, 10}, minutes)

	// Seven days starting tomorrow with the seventh as a rest day.
	require.Len(t, plan.Schedule, 6)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), plan.Schedule[0])
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), plan.Schedule[5])
}

func TestTrainingPlanFromText(t *testing.T) {
	r := newTestRegistry()
	resp := r.Handle(testRequest(), models.TrainingPlanning,
		"Create a 2 week high intensity attacking training plan for Becker", testSnapshot(), 60)

	require.NotNil(t, resp.Mutation)
	plan := resp.Mutation.AddTrainingPlan
	require.NotNil(t, plan)

	assert.Equal(t, 14, plan.DurationDays)
	assert.Equal(t, models.IntensityHigh, plan.Intensity)
	assert.Equal(t, []string{"attacking"}, plan.FocusAreas)
	assert.Equal(t, []string{"p2"}, plan.TargetPlayerIDs)
	assert.Equal(t, "Attacking plan (14 days)", plan.Name)
	assert.Len(t, plan.Schedule, 12)

	var minutes []int
	for _, ex := range plan.Exercises {
		minutes = append(minutes, ex.DurationMin)
	}
	assert.Equal(t, []int{18, 30, 30, 24, 12}, minutes)
}

func TestWeatherImpact(t *testing.T) {
	r := newTestRegistry()
	snap := testSnapshot()

	resp := r.Handle(testRequest(), models.WeatherImpact, "weather?", snap, 60)
	assert.Equal(t, models.PriorityMedium, resp.Priority)
	assert.Contains(t, resp.Content, "wet pitch")
	assert.Contains(t, resp.Content, "humidity")

	snap.Weather.WindKph = 60
	resp = r.Handle(testRequest(), models.WeatherImpact, "weather?", snap, 60)
	assert.Equal(t, models.PriorityHigh, resp.Priority)

	snap.Weather = models.WeatherData{}
	resp = r.Handle(testRequest(), models.WeatherImpact, "weather?", snap, 60)
	assert.Equal(t, models.KindInfo, resp.Kind)
}

func TestCompetitorAnalysis(t *testing.T) {
	r := newTestRegistry()

	resp := r.Handle(testRequest(), models.CompetitorAnalysis, "tell me about City Rovers", testSnapshot(), 60)
	assert.Contains(t, resp.Content, "Competitor: City Rovers")
	assert.Contains(t, resp.Content, "League position: 2 (30 pts)")

	resp = r.Handle(testRequest(), models.CompetitorAnalysis, "our rivals", testSnapshot(), 60)
	assert.Contains(t, resp.Content, "Competitor overview")
}

func TestPerformanceOptimization(t *testing.T) {
	r := newTestRegistry()
	resp := r.Handle(testRequest(), models.PerformanceOptimization, "how can we improve", testSnapshot(), 60)

	assert.Contains(t, resp.Content, "Top performers:\n• Ade Okafor")
	assert.Contains(t, resp.Content, "Room to improve:\n• Jonas Lind: efficiency 60, 40% duels won, work on strength and duel technique")
}

func TestMarketAnalysisMentionsPlayer(t *testing.T) {
	r := newTestRegistry()
	resp := r.Handle(testRequest(), models.MarketAnalysisIntent, "what is Okafor's market value", testSnapshot(), 60)

	assert.Contains(t, resp.Content, "Squad value: €60.0M (+3.0%)")
	assert.Contains(t, resp.Content, "Ade Okafor is valued at €30.0M.")
}
