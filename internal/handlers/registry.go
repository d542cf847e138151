// Package handlers turns a classified request into a Response. Every handler
// is a projection of the TeamSnapshot it receives: figures are read from or
// computed over the snapshot, never hard-coded.
package handlers

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/zap"
)

// Defaults substituted when a value cannot be extracted from the input.
const (
	DefaultAge          = 25
	DefaultTrainingDays = 7
	DefaultNationality  = "Unknown"
	DefaultPosition     = "CM"
	DefaultPlayerName   = "New Player"
	DefaultFocus        = "general"
)

// NoMatchScheduled is returned by the match handlers when there is no
// upcoming fixture to work with.
const NoMatchScheduled = "No upcoming match is scheduled. Add a fixture to get predictions and a preparation plan."

// Apology is the reply used when a handler could not produce an answer.
const Apology = "Sorry, I couldn't put that answer together. Please try rephrasing your question."

// HighRiskMarker is included in injury reports above the high-risk band.
const HighRiskMarker = "HIGH RISK"

type Registry struct {
	newID  func() string
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		newID:  func() string { return uuid.New().String() },
		logger: logger,
	}
}

// Handle dispatches to the handler for category. Every IntentCategory must
// have a case here; an unknown one panics, which the engine turns into the
// apology reply.
func (r *Registry) Handle(rc models.RequestContext, category models.IntentCategory, text string, snap *models.TeamSnapshot, confidence int) models.Response {
	if snap == nil {
		snap = &models.TeamSnapshot{}
	}

	var resp models.Response
	switch category {
	case models.PlayerManagement:
		resp = r.playerManagement(text, snap)
	case models.TeamAnalysis:
		resp = teamAnalysis(snap)
	case models.MatchPredictionIntent:
		resp = matchPrediction(rc, text, snap)
	case models.InjuryAnalysis:
		resp = injuryAnalysis(snap)
	case models.TacticalAdvice:
		resp = tacticalAdvice(snap)
	case models.TrainingPlanning:
		resp = r.trainingPlan(rc, text, snap)
	case models.MarketAnalysisIntent:
		resp = marketAnalysis(text, snap)
	case models.WeatherImpact:
		resp = weatherImpact(snap)
	case models.CompetitorAnalysis:
		resp = competitorAnalysis(text, snap)
	case models.FitnessTracking:
		resp = fitnessTracking(snap)
	case models.PerformanceOptimization:
		resp = performanceOptimization(snap)
	case models.MatchPreparation:
		resp = matchPreparation(rc, snap)
	case models.General:
		resp = General(text, confidence)
	default:
		panic(fmt.Sprintf("handlers: no handler for category %d", category))
	}

	resp.Category = category
	resp.Confidence = confidence
	return resp
}

// ApologyResponse is the general-style reply used after a handler failure.
func ApologyResponse(confidence int) models.Response {
	return models.Response{
		Category:   models.General,
		Content:    Apology,
		Kind:       models.KindText,
		Confidence: confidence,
		Priority:   models.PriorityLow,
	}
}
