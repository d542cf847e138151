package handlers

import (
	"fmt"
	"strings"

	"github.com/xaenox/coach-bot/internal/models"
)

// Injury risk bands, in percent.
const (
	lowRiskBelow  = 15.0
	highRiskAbove = 30.0
)

type riskBand string

const (
	riskLow      riskBand = "low"
	riskModerate riskBand = "moderate"
	riskHigh     riskBand = "high"
)

func injuryBand(risk float64) riskBand {
	switch {
	case risk < lowRiskBelow:
		return riskLow
	case risk > highRiskAbove:
		return riskHigh
	default:
		return riskModerate
	}
}

func injuryAnalysis(snap *models.TeamSnapshot) models.Response {
	metrics := snap.Analytics.FitnessMetrics
	band := injuryBand(metrics.InjuryRisk)

	var injured []string
	for _, p := range snap.Players {
		if p.Status != models.StatusInjured {
			continue
		}
		if p.InjuryNote != "" {
			injured = append(injured, fmt.Sprintf("%s (%s)", p.Name, p.InjuryNote))
		} else {
			injured = append(injured, p.Name)
		}
	}

	rep := newReport("🏥 Injury analysis")
	if len(injured) == 0 {
		rep.bullet("No players are currently injured")
	} else {
		rep.bullet("Injured players (%d): %s", len(injured), strings.Join(injured, ", "))
	}
	if band == riskHigh {
		rep.bullet("Team injury risk: %.1f%% (%s)", metrics.InjuryRisk, HighRiskMarker)
	} else {
		rep.bullet("Team injury risk: %.1f%% (%s)", metrics.InjuryRisk, band)
	}
	rep.list("High-load players", metrics.HighLoadPlayers)

	resp := models.Response{
		Kind:     models.KindAnalysis,
		Priority: models.PriorityMedium,
	}
	switch band {
	case riskHigh:
		rep.line("Recommendation: cut training load and rotate the high-load players before the next fixture.")
		resp.Priority = models.PriorityCritical
		resp.Suggestions = []string{"Create a low intensity recovery plan", "Show fitness tracking"}
	case riskModerate:
		rep.line("Recommendation: monitor workloads and schedule an extra recovery session.")
	default:
		rep.line("Recommendation: keep the current training load.")
	}
	resp.Content = rep.String()
	return resp
}

func fitnessTracking(snap *models.TeamSnapshot) models.Response {
	metrics := snap.Analytics.FitnessMetrics

	rep := newReport("💪 Fitness tracking")
	rep.bullet("Average fitness: %.1f%%", metrics.AverageFitness)
	rep.bullet("Fatigue level: %.1f%%", metrics.FatigueLevel)
	rep.bullet("Recovery rate: %.1f%%", metrics.RecoveryRate)
	rep.list("High-load players", metrics.HighLoadPlayers)

	var low []string
	for _, p := range snap.Players {
		if p.Fitness < 75 {
			low = append(low, fmt.Sprintf("%s (%.0f%%)", p.Name, p.Fitness))
		}
	}
	rep.list("Below 75% fitness", low)

	priority := models.PriorityMedium
	if metrics.FatigueLevel > 70 {
		priority = models.PriorityHigh
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: priority,
	}
}
