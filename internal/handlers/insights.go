package handlers

import (
	"fmt"
	"strings"

	"github.com/xaenox/coach-bot/internal/models"
)

// InsightStatements returns the unsolicited observations the insight
// scheduler picks from, in a fixed order: fitness average, injury risk, top
// performers, weather impact, formation effectiveness.
func InsightStatements(snap *models.TeamSnapshot) []string {
	if snap == nil {
		snap = &models.TeamSnapshot{}
	}

	injured := 0
	for _, p := range snap.Players {
		if p.Status == models.StatusInjured {
			injured++
		}
	}
	risk := snap.Analytics.FitnessMetrics.InjuryRisk

	top := names(topRated(available(snap.Players), 3))
	topLine := "No player ratings are available yet."
	if len(top) > 0 {
		topLine = "Top performers right now: " + strings.Join(top, ", ") + "."
	}

	w := snap.Weather
	weatherLine := "No weather data for the next match yet."
	if w.Condition != "" {
		weatherLine = fmt.Sprintf("Weather watch: %s and %.0f°C in %s with %.0f km/h wind.",
			w.Condition, w.TemperatureC, w.Location, w.WindKph)
	}

	t := snap.Analytics.TacticalAnalysis

	return []string{
		fmt.Sprintf("Squad fitness is averaging %.1f%% across %d players.", average(snap.Players, fitness), len(snap.Players)),
		fmt.Sprintf("Injury risk is %.1f%% (%s) with %d players injured.", risk, injuryBand(risk), injured),
		topLine,
		weatherLine,
		fmt.Sprintf("Formation %s is running at %.0f%% effectiveness with %.0f%% average possession.",
			t.Formation, t.FormationEffectiveness, t.PossessionAvg),
	}
}
