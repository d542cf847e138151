package handlers

import (
	"sort"
	"strings"

	"github.com/xaenox/coach-bot/internal/classifier"
	"github.com/xaenox/coach-bot/internal/models"
)

// The handlers below each read one slice of the snapshot analytics and
// report it as is.

func marketAnalysis(text string, snap *models.TeamSnapshot) models.Response {
	market := snap.Analytics.MarketAnalysis

	rep := newReport("💰 Market analysis")
	rep.bullet("Squad value: %s (%+.1f%%)", formatMoney(market.SquadValue), market.ValueTrendPct)
	rep.bullet("Transfer budget: %s", formatMoney(market.TransferBudget))
	for _, a := range market.TopAssets {
		rep.bullet("%s: %s, %s", a.Name, formatMoney(a.Value), a.Trend)
	}
	rep.list("Transfer targets", market.TransferTargets)
	if p, ok := classifier.FindMentionedPlayer(text, snap.Players); ok {
		rep.line("%s is valued at %s.", p.Name, formatMoney(p.MarketValue))
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: models.PriorityLow,
	}
}

func weatherImpact(snap *models.TeamSnapshot) models.Response {
	w := snap.Weather
	if w.Condition == "" {
		return models.Response{
			Content:  "No weather data is available for the next match yet.",
			Kind:     models.KindInfo,
			Priority: models.PriorityLow,
		}
	}

	rep := newReport("🌦 Weather impact: " + w.Location)
	rep.bullet("Conditions: %s, %.0f°C", w.Condition, w.TemperatureC)
	rep.bullet("Wind: %.0f km/h, humidity %.0f%%, precipitation %.1f mm", w.WindKph, w.HumidityPct, w.PrecipitationMm)

	var impacts []string
	severe := false
	if w.TemperatureC > 30 {
		impacts = append(impacts, "heat: plan drinks breaks and rotate midfielders early")
		severe = severe || w.TemperatureC > 35
	}
	if w.TemperatureC < 5 {
		impacts = append(impacts, "cold: extend the warm-up to protect muscles")
	}
	if w.WindKph > 30 {
		impacts = append(impacts, "wind: keep the ball on the ground, long balls will drift")
		severe = severe || w.WindKph > 50
	}
	if w.PrecipitationMm > 2 {
		impacts = append(impacts, "wet pitch: quick passing, shoot early, watch for slips")
		severe = severe || w.PrecipitationMm > 10
	}
	if w.HumidityPct > 80 {
		impacts = append(impacts, "humidity: expect earlier fatigue")
	}

	priority := models.PriorityLow
	if len(impacts) == 0 {
		rep.line("Conditions are favourable, no adjustments needed.")
	} else {
		priority = models.PriorityMedium
		for _, i := range impacts {
			rep.bullet("%s", i)
		}
	}
	if severe {
		priority = models.PriorityHigh
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: priority,
	}
}

func competitorAnalysis(text string, snap *models.TeamSnapshot) models.Response {
	competitors := snap.Analytics.CompetitorAnalysis
	if len(competitors) == 0 {
		return models.Response{
			Content:  "No competitor data is available yet.",
			Kind:     models.KindInfo,
			Priority: models.PriorityLow,
		}
	}

	lower := strings.ToLower(text)
	for _, c := range competitors {
		if c.Name == "" || !strings.Contains(lower, strings.ToLower(c.Name)) {
			continue
		}
		rep := newReport("🔍 Competitor: " + c.Name)
		rep.bullet("League position: %d (%d pts)", c.LeaguePosition, c.Points)
		rep.bullet("Recent form: %s", c.RecentForm)
		if c.HeadToHead != "" {
			rep.bullet("Head to head: %s", c.HeadToHead)
		}
		rep.list("Strengths", c.Strengths)
		rep.list("Weaknesses", c.Weaknesses)
		return models.Response{
			Content:  rep.String(),
			Kind:     models.KindAnalysis,
			Priority: models.PriorityMedium,
		}
	}

	rep := newReport("🔍 Competitor overview")
	for _, c := range competitors {
		rep.bullet("%s: position %d, %d pts, form %s", c.Name, c.LeaguePosition, c.Points, c.RecentForm)
	}
	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: models.PriorityLow,
	}
}

func tacticalAdvice(snap *models.TeamSnapshot) models.Response {
	t := snap.Analytics.TacticalAnalysis

	rep := newReport("♟ Tactical advice")
	rep.bullet("Formation: %s (effectiveness %.0f%%)", t.Formation, t.FormationEffectiveness)
	rep.bullet("Average possession: %.0f%%", t.PossessionAvg)
	rep.bullet("Pressing intensity: %s", t.PressingIntensity)
	rep.list("Strengths", t.Strengths)
	rep.list("Weaknesses", t.Weaknesses)
	for _, rec := range t.Recommendations {
		rep.bullet("%s", rec)
	}

	priority := models.PriorityMedium
	if t.FormationEffectiveness > 0 && t.FormationEffectiveness < 50 {
		priority = models.PriorityHigh
	}
	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: priority,
	}
}

func performanceOptimization(snap *models.TeamSnapshot) models.Response {
	eff := make([]models.PlayerEfficiency, len(snap.Analytics.PlayerEfficiency))
	copy(eff, snap.Analytics.PlayerEfficiency)
	if len(eff) == 0 {
		return models.Response{
			Content:  "No player efficiency data is available yet.",
			Kind:     models.KindInfo,
			Priority: models.PriorityLow,
		}
	}
	sort.SliceStable(eff, func(i, j int) bool {
		if eff[i].Efficiency != eff[j].Efficiency {
			return eff[i].Efficiency > eff[j].Efficiency
		}
		return eff[i].Name < eff[j].Name
	})

	n := 3
	if len(eff) < n {
		n = len(eff)
	}

	rep := newReport("🚀 Performance optimization")
	rep.line("Top performers:")
	for _, e := range eff[:n] {
		rep.bullet("%s: efficiency %.0f, %.2f goals/90, %.0f%% passing", e.Name, e.Efficiency, e.GoalsPer90, e.PassAccuracy)
	}
	if len(eff) > n {
		rep.line("Room to improve:")
		tail := eff[len(eff)-min(n, len(eff)-n):]
		for _, e := range tail {
			rep.bullet("%s: efficiency %.0f, %.0f%% duels won, %s", e.Name, e.Efficiency, e.DuelsWonPct, improvementHint(e))
		}
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: models.PriorityMedium,
	}
}

func improvementHint(e models.PlayerEfficiency) string {
	switch {
	case e.PassAccuracy < 75:
		return "focus on passing drills"
	case e.DuelsWonPct < 45:
		return "work on strength and duel technique"
	default:
		return "add finishing work to lift the goal output"
	}
}
