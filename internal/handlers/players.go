package handlers

import (
	"fmt"
	"math"
	"regexp"

	"github.com/xaenox/coach-bot/internal/classifier"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/zap"
)

var addPlayerRe = regexp.MustCompile(`(?i)\b(add|create|new|sign|register)\b`)

// Values used for a new player when the squad is empty.
const (
	baseFitness     = 80.0
	baseForm        = 7.0
	baseRating      = 70.0
	baseMarketValue = 1_000_000.0
)

func (r *Registry) playerManagement(text string, snap *models.TeamSnapshot) models.Response {
	if addPlayerRe.MatchString(text) {
		return r.addPlayer(text, snap)
	}
	if p, ok := classifier.FindMentionedPlayer(text, snap.Players); ok {
		return playerProfile(p, snap)
	}
	return listPlayers(snap)
}

func (r *Registry) addPlayer(text string, snap *models.TeamSnapshot) models.Response {
	name, ok := classifier.ExtractPlayerName(text)
	if !ok {
		name = DefaultPlayerName
	}
	position, ok := classifier.ExtractPosition(text)
	if !ok {
		position = DefaultPosition
	}
	age, ok := classifier.ExtractAge(text)
	if !ok {
		age = DefaultAge
	}
	nationality, ok := classifier.ExtractNationality(text)
	if !ok {
		nationality = DefaultNationality
	}

	player := models.Player{
		ID:          r.newID(),
		Name:        name,
		Position:    position,
		Age:         age,
		Nationality: nationality,
		Rating:      squadOr(snap.Players, rating, baseRating, 0, 100),
		Fitness:     squadOr(snap.Players, fitness, baseFitness, 0, 100),
		Form:        squadOr(snap.Players, form, baseForm, 0, 10),
		MarketValue: squadOr(snap.Players, marketValue, baseMarketValue, 0, math.MaxFloat64) * ageValueFactor(age),
		Status:      models.StatusFit,
	}

	r.logger.Info("Player created",
		zap.String("player_id", player.ID),
		zap.String("name", player.Name),
		zap.String("position", player.Position))

	rep := newReport("✅ Player added: " + player.Name)
	rep.bullet("Position: %s", player.Position)
	rep.bullet("Age: %d", player.Age)
	rep.bullet("Nationality: %s", player.Nationality)
	rep.bullet("Rating: %.1f", player.Rating)
	rep.bullet("Fitness: %.1f%%", player.Fitness)
	rep.bullet("Form: %.1f/10", player.Form)
	rep.bullet("Market value: %s", formatMoney(player.MarketValue))
	rep.line("Squad size is now %d.", len(snap.Players)+1)

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindSuccess,
		Priority: models.PriorityLow,
		Mutation: &models.Mutation{AddPlayer: &player},
	}
}

// squadOr averages field over the squad, using fallback for an empty squad,
// and keeps the result inside [lo, hi].
func squadOr(players []models.Player, field func(models.Player) float64, fallback, lo, hi float64) float64 {
	v := fallback
	if len(players) > 0 {
		v = average(players, field)
	}
	return math.Max(lo, math.Min(hi, v))
}

func ageValueFactor(age int) float64 {
	switch {
	case age <= 23:
		return 1.2
	case age <= 29:
		return 1.0
	default:
		return 0.7
	}
}

func listPlayers(snap *models.TeamSnapshot) models.Response {
	if len(snap.Players) == 0 {
		return models.Response{
			Content:  "No players are registered yet. Try \"Add player John Doe as striker age 22\".",
			Kind:     models.KindInfo,
			Priority: models.PriorityLow,
		}
	}

	rep := newReport(fmt.Sprintf("Squad overview (%d players)", len(snap.Players)))
	for _, p := range snap.Players {
		status := ""
		if p.Status != "" && p.Status != models.StatusFit {
			status = " [" + string(p.Status) + "]"
		}
		rep.bullet("%s: %s, rating %.1f%s", p.Name, p.Position, p.Rating, status)
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: models.PriorityLow,
	}
}

func playerProfile(p models.Player, snap *models.TeamSnapshot) models.Response {
	rep := newReport(fmt.Sprintf("👤 %s (%s)", p.Name, p.Position))
	rep.bullet("Age: %d, %s", p.Age, p.Nationality)
	rep.bullet("Rating: %.1f (squad average %.1f)", p.Rating, average(snap.Players, rating))
	rep.bullet("Fitness: %.1f%%, form %.1f/10", p.Fitness, p.Form)
	rep.bullet("Goals: %d, assists: %d in %d matches", p.Goals, p.Assists, p.MatchesPlayed)
	rep.bullet("Market value: %s", formatMoney(p.MarketValue))
	for _, e := range snap.Analytics.PlayerEfficiency {
		if e.PlayerID == p.ID {
			rep.bullet("Efficiency: %.0f%%, pass accuracy %.0f%%", e.Efficiency, e.PassAccuracy)
			break
		}
	}

	priority := models.PriorityLow
	if p.Status == models.StatusInjured {
		priority = models.PriorityHigh
		note := p.InjuryNote
		if note == "" {
			note = "no details"
		}
		rep.line("Currently injured: %s.", note)
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: priority,
	}
}

func teamAnalysis(snap *models.TeamSnapshot) models.Response {
	stats := snap.Stats
	winRate := stats.WinRate()
	tactics := snap.Analytics.TacticalAnalysis

	rep := newReport("📊 Team analysis: " + snap.TeamName)
	rep.bullet("Record: %dW-%dD-%dL (%d played)", stats.Wins, stats.Draws, stats.Losses, stats.MatchesPlayed())
	rep.bullet("Win rate: %.1f%%", winRate)
	rep.bullet("Goals: %d scored, %d conceded", stats.GoalsFor, stats.GoalsAgainst)
	rep.bullet("Squad: %d players, %d available", len(snap.Players), len(available(snap.Players)))
	rep.bullet("Average fitness: %.1f%%", average(snap.Players, fitness))
	rep.bullet("Average form: %.1f/10", average(snap.Players, form))
	rep.bullet("Formation: %s (effectiveness %.0f%%)", tactics.Formation, tactics.FormationEffectiveness)
	rep.bullet("Possession: %.0f%%, pressing %s", tactics.PossessionAvg, tactics.PressingIntensity)
	rep.list("Strengths", tactics.Strengths)
	rep.list("Weaknesses", tactics.Weaknesses)

	priority := models.PriorityMedium
	if stats.MatchesPlayed() > 0 && winRate < 30 {
		priority = models.PriorityHigh
	}

	return models.Response{
		Content:  rep.String(),
		Kind:     models.KindAnalysis,
		Priority: priority,
	}
}
