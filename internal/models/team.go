package models

import (
	"fmt"
	"strings"
	"time"
)

type PlayerStatus string

const (
	StatusFit       PlayerStatus = "fit"
	StatusInjured   PlayerStatus = "injured"
	StatusSuspended PlayerStatus = "suspended"
)

type Player struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Position      string       `json:"position"`
	Age           int          `json:"age"`
	Nationality   string       `json:"nationality"`
	Rating        float64      `json:"rating"`
	Fitness       float64      `json:"fitness"`
	Form          float64      `json:"form"`
	MarketValue   float64      `json:"market_value"`
	Status        PlayerStatus `json:"status"`
	InjuryNote    string       `json:"injury_note,omitempty"`
	Goals         int          `json:"goals"`
	Assists       int          `json:"assists"`
	MatchesPlayed int          `json:"matches_played"`
}

type TeamStats struct {
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	CleanSheets  int    `json:"clean_sheets"`
	Formation    string `json:"formation"`
}

// MatchesPlayed returns wins+draws+losses.
func (s TeamStats) MatchesPlayed() int {
	return s.Wins + s.Draws + s.Losses
}

// WinRate is wins/(wins+draws+losses) as a percentage, 0 when nothing has
// been played.
func (s TeamStats) WinRate() float64 {
	played := s.MatchesPlayed()
	if played == 0 {
		return 0
	}
	return float64(s.Wins) / float64(played) * 100
}

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchCompleted MatchStatus = "completed"
)

type Match struct {
	ID           string      `json:"id"`
	Opponent     string      `json:"opponent"`
	Date         time.Time   `json:"date"`
	Home         bool        `json:"home"`
	Venue        string      `json:"venue"`
	Competition  string      `json:"competition"`
	Status       MatchStatus `json:"status"`
	GoalsFor     int         `json:"goals_for"`
	GoalsAgainst int         `json:"goals_against"`
}

type MatchPrediction struct {
	MatchID              string   `json:"match_id"`
	Opponent             string   `json:"opponent"`
	WinProbability       float64  `json:"win_probability"`
	DrawProbability      float64  `json:"draw_probability"`
	LossProbability      float64  `json:"loss_probability"`
	PredictedScore       string   `json:"predicted_score"`
	RecommendedFormation string   `json:"recommended_formation"`
	KeyPlayerIDs         []string `json:"key_player_ids"`
	Confidence           float64  `json:"confidence"`
}

type WeatherData struct {
	Location        string  `json:"location"`
	Condition       string  `json:"condition"`
	TemperatureC    float64 `json:"temperature_c"`
	WindKph         float64 `json:"wind_kph"`
	HumidityPct     float64 `json:"humidity_pct"`
	PrecipitationMm float64 `json:"precipitation_mm"`
}

type PlayerEfficiency struct {
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	Efficiency   float64 `json:"efficiency"`
	GoalsPer90   float64 `json:"goals_per_90"`
	PassAccuracy float64 `json:"pass_accuracy"`
	DuelsWonPct  float64 `json:"duels_won_pct"`
}

type TacticalAnalysis struct {
	Formation              string   `json:"formation"`
	FormationEffectiveness float64  `json:"formation_effectiveness"`
	PossessionAvg          float64  `json:"possession_avg"`
	PressingIntensity      string   `json:"pressing_intensity"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	Recommendations        []string `json:"recommendations"`
}

type FitnessMetrics struct {
	AverageFitness  float64  `json:"average_fitness"`
	InjuryRisk      float64  `json:"injury_risk"`
	FatigueLevel    float64  `json:"fatigue_level"`
	RecoveryRate    float64  `json:"recovery_rate"`
	HighLoadPlayers []string `json:"high_load_players"`
}

type MarketAsset struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Trend string  `json:"trend"`
}

type MarketAnalysis struct {
	SquadValue      float64       `json:"squad_value"`
	ValueTrendPct   float64       `json:"value_trend_pct"`
	TransferBudget  float64       `json:"transfer_budget"`
	TopAssets       []MarketAsset `json:"top_assets"`
	TransferTargets []string      `json:"transfer_targets"`
}

type Competitor struct {
	Name           string   `json:"name"`
	LeaguePosition int      `json:"league_position"`
	Points         int      `json:"points"`
	RecentForm     string   `json:"recent_form"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	HeadToHead     string   `json:"head_to_head"`
}

type AdvancedAnalytics struct {
	PlayerEfficiency   []PlayerEfficiency `json:"player_efficiency"`
	TacticalAnalysis   TacticalAnalysis   `json:"tactical_analysis"`
	FitnessMetrics     FitnessMetrics     `json:"fitness_metrics"`
	MarketAnalysis     MarketAnalysis     `json:"market_analysis"`
	CompetitorAnalysis []Competitor       `json:"competitor_analysis"`
}

// TeamSnapshot is the read-only team data available to one request. Writers
// build a new snapshot with WithPlayer / WithTrainingPlan instead of
// changing a shared one.
type TeamSnapshot struct {
	TeamName      string            `json:"team_name"`
	Sport         string            `json:"sport"`
	Players       []Player          `json:"players"`
	Stats         TeamStats         `json:"stats"`
	Matches       []Match           `json:"matches"`
	Predictions   []MatchPrediction `json:"predictions"`
	Weather       WeatherData       `json:"weather"`
	Analytics     AdvancedAnalytics `json:"analytics"`
	TrainingPlans []TrainingPlan    `json:"training_plans"`
}

// WithPlayer returns a copy of the snapshot with p appended.
func (s *TeamSnapshot) WithPlayer(p Player) *TeamSnapshot {
	next := *s
	next.Players = make([]Player, 0, len(s.Players)+1)
	next.Players = append(next.Players, s.Players...)
	next.Players = append(next.Players, p)
	return &next
}

// WithTrainingPlan returns a copy of the snapshot with plan appended.
func (s *TeamSnapshot) WithTrainingPlan(plan TrainingPlan) *TeamSnapshot {
	next := *s
	next.TrainingPlans = make([]TrainingPlan, 0, len(s.TrainingPlans)+1)
	next.TrainingPlans = append(next.TrainingPlans, s.TrainingPlans...)
	next.TrainingPlans = append(next.TrainingPlans, plan)
	return &next
}

// Apply returns the snapshot that results from m. A nil mutation returns s.
func (s *TeamSnapshot) Apply(m *Mutation) *TeamSnapshot {
	if m == nil {
		return s
	}
	next := s
	if m.AddPlayer != nil {
		next = next.WithPlayer(*m.AddPlayer)
	}
	if m.AddTrainingPlan != nil {
		next = next.WithTrainingPlan(*m.AddTrainingPlan)
	}
	return next
}

// NextMatch returns the earliest scheduled match on or after now.
func (s *TeamSnapshot) NextMatch(now time.Time) (Match, bool) {
	var (
		next  Match
		found bool
	)
	for _, m := range s.Matches {
		if m.Status != MatchScheduled || m.Date.Before(now) {
			continue
		}
		if !found || m.Date.Before(next.Date) {
			next, found = m, true
		}
	}
	return next, found
}

// PredictionFor finds the prediction for the given opponent, case-insensitive.
func (s *TeamSnapshot) PredictionFor(opponent string) (MatchPrediction, bool) {
	for _, p := range s.Predictions {
		if strings.EqualFold(p.Opponent, opponent) {
			return p, true
		}
	}
	return MatchPrediction{}, false
}

func (s *TeamSnapshot) PlayerByID(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Summary is the short team description sent to the remote assistant.
func (s *TeamSnapshot) Summary() string {
	injured := 0
	for _, p := range s.Players {
		if p.Status == StatusInjured {
			injured++
		}
	}
	return fmt.Sprintf("%s (%s): %d players, %d injured, record %dW-%dD-%dL, formation %s, win rate %.1f%%",
		s.TeamName, s.Sport, len(s.Players), injured,
		s.Stats.Wins, s.Stats.Draws, s.Stats.Losses, s.Stats.Formation, s.Stats.WinRate())
}
