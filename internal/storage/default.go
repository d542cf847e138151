package storage

import (
	"time"

	"github.com/xaenox/coach-bot/internal/models"
)

// DefaultSnapshot is served while team data is still loading or cannot be
// loaded. It carries no players, fixtures or analytics, so every handler
// answers with its empty-data message instead of made-up figures.
func DefaultSnapshot(teamName, sport string) *models.TeamSnapshot {
	if teamName == "" {
		teamName = "Your team"
	}
	if sport == "" {
		sport = "football"
	}
	return &models.TeamSnapshot{
		TeamName: teamName,
		Sport:    sport,
	}
}

// DemoSnapshot seeds in-memory storage for local runs. The next fixture is
// placed three days after now.
func DemoSnapshot(now time.Time) *models.TeamSnapshot {
	players := []models.Player{
		{ID: "p1", Name: "Marco Silva", Position: "GK", Age: 29, Nationality: "Portugal", Rating: 81, Fitness: 92, Form: 7.4, MarketValue: 9_500_000, Status: models.StatusFit, MatchesPlayed: 16},
		{ID: "p2", Name: "Luka Horvat", Position: "CB", Age: 26, Nationality: "Croatia", Rating: 79, Fitness: 88, Form: 7.1, MarketValue: 12_000_000, Status: models.StatusFit, Goals: 2, MatchesPlayed: 15},
		{ID: "p3", Name: "Tom Becker", Position: "CM", Age: 24, Nationality: "Germany", Rating: 83, Fitness: 71, Form: 7.9, MarketValue: 22_000_000, Status: models.StatusFit, Goals: 4, Assists: 7, MatchesPlayed: 16},
		{ID: "p4", Name: "Ade Okafor", Position: "ST", Age: 22, Nationality: "Nigeria", Rating: 84, Fitness: 65, Form: 8.2, MarketValue: 30_000_000, Status: models.StatusInjured, InjuryNote: "hamstring", Goals: 11, Assists: 3, MatchesPlayed: 13},
		{ID: "p5", Name: "Jonas Lind", Position: "RW", Age: 27, Nationality: "Sweden", Rating: 78, Fitness: 85, Form: 6.8, MarketValue: 11_000_000, Status: models.StatusFit, Goals: 5, Assists: 5, MatchesPlayed: 16},
	}

	return &models.TeamSnapshot{
		TeamName: "FC Riverside",
		Sport:    "football",
		Players:  players,
		Stats: models.TeamStats{
			Wins: 9, Draws: 4, Losses: 3,
			GoalsFor: 27, GoalsAgainst: 14, CleanSheets: 6,
			Formation: "4-3-3",
		},
		Matches: []models.Match{
			{ID: "m1", Opponent: "Northside United", Date: now.AddDate(0, 0, -4), Home: true, Venue: "Riverside Park", Competition: "League", Status: models.MatchCompleted, GoalsFor: 2, GoalsAgainst: 1},
			{ID: "m2", Opponent: "City Rovers", Date: now.AddDate(0, 0, 3), Home: false, Venue: "Rovers Ground", Competition: "League", Status: models.MatchScheduled},
		},
		Predictions: []models.MatchPrediction{
			{MatchID: "m2", Opponent: "City Rovers", WinProbability: 46, DrawProbability: 28, LossProbability: 26, PredictedScore: "2-1", RecommendedFormation: "4-2-3-1", KeyPlayerIDs: []string{"p3", "p5"}, Confidence: 72},
		},
		Weather: models.WeatherData{Location: "Rovers Ground", Condition: "light rain", TemperatureC: 12, WindKph: 18, HumidityPct: 84, PrecipitationMm: 3.5},
		Analytics: models.AdvancedAnalytics{
			PlayerEfficiency: []models.PlayerEfficiency{
				{PlayerID: "p3", Name: "Tom Becker", Efficiency: 86, GoalsPer90: 0.28, PassAccuracy: 89, DuelsWonPct: 55},
				{PlayerID: "p4", Name: "Ade Okafor", Efficiency: 91, GoalsPer90: 0.85, PassAccuracy: 74, DuelsWonPct: 49},
				{PlayerID: "p5", Name: "Jonas Lind", Efficiency: 74, GoalsPer90: 0.33, PassAccuracy: 81, DuelsWonPct: 42},
				{PlayerID: "p2", Name: "Luka Horvat", Efficiency: 79, GoalsPer90: 0.13, PassAccuracy: 86, DuelsWonPct: 64},
			},
			TacticalAnalysis: models.TacticalAnalysis{
				Formation: "4-3-3", FormationEffectiveness: 74, PossessionAvg: 56, PressingIntensity: "high",
				Strengths:       []string{"high press", "quick transitions"},
				Weaknesses:      []string{"set-piece defending"},
				Recommendations: []string{"Add a holding midfielder against counter-attacking sides"},
			},
			FitnessMetrics: models.FitnessMetrics{AverageFitness: 80.2, InjuryRisk: 22, FatigueLevel: 48, RecoveryRate: 76, HighLoadPlayers: []string{"Tom Becker"}},
			MarketAnalysis: models.MarketAnalysis{
				SquadValue: 84_500_000, ValueTrendPct: 4.5, TransferBudget: 15_000_000,
				TopAssets:       []models.MarketAsset{{Name: "Ade Okafor", Value: 30_000_000, Trend: "rising"}, {Name: "Tom Becker", Value: 22_000_000, Trend: "stable"}},
				TransferTargets: []string{"a left back", "a backup striker"},
			},
			CompetitorAnalysis: []models.Competitor{
				{Name: "City Rovers", LeaguePosition: 2, Points: 33, RecentForm: "WWDLW", Strengths: []string{"counter attacks"}, Weaknesses: []string{"aerial duels"}, HeadToHead: "2W 1D 1L"},
				{Name: "Northside United", LeaguePosition: 6, Points: 22, RecentForm: "LDWLL"},
			},
		},
	}
}
