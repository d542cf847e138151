package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/xaenox/coach-bot/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err = s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) LoadSnapshot(ctx context.Context) (*models.TeamSnapshot, error) {
	snap := &models.TeamSnapshot{}

	if err := s.loadTeam(ctx, snap); err != nil {
		return nil, err
	}
	loaders := []func(context.Context, *models.TeamSnapshot) error{
		s.loadPlayers,
		s.loadMatches,
		s.loadPredictions,
		s.loadWeather,
		s.loadAnalytics,
		s.loadTrainingPlans,
	}
	for _, load := range loaders {
		if err := load(ctx, snap); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

func (s *PostgresStorage) loadTeam(ctx context.Context, snap *models.TeamSnapshot) error {
	query := `
		SELECT name, sport, wins, draws, losses, goals_for, goals_against, clean_sheets, formation
		FROM team
		WHERE id = 1`

	err := s.db.QueryRowContext(ctx, query).Scan(
		&snap.TeamName,
		&snap.Sport,
		&snap.Stats.Wins,
		&snap.Stats.Draws,
		&snap.Stats.Losses,
		&snap.Stats.GoalsFor,
		&snap.Stats.GoalsAgainst,
		&snap.Stats.CleanSheets,
		&snap.Stats.Formation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("No team row found, using empty team stats")
		return nil
	}
	if err != nil {
		return fmt.Errorf("error querying team: %w", err)
	}
	return nil
}

func (s *PostgresStorage) loadPlayers(ctx context.Context, snap *models.TeamSnapshot) error {
	query := `
		SELECT id, name, position, age, nationality, rating, fitness, form, market_value,
		       status, injury_note, goals, assists, matches_played
		FROM players
		ORDER BY created_at, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error querying players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Player
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Position,
			&p.Age,
			&p.Nationality,
			&p.Rating,
			&p.Fitness,
			&p.Form,
			&p.MarketValue,
			&p.Status,
			&p.InjuryNote,
			&p.Goals,
			&p.Assists,
			&p.MatchesPlayed,
		)
		if err != nil {
			return fmt.Errorf("error scanning player: %w", err)
		}
		snap.Players = append(snap.Players, p)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadMatches(ctx context.Context, snap *models.TeamSnapshot) error {
	query := `
		SELECT id, opponent, match_date, home, venue, competition, status, goals_for, goals_against
		FROM matches
		ORDER BY match_date`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error querying matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Match
		err := rows.Scan(
			&m.ID,
			&m.Opponent,
			&m.Date,
			&m.Home,
			&m.Venue,
			&m.Competition,
			&m.Status,
			&m.GoalsFor,
			&m.GoalsAgainst,
		)
		if err != nil {
			return fmt.Errorf("error scanning match: %w", err)
		}
		snap.Matches = append(snap.Matches, m)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadPredictions(ctx context.Context, snap *models.TeamSnapshot) error {
	query := `
		SELECT match_id, opponent, win_probability, draw_probability, loss_probability,
		       predicted_score, recommended_formation, key_player_ids, confidence
		FROM predictions`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error querying predictions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.MatchPrediction
		err := rows.Scan(
			&p.MatchID,
			&p.Opponent,
			&p.WinProbability,
			&p.DrawProbability,
			&p.LossProbability,
			&p.PredictedScore,
			&p.RecommendedFormation,
			pq.Array(&p.KeyPlayerIDs),
			&p.Confidence,
		)
		if err != nil {
			return fmt.Errorf("error scanning prediction: %w", err)
		}
		snap.Predictions = append(snap.Predictions, p)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadWeather(ctx context.Context, snap *models.TeamSnapshot) error {
	query := `
		SELECT location, condition, temperature_c, wind_kph, humidity_pct, precipitation_mm
		FROM weather
		WHERE id = 1`

	w := &snap.Weather
	err := s.db.QueryRowContext(ctx, query).Scan(
		&w.Location,
		&w.Condition,
		&w.TemperatureC,
		&w.WindKph,
		&w.HumidityPct,
		&w.PrecipitationMm,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("error querying weather: %w", err)
	}
	return nil
}

func (s *PostgresStorage) loadAnalytics(ctx context.Context, snap *models.TeamSnapshot) error {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM analytics WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error querying analytics: %w", err)
	}
	if err := json.Unmarshal(data, &snap.Analytics); err != nil {
		return fmt.Errorf("error decoding analytics: %w", err)
	}
	return nil
}

func (s *PostgresStorage) loadTrainingPlans(ctx context.Context, snap *models.TeamSnapshot) error {
	query := `
		SELECT id, name, duration_days, intensity, focus_areas, exercises, target_player_ids, schedule
		FROM training_plans
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error querying training plans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			plan      models.TrainingPlan
			exercises []byte
			schedule  []byte
		)
		err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.DurationDays,
			&plan.Intensity,
			pq.Array(&plan.FocusAreas),
			&exercises,
			pq.Array(&plan.TargetPlayerIDs),
			&schedule,
		)
		if err != nil {
			return fmt.Errorf("error scanning training plan: %w", err)
		}
		if err := json.Unmarshal(exercises, &plan.Exercises); err != nil {
			return fmt.Errorf("error decoding exercises of plan %s: %w", plan.ID, err)
		}
		if err := json.Unmarshal(schedule, &plan.Schedule); err != nil {
			return fmt.Errorf("error decoding schedule of plan %s: %w", plan.ID, err)
		}
		snap.TrainingPlans = append(snap.TrainingPlans, plan)
	}
	return rows.Err()
}

func (s *PostgresStorage) AddPlayer(ctx context.Context, p models.Player) error {
	query := `
		INSERT INTO players (id, name, position, age, nationality, rating, fitness, form,
		                     market_value, status, injury_note, goals, assists, matches_played)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Position,
		p.Age,
		p.Nationality,
		p.Rating,
		p.Fitness,
		p.Form,
		p.MarketValue,
		p.Status,
		p.InjuryNote,
		p.Goals,
		p.Assists,
		p.MatchesPlayed,
	)
	if err != nil {
		return fmt.Errorf("error creating player: %w", err)
	}

	s.logger.Info("Player saved", zap.String("player_id", p.ID))
	return nil
}

func (s *PostgresStorage) AddTrainingPlan(ctx context.Context, plan models.TrainingPlan) error {
	exercises, err := json.Marshal(plan.Exercises)
	if err != nil {
		return fmt.Errorf("error encoding exercises: %w", err)
	}
	schedule, err := json.Marshal(plan.Schedule)
	if err != nil {
		return fmt.Errorf("error encoding schedule: %w", err)
	}

	query := `
		INSERT INTO training_plans (id, name, duration_days, intensity, focus_areas, exercises,
		                            target_player_ids, schedule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.db.ExecContext(ctx, query,
		plan.ID,
		plan.Name,
		plan.DurationDays,
		plan.Intensity,
		pq.Array(plan.FocusAreas),
		exercises,
		pq.Array(plan.TargetPlayerIDs),
		schedule,
	)
	if err != nil {
		return fmt.Errorf("error creating training plan: %w", err)
	}

	s.logger.Info("Training plan saved", zap.String("plan_id", plan.ID))
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
