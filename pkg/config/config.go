package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Insights   InsightsConfig   `mapstructure:"insights"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	UseInMemory bool   `mapstructure:"use_in_memory"`
	SeedDemo    bool   `mapstructure:"seed_demo"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type EngineConfig struct {
	TeamName            string        `mapstructure:"team_name"`
	Sport               string        `mapstructure:"sport"`
	Language            string        `mapstructure:"language"`
	PremiumUsers        []int64       `mapstructure:"premium_users"`
	RemoteTimeout       time.Duration `mapstructure:"remote_timeout"`
	MinRemoteConfidence int           `mapstructure:"min_remote_confidence"`
	RefreshInterval     time.Duration `mapstructure:"refresh_interval"`
}

type InsightsConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Period     time.Duration `mapstructure:"period"`
	Confidence int           `mapstructure:"confidence"`
	Threshold  int           `mapstructure:"threshold"`
}

type ClassifierConfig struct {
	UsefulnessFloor int     `mapstructure:"usefulness_floor"`
	Base            float64 `mapstructure:"base"`
	LengthCap       float64 `mapstructure:"length_cap"`
	LengthPer50     float64 `mapstructure:"length_per_50"`
	TermWeight      float64 `mapstructure:"term_weight"`
	QuestionBonus   float64 `mapstructure:"question_bonus"`
	PlayerBonus     float64 `mapstructure:"player_bonus"`
}

// IsPremium reports whether userID is listed in engine.premium_users.
func (c EngineConfig) IsPremium(userID int64) bool {
	for _, id := range c.PremiumUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		if port, err = strconv.Atoi(u.Port()); err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid port %q: %w", u.Port(), err)
		}
	}

	sslMode := u.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  sslMode,
	}, nil
}

// parseRedisURL reads redis://[:password@]host:port[/db].
func parseRedisURL(redisURL string) (RedisConfig, error) {
	u, err := url.Parse(redisURL)
	if err != nil {
		return RedisConfig{}, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return RedisConfig{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	password, _ := u.User.Password()
	db := 0
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		if db, err = strconv.Atoi(path); err != nil {
			return RedisConfig{}, fmt.Errorf("invalid db %q: %w", path, err)
		}
	}

	return RedisConfig{
		Enabled:  true,
		Addr:     u.Host,
		Password: password,
		DB:       db,
	}, nil
}

// LoadConfig reads path when it exists and applies defaults and environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.use_in_memory", false)
	v.SetDefault("database.seed_demo", false)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "coach-bot:")
	v.SetDefault("redis.ttl", "5m")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("engine.sport", "football")
	v.SetDefault("engine.language", "English")
	v.SetDefault("engine.remote_timeout", "20s")
	v.SetDefault("engine.min_remote_confidence", 50)
	v.SetDefault("engine.refresh_interval", "5m")
	v.SetDefault("insights.enabled", false)
	v.SetDefault("insights.period", "30s")
	v.SetDefault("insights.confidence", 85)
	v.SetDefault("insights.threshold", 70)
	v.SetDefault("classifier.usefulness_floor", 40)
	v.SetDefault("classifier.base", 30)
	v.SetDefault("classifier.length_cap", 30)
	v.SetDefault("classifier.length_per_50", 20)
	v.SetDefault("classifier.term_weight", 15)
	v.SetDefault("classifier.question_bonus", 10)
	v.SetDefault("classifier.player_bonus", 20)

	// Enable environment variable support
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		dbConfig.UseInMemory = config.Database.UseInMemory
		dbConfig.SeedDemo = config.Database.SeedDemo
		config.Database = dbConfig
	}

	if redisURL := v.GetString("REDIS_URL"); redisURL != "" {
		redisConfig, err := parseRedisURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		redisConfig.Prefix = config.Redis.Prefix
		redisConfig.TTL = config.Redis.TTL
		config.Redis = redisConfig
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	return &config, nil
}
