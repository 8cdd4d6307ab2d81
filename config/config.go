package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	Auth      Auth
	Gemini    Gemini
	SRS       SRS
	Scheduler Scheduler
	LogLevel  string
}

type Server struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Auth struct {
	JWTSecret    string
	CookieName   string
	CookieSecure bool
	TokenTTLDays int
}

type Gemini struct {
	APIKey string
	Model  string
	// MaxConcurrent bounds parallel explanation requests during an import preview.
	MaxConcurrent int
}

type SRS struct {
	Multiplier      float64
	MaxIntervalDays int
	BaseXP          int
	StreakBonus     int
	XPPerLevel      int
}

type Scheduler struct {
	DailyTaskCron string
	ActiveDays    int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("AUTH_COOKIE_NAME", "session")
	viper.SetDefault("AUTH_TOKEN_TTL_DAYS", 7)
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_MAX_CONCURRENT", 4)
	viper.SetDefault("SRS_MULTIPLIER", 2.5)
	viper.SetDefault("SRS_MAX_INTERVAL_DAYS", 0)
	viper.SetDefault("SRS_BASE_XP", 10)
	viper.SetDefault("SRS_STREAK_BONUS", 2)
	viper.SetDefault("SRS_XP_PER_LEVEL", 100)
	viper.SetDefault("SCHEDULER_DAILY_TASK_CRON", "5 0 * * *")
	viper.SetDefault("SCHEDULER_ACTIVE_DAYS", 7)
	viper.SetDefault("LOG_LEVEL", "info")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Server.AllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Auth.JWTSecret = viper.GetString("AUTH_JWT_SECRET")
	config.Auth.CookieName = viper.GetString("AUTH_COOKIE_NAME")
	config.Auth.CookieSecure = viper.GetBool("AUTH_COOKIE_SECURE")
	config.Auth.TokenTTLDays = viper.GetInt("AUTH_TOKEN_TTL_DAYS")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")
	config.Gemini.MaxConcurrent = viper.GetInt("GEMINI_MAX_CONCURRENT")

	config.SRS.Multiplier = viper.GetFloat64("SRS_MULTIPLIER")
	config.SRS.MaxIntervalDays = viper.GetInt("SRS_MAX_INTERVAL_DAYS")
	config.SRS.BaseXP = viper.GetInt("SRS_BASE_XP")
	config.SRS.StreakBonus = viper.GetInt("SRS_STREAK_BONUS")
	config.SRS.XPPerLevel = viper.GetInt("SRS_XP_PER_LEVEL")

	config.Scheduler.DailyTaskCron = viper.GetString("SCHEDULER_DAILY_TASK_CRON")
	config.Scheduler.ActiveDays = viper.GetInt("SCHEDULER_ACTIVE_DAYS")

	config.LogLevel = viper.GetString("LOG_LEVEL")

	if config.Auth.JWTSecret == "" {
		log.Warn().Msg("AUTH_JWT_SECRET is not set; using an insecure development secret")
		config.Auth.JWTSecret = "dev-secret-change-me"
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("db_host", config.Database.Host).
		Str("db_name", config.Database.Name).
		Bool("gemini_enabled", config.Gemini.APIKey != "").
		Interface("srs", config.SRS).
		Msg("Config loaded")
	return &config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
