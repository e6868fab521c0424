package config

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig

	EClassroom EClassroomConfig
	Timetable  TimetableConfig
	Menu       MenuConfig
	Solsis     SolsisConfig
	Update     UpdateConfig
}

type DatabaseConfig struct {
	Host         string `validate:"required"`
	Port         int    `validate:"required"`
	User         string
	Password     string
	Name         string `validate:"required"`
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig protects the manual run-trigger endpoint.
type AuthConfig struct {
	JWTSecret  string
	Expiration time.Duration
}

// EClassroomConfig configures the course-management webservice source.
type EClassroomConfig struct {
	WebserviceURL           string `validate:"required,url"`
	Token                   string `validate:"required"`
	Course                  int    `validate:"required"`
	PluginFileWebserviceURL string `validate:"required"`
	PluginFileNormalURL     string `validate:"required"`
}

// TimetableConfig configures the weekly timetable dump source.
type TimetableConfig struct {
	URL string `validate:"required,url"`
}

// MenuConfig configures the menu index page source.
type MenuConfig struct {
	URL string `validate:"required,url"`
}

// SolsisConfig configures the signed substitution API source.
type SolsisConfig struct {
	URL        string `validate:"required,url"`
	ServerName string `validate:"required"`
	APIKey     string `validate:"required"`
	DaysAhead  int
}

// UpdateConfig governs scheduling and HTTP behaviour of the update runs.
type UpdateConfig struct {
	Interval       time.Duration
	RequestTimeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:  v.GetString("AUTH_JWT_SECRET"),
		Expiration: parseDuration(v.GetString("AUTH_JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.EClassroom = EClassroomConfig{
		WebserviceURL:           v.GetString("ECLASSROOM_WEBSERVICE_URL"),
		Token:                   v.GetString("ECLASSROOM_TOKEN"),
		Course:                  v.GetInt("ECLASSROOM_COURSE"),
		PluginFileWebserviceURL: v.GetString("ECLASSROOM_PLUGINFILE_WEBSERVICE_URL"),
		PluginFileNormalURL:     v.GetString("ECLASSROOM_PLUGINFILE_NORMAL_URL"),
	}

	cfg.Timetable = TimetableConfig{URL: v.GetString("TIMETABLE_URL")}
	cfg.Menu = MenuConfig{URL: v.GetString("MENU_URL")}

	cfg.Solsis = SolsisConfig{
		URL:        v.GetString("SOLSIS_URL"),
		ServerName: v.GetString("SOLSIS_SERVER_NAME"),
		APIKey:     v.GetString("SOLSIS_API_KEY"),
		DaysAhead:  v.GetInt("SOLSIS_DAYS_AHEAD"),
	}

	cfg.Update = UpdateConfig{
		Interval:       parseDuration(v.GetString("UPDATE_INTERVAL"), 15*time.Minute),
		RequestTimeout: parseDuration(v.GetString("UPDATE_REQUEST_TIMEOUT"), 30*time.Second),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "schedule_sync")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SOLSIS_DAYS_AHEAD", 7)
	v.SetDefault("UPDATE_INTERVAL", "15m")
	v.SetDefault("UPDATE_REQUEST_TIMEOUT", "30s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
