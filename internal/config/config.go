package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	OCR       OCRConfig
	Enhancer  EnhancerConfig
	Structure StructureConfig
	Extract   ExtractConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for the extraction history.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds document-archive storage settings.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OCRConfig holds OCR backend settings.
type OCRConfig struct {
	Preferred      string `mapstructure:"preferred"`
	Languages      string `mapstructure:"languages"`
	PaddleEndpoint string `mapstructure:"paddle_endpoint"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
}

// EnhancerConfig holds language-model enhancement settings.
type EnhancerConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

// StructureConfig holds document-structuring collaborator settings.
type StructureConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractConfig holds the strategy-selection policy constants. These are
// configurable policy, not algorithmic truths: the accept thresholds gate
// whether an enhanced result is trusted, and HintMinSections is the
// structured-hint completeness gate (how many of the three gating section
// groups must be non-empty).
type ExtractConfig struct {
	AcceptStructured float64 `mapstructure:"accept_structured"`
	AcceptEnhanced   float64 `mapstructure:"accept_enhanced"`
	HintMinSections  int     `mapstructure:"hint_min_sections"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the LADEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LADEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "ladex")
	v.SetDefault("db.password", "ladex_secret")
	v.SetDefault("db.name", "ladex_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "ladex-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// OCR defaults
	v.SetDefault("ocr.preferred", "paddleocr")
	v.SetDefault("ocr.languages", "eng+fra")
	v.SetDefault("ocr.paddle_endpoint", "http://localhost:8866")
	v.SetDefault("ocr.timeout_secs", 120)

	// Enhancer defaults
	v.SetDefault("enhancer.enabled", true)
	v.SetDefault("enhancer.endpoint", "http://localhost:11434")
	v.SetDefault("enhancer.model", "gemma3:12b")
	v.SetDefault("enhancer.temperature", 0.1)
	v.SetDefault("enhancer.timeout_secs", 180)

	// Structure defaults
	v.SetDefault("structure.enabled", true)
	v.SetDefault("structure.endpoint", "http://localhost:5001")
	v.SetDefault("structure.timeout_secs", 120)

	// Extraction policy defaults
	v.SetDefault("extract.accept_structured", 0.8)
	v.SetDefault("extract.accept_enhanced", 0.5)
	v.SetDefault("extract.hint_min_sections", 2)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "LADEX_SERVER_PORT",
		"server.read_timeout":       "LADEX_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "LADEX_SERVER_WRITE_TIMEOUT",
		"server.environment":        "LADEX_SERVER_ENVIRONMENT",
		"db.host":                   "LADEX_DB_HOST",
		"db.port":                   "LADEX_DB_PORT",
		"db.user":                   "LADEX_DB_USER",
		"db.password":               "LADEX_DB_PASSWORD",
		"db.name":                   "LADEX_DB_NAME",
		"db.sslmode":                "LADEX_DB_SSLMODE",
		"db.max_open":               "LADEX_DB_MAX_OPEN",
		"db.max_idle":               "LADEX_DB_MAX_IDLE",
		"s3.enabled":                "LADEX_S3_ENABLED",
		"s3.region":                 "LADEX_S3_REGION",
		"s3.bucket":                 "LADEX_S3_BUCKET",
		"s3.endpoint":               "LADEX_S3_ENDPOINT",
		"s3.access_key":             "LADEX_S3_ACCESS_KEY",
		"s3.secret_key":             "LADEX_S3_SECRET_KEY",
		"s3.max_file_size_mb":       "LADEX_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":         "LADEX_S3_PRESIGN_EXPIRY",
		"log.level":                 "LADEX_LOG_LEVEL",
		"log.format":                "LADEX_LOG_FORMAT",
		"ocr.preferred":             "LADEX_OCR_PREFERRED",
		"ocr.languages":             "LADEX_OCR_LANGUAGES",
		"ocr.paddle_endpoint":       "LADEX_OCR_PADDLE_ENDPOINT",
		"ocr.timeout_secs":          "LADEX_OCR_TIMEOUT_SECS",
		"enhancer.enabled":          "LADEX_ENHANCER_ENABLED",
		"enhancer.endpoint":         "LADEX_ENHANCER_ENDPOINT",
		"enhancer.model":            "LADEX_ENHANCER_MODEL",
		"enhancer.temperature":      "LADEX_ENHANCER_TEMPERATURE",
		"enhancer.timeout_secs":     "LADEX_ENHANCER_TIMEOUT_SECS",
		"structure.enabled":         "LADEX_STRUCTURE_ENABLED",
		"structure.endpoint":        "LADEX_STRUCTURE_ENDPOINT",
		"structure.timeout_secs":    "LADEX_STRUCTURE_TIMEOUT_SECS",
		"extract.accept_structured": "LADEX_EXTRACT_ACCEPT_STRUCTURED",
		"extract.accept_enhanced":   "LADEX_EXTRACT_ACCEPT_ENHANCED",
		"extract.hint_min_sections": "LADEX_EXTRACT_HINT_MIN_SECTIONS",
		"cors.allowed_origins":      "LADEX_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LADEX_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LADEX_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.OCR = OCRConfig{
		Preferred:      v.GetString("ocr.preferred"),
		Languages:      v.GetString("ocr.languages"),
		PaddleEndpoint: v.GetString("ocr.paddle_endpoint"),
		TimeoutSecs:    v.GetInt("ocr.timeout_secs"),
	}
	cfg.Enhancer = EnhancerConfig{
		Enabled:     v.GetBool("enhancer.enabled"),
		Endpoint:    v.GetString("enhancer.endpoint"),
		Model:       v.GetString("enhancer.model"),
		Temperature: v.GetFloat64("enhancer.temperature"),
		TimeoutSecs: v.GetInt("enhancer.timeout_secs"),
	}
	cfg.Structure = StructureConfig{
		Enabled:     v.GetBool("structure.enabled"),
		Endpoint:    v.GetString("structure.endpoint"),
		TimeoutSecs: v.GetInt("structure.timeout_secs"),
	}
	cfg.Extract = ExtractConfig{
		AcceptStructured: v.GetFloat64("extract.accept_structured"),
		AcceptEnhanced:   v.GetFloat64("extract.accept_enhanced"),
		HintMinSections:  v.GetInt("extract.hint_min_sections"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
