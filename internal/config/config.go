package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StorageDocument = "document"

	BlobDisk = "disk"
	BlobDB   = "db"
	BlobS3   = "s3"
)

type Config struct {
	Port    string `yaml:"port"`
	Storage string `yaml:"storage"` // memory | document
	DBDSN   string `yaml:"db_dsn"`

	BlobBackend string `yaml:"blob_backend"` // disk | db | s3
	UploadDir   string `yaml:"upload_dir"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`

	GeminiAPIKey string        `yaml:"gemini_api_key"`
	GeminiModel  string        `yaml:"gemini_model"`
	StoryTimeout time.Duration `yaml:"story_timeout"`

	SessionTTL    time.Duration `yaml:"session_ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	CookieSecure  bool          `yaml:"cookie_secure"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	TemplatesDir   string `yaml:"templates_dir"`
	StaticDir      string `yaml:"static_dir"`
	MaxBodyBytes   int    `yaml:"max_body_bytes"`
	RateLimit      int    `yaml:"rate_limit"`       // requests per minute per IP
	LoginRateLimit int    `yaml:"login_rate_limit"` // attempts per 10 minutes per IP
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:           "8080",
		Storage:        StorageMemory,
		DBDSN:          "artisanhub.db",
		BlobBackend:    BlobDisk,
		UploadDir:      "./uploads",
		S3Region:       "us-east-1",
		GeminiModel:    "gemini-2.5-flash",
		StoryTimeout:   10 * time.Second,
		SessionTTL:     24 * time.Hour,
		LogLevel:       "info",
		TemplatesDir:   "./web/templates",
		StaticDir:      "./web/static",
		MaxBodyBytes:   32 << 20,
		RateLimit:      120,
		LoginRateLimit: 5,
	}
}

// Load resolves configuration from defaults, an optional YAML file and the
// environment, in that order. A .env file in the working directory is loaded
// first when present; a malformed one is an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("STORAGE", &cfg.Storage)
	str("DB_DSN", &cfg.DBDSN)
	str("BLOB_BACKEND", &cfg.BlobBackend)
	str("UPLOAD_DIR", &cfg.UploadDir)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_ENDPOINT", &cfg.S3Endpoint)
	str("GEMINI_API_KEY", &cfg.GeminiAPIKey)
	str("GEMINI_MODEL", &cfg.GeminiModel)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	str("LOG_FILE", &cfg.LogFile)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("TEMPLATES_DIR", &cfg.TemplatesDir)
	str("STATIC_DIR", &cfg.StaticDir)

	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur("STORY_TIMEOUT", &cfg.StoryTimeout)
	dur("SESSION_TTL", &cfg.SessionTTL)
	num("MAX_BODY_BYTES", &cfg.MaxBodyBytes)
	num("RATE_LIMIT", &cfg.RateLimit)
	num("LOGIN_RATE_LIMIT", &cfg.LoginRateLimit)
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = v == "true" || v == "1"
	}
	return errors.Join(errs...)
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StorageMemory, StorageDocument:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	switch c.BlobBackend {
	case BlobDisk, BlobDB, BlobS3:
	default:
		errs = append(errs, fmt.Errorf("unknown blob backend %q", c.BlobBackend))
	}
	if c.BlobBackend == BlobS3 && c.S3Bucket == "" {
		errs = append(errs, errors.New("s3 blob backend requires S3_BUCKET"))
	}
	if c.BlobBackend == BlobDB && c.Storage != StorageDocument {
		errs = append(errs, errors.New("db blob backend requires document storage"))
	}
	if c.Storage == StorageDocument && strings.TrimSpace(c.DBDSN) == "" {
		errs = append(errs, errors.New("document storage requires DB_DSN"))
	}
	return errors.Join(errs...)
}

// Redacted is safe to log.
func (c Config) Redacted() map[string]any {
	return map[string]any{
		"port":         c.Port,
		"storage":      c.Storage,
		"blob":         c.BlobBackend,
		"upload_dir":   c.UploadDir,
		"story_model":  c.GeminiModel,
		"story_online": c.GeminiAPIKey != "",
		"redis":        c.RedisAddr != "",
		"log_file":     c.LogFile,
	}
}
