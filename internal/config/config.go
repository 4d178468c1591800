package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MemoryDatabase as database URL keeps everything in process memory.
const MemoryDatabase = "memory"

// placeholderKey is the value shipped in the sample .env; it never works.
const placeholderKey = "your_openai_key_here"

type Config struct {
	Server struct {
		Port int `yaml:"port"`
		// APIKeys maps client name to key; empty disables auth.
		APIKeys     map[string]string `yaml:"apiKeys"`
		CORSOrigins []string          `yaml:"corsOrigins"`
		RateLimit   struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rateLimit"`
		// WriteTimeout must cover a whole analyze run.
		WriteTimeout time.Duration `yaml:"writeTimeout"`
	} `yaml:"server"`

	Database struct {
		URL          string `yaml:"url"`
		MaxOpenConns int    `yaml:"maxOpenConns"`
	} `yaml:"database"`

	AI struct {
		OpenAIKey         string        `yaml:"openaiKey"`
		AnthropicKey      string        `yaml:"anthropicKey"`
		Model             string        `yaml:"model"`
		AnthropicModel    string        `yaml:"anthropicModel"`
		Concurrency       int           `yaml:"concurrency"`
		RequestsPerSecond float64       `yaml:"requestsPerSecond"`
		Timeout           time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`

	App struct {
		Env      string `yaml:"env"`
		LogLevel string `yaml:"logLevel"`
		Version  string `yaml:"version"`
	} `yaml:"app"`
}

// Load baca file config (boleh tidak ada), lalu .env, lalu environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	var c Config
	c.Server.Port = 3001
	c.Server.WriteTimeout = 10 * time.Minute
	c.Database.MaxOpenConns = 25
	c.AI.Model = "gpt-4"
	c.AI.AnthropicModel = "claude-sonnet-4-20250514"
	c.AI.Concurrency = 1
	c.Minio.Region = "us-east-1"
	c.Redis.TTL = 24 * time.Hour
	c.App.Env = "development"
	c.App.LogLevel = "info"
	c.App.Version = "1.0.0"
	return &c
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str("DATABASE_URL", &c.Database.URL)
	str("OPENAI_API_KEY", &c.AI.OpenAIKey)
	str("ANTHROPIC_API_KEY", &c.AI.AnthropicKey)
	str("OPENAI_MODEL", &c.AI.Model)
	str("ANTHROPIC_MODEL", &c.AI.AnthropicModel)
	str("APP_ENV", &c.App.Env)
	str("LOG_LEVEL", &c.App.LogLevel)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("MINIO_ENDPOINT", &c.Minio.Endpoint)
	str("MINIO_ACCESS_KEY", &c.Minio.AccessKey)
	str("MINIO_SECRET_KEY", &c.Minio.SecretKey)
	str("MINIO_BUCKET", &c.Minio.BucketName)

	ints := map[string]*int{
		"PORT":           &c.Server.Port,
		"AI_CONCURRENCY": &c.AI.Concurrency,
		"REDIS_DB":       &c.Redis.DB,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AI_TIMEOUT: %w", err)
		}
		c.AI.Timeout = d
	}

	// API_KEYS=name:key,name2:key2
	if v := os.Getenv("API_KEYS"); v != "" {
		c.Server.APIKeys = map[string]string{}
		for _, pair := range strings.Split(v, ",") {
			name, key, ok := strings.Cut(strings.TrimSpace(pair), ":")
			if !ok || key == "" {
				return fmt.Errorf("API_KEYS: malformed entry %q", pair)
			}
			c.Server.APIKeys[name] = key
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.AI.Concurrency < 1 {
		c.AI.Concurrency = 1
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func (c *Config) InMemory() bool {
	return strings.EqualFold(c.Database.URL, MemoryDatabase)
}

// OpenAIKey returns the OpenAI key, or "" when it is missing or the placeholder.
func (c *Config) OpenAIKey() string { return usable(c.AI.OpenAIKey) }

func (c *Config) AnthropicKey() string { return usable(c.AI.AnthropicKey) }

func usable(key string) string {
	key = strings.TrimSpace(key)
	if key == placeholderKey {
		return ""
	}
	return key
}

// Helper untuk build DSN Postgres. Production forces sslmode=require (TLS
// tanpa verifikasi sertifikat); selain itu sslmode=disable kecuali DSN
// sudah menentukan sendiri.
func (c *Config) PostgresDSN() string {
	dsn := strings.TrimSpace(c.Database.URL)
	mode := "disable"
	if c.IsProduction() {
		mode = "require"
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		if c.IsProduction() || q.Get("sslmode") == "" {
			q.Set("sslmode", mode)
		}
		u.RawQuery = q.Encode()
		return u.String()
	}

	if strings.Contains(dsn, "sslmode=") {
		if !c.IsProduction() {
			return dsn
		}
		fields := strings.Fields(dsn)
		for i, f := range fields {
			if strings.HasPrefix(f, "sslmode=") {
				fields[i] = "sslmode=" + mode
			}
		}
		return strings.Join(fields, " ")
	}
	return dsn + " sslmode=" + mode
}
