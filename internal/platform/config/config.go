// Package config builds runtime configuration from the environment so main
// stays lean. Parsing is struct-tag driven; defaults favor local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"NORDKYC_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"NORDKYC_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Inference configures the OCR/LLM collaborator.
type Inference struct {
	BaseURL    string        `env:"INFERENCE_BASE_URL" envDefault:"https://api.openai.com/v1"`
	APIKey     string        `env:"INFERENCE_API_KEY"`
	Model      string        `env:"INFERENCE_MODEL" envDefault:"gpt-4o-mini"`
	Timeout    time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"40s"`
	MaxRetries int           `env:"INFERENCE_MAX_RETRIES" envDefault:"2"`
}

// Extraction carries the confidence-ladder policy knobs. The defaults mirror
// the heuristics the pipeline shipped with; they are policy, not invariants.
type Extraction struct {
	StrictConfidence    float64       `env:"EXTRACT_STRICT_CONFIDENCE" envDefault:"0.92"`
	RecoveredConfidence float64       `env:"EXTRACT_RECOVERED_CONFIDENCE" envDefault:"0.88"`
	FallbackConfidence  float64       `env:"EXTRACT_FALLBACK_CONFIDENCE" envDefault:"0.80"`
	ScanConfidence      float64       `env:"EXTRACT_SCAN_CONFIDENCE" envDefault:"0.75"`
	BackoffStep         time.Duration `env:"EXTRACT_BACKOFF_STEP" envDefault:"800ms"`
	WriteAudit          bool          `env:"EXTRACT_WRITE_AUDIT" envDefault:"true"`
}

// Registrar configures customer creation.
type Registrar struct {
	EmailDomain string `env:"REGISTRAR_EMAIL_DOMAIN" envDefault:"nordkyc.example"`
}

// Postgres configures the durable customer store. Empty URL means the
// in-memory store is used instead.
type Postgres struct {
	URL         string `env:"POSTGRES_URL"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"10"`
}

// Redis configures the registry verification cache. Empty URL disables it.
type Redis struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Kafka configures the audit event publisher. Empty brokers disables it.
type Kafka struct {
	Brokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"nordkyc.onboarding.audit"`
}

// Config is the root configuration object.
type Config struct {
	Server        Server
	Inference     Inference
	Extraction    Extraction
	Registrar     Registrar
	Postgres      Postgres
	Redis         Redis
	Kafka         Kafka
	DefaultBucket string        `env:"UPLOAD_BUCKET" envDefault:"onboarding-uploads"`
	RegistryCache time.Duration `env:"REGISTRY_CACHE_TTL" envDefault:"5m"`
}

// FromEnv parses the full configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
