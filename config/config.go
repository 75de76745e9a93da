package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Security    SecurityConfig
	Platform    PlatformConfig
	Pipeline    PipelineConfig
	Tracing     TracingConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SecurityConfig struct {
	// Passphrase used to decrypt channel access tokens at rest
	SecretKey string

	// HS256 secret for the operator API bearer tokens
	JWTSecret string
}

// PlatformConfig describes the advertising platform Graph API and its webhook
type PlatformConfig struct {
	GraphAPIBaseURL string
	GraphAPIVersion string

	// App secret used to verify X-Hub-Signature-256 on webhook deliveries.
	// Empty disables signature verification.
	AppSecret   string
	VerifyToken string

	RatePerMinute    int
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
}

// PipelineConfig holds the retry/recovery tunables of the lead pipeline
type PipelineConfig struct {
	MaxRetryAttempts int
	BaseDelay        time.Duration
	MaxBackoff       time.Duration
	StaleAfter       time.Duration
	BatchSize        int
	PollInterval     time.Duration
	RecoveryInterval time.Duration
	FetchTimeout     time.Duration
	WorkerCount      int
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// "jaeger", "zipkin", "stackdriver", "datadog", "xray" or "none"
	TraceExporter  string
	JaegerEndpoint string
	ZipkinEndpoint string

	// comma-separated: "prometheus", "stackdriver", "datadog" or "none"
	MetricsExporter string
	PrometheusPort  int

	StackdriverProjectID string
	DatadogAgentAddress  string
	XRayRegion           string
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "leadpipe")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// Graph API
	v.SetDefault("GRAPH_API_BASE_URL", "https://graph.facebook.com")
	v.SetDefault("GRAPH_API_VERSION", "v19.0")
	v.SetDefault("GRAPH_API_RATE_PER_MINUTE", 200)
	v.SetDefault("GRAPH_API_BREAKER_THRESHOLD", 5)
	v.SetDefault("GRAPH_API_BREAKER_COOLDOWN", "30s")

	// Pipeline
	v.SetDefault("PIPELINE_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("PIPELINE_BASE_DELAY", "2s")
	v.SetDefault("PIPELINE_MAX_BACKOFF", "1m")
	v.SetDefault("PIPELINE_STALE_AFTER", "5m")
	v.SetDefault("PIPELINE_BATCH_SIZE", 50)
	v.SetDefault("PIPELINE_POLL_INTERVAL", "30s")
	v.SetDefault("PIPELINE_RECOVERY_INTERVAL", "1m")
	v.SetDefault("PIPELINE_FETCH_TIMEOUT", "15s")
	v.SetDefault("PIPELINE_WORKER_COUNT", 1)

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "leadpipe")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)
	v.SetDefault("TRACING_TRACE_EXPORTER", "none")
	v.SetDefault("TRACING_JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	v.SetDefault("TRACING_ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")
	v.SetDefault("TRACING_METRICS_EXPORTER", "none")
	v.SetDefault("TRACING_PROMETHEUS_PORT", 9464)

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	secretKey := v.GetString("SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Security: SecurityConfig{
			SecretKey: secretKey,
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Platform: PlatformConfig{
			GraphAPIBaseURL:  strings.TrimRight(v.GetString("GRAPH_API_BASE_URL"), "/"),
			GraphAPIVersion:  v.GetString("GRAPH_API_VERSION"),
			AppSecret:        v.GetString("PLATFORM_APP_SECRET"),
			VerifyToken:      v.GetString("PLATFORM_VERIFY_TOKEN"),
			RatePerMinute:    v.GetInt("GRAPH_API_RATE_PER_MINUTE"),
			BreakerThreshold: v.GetUint32("GRAPH_API_BREAKER_THRESHOLD"),
			BreakerCooldown:  v.GetDuration("GRAPH_API_BREAKER_COOLDOWN"),
		},
		Pipeline: PipelineConfig{
			MaxRetryAttempts: v.GetInt("PIPELINE_MAX_RETRY_ATTEMPTS"),
			BaseDelay:        v.GetDuration("PIPELINE_BASE_DELAY"),
			MaxBackoff:       v.GetDuration("PIPELINE_MAX_BACKOFF"),
			StaleAfter:       v.GetDuration("PIPELINE_STALE_AFTER"),
			BatchSize:        v.GetInt("PIPELINE_BATCH_SIZE"),
			PollInterval:     v.GetDuration("PIPELINE_POLL_INTERVAL"),
			RecoveryInterval: v.GetDuration("PIPELINE_RECOVERY_INTERVAL"),
			FetchTimeout:     v.GetDuration("PIPELINE_FETCH_TIMEOUT"),
			WorkerCount:      v.GetInt("PIPELINE_WORKER_COUNT"),
		},
		Tracing: TracingConfig{
			Enabled:             v.GetBool("TRACING_ENABLED"),
			ServiceName:         v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability: v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),
			TraceExporter:       v.GetString("TRACING_TRACE_EXPORTER"),
			JaegerEndpoint:      v.GetString("TRACING_JAEGER_ENDPOINT"),
			ZipkinEndpoint:      v.GetString("TRACING_ZIPKIN_ENDPOINT"),
			MetricsExporter:     v.GetString("TRACING_METRICS_EXPORTER"),
			PrometheusPort:      v.GetInt("TRACING_PROMETHEUS_PORT"),

			StackdriverProjectID: v.GetString("TRACING_STACKDRIVER_PROJECT_ID"),
			DatadogAgentAddress:  v.GetString("TRACING_DATADOG_AGENT_ADDRESS"),
			XRayRegion:           v.GetString("TRACING_XRAY_REGION"),
		},
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	if err := config.Pipeline.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects pipeline settings that would stall or spin the scheduler
func (p PipelineConfig) Validate() error {
	if p.MaxRetryAttempts < 1 {
		return fmt.Errorf("PIPELINE_MAX_RETRY_ATTEMPTS must be at least 1")
	}
	if p.BaseDelay < 0 || p.MaxBackoff < 0 {
		return fmt.Errorf("pipeline backoff durations must not be negative")
	}
	if p.StaleAfter <= 0 {
		return fmt.Errorf("PIPELINE_STALE_AFTER must be positive")
	}
	if p.BatchSize < 1 {
		return fmt.Errorf("PIPELINE_BATCH_SIZE must be at least 1")
	}
	if p.PollInterval <= 0 || p.RecoveryInterval <= 0 {
		return fmt.Errorf("pipeline intervals must be positive")
	}
	if p.WorkerCount < 1 {
		return fmt.Errorf("PIPELINE_WORKER_COUNT must be at least 1")
	}
	return nil
}

// GraphAPIURL returns the versioned Graph API root, e.g. https://graph.facebook.com/v19.0
func (p PlatformConfig) GraphAPIURL() string {
	if p.GraphAPIVersion == "" {
		return p.GraphAPIBaseURL
	}
	return p.GraphAPIBaseURL + "/" + p.GraphAPIVersion
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
