package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Hevy      HevyConfig      `yaml:"hevy"`
	AI        AIConfig        `yaml:"ai"`
	Planner   PlannerConfig   `yaml:"planner"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	// APIKey, when set, is required as X-API-Key on every /api route.
	APIKey string `yaml:"api_key"`
}

type HevyConfig struct {
	BaseURL  string        `yaml:"base_url"`
	PageSize int           `yaml:"page_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

type AIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type PlannerConfig struct {
	RunTimeout time.Duration `yaml:"run_timeout"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Trace exporters accepted in telemetry.exporter.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
)

// TelemetryConfig controls OpenTelemetry tracing. Endpoint is host:port of
// an OTLP/HTTP collector; URLPath overrides the default /v1/traces.
type TelemetryConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Exporter    string            `yaml:"exporter"`
	Endpoint    string            `yaml:"endpoint"`
	URLPath     string            `yaml:"url_path"`
	Insecure    bool              `yaml:"insecure"`
	Headers     map[string]string `yaml:"headers"`
	ServiceName string            `yaml:"service_name"`
	Environment string            `yaml:"environment"`
	SampleRatio float64           `yaml:"sample_ratio"`
}

// Default returns the configuration used for any field the file leaves unset.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 3000},
		Hevy: HevyConfig{
			BaseURL:  "https://api.hevy.com/v1",
			PageSize: 100,
			Timeout:  30 * time.Second,
		},
		AI: AIConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			Temperature: 0.7,
			Timeout:     90 * time.Second,
		},
		Planner:   PlannerConfig{RunTimeout: 5 * time.Minute},
		Tailscale: TailscaleConfig{Hostname: "hevyplan"},
		Telemetry: TelemetryConfig{
			Exporter:    ExporterOTLP,
			Endpoint:    "localhost:4318",
			ServiceName: "hevyplan",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A .env file in the working directory is loaded first if present. An empty
// path skips the file and uses defaults plus environment.
// Env vars use the prefix HEVYPLAN_ and underscore-separated paths:
//
//	HEVYPLAN_SERVER_HOST, HEVYPLAN_SERVER_PORT, HEVYPLAN_SERVER_API_KEY,
//	HEVYPLAN_HEVY_BASE_URL, HEVYPLAN_HEVY_PAGE_SIZE, HEVYPLAN_HEVY_TIMEOUT,
//	HEVYPLAN_AI_BASE_URL, HEVYPLAN_AI_API_KEY, HEVYPLAN_AI_MODEL, HEVYPLAN_AI_TIMEOUT,
//	HEVYPLAN_PLANNER_RUN_TIMEOUT,
//	HEVYPLAN_TAILSCALE_ENABLED, HEVYPLAN_TAILSCALE_HOSTNAME,
//	HEVYPLAN_TELEMETRY_ENABLED, HEVYPLAN_TELEMETRY_EXPORTER, HEVYPLAN_TELEMETRY_ENDPOINT,
//	HEVYPLAN_TELEMETRY_INSECURE, HEVYPLAN_TELEMETRY_ENVIRONMENT
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEVYPLAN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HEVYPLAN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HEVYPLAN_SERVER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("HEVYPLAN_HEVY_BASE_URL"); v != "" {
		cfg.Hevy.BaseURL = v
	}
	if v := os.Getenv("HEVYPLAN_HEVY_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Hevy.PageSize = n
		}
	}
	if v := os.Getenv("HEVYPLAN_HEVY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Hevy.Timeout = d
		}
	}
	if v := os.Getenv("HEVYPLAN_AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("HEVYPLAN_AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("HEVYPLAN_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("HEVYPLAN_AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AI.Timeout = d
		}
	}
	if v := os.Getenv("HEVYPLAN_PLANNER_RUN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Planner.RunTimeout = d
		}
	}
	if v := os.Getenv("HEVYPLAN_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("HEVYPLAN_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("HEVYPLAN_TELEMETRY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telemetry.Enabled = b
		}
	}
	if v := os.Getenv("HEVYPLAN_TELEMETRY_EXPORTER"); v != "" {
		cfg.Telemetry.Exporter = v
	}
	if v := os.Getenv("HEVYPLAN_TELEMETRY_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
	}
	if v := os.Getenv("HEVYPLAN_TELEMETRY_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telemetry.Insecure = b
		}
	}
	if v := os.Getenv("HEVYPLAN_TELEMETRY_ENVIRONMENT"); v != "" {
		cfg.Telemetry.Environment = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Hevy.BaseURL == "" {
		return fmt.Errorf("hevy.base_url is required")
	}
	if c.Hevy.PageSize < 1 {
		return fmt.Errorf("hevy.page_size must be positive")
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai.model is required")
	}
	if c.Planner.RunTimeout < 0 {
		return fmt.Errorf("planner.run_timeout must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Telemetry.Enabled {
		switch c.Telemetry.Exporter {
		case ExporterOTLP:
			if c.Telemetry.Endpoint == "" {
				return fmt.Errorf("telemetry.endpoint is required for the otlp exporter")
			}
		case ExporterStdout:
		default:
			return fmt.Errorf("telemetry.exporter must be %q or %q (got %q)", ExporterOTLP, ExporterStdout, c.Telemetry.Exporter)
		}
		if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
			return fmt.Errorf("telemetry.sample_ratio must be between 0 and 1")
		}
	}
	return nil
}
