package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = "./cce.yaml"

const (
	defaultWorkers        = 4
	defaultTimeoutSeconds = 10
)

// Environment variable names, shared with the hosted deployment.
const (
	EnvVanguardAPIURL = "VANGUARD_AGENT_API_URL"
	EnvVanguardAPIKey = "VANGUARD_API_KEY"
	EnvQueueURL       = "SQS_QUEUE_URL"
	EnvEngineID       = "CCE_ENGINE_ID"
	EnvAWSProfile     = "AWS_PROFILE"
)

// Load reads the configuration file at path, applies environment
// overrides and defaults, and returns the result. A missing file is not
// an error: environment-only deployments carry no cce.yaml. Load does
// not validate; callers that need a deliverable configuration run
// Validate on the result.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyEnv overlays environment variables onto cfg. Set variables win
// over file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvVanguardAPIURL); v != "" {
		cfg.Vanguard.APIURL = v
	}
	if v := os.Getenv(EnvVanguardAPIKey); v != "" {
		cfg.Vanguard.APIKey = v
	}
	if v := os.Getenv(EnvQueueURL); v != "" {
		cfg.Remediation.QueueURL = v
	}
	if v := os.Getenv(EnvEngineID); v != "" {
		cfg.Engine.ID = v
	}
	if v := os.Getenv(EnvAWSProfile); v != "" && cfg.AWS.Profile == "" {
		cfg.AWS.Profile = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = defaultWorkers
	}
	if cfg.Vanguard.TimeoutSeconds == 0 {
		cfg.Vanguard.TimeoutSeconds = defaultTimeoutSeconds
	}
}
