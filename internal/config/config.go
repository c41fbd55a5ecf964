// Package config loads the engine configuration from cce.yaml and the
// process environment. Environment variables override file values so the
// same binary runs unchanged in scheduled-task deployments where only
// the environment is available.
package config

// Config is the top-level application configuration.
// It must never be committed with real secrets.
type Config struct {
	Engine      EngineConfig      `yaml:"engine" json:"engine"`
	Vanguard    VanguardConfig    `yaml:"vanguard" json:"vanguard"`
	Remediation RemediationConfig `yaml:"remediation" json:"remediation"`
	AWS         AWSConfig         `yaml:"aws" json:"aws"`
}

// EngineConfig tunes the evaluation pipeline.
type EngineConfig struct {
	// ID identifies this engine instance in evidence records and the
	// run summary. Empty selects the built-in default.
	ID string `yaml:"id" json:"id"`

	// Workers bounds how many resources are evaluated concurrently.
	Workers int `yaml:"workers" json:"workers"`
}

// VanguardConfig configures evidence delivery to the Vanguard GRC agent.
type VanguardConfig struct {
	// APIURL is the evidence ingestion endpoint.
	APIURL string `yaml:"api_url" json:"api_url"`

	// APIKey is the bearer token presented on every POST.
	// Never committed to version control.
	APIKey string `yaml:"api_key" json:"api_key"`

	// TimeoutSeconds bounds each evidence POST.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// RemediationConfig configures remediation dispatch.
type RemediationConfig struct {
	// QueueURL is the SQS queue consumed by the remediation workers.
	QueueURL string `yaml:"queue_url" json:"queue_url"`
}

// AWSConfig holds AWS defaults used when flags are not provided.
type AWSConfig struct {
	// Profile is used when no --profile flag is provided.
	Profile string `yaml:"profile" json:"profile"`

	// Region is used when neither a flag nor the profile sets one.
	Region string `yaml:"region" json:"region"`
}
