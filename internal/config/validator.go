package config

import (
	"fmt"
	"net/url"
)

// Validate checks cfg for a deliverable configuration and returns all
// problems found. An empty slice means the config is valid.
//
// Checks performed:
//   - vanguard.api_url must be set and be an absolute http(s) URL
//   - vanguard.api_key must be set
//   - vanguard.timeout_seconds must be positive
//   - remediation.queue_url must be set
//   - engine.workers must be positive
//
// All errors are collected before returning; Validate never stops at the
// first error. Dry runs skip validation entirely since they deliver
// nothing.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{fmt.Errorf("config is nil")}
	}

	var errs []error

	if cfg.Vanguard.APIURL == "" {
		errs = append(errs, fmt.Errorf("vanguard.api_url: required (set in cce.yaml or %s)", EnvVanguardAPIURL))
	} else if u, err := url.Parse(cfg.Vanguard.APIURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("vanguard.api_url: %q is not an absolute http(s) URL", cfg.Vanguard.APIURL))
	}

	if cfg.Vanguard.APIKey == "" {
		errs = append(errs, fmt.Errorf("vanguard.api_key: required (set in cce.yaml or %s)", EnvVanguardAPIKey))
	}

	if cfg.Vanguard.TimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("vanguard.timeout_seconds: must be positive, got %d", cfg.Vanguard.TimeoutSeconds))
	}

	if cfg.Remediation.QueueURL == "" {
		errs = append(errs, fmt.Errorf("remediation.queue_url: required (set in cce.yaml or %s)", EnvQueueURL))
	}

	if cfg.Engine.Workers < 1 {
		errs = append(errs, fmt.Errorf("engine.workers: must be positive, got %d", cfg.Engine.Workers))
	}

	return errs
}
