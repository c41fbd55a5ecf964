package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanguard-grc/cce-engine/internal/config"
	"github.com/vanguard-grc/cce-engine/internal/providers/aws/common"
	"github.com/vanguard-grc/cce-engine/internal/sinks"
)

// DoctorResult is the structured output of cce doctor. It can be serialised
// to JSON via --format=json or rendered as a human-readable table (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	Vanguard struct {
		Configured bool   `json:"configured"`
		Endpoint   string `json:"endpoint,omitempty"`
		Error      string `json:"error,omitempty"`
	} `json:"vanguard"`

	Queue struct {
		Configured bool   `json:"configured"`
		Reachable  bool   `json:"reachable"`
		Error      string `json:"error,omitempty"`
	} `json:"queue"`

	Config struct {
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"config"`

	OverallHealthy bool `json:"overall_healthy"`
}

// queueProber checks that the remediation queue is reachable.
type queueProber interface {
	Probe(ctx context.Context) error
}

// queueProberFactory builds a prober for a loaded profile and queue URL.
// Production uses the SQS sink; tests substitute fakes.
type queueProberFactory func(profile *common.ProfileConfig, queueURL string) queueProber

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")
			configPath, _ := cmd.Flags().GetString("config")
			result, err := runDoctor(
				context.Background(),
				common.NewDefaultAWSClientProvider(),
				func(p *common.ProfileConfig, q string) queueProber {
					return sinks.NewSQSRemediationSink(p, q)
				},
				cmd.OutOrStdout(),
				format,
				profile,
				configPath,
			)
			if err != nil {
				// Rendering failure; let Cobra and main handle it.
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main.go's
				// fmt.Fprintln(os.Stderr, err) path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().String("profile", "", "AWS profile to use (default: credential chain)")
	cmd.Flags().String("config", config.DefaultPath, "Path to the configuration file")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures (e.g. JSON encode error).
// Callers must inspect result.OverallHealthy to determine whether the
// environment is healthy; runDoctor itself never returns an error for an
// unhealthy result so that no error text leaks to callers (such as main).
func runDoctor(ctx context.Context, awsProvider common.AWSClientProvider, newProber queueProberFactory, w io.Writer, format, profile, configPath string) (DoctorResult, error) {
	result := collectDoctorResult(ctx, awsProvider, newProber, profile, configPath)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
// It performs no rendering; callers decide how to present the result.
func collectDoctorResult(ctx context.Context, awsProvider common.AWSClientProvider, newProber queueProberFactory, profile, configPath string) DoctorResult {
	var result DoctorResult

	// Config: load → validate. A missing file is fine when the
	// environment supplies everything.
	if _, statErr := os.Stat(configPath); statErr == nil {
		result.Config.Present = true
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		result.Config.Errors = []string{err.Error()}
		cfg = &config.Config{}
	} else if errs := config.Validate(cfg); len(errs) == 0 {
		result.Config.Valid = true
	} else {
		for _, e := range errs {
			result.Config.Errors = append(result.Config.Errors, e.Error())
		}
	}

	// Vanguard: endpoint and key presence plus URL sanity. No network
	// probe; posting test evidence to a production GRC intake is not safe.
	result.Vanguard.Endpoint = cfg.Vanguard.APIURL
	if cfg.Vanguard.APIURL == "" || cfg.Vanguard.APIKey == "" {
		result.Vanguard.Error = fmt.Sprintf("api_url and api_key must both be set (%s, %s)",
			config.EnvVanguardAPIURL, config.EnvVanguardAPIKey)
	} else if u, parseErr := url.Parse(cfg.Vanguard.APIURL); parseErr != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		result.Vanguard.Error = fmt.Sprintf("api_url %q is not an absolute http(s) URL", cfg.Vanguard.APIURL)
	} else {
		result.Vanguard.Configured = true
	}

	// AWS: credentials → STS account ID.
	// An empty profile string selects the default credential chain.
	if profile == "" {
		profile = cfg.AWS.Profile
	}
	if profile != "" {
		result.AWS.Profile = profile
	}
	profileCfg, err := awsProvider.LoadProfile(ctx, profile, cfg.AWS.Region)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID
	}

	// Queue: URL presence → reachability probe. The probe needs loaded
	// credentials, so it is skipped when the AWS check failed.
	if cfg.Remediation.QueueURL == "" {
		result.Queue.Error = fmt.Sprintf("queue_url not set (cce.yaml remediation.queue_url or %s)", config.EnvQueueURL)
	} else {
		result.Queue.Configured = true
		if profileCfg == nil {
			result.Queue.Error = "skipped: AWS credentials unavailable"
		} else if probeErr := newProber(profileCfg, cfg.Remediation.QueueURL).Probe(ctx); probeErr != nil {
			result.Queue.Error = probeErr.Error()
		} else {
			result.Queue.Reachable = true
		}
	}

	result.OverallHealthy = result.AWS.Credentials &&
		result.Vanguard.Configured &&
		result.Queue.Reachable &&
		result.Config.Valid

	return result
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
	}

	fmt.Fprintln(w, "\nVanguard:")
	if result.Vanguard.Configured {
		doctorPrint(w, "Evidence API", "OK", result.Vanguard.Endpoint)
	} else {
		doctorPrint(w, "Evidence API", "FAIL", result.Vanguard.Error)
	}

	fmt.Fprintln(w, "\nRemediation Queue:")
	if !result.Queue.Configured {
		doctorPrint(w, "Queue URL", "FAIL", result.Queue.Error)
		doctorPrint(w, "Queue Reachable", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Queue URL", "OK", "")
		if result.Queue.Reachable {
			doctorPrint(w, "Queue Reachable", "OK", "")
		} else {
			doctorPrint(w, "Queue Reachable", "FAIL", result.Queue.Error)
		}
	}

	fmt.Fprintln(w, "\nConfig:")
	if result.Config.Present {
		doctorPrint(w, "cce.yaml present", "YES", "")
	} else {
		doctorPrint(w, "cce.yaml present", "Not found (environment-only)", "")
	}
	if result.Config.Valid {
		doctorPrint(w, "Config valid", "OK", "")
	} else {
		for _, e := range result.Config.Errors {
			doctorPrint(w, "Config valid", "FAIL", e)
		}
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
