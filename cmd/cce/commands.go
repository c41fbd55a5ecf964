package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanguard-grc/cce-engine/internal/config"
	"github.com/vanguard-grc/cce-engine/internal/engine"
	"github.com/vanguard-grc/cce-engine/internal/models"
	"github.com/vanguard-grc/cce-engine/internal/output"
	"github.com/vanguard-grc/cce-engine/internal/providers/aws/common"
	awsstorage "github.com/vanguard-grc/cce-engine/internal/providers/aws/storage"
	storagepack "github.com/vanguard-grc/cce-engine/internal/rulepacks/storage"
	"github.com/vanguard-grc/cce-engine/internal/rules"
	"github.com/vanguard-grc/cce-engine/internal/sinks"
	"github.com/vanguard-grc/cce-engine/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cce",
		Short: "Continuous compliance engine for cloud storage",
	}
	root.AddCommand(newCheckCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run compliance checks against cloud resources",
	}
	cmd.AddCommand(newStorageCmd())
	return cmd
}

func newStorageCmd() *cobra.Command {
	var (
		profile    string
		region     string
		configPath string
		workers    int
		reportFmt  string
		outputPath string
		dryRun     bool
		colored    bool
	)

	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Check S3 buckets for public-access, encryption, and versioning compliance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// Dry runs deliver nothing, so endpoint configuration is not
			// required for them.
			if !dryRun {
				if errs := config.Validate(cfg); len(errs) > 0 {
					return fmt.Errorf("invalid configuration:\n%s", joinErrors(errs))
				}
			}
			if profile == "" {
				profile = cfg.AWS.Profile
			}
			if region == "" {
				region = cfg.AWS.Region
			}
			if workers > 0 {
				cfg.Engine.Workers = workers
			}

			provider := common.NewDefaultAWSClientProvider()
			profileCfg, err := provider.LoadProfile(cmd.Context(), profile, region)
			if err != nil {
				return fmt.Errorf("load AWS profile: %w", err)
			}

			collector := awsstorage.NewBucketCollector(profileCfg)

			registry := rules.NewDefaultRegistry()
			storagepack.Register(registry)

			var (
				evidence    engine.EvidenceSink
				remediation engine.RemediationSink
			)
			if dryRun {
				dry := sinks.NewLogSink(cmd.OutOrStdout())
				evidence, remediation = dry, dry
			} else {
				evidence = sinks.NewVanguardSink(
					cfg.Vanguard.APIURL,
					cfg.Vanguard.APIKey,
					time.Duration(cfg.Vanguard.TimeoutSeconds)*time.Second,
				)
				remediation = sinks.NewSQSRemediationSink(profileCfg, cfg.Remediation.QueueURL)
			}

			pipeline := engine.NewDefaultPipeline(collector, collector, registry, evidence, remediation, engine.PipelineOptions{
				EngineID: cfg.Engine.ID,
				Workers:  cfg.Engine.Workers,
			})

			summary, err := pipeline.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("check storage: %w", err)
			}

			if outputPath != "" {
				if err := writeSummaryToFile(outputPath, summary); err != nil {
					return err
				}
			}

			if reportFmt == "json" {
				if err := printJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				printSummary(cmd.OutOrStdout(), summary, colored)
			}

			// Schedulers must distinguish "all compliant" from "some
			// resources could not be checked": partial runs exit 1.
			if code := exitCodeFor(summary); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile name (default: config file, then credential chain)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default: config file, then profile region)")
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to the configuration file")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent resource evaluations (default: config file value)")
	cmd.Flags().StringVar(&reportFmt, "report", "table", "Output format: json or table")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write full JSON summary to this file path (in addition to stdout output)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print evidence and remediation payloads instead of delivering them")
	cmd.Flags().BoolVar(&colored, "color", false, "Colorize status labels in table output")

	return cmd
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List registered compliance rules",
		Run: func(cmd *cobra.Command, args []string) {
			printRules(cmd.OutOrStdout())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// joinErrors flattens validation errors into one indented block.
func joinErrors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  - " + err.Error()
	}
	return strings.Join(lines, "\n")
}

// printRules renders the storage rule set with its control and playbook
// mappings.
func printRules(w io.Writer) {
	header := fmt.Sprintf("%-24s  %-26s  %-8s  %s", "CHECK ID", "NAME", "CONTROL", "PLAYBOOK")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)+24))
	for _, r := range storagepack.New() {
		_, playbook := engine.RemediationPlan(r.ID())
		fmt.Fprintf(w, "%-24s  %-26s  %-8s  %s\n",
			r.ID(), r.Name(), engine.ControlFor(models.KindS3Bucket), playbook)
	}
}

// printJSON writes the summary as indented JSON to w.
func printJSON(w io.Writer, summary *models.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// writeSummaryToFile serialises summary as indented JSON and writes it to
// path, creating or overwriting the file. It does not affect stdout output.
func writeSummaryToFile(path string, summary *models.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary file %q: %w", path, err)
	}
	return nil
}

// printSummary renders a run header, the per-resource outcome table, and
// the failed-to-process list.
func printSummary(w io.Writer, summary *models.RunSummary, colored bool) {
	fmt.Fprintf(w, "Run:      %s\n", summary.RunID)
	fmt.Fprintf(w, "Engine:   %s\n", summary.EngineID)
	fmt.Fprintf(w, "Duration: %s\n", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Processed: %d   Passed: %d   Failed: %d   Remediation requested: %d\n",
		summary.ProcessedCount, summary.PassedCount, summary.FailedCount, summary.RemediationRequested)
	fmt.Fprintln(w)

	output.RenderTable(w, summary.Results, output.TableOptions{Colored: colored})

	if len(summary.FailedToProcess) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Failed to process %d resource(s):\n", len(summary.FailedToProcess))
		for _, id := range summary.FailedToProcess {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
}

// exitCodeFor maps a pipeline result to the process exit code contract:
// 0 all processed, 1 partial processing, 2 fatal (handled by main).
func exitCodeFor(summary *models.RunSummary) int {
	if len(summary.FailedToProcess) > 0 {
		return 1
	}
	return 0
}
