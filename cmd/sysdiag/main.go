// sysdiag — Linux hardware, kernel config, and log introspection
// engine. A single binary exposing diagnose/hardware/kernel/logs/
// recommend subcommands over JSON, plus an MCP stdio server for
// AI-driven diagnostics.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/infenix/sysdiag/internal/config"
	"github.com/infenix/sysdiag/internal/engine"
	"github.com/infenix/sysdiag/internal/mcpserver"
	"github.com/infenix/sysdiag/internal/sysaccess"
	"github.com/infenix/sysdiag/internal/telemetry"
)

var version = "0.1.0"

func main() {
	var (
		verbose    bool
		procRoot   string
		sysRoot    string
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "sysdiag",
		Short: "Linux hardware and kernel diagnostic engine",
		Long: `sysdiag — single Go binary for Linux hardware, kernel config, and
log introspection.

Reads /proc and /sys directly, shells out to standard utilities
(lspci, lsusb, lsblk, ip, iwconfig), and applies a layered
recommendation rule base over the result. Produces structured JSON
reports for direct use or for an AI agent via the bundled MCP server.`,
		Version: version,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&procRoot, "proc-root", "/proc", "Root path to mount /proc under (for testing)")
	rootCmd.PersistentFlags().StringVar(&sysRoot, "sys-root", "/sys", "Root path to mount /sys under (for testing)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "/etc/sysdiag.yaml", "Optional YAML config file seeding option defaults")

	loadFileConfig := func() config.FileConfig {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sysdiag: ignoring config file %s: %v\n", configPath, err)
			return config.FileConfig{}
		}
		return fc
	}

	newEngine := func() *engine.Engine {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		roots := loadFileConfig().ApplyToRoots(config.Roots{ProcRoot: procRoot, SysRoot: sysRoot})
		return engine.New(sysaccess.NewLinuxSystem(), roots, telemetry.New(level))
	}

	var (
		diagHardware bool
		diagKernel   bool
		diagLogs     bool
		diagSources  string
		diagRecs     bool
		diagOutput   string
	)
	diagnoseCmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run a full diagnostic snapshot",
		Long:  "Collect hardware, kernel config, and log analysis in one pass, then generate recommendations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := loadFileConfig().ApplyTo(config.DefaultDiagnoseOptions())
			if cmd.Flags().Changed("hardware") {
				opts.IncludeHardware = diagHardware
			}
			if cmd.Flags().Changed("kernel") {
				opts.IncludeKernel = diagKernel
			}
			if cmd.Flags().Changed("logs") {
				opts.IncludeLogs = diagLogs
			}
			if cmd.Flags().Changed("recommend") {
				opts.GenerateRecommendations = diagRecs
			}
			if diagSources != "" {
				opts.LogSources = strings.Split(diagSources, ",")
			}

			env := newEngine().Diagnose(cmd.Context(), opts)
			return writeEnvelope(env, diagOutput)
		},
	}
	diagnoseCmd.Flags().BoolVar(&diagHardware, "hardware", true, "Include hardware subsystem analysis")
	diagnoseCmd.Flags().BoolVar(&diagKernel, "kernel", true, "Include kernel config analysis")
	diagnoseCmd.Flags().BoolVar(&diagLogs, "logs", true, "Include log pipeline analysis")
	diagnoseCmd.Flags().StringVar(&diagSources, "log-sources", "", "Comma-separated log sources (default: journald,syslog,kern.log)")
	diagnoseCmd.Flags().BoolVar(&diagRecs, "recommend", true, "Generate recommendations from the snapshot")
	diagnoseCmd.Flags().StringVarP(&diagOutput, "output", "o", "-", "Output file path (- for stdout)")

	var (
		hwComponents string
		hwOutput     string
	)
	hardwareCmd := &cobra.Command{
		Use:   "hardware",
		Short: "Run hardware diagnostics for named components",
		Long:  "Run cpu/memory/storage/network/pci/usb/graphics analyzers (or all, if none named) and report pass/fail.",
		RunE: func(cmd *cobra.Command, args []string) error {
			components := map[string]bool{}
			if hwComponents != "" {
				for _, name := range strings.Split(hwComponents, ",") {
					name = strings.TrimSpace(name)
					if name != "" {
						components[name] = true
					}
				}
			}
			env := newEngine().RunHardwareDiagnostics(cmd.Context(), components)
			return writeEnvelope(env, hwOutput)
		},
	}
	hardwareCmd.Flags().StringVarP(&hwComponents, "components", "c", "", "Comma-separated component names (default: all)")
	hardwareCmd.Flags().StringVarP(&hwOutput, "output", "o", "-", "Output file path (- for stdout)")

	var kernelOutput string
	kernelCmd := &cobra.Command{
		Use:   "kernel",
		Short: "Analyze kernel config security and performance findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.DiagnoseOptions{IncludeKernel: true, GenerateRecommendations: true, LogSources: config.DefaultDiagnoseOptions().LogSources}
			env := newEngine().Diagnose(cmd.Context(), opts)
			return writeEnvelope(env, kernelOutput)
		},
	}
	kernelCmd.Flags().StringVarP(&kernelOutput, "output", "o", "-", "Output file path (- for stdout)")

	var (
		logsSources string
		logsOutput  string
	)
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Analyze system logs for issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.DiagnoseOptions{IncludeLogs: true, GenerateRecommendations: true}
			opts.LogSources = config.DefaultDiagnoseOptions().LogSources
			if logsSources != "" {
				opts.LogSources = strings.Split(logsSources, ",")
			}
			env := newEngine().Diagnose(cmd.Context(), opts)
			return writeEnvelope(env, logsOutput)
		},
	}
	logsCmd.Flags().StringVar(&logsSources, "sources", "", "Comma-separated log sources (default: journald,syslog,kern.log)")
	logsCmd.Flags().StringVarP(&logsOutput, "output", "o", "-", "Output file path (- for stdout)")

	var recommendOutput string
	recommendCmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run a full diagnose and print only the recommendation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := newEngine()
			opts := config.DefaultDiagnoseOptions()
			opts.GenerateRecommendations = false
			diagEnv := eng.Diagnose(cmd.Context(), opts)
			if !diagEnv.Success {
				return writeEnvelope(diagEnv, recommendOutput)
			}
			d, ok := diagEnv.Payload.(engine.Diagnostic)
			if !ok {
				return fmt.Errorf("unexpected diagnose payload type")
			}
			env := eng.GenerateRecommendations(&d)
			return writeEnvelope(env, recommendOutput)
		},
	}
	recommendCmd.Flags().StringVarP(&recommendOutput, "output", "o", "-", "Output file path (- for stdout)")

	var queryOutput string
	queryCmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Classify a free-form question into intent/component/timeframe/severity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := newEngine().InterpretQuery(args[0])
			return writeEnvelope(env, queryOutput)
		},
	}
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "-", "Output file path (- for stdout)")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP stdio server",
		Long:  "Expose diagnose/interpret_query/generate_recommendations/run_hardware_diagnostics as MCP tools over stdio.",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcpserver.NewServer(version, newEngine())
			return srv.Start(cmd.Context())
		},
	}

	rootCmd.AddCommand(diagnoseCmd, hardwareCmd, kernelCmd, logsCmd, recommendCmd, queryCmd, mcpCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// writeEnvelope marshals an Envelope as indented JSON to the named
// path, or stdout when path is "-".
func writeEnvelope(env engine.Envelope, path string) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" || path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, data, 0644)
}
