package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/9wick/enbu/adapter"
	"github.com/9wick/enbu/executor"
	"github.com/9wick/enbu/flow"
	"github.com/9wick/enbu/progress"
)

var (
	outputFile        string
	outputFormat      string
	dryRun            bool
	bail              bool
	screenshotOnError bool
	waitTimeout       time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <flow-file>",
	Short: "Execute a flow",
	Long: `Execute a browser automation flow from a YAML file, emitting a
line-delimited JSON progress protocol to stdout as each step completes.

Examples:
  # Run a flow
  enbu run flow.yaml

  # Run with variables, stopping at the first failure
  enbu run flow.yaml --var username=admin --bail

  # Validate without executing
  enbu run flow.yaml --dry-run

  # Save a markdown summary alongside the progress stream
  enbu run flow.yaml --output results.md --format markdown
`,
	Args: cobra.ExactArgs(1),
	RunE: runFlow,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Save a summary to file (format from --format or the extension)")
	runCmd.Flags().StringVar(&outputFormat, "format", "", "Summary format: json, markdown, junit")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the flow without executing it")
	runCmd.Flags().BoolVar(&bail, "bail", false, "Stop at the first failed step")
	runCmd.Flags().BoolVar(&screenshotOnError, "screenshot-on-error", false, "Capture a screenshot to the temp directory when a step fails")
	runCmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 5*time.Second, "Default auto-wait timeout before an interaction")
}

func runFlow(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := flow.ValidateFile(path, parseVariables())
	if err != nil {
		return fmt.Errorf("%s: invalid: %w", path, err)
	}
	if dryRun {
		fmt.Fprintf(os.Stderr, "%s: valid (%d steps), dry-run requested, not executing\n", path, f.StepCount())
		return nil
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
		os.Setenv("ENBU_DEBUG", "1")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	browser, err := adapter.New(adapter.Config{BinaryPath: driverPath})
	if err != nil {
		return fmt.Errorf("locating driver: %w", err)
	}

	ctx, cancel := context.WithCancel(adapter.ContextWithLogger(context.Background(), adapter.NewDebugLogger()))
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nreceived interrupt, cancelling...")
		cancel()
	}()

	ex := executor.New(executor.Config{
		Adapter:            browser,
		Emitter:            progress.NewEmitter(os.Stdout),
		Bail:               bail,
		DefaultWaitTimeout: waitTimeout,
		SessionName:        sessionName,
		SessionPrefix:      sessionPrefix,
		ScreenshotOnError:  screenshotOnError,
	})

	result, err := ex.Run(ctx, f)
	if err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}

	if outputFile != "" {
		if err := writeSummary(result, outputFile, outputFormat); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	if result.Failed() {
		return fmt.Errorf("flow %s failed", f.Name())
	}
	return nil
}
