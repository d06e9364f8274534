package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"braces.dev/errtrace"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jcdickinson/docsrs-mcp/internal/config"
	"github.com/jcdickinson/docsrs-mcp/internal/crateinfo"
	"github.com/jcdickinson/docsrs-mcp/internal/docs"
	"github.com/jcdickinson/docsrs-mcp/internal/harvest"
	"github.com/jcdickinson/docsrs-mcp/internal/mcp"
	"github.com/jcdickinson/docsrs-mcp/internal/output"
)

var (
	debug        bool
	outputFormat string
	noColor      bool
	mirrorDir    string
)

// Shared state set up by PersistentPreRunE.
var (
	cfg       *config.Config
	harvester *harvest.Harvester
	cargo     *crateinfo.Runner
	registry  *docs.CratesIO
	stdout    *output.Renderer
	stderr    *output.Renderer
	closeLog  = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "docsrs-mcp",
	Short: "Rust crate documentation from docs.rs, over MCP or the command line",
	Long: `Reads rendered documentation pages from docs.rs and turns them into
structured records: the item catalog of a crate, or the description, methods,
traits and fields of one type. Without a subcommand it serves the MCP tools
over stdio.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { closeLog() },
	RunE:              runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// Execute runs the command line and exits with a status derived from the
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if stderr == nil {
			stderr = &output.Renderer{W: os.Stderr, Format: output.FormatText}
		}
		if !errors.Is(err, errReported) {
			stderr.Error(err)
			if debug {
				fmt.Fprint(os.Stderr, errtrace.FormatString(err))
			}
		}
		closeLog()
		os.Exit(ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&mirrorDir, "mirror", "", "read pages from a local docs.rs mirror directory instead of the network")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(searchCratesCmd)
	rootCmd.AddCommand(logsCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	output.InitColors(noColor)

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return usageError(err)
	}
	stdout = &output.Renderer{W: os.Stdout, Format: format}
	stderr = &output.Renderer{W: os.Stderr, Format: format}

	cfg, err = config.Load()
	if err != nil {
		return configError(fmt.Errorf("loading config: %w", err))
	}

	if err := setupLogging(cfg.Log); err != nil {
		return configError(err)
	}

	var fetcher docs.Fetcher = docs.NewHTTPFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent)
	if mirrorDir != "" {
		fetcher = docs.DirFetcher{Root: mirrorDir}
		slog.Debug("reading from mirror", "dir", mirrorDir)
	}
	harvester = harvest.New(&docs.SharedFetcher{Fetcher: fetcher}, docs.NewSite(cfg.DocsRs.BaseURL))
	cargo = &crateinfo.Runner{CargoPath: cfg.Cargo.Path}
	registry = docs.NewCratesIO(cfg.CratesIO.BaseURL, cfg.HTTP.Timeout, cfg.HTTP.UserAgent)
	return nil
}

// setupLogging sends slog output to log.file when set, stderr otherwise.
// Stdout is reserved for results and the MCP transport.
func setupLogging(lc config.LogConfig) error {
	level := lc.Level
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if lc.File == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
		return nil
	}

	logFile, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	closeLog = func() { logFile.Close() }
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, opts)))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	server := mcp.NewServer(harvester, cargo, registry, config.Version)

	if cfg.Metrics.Listen != "" {
		go serveMetrics(cfg.Metrics.Listen)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	if err := waitForSignal(errCh); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	slog.Info("serving metrics", "addr", addr, "path", "/metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Warn("metrics server stopped", "error", err)
	}
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case sig := <-sigs:
		slog.Info("received signal", "signal", sig)
		return nil
	case err := <-errCh:
		return err
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
