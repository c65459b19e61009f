package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/remylog/internal/client"
	"github.com/Tiliavir/remylog/internal/config"
	"github.com/Tiliavir/remylog/internal/recency"
	"github.com/Tiliavir/remylog/internal/storage"
)

var (
	configPath string
	dataPath   string
	serverURL  string
	timezone   string
	verbose    bool
)

// runtimeEnv is what every command needs once flags and config are resolved.
type runtimeEnv struct {
	cfg      config.Config
	store    storage.Store
	dataFile string
	loc      *time.Location
	reporter recency.Reporter
	logger   *slog.Logger
}

var env runtimeEnv

var rootCmd = &cobra.Command{
	Use:   "remylog",
	Short: "Remy Log – a tiny activity log for meals, naps, walks and potty breaks",
	Long: `remylog records timestamped activities (meals, naps, walks, bathroom breaks)
in a single JSON file and summarises them per day.

Run "remylog serve" for the web form, or log straight from the terminal.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// exitError carries the process exit code for an error: 1 for bad input,
// 2 for storage failures.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(err error) error   { return &exitError{code: 1, err: err} }
func storageErr(err error) error { return &exitError{code: 2, err: err} }

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.remylog/config.json)")
	pf.StringVar(&dataPath, "data", "", "Event log file (default ~/.remylog/log.json)")
	pf.StringVar(&serverURL, "server", "", "Use a running remylog server, e.g. http://localhost:3001")
	pf.StringVar(&timezone, "timezone", "", "IANA timezone for day boundaries (default: system)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(sinceCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setup resolves config and flags into env. Flags win over the config file.
func setup(cmd *cobra.Command, _ []string) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return usageErr(err)
	}
	if dataPath != "" {
		cfg.DataFile = dataPath
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}

	loc, err := cfg.Location()
	if err != nil {
		return usageErr(err)
	}

	env = runtimeEnv{
		cfg:      cfg,
		loc:      loc,
		reporter: cfg.Reporter(),
		logger:   logger,
	}

	if cfg.ServerURL != "" {
		logger.Debug("using remote server", "url", cfg.ServerURL)
		env.store = client.New(cmd.Context(), cfg.ServerURL, cfg.ServerToken)
		return nil
	}

	env.dataFile = cfg.DataFile
	if env.dataFile == "" {
		env.dataFile, err = storage.DefaultPath()
		if err != nil {
			return storageErr(err)
		}
	}
	logger.Debug("using data file", "path", env.dataFile)
	env.store = storage.NewFileStore(env.dataFile)
	return nil
}
