package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/lovetrack/internal/config"
	"github.com/pfrederiksen/lovetrack/internal/kv"
	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/storage"
	"github.com/pfrederiksen/lovetrack/internal/tracker"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitRejected = 2 // import refused the backup
)

// EnvPassphrase names the environment variable consulted when --passphrase is not given.
const EnvPassphrase = "LOVETRACK_PASSPHRASE"

// CodedError carries a specific process exit code out of a command.
type CodedError struct {
	Code int
	Err  error
}

func (e *CodedError) Error() string {
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dataDir    string
	backend    string
	format     string
	verbose    bool

	// clock overrides the tracker clock in tests.
	clock func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lovetrack",
		Short: "Track how long you have been together",
		Long: `A CLI tool to track a relationship: how long it has lasted, upcoming
events and the trips you took together. Data is saved locally after every change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				return writeMetrics(cmd.ErrOrStderr())
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default $"+config.EnvConfigPath+" or ~/.config/lovetrack/config.yaml)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "Data directory (overrides config)")
	pf.StringVar(&opts.backend, "backend", "", "Storage backend: "+kv.BackendNames()+" (overrides config)")
	pf.StringVar(&opts.format, "format", "text", "Output format: text or json")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newStatusCmd(opts),
		newWatchCmd(opts),
		newSettingsCmd(opts),
		newEventCmd(opts),
		newTripCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newICSCmd(opts),
	)

	return cmd
}

// outputFormat validates the --format flag.
func (o *rootOptions) outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(o.format)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	return format, nil
}

// session is an opened data store and the tracker on top of it.
type session struct {
	cfg     *config.Config
	kv      kv.Store
	tracker *tracker.Tracker
}

func (s *session) Close() error {
	return s.kv.Close()
}

// open loads the configuration, applies flag overrides, configures logging and opens
// the tracker.
func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Level()
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	logger.Debug("Opening data store", logger.Fields{
		"data_dir": cfg.DataDir,
		"backend":  string(cfg.StorageBackend()),
	})

	store, err := kv.Open(cfg.StorageBackend(), cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	st := storage.New(store, storage.WithClock(o.now))
	return &session{
		cfg:     cfg,
		kv:      store,
		tracker: tracker.Open(st, o.now),
	}, nil
}

func (o *rootOptions) now() time.Time {
	if o.clock != nil {
		return o.clock()
	}
	return time.Now()
}

// passphrase returns the flag value or, if empty, $LOVETRACK_PASSPHRASE.
func passphrase(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(EnvPassphrase)
}

// writeMetrics dumps the run's counters and timings.
func writeMetrics(w io.Writer) error {
	return writeJSON(w, map[string]interface{}{"metrics": logger.GetMetricsSnapshot()})
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, NewRootCmd(), args, os.Stdin, stdout, stderr)
}

func execute(ctx context.Context, cmd *cobra.Command, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		var coded *CodedError
		if errors.As(err, &coded) {
			fmt.Fprintf(stderr, "Error: %v\n", coded.Err)
			return coded.Code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
