package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/IvanShishkin/mojibake-inspector/internal/config"
	"github.com/IvanShishkin/mojibake-inspector/internal/core"
	"github.com/IvanShishkin/mojibake-inspector/internal/filesystem"
	"github.com/IvanShishkin/mojibake-inspector/internal/index"
	"github.com/IvanShishkin/mojibake-inspector/internal/report"
	"github.com/IvanShishkin/mojibake-inspector/internal/watch"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "0.1.0"
	logger  *zap.Logger
	verbose bool
)

// errFound makes the process exit non-zero when mojibake was found
var errFound = errors.New("mojibake found")

func main() {
	rootCmd := &cobra.Command{
		Use:   "mojibake",
		Short: "Mojibake Inspector - find U+FFFD replacement characters",
		Long: `Finds U+FFFD REPLACEMENT CHARACTER occurrences left behind by text
decoding failures and reports them by file, line and column.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(stdinCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// newLogger builds a development logger when verbose, an error-only JSON
// logger otherwise
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}

// scanFlags are the configuration overrides shared by scan, check and watch
type scanFlags struct {
	exclude    []string
	report     bool
	format     string
	output     string
	locale     string
	showEmpty  bool
	noDefaults bool
}

func (f *scanFlags) register(cmd *cobra.Command, withReport bool) {
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "Extra exclude glob patterns (comma-separated)")
	cmd.Flags().BoolVar(&f.noDefaults, "no-default-excludes", false, "Do not apply the built-in exclude patterns")
	cmd.Flags().StringVar(&f.locale, "locale", "", "Message locale: en, ja")
	cmd.Flags().BoolVar(&f.showEmpty, "show-empty", false, "Print a message when nothing is found")
	if withReport {
		cmd.Flags().BoolVarP(&f.report, "report", "r", false, "Write a report file")
		cmd.Flags().StringVar(&f.format, "format", "", "Report format: text, json, yaml")
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "Report file path")
	}
}

// load reads the configuration for root and applies the flag overrides
func (f *scanFlags) load(cmd *cobra.Command, root string) (config.Config, error) {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return config.Config{}, err
	}

	// Override config with CLI flags
	if f.noDefaults {
		cfg.Exclude = nil
	}
	if len(f.exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, f.exclude...)
	}
	if f.locale != "" {
		cfg.Locale = f.locale
	}
	if cmd.Flags().Changed("show-empty") {
		cfg.ShowNoResultMessage = f.showEmpty
	}
	if f.report {
		cfg.Report.Enabled = true
	}
	if f.format != "" {
		cfg.Report.Format = f.format
	}
	if f.output != "" {
		cfg.Report.OutputPath = f.output
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg.Resolve(), nil
}

// newInspector wires the index, scan job and report writer over the OS filesystem
func newInspector(enumerator core.Enumerator, locale string) (*core.Inspector, *core.Job) {
	fs := afero.NewOsFs()
	idx := index.New()
	if enumerator == nil {
		enumerator = filesystem.NewWalker(fs, logger)
	}
	job := core.NewJob(idx, enumerator, filesystem.NewReader(fs), logger)
	return core.NewInspector(idx, job, report.NewWriter(fs, locale, logger), logger), job
}

func absDir(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to access %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", path)
	}
	return abs, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory tree for mojibake",
		Long: `Recursively scan a directory, skipping excluded paths, and report every
U+FFFD found. Press Ctrl-C to stop; files already scanned are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absDir(args)
			if err != nil {
				return err
			}
			cfg, err := flags.load(cmd, root)
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			out := newConsole(os.Stdout, cfg.Locale)
			out.banner(root)

			inspector, job := newInspector(nil, cfg.Locale)
			job.SetProgressCallback(out.progress)

			ctx, stop := signalContext()
			defer stop()

			result, err := inspector.ScanWorkspace(ctx, root, cfg)
			if result == nil {
				logger.Error("Scan failed", zap.Error(err))
				return err
			}

			out.findings(inspector.Index().Snapshot(), root)
			out.summary(result, cfg.ShowNoResultMessage)

			if err != nil {
				return err
			}
			if result.TotalCount > 0 {
				return errFound
			}
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}

// checkCmd creates the check command
func checkCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check individual files for mojibake",
		Long:  `Scan the named files and print one diagnostic per U+FFFD found.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			cfg, err := flags.load(cmd, root)
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			out := newConsole(os.Stdout, cfg.Locale)

			inspector, _ := newInspector(filesystem.NewFileList(afero.NewOsFs(), args, logger), cfg.Locale)

			ctx, stop := signalContext()
			defer stop()

			result, err := inspector.ScanWorkspace(ctx, root, cfg)
			if result == nil {
				return err
			}

			out.diagnostics(inspector.Index().Snapshot(), root)
			out.skipped(result)
			out.result(result.TotalCount, cfg.ShowNoResultMessage)

			if err != nil {
				return err
			}
			if result.TotalCount > 0 {
				return errFound
			}
			return nil
		},
	}

	flags.register(cmd, false)
	return cmd
}

// watchCmd creates the watch command
func watchCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Scan a directory, then rescan files as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absDir(args)
			if err != nil {
				return err
			}
			cfg, err := flags.load(cmd, root)
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			out := newConsole(os.Stdout, cfg.Locale)
			out.banner(root)

			inspector, _ := newInspector(nil, cfg.Locale)

			ctx, stop := signalContext()
			defer stop()

			result, err := inspector.ScanWorkspace(ctx, root, cfg)
			if err != nil {
				return err
			}
			out.findings(inspector.Index().Snapshot(), root)
			out.summary(result, cfg.ShowNoResultMessage)
			if result.Cancelled {
				return nil
			}

			idx := inspector.Index()
			unsubscribe := idx.Subscribe(func(e index.Event) {
				out.change(e, root)
			})
			defer unsubscribe()

			w, err := watch.New(afero.NewOsFs(), idx, root, cfg.Exclude, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			out.watching(root)
			return w.Run(ctx)
		},
	}

	flags.register(cmd, false)
	return cmd
}
