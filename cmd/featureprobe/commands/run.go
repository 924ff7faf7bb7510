package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/bartekus/featureprobe/cmd/featureprobe/internal/clierr"
	"github.com/bartekus/featureprobe/internal/config"
	"github.com/bartekus/featureprobe/internal/logging"
	"github.com/bartekus/featureprobe/internal/probes"
	"github.com/bartekus/featureprobe/internal/projectroot"
	"github.com/bartekus/featureprobe/internal/runner"
)

type runOptions struct {
	configPath   string
	stateDir     string
	json         bool
	exportPath   string
	exportFormat string
}

// session is everything a run command needs, resolved from flags and config.
type session struct {
	cfg    config.Config
	log    *zap.Logger
	store  *runner.StateStore
	runner *runner.Runner
	format runner.Format
}

func newRunCmd(opts *runOptions) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run <command|probe...> [flags]",
		Short: "Run feature probes",
		Long: `Run the probe table, or the named probes, in declaration order.
Maintains state in .featureprobe/run to allow resuming failures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// If argument is not a subcommand, treat it as a probe name
			s, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			results, err := s.runner.RunList(cmd.Context(), args)
			return finish(cmd, s, opts, results, err)
		},
	}

	runCmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run all probes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(cmd, opts)
		},
	})

	runCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available probes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return listProbes(cmd.OutOrStdout(), s.runner.Probes(), opts.json)
		},
	})

	runCmd.AddCommand(&cobra.Command{
		Use:   "resume",
		Short: "Re-run the probes that failed in the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			results, err := s.runner.Resume(cmd.Context())
			if err == nil && results == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No failed probes to resume.")
			}
			return finish(cmd, s, opts, results, err)
		},
	})

	runCmd.AddCommand(&cobra.Command{
		Use:   "report",
		Short: "Show last run status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			last, err := s.store.ReadLastRun()
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), last, opts.json)
		},
	})

	runCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return s.store.Reset()
		},
	})

	return runCmd
}

func runAll(cmd *cobra.Command, opts *runOptions) error {
	s, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	results, err := s.runner.RunAll(cmd.Context())
	return finish(cmd, s, opts, results, err)
}

func setup(cmd *cobra.Command, opts *runOptions) (*session, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := projectroot.Find(wd)
	if err != nil {
		return nil, err
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.Discover(root)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitSetup, "loading config", err)
	}

	format, err := runner.ParseFormat(opts.exportFormat)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitSetup, "invalid --format", err)
	}

	logDir := cfg.LogDir
	if logDir != "" && !filepath.IsAbs(logDir) {
		logDir = filepath.Join(root, logDir)
	}
	log, err := logging.NewLogger(logDir, cfg.LogLevel)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitSetup, "creating logger", err)
	}

	stateDir := cfg.StateDir
	if opts.stateDir != "" {
		stateDir = opts.stateDir
	}
	if !filepath.IsAbs(stateDir) {
		stateDir = filepath.Join(root, stateDir)
	}
	store := runner.NewStateStore(stateDir)

	var printer *runner.Printer
	if !opts.json {
		out := cmd.OutOrStdout()
		printer = runner.NewPrinter(out, useColor(cfg.Color, out))
	}

	table := probes.Without(probes.Registry(probes.Options{
		AsyncDelay: cfg.AsyncDelay,
		Logger:     log,
	}), cfg.Skip)

	log.Debug("session ready",
		zap.String("root", root),
		zap.String("config", cfgPath),
		zap.String("state_dir", stateDir),
		zap.Int("probes", len(table)),
	)

	return &session{
		cfg:    cfg,
		log:    log,
		store:  store,
		runner: runner.NewRunner(table, store, &runner.Deps{Logger: log, Printer: printer}),
		format: format,
	}, nil
}

// finish prints and exports results, then maps the run error onto an exit code.
func finish(cmd *cobra.Command, s *session, opts *runOptions, results []runner.Result, runErr error) error {
	defer func() { _ = s.log.Sync() }()

	if results != nil {
		if opts.json {
			if err := runner.Export(cmd.OutOrStdout(), runner.FormatJSON, results); err != nil {
				return err
			}
		}
		if opts.exportPath != "" {
			if err := exportTo(opts.exportPath, s.format, results); err != nil {
				return fmt.Errorf("exporting results: %w", err)
			}
		}
	}

	return exitError(runErr)
}

func exitError(err error) error {
	if err == nil {
		return nil
	}
	var fault *runner.SetupFault
	if errors.As(err, &fault) {
		return clierr.Wrap(clierr.ExitSetup, "cannot run probes", err)
	}
	var failed *runner.FailedError
	if errors.As(err, &failed) {
		return clierr.Wrap(clierr.ExitProbeFailed, "run failed", err)
	}
	return err
}

func exportTo(path string, format runner.Format, results []runner.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()
	return runner.Export(f, format, results)
}

// useColor resolves the color mode; "auto" colors only a terminal.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func listProbes(w io.Writer, table []runner.Probe, asJSON bool) error {
	if asJSON {
		names := make([]string, 0, len(table))
		for _, p := range table {
			names = append(names, p.Name)
		}
		return writeJSON(w, map[string]any{"probes": names})
	}

	width := 0
	for _, p := range table {
		width = max(width, runewidth.StringWidth(p.Name))
	}
	for _, p := range table {
		_, _ = fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(p.Name, width), p.Doc)
	}
	return nil
}

func printReport(w io.Writer, last *runner.LastRun, asJSON bool) error {
	if asJSON {
		return writeJSON(w, last)
	}

	if last == nil {
		_, _ = fmt.Fprintln(w, "No run state found.")
		return nil
	}

	_, _ = fmt.Fprintf(w, "Status: %s\n", last.Status)
	_, _ = fmt.Fprintf(w, "Passed: %d  Failed: %d  Errored: %d  Info: %d\n",
		last.Summary.Passed, last.Summary.Failed, last.Summary.Errored, last.Summary.Info)
	if len(last.Failed) > 0 {
		_, _ = fmt.Fprintln(w, "Failed:")
		for _, f := range last.Failed {
			_, _ = fmt.Fprintf(w, "  - %s\n", f)
		}
	} else {
		_, _ = fmt.Fprintln(w, "All passed.")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
