// Package main provides the CLI entrypoint for tuicount.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuicount/internal/config"
	"github.com/verte-zerg/tuicount/internal/logging"
	"github.com/verte-zerg/tuicount/internal/logsink"
	"github.com/verte-zerg/tuicount/internal/model"
	"github.com/verte-zerg/tuicount/internal/monitor"
	"github.com/verte-zerg/tuicount/internal/report"
	"github.com/verte-zerg/tuicount/internal/sessionsui"
	"github.com/verte-zerg/tuicount/internal/store"
	"github.com/verte-zerg/tuicount/internal/tui"
)

const (
	defaultPeriod      = monitor.DefaultPeriod
	defaultFrame       = tui.DefaultFrame
	defaultLogFile     = logsink.DefaultPath
	defaultRecord      = true
	defaultGraphHeight = 12
)

var (
	countPeriod   time.Duration
	countFrame    time.Duration
	countLogFile  string
	countClampY   bool
	countRecord   bool
	countDebugLog string

	sessionsSince string
	sessionsLast  int
	sessionsPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuicount",
		Short:         "Terminal tally counter with a live rate graph",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCountCmd,
	}

	rootCmd.Flags().DurationVar(&countPeriod, "period", defaultPeriod, "sampling period")
	rootCmd.Flags().DurationVar(&countFrame, "frame", defaultFrame, "frame interval")
	rootCmd.Flags().StringVar(&countLogFile, "log-file", defaultLogFile, "history log file")
	rootCmd.Flags().BoolVar(&countClampY, "clamp-y", false, "clamp graph points to the plot area")
	rootCmd.Flags().BoolVar(&countRecord, "record", defaultRecord, "record the run in the sessions database")
	rootCmd.Flags().StringVar(&countDebugLog, "debug-log", "", "write a JSON debug log to this path")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSessionsCmd())

	return rootCmd
}

func runCountCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveCountConfig(cmd, config.DefaultConfigPath())
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(countDebugLog)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}()

	mon, err := monitor.New(cfg.Period, time.Now(), monitor.WithClampY(cfg.ClampY))
	if err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}
	logger.Info("started",
		zap.Duration("period", cfg.Period),
		zap.Duration("frame", cfg.Frame),
		zap.String("log_file", cfg.LogPath),
		zap.Bool("clamp_y", cfg.ClampY),
	)

	ui := tui.NewModel(mon,
		tui.WithFrame(cfg.Frame),
		tui.WithLogger(logger),
		tui.WithLogPath(cfg.LogPath),
		tui.WithClampY(cfg.ClampY),
	)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	_, runErr := program.Run()

	// The run is persisted whether the UI closed normally or not.
	finish(cfg, mon, logger, time.Now())

	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

// finish writes the history exactly once and records the run. Failures are
// reported but never change the exit status.
func finish(cfg model.Config, mon *monitor.Monitor, logger *zap.Logger, end time.Time) {
	history := mon.History()
	sink := logsink.New(cfg.LogPath)
	if err := sink.Flush(history); err != nil {
		logErrf("failed to write history: %v\n", err)
		logger.Error("flush failed", zap.String("path", sink.Path()), zap.Error(err))
	} else {
		logger.Info("flushed", zap.String("path", sink.Path()), zap.Ints("history", history))
	}

	if !cfg.Record {
		return
	}
	if err := recordSession(config.DefaultDBPath(), mon.Session(end), logger); err != nil {
		logErrf("failed to record session: %v\n", err)
		logger.Error("record failed", zap.Error(err))
	}
}

func recordSession(path string, session model.Session, logger *zap.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	id, err := st.InsertSession(context.Background(), session)
	if err != nil {
		return err
	}
	logger.Info("recorded", zap.Int64("session_id", id), zap.Int("total", session.Total))
	return nil
}

func resolveCountConfig(cmd *cobra.Command, path string) (model.Config, error) {
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyDurationConfig(cmd, "period", &countPeriod, fileCfg.Counter.Period)
	applyDurationConfig(cmd, "frame", &countFrame, fileCfg.Counter.Frame)
	applyStringConfig(cmd, "log-file", &countLogFile, fileCfg.Counter.LogFile)
	applyBoolConfig(cmd, "clamp-y", &countClampY, fileCfg.Counter.ClampY)
	applyBoolConfig(cmd, "record", &countRecord, fileCfg.Counter.Record)

	cfg := model.Config{
		Period:  countPeriod,
		Frame:   countFrame,
		LogPath: strings.TrimSpace(countLogFile),
		ClampY:  countClampY,
		Record:  countRecord,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Browse recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
	cmd.Flags().StringVar(&sessionsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&sessionsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().BoolVar(&sessionsPlain, "plain", false, "print a plain table instead of the TUI")
	return cmd
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := parseSessionsConfig(sessionsSince, sessionsLast)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if sessionsPlain {
		return printSessions(cmd, st, cfg)
	}

	ui := sessionsui.NewModel(st, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run sessions TUI: %w", err)
	}
	return nil
}

func printSessions(cmd *cobra.Command, st *store.Store, cfg model.SessionsConfig) error {
	sessions, err := st.ListSessions(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	out := cmd.OutOrStdout()
	width := report.TerminalWidth(os.Stdout)
	if err := report.RenderSessions(out, sessions, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderGraph(out, sessions[len(sessions)-1], width, defaultGraphHeight); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseSessionsConfig(since string, last int) (model.SessionsConfig, error) {
	if last < 0 {
		return model.SessionsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	cfg := model.SessionsConfig{Last: last}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.SessionsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuicount configuration
# Uncomment a value to enable it. CLI flags override config values.

[counter]
# period = %q             # Sampling period
# frame = %q           # Frame interval (must not exceed period)
# log-file = %q    # History log, one line appended per run
# clamp-y = false           # Clamp graph points to the plot area
# record = %t             # Record runs in the sessions database
`,
		defaultPeriod.String(),
		defaultFrame.String(),
		defaultLogFile,
		defaultRecord,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Period <= 0 {
		return fmt.Errorf("--period must be > 0")
	}
	if cfg.Frame <= 0 {
		return fmt.Errorf("--frame must be > 0")
	}
	if cfg.Frame > cfg.Period {
		return fmt.Errorf("--frame must not exceed --period")
	}
	if cfg.LogPath == "" {
		return fmt.Errorf("--log-file must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
