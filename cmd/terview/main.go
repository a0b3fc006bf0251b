// Package main provides the CLI entrypoint for terview.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/terview/internal/config"
	"github.com/verte-zerg/terview/internal/deck"
	"github.com/verte-zerg/terview/internal/model"
	"github.com/verte-zerg/terview/internal/stats"
	"github.com/verte-zerg/terview/internal/statsui"
	"github.com/verte-zerg/terview/internal/store"
	"github.com/verte-zerg/terview/internal/tui"
)

const (
	defaultDeck      = "behavioral"
	defaultQuestions = 5
	defaultSeconds   = 120
	defaultWindow    = 5
)

var (
	practiceDeck    string
	practiceCount   int
	practiceCompany string
	practiceRole    string
	practiceSeconds int

	statsCompany string
	statsGrades  string
	statsSince   string
	statsLast    int
	statsWindow  int
	statsPlain   bool

	decksInitForce bool

	exportOut string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "terview",
		Short:         "TUI mock interview trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceDeck, "deck", defaultDeck, "question deck name or TOML file path")
	rootCmd.Flags().IntVar(&practiceCount, "questions", defaultQuestions, "questions per session (0 for the whole deck)")
	rootCmd.Flags().StringVar(&practiceCompany, "company", "", "company you are practicing for")
	rootCmd.Flags().StringVar(&practiceRole, "role", "", "job title you are practicing for")
	rootCmd.Flags().IntVar(&practiceSeconds, "seconds", defaultSeconds, "answer time per question in seconds")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDecksCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "deck", &practiceDeck, fileCfg.Practice.Deck)
	applyIntConfig(cmd, "questions", &practiceCount, fileCfg.Practice.Questions)
	applyStringConfig(cmd, "company", &practiceCompany, fileCfg.Practice.Company)
	applyStringConfig(cmd, "role", &practiceRole, fileCfg.Practice.JobTitle)
	applyIntConfig(cmd, "seconds", &practiceSeconds, fileCfg.Practice.AnswerSeconds)

	cfg := model.Config{
		Deck:          practiceDeck,
		Questions:     practiceCount,
		Company:       practiceCompany,
		JobTitle:      practiceRole,
		AnswerSeconds: practiceSeconds,
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	deckPath := resolveDeckPath(cfg.Deck)
	d, err := deck.Load(deckPath)
	if err != nil {
		return deckLoadError(cfg.Deck, deckPath, err)
	}

	questions := deck.NewPicker().Pick(d, cfg.Questions)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := tui.NewModel(cfg, st, questions)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session analytics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsCompany, "company", "", "company filter")
	cmd.Flags().StringVar(&statsGrades, "grade", "", "letter grade filter (comma list)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultWindow, "timeline moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	grades, err := statsui.ParseGrades(statsGrades)
	if err != nil {
		return fmt.Errorf("invalid --grade value: %w", err)
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	cfg := model.StatsConfig{
		Company: statsCompany,
		Grades:  grades,
		Since:   sinceTime,
		Last:    statsLast,
		Window:  statsWindow,
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

	if statsPlain {
		return runPlainStats(cmd, st, cfg)
	}

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func runPlainStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Snapshot); err != nil {
		return err
	}
	if report.Snapshot == nil {
		return nil
	}
	if err := stats.RenderGradeDist(out, report.Snapshot); err != nil {
		return err
	}
	if err := stats.RenderTimeline(out, report.History, cfg.Window); err != nil {
		return err
	}
	if err := stats.RenderCompanies(out, report.Snapshot); err != nil {
		return err
	}
	return stats.RenderHistory(out, report.History)
}

func newDecksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decks",
		Short: "List installed question decks",
		Args:  cobra.NoArgs,
		RunE:  runDecksCmd,
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the starter decks",
		Args:  cobra.NoArgs,
		RunE:  runDecksInitCmd,
	}
	initCmd.Flags().BoolVar(&decksInitForce, "force", false, "overwrite existing deck files")
	cmd.AddCommand(initCmd)
	return cmd
}

func runDecksCmd(cmd *cobra.Command, _ []string) error {
	deckDir := config.DefaultDeckDir()
	entries, err := os.ReadDir(deckDir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrln("No decks found. Create the starter decks with: terview decks init")
			return fmt.Errorf("deck directory does not exist")
		}
		return fmt.Errorf("failed to read deck directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
	}
	if len(names) == 0 {
		logErrln("No decks found. Create the starter decks with: terview decks init")
		return fmt.Errorf("no decks found")
	}
	sort.Strings(names)
	for _, name := range names {
		line := name
		if d, err := deck.Load(filepath.Join(deckDir, name+".toml")); err != nil {
			line = fmt.Sprintf("%s (invalid: %v)", name, err)
		} else {
			line = fmt.Sprintf("%s (%d questions)", name, len(d.Questions))
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runDecksInitCmd(_ *cobra.Command, _ []string) error {
	deckDir := config.DefaultDeckDir()
	if err := os.MkdirAll(deckDir, 0o755); err != nil {
		return fmt.Errorf("failed to create deck directory: %w", err)
	}
	names := make([]string, 0, len(deck.StarterDecks))
	for name := range deck.StarterDecks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(deckDir, name+".toml")
		if !decksInitForce {
			if _, err := os.Stat(path); err == nil {
				logErrf("Skipping %s (already exists, use --force to overwrite)\n", path)
				continue
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat deck: %w", err)
			}
		}
		if err := os.WriteFile(path, []byte(deck.StarterDecks[name]), 0o644); err != nil {
			return fmt.Errorf("failed to write deck: %w", err)
		}
		logErrf("Wrote %s\n", path)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Export or import session history",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write session history as JSON",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportCmd,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge a JSON history export",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryImportCmd,
	}

	cmd.AddCommand(exportCmd)
	cmd.AddCommand(importCmd)
	return cmd
}

func runHistoryExportCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logErrf("failed to close output file: %v\n", cerr)
			}
		}()
		out = f
	}

	count, err := st.ExportSessions(context.Background(), out)
	if err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}
	logErrf("Exported %d sessions\n", count)
	return nil
}

func runHistoryImportCmd(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close history file: %v\n", cerr)
		}
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	inserted, skipped, err := st.ImportSessions(context.Background(), f)
	if err != nil {
		return fmt.Errorf("failed to import history: %w", err)
	}
	logErrf("Imported %d sessions (%d already present)\n", inserted, skipped)
	return nil
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# terview configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# deck = %q          # Question deck name or TOML file path
# questions = %d     # Questions per session (0 for the whole deck)
# company = ""       # Company you are practicing for
# role = ""          # Job title you are practicing for
# answer-seconds = %d # Answer time per question in seconds
`,
		defaultDeck,
		defaultQuestions,
		defaultSeconds,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Deck == "" {
		return fmt.Errorf("--deck must not be empty")
	}
	if cfg.Questions < 0 {
		return fmt.Errorf("--questions must be >= 0")
	}
	if cfg.AnswerSeconds <= 0 {
		return fmt.Errorf("--seconds must be > 0")
	}
	return nil
}

func resolveDeckPath(name string) string {
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".toml") {
		return name
	}
	return config.DefaultDeckPath(name)
}

func deckLoadError(name, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load deck: %v", err),
		fmt.Sprintf("expected deck at: %s", path),
		fmt.Sprintf("deck %q not found", name),
		"Run: terview decks",
		"Create starter decks: terview decks init",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
