// Package main provides the CLI entrypoint for pairrank.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avoronkov/pairrank/internal/config"
	"github.com/avoronkov/pairrank/internal/history"
	"github.com/avoronkov/pairrank/internal/model"
	"github.com/avoronkov/pairrank/internal/rank"
	"github.com/avoronkov/pairrank/internal/rankui"
	"github.com/avoronkov/pairrank/internal/rating"
	"github.com/avoronkov/pairrank/internal/store"
	"github.com/avoronkov/pairrank/internal/tui"
)

const (
	defaultHistory     = true
	defaultHistoryLast = 20
)

var (
	duelK       = rating.DefaultK
	duelHistory = defaultHistory

	storageDir string

	rankingsPlain bool

	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pairrank",
		Short:         "Rank personal lists through pairwise duels",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&storageDir, "dir", "", "themes directory (default: XDG data dir)")

	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newThemesCmd())
	rootCmd.AddCommand(newDuelCmd())
	rootCmd.AddCommand(newRankingsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadSettings merges the TOML config with CLI flags. Flags win.
func loadSettings(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "k", &duelK, fileCfg.Duel.K)
	applyBoolConfig(cmd, "history", &duelHistory, fileCfg.History.Enabled)
	applyStringConfig(cmd, "dir", &storageDir, fileCfg.Storage.Dir)

	cfg := model.Config{
		K:       duelK,
		DataDir: storageDir,
		History: duelHistory,
	}
	if cfg.DataDir == "" {
		cfg.DataDir = config.DefaultThemesDir()
	}
	if cfg.K <= 0 {
		return model.Config{}, fmt.Errorf("--k must be > 0")
	}
	return cfg, nil
}

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <theme>",
		Short: "Create a new theme",
		Args:  cobra.ExactArgs(1),
		RunE:  runNewCmd,
	}
}

func runNewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	key, err := store.NormalizeKey(args[0])
	if err != nil {
		return err
	}
	st := store.New(cfg.DataDir)
	themes, err := st.ListThemes()
	if err != nil {
		return err
	}
	for _, theme := range themes {
		if theme == key.String() {
			return fmt.Errorf("theme %q already exists", key)
		}
	}
	if err := st.SaveItems(key, nil); err != nil {
		return err
	}
	if err := st.SaveRatings(key, nil); err != nil {
		return err
	}
	fmt.Printf("Theme %q created. Add items with: pairrank add %s\n", key, key)
	return nil
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <theme>",
		Short: "Add items to a theme (one per line from stdin, blank line ends)",
		Args:  cobra.ExactArgs(1),
		RunE:  runAddCmd,
	}
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	key, err := store.NormalizeKey(args[0])
	if err != nil {
		return err
	}
	st := store.New(cfg.DataDir)
	if err := requireTheme(st, key); err != nil {
		return err
	}
	items, err := st.LoadItems(key)
	if err != nil {
		return err
	}

	fmt.Printf("Adding items to %q (one per line, empty line to finish):\n", key)
	added := 0
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		item := strings.TrimSpace(scanner.Text())
		if item == "" {
			break
		}
		if err := store.CheckItem(items, item); err != nil {
			fmt.Printf("Rejected: %v\n", err)
			continue
		}
		items = append(items, item)
		added++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if added == 0 {
		fmt.Println("No items added.")
		return nil
	}

	if err := st.SaveItems(key, items); err != nil {
		return err
	}
	engine := rating.NewEngine(st, cfg.K)
	if _, err := engine.Initialize(key, items); err != nil {
		return err
	}
	fmt.Printf("Added %d items to %q\n", added, key)
	return nil
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List themes",
		Args:  cobra.NoArgs,
		RunE:  runThemesCmd,
	}
}

func runThemesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st := store.New(cfg.DataDir)
	themes, err := st.ListThemes()
	if err != nil {
		return err
	}
	if len(themes) == 0 {
		fmt.Println("No themes. Create one with: pairrank new <theme>")
		return nil
	}
	for _, theme := range themes {
		items, err := st.LoadItems(store.Key(theme))
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d items)\n", theme, len(items))
	}
	return nil
}

func newDuelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duel <theme>",
		Short: "Compare random pairs and record winners",
		Args:  cobra.ExactArgs(1),
		RunE:  runDuelCmd,
	}
	cmd.Flags().Float64Var(&duelK, "k", rating.DefaultK, "Elo k-factor")
	cmd.Flags().BoolVar(&duelHistory, "history", defaultHistory, "log duels to the history database")
	return cmd
}

func runDuelCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	key, err := store.NormalizeKey(args[0])
	if err != nil {
		return err
	}
	st := store.New(cfg.DataDir)
	if err := requireTheme(st, key); err != nil {
		return err
	}
	items, err := st.LoadItems(key)
	if err != nil {
		return err
	}
	if len(items) < 2 {
		return fmt.Errorf("need at least 2 items in %q to start a duel", key)
	}

	engine := rating.NewEngine(st, cfg.K)
	if _, err := engine.Initialize(key, items); err != nil {
		return err
	}

	var log *history.Log
	if cfg.History {
		log, err = history.Open(config.DefaultHistoryPath())
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer func() {
			if cerr := log.Close(); cerr != nil {
				logErrf("failed to close history: %v\n", cerr)
			}
		}()
	}

	m := tui.NewModel(key, engine, log, items)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newRankingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rankings <theme>",
		Short: "Show the current ranking",
		Args:  cobra.ExactArgs(1),
		RunE:  runRankingsCmd,
	}
	cmd.Flags().BoolVar(&rankingsPlain, "plain", false, "print to stdout instead of the interactive viewer")
	return cmd
}

func runRankingsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	key, err := store.NormalizeKey(args[0])
	if err != nil {
		return err
	}
	st := store.New(cfg.DataDir)
	if err := requireTheme(st, key); err != nil {
		return err
	}
	items, err := st.LoadItems(key)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no items in %q; add some with: pairrank add %s", key, key)
	}
	ratings, err := st.LoadRatings(key)
	if err != nil {
		return err
	}
	entries := rank.Compute(items, ratings)

	if rankingsPlain {
		for _, line := range rank.Render(entries, terminalBarWidth()) {
			fmt.Println(line)
		}
		return nil
	}

	m := rankui.NewModel(key.String(), entries)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run rankings viewer: %w", err)
	}
	return nil
}

// terminalBarWidth clamps the intensity bar to the terminal, leaving room
// for the indent and the rating suffix.
func terminalBarWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return rank.MaxIntensity
	}
	bar := width - 12
	if bar < 10 {
		bar = 10
	}
	if bar > rank.MaxIntensity {
		bar = rank.MaxIntensity
	}
	return bar
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <theme>",
		Short: "Show recent duels for a theme",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "number of duels to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(cmd); err != nil {
		return err
	}
	key, err := store.NormalizeKey(args[0])
	if err != nil {
		return err
	}
	if historyLast <= 0 {
		return fmt.Errorf("--last must be > 0")
	}
	log, err := history.Open(config.DefaultHistoryPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := log.Close(); cerr != nil {
			logErrf("failed to close history: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	matches, err := log.ListRecent(ctx, key.String(), historyLast)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Printf("No duels recorded for %q yet.\n", key)
		return nil
	}

	headers := []string{"When", "Winner", "Loser", "Delta"}
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			m.PlayedAt.Local().Format("2006-01-02 15:04"),
			m.Winner,
			m.Loser,
			fmt.Sprintf("%+.1f", m.WinnerDelta),
		})
	}
	for _, line := range rank.FormatTable(headers, rows, map[int]bool{3: true}) {
		fmt.Println(line)
	}
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pairrank configuration
# Uncomment a value to enable it. CLI flags override config values.

[duel]
# k = %.1f              # Elo k-factor

[storage]
# dir = ""              # Themes directory (default: XDG data dir)

[history]
# enabled = %t          # Log duels to the history database
`,
		rating.DefaultK,
		defaultHistory,
	)
}

// requireTheme errors when no item document exists for the key. Reading a
// missing theme is not an error at the store level, so commands that target
// an existing theme check explicitly.
func requireTheme(st *store.Store, key store.Key) error {
	themes, err := st.ListThemes()
	if err != nil {
		return err
	}
	for _, theme := range themes {
		if theme == key.String() {
			return nil
		}
	}
	return fmt.Errorf("unknown theme %q (create it with: pairrank new %s)", key, key)
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
