package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tariqve/mashd/internal/cmd"
	"github.com/Tariqve/mashd/internal/logger"
	"github.com/Tariqve/mashd/internal/theme"
	"github.com/Tariqve/mashd/internal/ui"
)

var errNoTerminal = errors.New("mashd needs an interactive terminal; try 'mashd list'")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "mashd",
		Short: "mashd - knot library",
		Long:  "mashd: keep a library of small code knots, edit them in a side panel, and export them as .js files.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runTUI(c.Context(), v)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.BindGlobalFlags(root, v)
	cmd.AddCommands(root, v)
	return root
}

func runTUI(ctx context.Context, v *viper.Viper) error {
	if !cmd.IsTerminal(os.Stdin) || !cmd.IsTerminal(os.Stdout) {
		return errNoTerminal
	}

	sess, err := cmd.Open(ctx, v)
	if err != nil {
		return err
	}
	defer sess.Close()

	dark, err := theme.ParseMode(sess.Config.Theme)
	if err != nil {
		return err
	}
	cfg := sess.Config
	app := ui.NewApp(sess.Store, theme.New(dark, nil), &cfg)

	logger.Get().Info("tui starting", "db", cfg.DBPath, "knots", len(sess.Store.Knots()))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
