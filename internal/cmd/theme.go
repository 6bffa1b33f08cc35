package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tariqve/mashd/internal/config"
	"github.com/Tariqve/mashd/internal/theme"
)

// ThemeCmd returns the `mashd theme` command. Without an argument it prints
// the effective mode.
func ThemeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the saved theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{theme.ModeDark, theme.ModeLight},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				cfg, err := LoadConfig(v)
				if err != nil {
					return err
				}
				dark, err := theme.ParseMode(cfg.Theme)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, theme.Mode(dark))
				return nil
			}

			dark, err := theme.ParseMode(args[0])
			if err != nil {
				return err
			}
			if err := applyConfigPath(v); err != nil {
				return err
			}
			mode := theme.Mode(dark)
			if err := config.SaveTheme(mode); err != nil {
				return fmt.Errorf("save theme: %w", err)
			}
			fmt.Fprintf(out, "theme set to %s\n", mode)
			return nil
		},
	}
}
