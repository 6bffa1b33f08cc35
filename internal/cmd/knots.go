package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/logger"
)

// ListCmd returns the `mashd list` command.
func ListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List knots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := Open(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			knots := sess.Store.Knots()
			if len(knots) == 0 {
				fmt.Fprintln(out, "no knots yet")
				return nil
			}

			selected := sess.Store.Selected()
			for _, k := range knots {
				mark := " "
				if k.ID == selected {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s  %s  updated: %s\n",
					mark, shortID(k.ID), k.Name, k.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// NewCmd returns the `mashd new` command.
func NewCmd(v *viper.Viper) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a knot from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			sess, err := Open(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer sess.Close()

			k, err := sess.Store.CreateKnot(cmd.Context(), args[0], code)
			if err != nil {
				return fmt.Errorf("create knot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", k.Name, k.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read code from this file instead of stdin")
	return cmd
}

// ExportCmd returns the `mashd export` command.
func ExportCmd(v *viper.Viper) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export <id|name>",
		Short: "Write a knot to <dir>/<name>.js",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := Open(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer sess.Close()

			k, err := resolveKnot(sess.Store, args[0])
			if err != nil {
				return err
			}
			if dir == "" {
				dir = sess.Config.ExportDir
			}

			exp, err := knot.Export(dir, k)
			if err != nil {
				return fmt.Errorf("export %q: %w", k.Name, err)
			}
			logger.Get().Info("knot exported", "id", k.ID, "path", exp.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%d bytes, %s)\n", exp.Path, exp.Bytes, exp.ContentType)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "target directory (default from config export_dir)")
	return cmd
}

// RmCmd returns the `mashd rm` command.
func RmCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id|name>",
		Short: "Delete a knot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := Open(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer sess.Close()

			k, err := resolveKnot(sess.Store, args[0])
			if err != nil {
				return err
			}
			if err := sess.Store.DeleteKnot(cmd.Context(), k.ID); err != nil {
				return fmt.Errorf("delete knot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", k.Name)
			return nil
		},
	}
}

// readCode loads knot code from path, or from in when path is empty. A
// terminal on stdin means nothing was piped, so the starter code is used.
func readCode(in io.Reader, path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
	if f, ok := in.(*os.File); ok && IsTerminal(f) {
		return knot.DefaultCode, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return knot.DefaultCode, nil
	}
	return string(data), nil
}

// IsTerminal reports whether file is a character device.
func IsTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
