package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tariqve/mashd/internal/config"
	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/logger"
	"github.com/Tariqve/mashd/internal/store"
)

const (
	flagDB     = "db"
	flagConfig = "config"
	flagDebug  = "debug"
)

// BindGlobalFlags registers --db, --config and --debug on root and binds
// them through v.
func BindGlobalFlags(root *cobra.Command, v *viper.Viper) {
	pf := root.PersistentFlags()
	pf.String(flagDB, "", "knot database path (env MASHD_DB_PATH)")
	pf.String(flagConfig, "", "config file path (env MASHD_CONFIG)")
	pf.Bool(flagDebug, false, "log at debug level")

	_ = v.BindPFlag("db_path", pf.Lookup(flagDB))
	_ = v.BindPFlag("config", pf.Lookup(flagConfig))
	_ = v.BindPFlag("debug", pf.Lookup(flagDebug))
}

// AddCommands attaches every subcommand to root.
func AddCommands(root *cobra.Command, v *viper.Viper) {
	root.AddCommand(ListCmd(v))
	root.AddCommand(NewCmd(v))
	root.AddCommand(ExportCmd(v))
	root.AddCommand(RmCmd(v))
	root.AddCommand(ThemeCmd(v))
}

// LoadConfig reads the config file, or defaults when there is none, then
// layers env and flags on top.
func LoadConfig(v *viper.Viper) (config.Config, error) {
	if err := applyConfigPath(v); err != nil {
		return config.Config{}, err
	}

	base := config.Default()
	cfg, err := config.Load()
	switch {
	case err == nil:
		base = *cfg
	case errors.Is(err, os.ErrNotExist):
	default:
		return config.Config{}, err
	}
	return config.Resolve(v, base), nil
}

// applyConfigPath points config.Path at the --config flag when it is set.
func applyConfigPath(v *viper.Viper) error {
	p := v.GetString("config")
	if p == "" {
		return nil
	}
	if err := os.Setenv(config.EnvPrefix+"_CONFIG", p); err != nil {
		return fmt.Errorf("set config path: %w", err)
	}
	return nil
}

// Session is an opened config, logger and knot store.
type Session struct {
	Config config.Config
	Store  *store.Store
	close  func() error
}

// Open loads config, starts the file logger and opens the knot store.
func Open(ctx context.Context, v *viper.Viper) (*Session, error) {
	cfg, err := LoadConfig(v)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.LogPath); err != nil {
		return nil, err
	}
	logger.SetDebug(v.GetBool("debug"))

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	s, err := store.New(ctx, store.NewKnotRepo(db))
	if err != nil {
		_ = db.Close()
		_ = logger.Close()
		return nil, err
	}

	return &Session{
		Config: cfg,
		Store:  s,
		close: func() error {
			err := db.Close()
			_ = logger.Close()
			return err
		},
	}, nil
}

// Close releases the database and log file.
func (s *Session) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// resolveKnot finds ref by id or name and adds a did-you-mean hint when it is
// missing.
func resolveKnot(s *store.Store, ref string) (knot.Knot, error) {
	if k, ok := s.Find(ref); ok {
		return k, nil
	}
	if hint, ok := s.Suggest(ref); ok {
		return knot.Knot{}, fmt.Errorf("%w: %q (did you mean %q?)", store.ErrNotFound, ref, hint)
	}
	return knot.Knot{}, fmt.Errorf("%w: %q", store.ErrNotFound, ref)
}
