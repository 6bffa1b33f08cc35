package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. MASHD_DB_PATH.
const EnvPrefix = "MASHD"

const defaultPanelWidth = 32

// Config holds settings stored at ~/.mashd/config.
type Config struct {
	DBPath     string `yaml:"db_path,omitempty"`
	ExportDir  string `yaml:"export_dir,omitempty"`
	Theme      string `yaml:"theme,omitempty"`
	LogPath    string `yaml:"log_path,omitempty"`
	PanelWidth int    `yaml:"panel_width,omitempty"`
}

// Dir returns the directory holding config, database and logs.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mashd")
}

// Path returns the config file path. MASHD_CONFIG overrides it.
func Path() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config")
}

// Default returns the settings used when no config file exists.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DBPath:     filepath.Join(Dir(), "knots.db"),
		ExportDir:  filepath.Join(home, "Downloads"),
		Theme:      "dark",
		LogPath:    filepath.Join(Dir(), "mashd.log"),
		PanelWidth: defaultPanelWidth,
	}
}

// Load reads and parses the config file. Returns error if missing or insecure.
// Empty fields are filled from Default.
func Load() (*Config, error) {
	cfg, err := loadFile(Path())
	if err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// loadFile reads and validates the file without filling defaults.
func loadFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Theme)) {
	case "", "dark", "light":
	default:
		return nil, fmt.Errorf("config theme must be dark or light, got %q", cfg.Theme)
	}
	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// SaveTheme stores mode in the config file, leaving other keys as they are
// on disk. A missing file is created holding only the theme.
func SaveTheme(mode string) error {
	cfg, err := loadFile(Path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		cfg = &Config{}
	}
	cfg.Theme = mode
	return cfg.Save()
}

// Resolve layers environment variables (MASHD_DB_PATH, MASHD_EXPORT_DIR,
// MASHD_THEME, MASHD_LOG_PATH, MASHD_PANEL_WIDTH) and any flags bound on v
// over base.
func Resolve(v *viper.Viper, base Config) Config {
	v.SetDefault("db_path", base.DBPath)
	v.SetDefault("export_dir", base.ExportDir)
	v.SetDefault("theme", base.Theme)
	v.SetDefault("log_path", base.LogPath)
	v.SetDefault("panel_width", base.PanelWidth)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	out := Config{
		DBPath:     v.GetString("db_path"),
		ExportDir:  v.GetString("export_dir"),
		Theme:      v.GetString("theme"),
		LogPath:    v.GetString("log_path"),
		PanelWidth: v.GetInt("panel_width"),
	}
	out.fillDefaults()
	return out
}

func (c *Config) fillDefaults() {
	def := Default()
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = def.DBPath
	}
	if strings.TrimSpace(c.ExportDir) == "" {
		c.ExportDir = def.ExportDir
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = def.Theme
	}
	if strings.TrimSpace(c.LogPath) == "" {
		c.LogPath = def.LogPath
	}
	if c.PanelWidth <= 0 {
		c.PanelWidth = def.PanelWidth
	}
}
