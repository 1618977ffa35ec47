package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prolific-dev/prolific/constants/lipgloss"
)

// Config represents the structure of the agent configuration file.
type Config struct {
	Version       string         `mapstructure:"version"`
	Theme         string         `mapstructure:"theme"`
	ScanPaths     []string       `mapstructure:"scan_paths"`
	RepoPath      string         `mapstructure:"repo_path"`
	IntervalHours int            `mapstructure:"interval_hours"`
	Branch        string         `mapstructure:"branch"`
	Remote        string         `mapstructure:"remote"`
	Push          bool           `mapstructure:"push"`
	BubbleMetric  string         `mapstructure:"bubble_metric"`
	ExcludeGlobs  []string       `mapstructure:"exclude_globs"`
	MaxDepth      int            `mapstructure:"max_depth"`
	BytesPerLoc   map[string]int `mapstructure:"bytes_per_loc"`
}

// DefaultBytesPerLoc is the built-in bytes-per-line calibration table.
// Slightly optimistic defaults (lower bytes/LOC means a higher LOC estimate);
// users override individual languages via the bytes_per_loc config section.
var DefaultBytesPerLoc = map[string]int{
	"Python":     34,
	"TypeScript": 38,
	"JavaScript": 38,
	"Go":         38,
	"Rust":       38,
	"Java":       46,
	"C#":         46,
	"C":          38,
	"C++":        42,
	"HTML":       50,
	"CSS":        50,
	"SQL":        38,
	"Shell":      30,
}

// DefaultConfig values.
var DefaultConfig = Config{
	Version:       "1.0.0",
	Theme:         "dracula",
	IntervalHours: 2, // scheduling is external; kept for reference/validation
	Branch:        "main",
	Remote:        "origin",
	Push:          true,
	BubbleMetric:  "net_loc",
	MaxDepth:      0,
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment
// variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, stateDir string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		viper.AddConfigPath(stateDir)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
		}
	}

	// Bind CLI flags to override config values.
	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	config.BytesPerLoc = MergeBytesPerLoc(config.BytesPerLoc)

	return config
}

// MergeBytesPerLoc layers user calibration entries over the built-in table.
// Languages the user does not mention keep their defaults; user entries only
// ever override per language, never remove.
func MergeBytesPerLoc(overrides map[string]int) map[string]int {
	merged := make(map[string]int, len(DefaultBytesPerLoc)+len(overrides))
	for lang, bpl := range DefaultBytesPerLoc {
		merged[lang] = bpl
	}
	for lang, bpl := range overrides {
		merged[lang] = bpl
	}
	return merged
}

// Validate checks the configuration for values the agent cannot run with.
func (c *Config) Validate() error {
	if c.IntervalHours < 1 || c.IntervalHours > 4 {
		return fmt.Errorf("interval_hours must be between 1 and 4")
	}
	if len(c.ScanPaths) == 0 {
		return fmt.Errorf("scan_paths must include at least one directory")
	}
	for _, p := range c.ScanPaths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("scan path does not exist: %s", p)
		}
		if !info.IsDir() {
			return fmt.Errorf("scan path is not a directory: %s", p)
		}
	}
	if c.RepoPath == "" {
		return fmt.Errorf("repo_path must be set")
	}
	info, err := os.Stat(c.RepoPath)
	if err != nil {
		return fmt.Errorf("repo_path does not exist: %s", c.RepoPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("repo_path is not a directory: %s", c.RepoPath)
	}
	switch c.BubbleMetric {
	case "net_loc", "churn_loc", "bytes":
	default:
		return fmt.Errorf("bubble_metric must be one of: net_loc, churn_loc, bytes")
	}
	return nil
}

// IsRiskyWatchPath reports whether a watch path points at a filesystem or
// drive root. Watching an entire drive causes high CPU/memory usage; callers
// warn and continue.
func IsRiskyWatchPath(p string) bool {
	resolved, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	resolved = filepath.Clean(resolved)
	return resolved == string(filepath.Separator) || resolved == filepath.VolumeName(resolved)+string(filepath.Separator)
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("interval_hours", DefaultConfig.IntervalHours)
	viper.SetDefault("branch", DefaultConfig.Branch)
	viper.SetDefault("remote", DefaultConfig.Remote)
	viper.SetDefault("push", DefaultConfig.Push)
	viper.SetDefault("bubble_metric", DefaultConfig.BubbleMetric)
	viper.SetDefault("max_depth", DefaultConfig.MaxDepth)
	viper.SetDefault("exclude_globs", []string{})
}

// bindEnv explicitly binds environment variables to configuration keys.
func bindEnv() {
	_ = viper.BindEnv("theme", "PROLIFIC_THEME")
	_ = viper.BindEnv("repo_path", "PROLIFIC_REPO_PATH")
	_ = viper.BindEnv("branch", "PROLIFIC_BRANCH")
	_ = viper.BindEnv("remote", "PROLIFIC_REMOTE")
	_ = viper.BindEnv("push", "PROLIFIC_PUSH")
	_ = viper.BindEnv("bubble_metric", "PROLIFIC_BUBBLE_METRIC")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("branch", rootCmd.PersistentFlags().Lookup("branch"))
	_ = viper.BindPFlag("remote", rootCmd.PersistentFlags().Lookup("remote"))
	_ = viper.BindPFlag("push", rootCmd.PersistentFlags().Lookup("push"))
	_ = viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max_depth"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands.
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to the agent configuration file (TOML).")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Color theme for the terminal report preview (e.g. 'dracula', 'light', 'dark').")
	rootCmd.PersistentFlags().String("branch", DefaultConfig.Branch, "Branch of the activity repo that reports are committed to.")
	rootCmd.PersistentFlags().String("remote", DefaultConfig.Remote, "Remote of the activity repo that reports are pushed to.")
	rootCmd.PersistentFlags().Bool("push", DefaultConfig.Push, "Push report commits to the remote after each cycle.")
	rootCmd.PersistentFlags().Int("max_depth", DefaultConfig.MaxDepth, "Maximum scan depth below each project directory (0 = unlimited).")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// WriteDefaultConfig writes a fresh TOML config for `prolific init`.
func WriteDefaultConfig(path string, scanPaths []string, repoPath string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("version", DefaultConfig.Version)
	v.Set("theme", DefaultConfig.Theme)
	v.Set("scan_paths", toPosixPaths(scanPaths))
	v.Set("repo_path", filepath.ToSlash(repoPath))
	v.Set("interval_hours", DefaultConfig.IntervalHours)
	v.Set("branch", DefaultConfig.Branch)
	v.Set("remote", DefaultConfig.Remote)
	v.Set("push", DefaultConfig.Push)
	v.Set("bubble_metric", DefaultConfig.BubbleMetric)
	v.Set("max_depth", DefaultConfig.MaxDepth)
	v.Set("exclude_globs", []string{})
	v.Set("bytes_per_loc", DefaultBytesPerLoc)

	v.SetConfigType("toml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func toPosixPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(p)
	}
	return out
}

// ConfigPath resolves the active config file path: the --config flag if given,
// otherwise <stateDir>/config.toml.
func ConfigPath(stateDir string) string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(stateDir, "config.toml")
}

// SetConfigFile overrides the active config file (used by tests).
func SetConfigFile(path string) {
	cfgFile = strings.TrimSpace(path)
}
