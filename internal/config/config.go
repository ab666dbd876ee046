package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ExtractsDir  string `toml:"extracts_dir"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
	DatabasePath string `toml:"database_path"`
}

// Ingest contains extract reading settings.
type Ingest struct {
	Workers        int    `toml:"workers"`
	DefaultProfile string `toml:"default_profile"`
}

// Normalize contains value normalization settings applied during ingestion.
type Normalize struct {
	// LineAliases maps raw line variants to their canonical code, e.g. "T1 " -> "T1".
	LineAliases map[string]string `toml:"line_aliases"`
}

// Output contains configuration for the canonical set sinks.
type Output struct {
	Formats         []string `toml:"formats"`
	BaseName        string   `toml:"base_name"`
	CSVDelimiter    string   `toml:"csv_delimiter"`
	WriteNormalized bool     `toml:"write_normalized"`
	Store           bool     `toml:"store"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Extract describes one period extract to consolidate.
type Extract struct {
	Period  string `toml:"period"`
	Path    string `toml:"path"`
	Profile string `toml:"profile"`
	// Sheet selects a workbook sheet; "*" concatenates every sheet. Empty means the first sheet.
	Sheet     string `toml:"sheet"`
	SkipRows  int    `toml:"skip_rows"`
	Delimiter string `toml:"delimiter"`
	Encoding  string `toml:"encoding"`
}

// Config encapsulates all configuration values for ascesc.
//
// Configuration sections:
//   - Paths: extract base directory, outputs, logs, and the SQLite database
//   - Ingest: worker count and default column profile
//   - Normalize: line code aliases
//   - Output: export formats and sinks
//   - Logging: log format, level, and retention
//   - Extracts: the period extracts to merge, in precedence order
//   - Profiles: custom column profiles, merged over the built-in ones
type Config struct {
	Paths     Paths              `toml:"paths"`
	Ingest    Ingest             `toml:"ingest"`
	Normalize Normalize          `toml:"normalize"`
	Output    Output             `toml:"output"`
	Logging   Logging            `toml:"logging"`
	Extracts  []Extract          `toml:"extracts"`
	Profiles  map[string]Profile `toml:"profiles"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ascesc.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, log and database directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.LogDir}
	if c.Paths.DatabasePath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.DatabasePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExtractPath resolves an extract path against paths.extracts_dir.
func (c *Config) ExtractPath(e Extract) (string, error) {
	p := strings.TrimSpace(e.Path)
	if p == "" {
		return "", errors.New("extract path is empty")
	}
	if !strings.HasPrefix(p, "~") && !filepath.IsAbs(p) && c.Paths.ExtractsDir != "" {
		p = filepath.Join(c.Paths.ExtractsDir, p)
	}
	return expandPath(p)
}

// HasFormat reports whether the output format is enabled.
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
