package testsupport

import (
	"path/filepath"
	"testing"

	"ascesc/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Extract paths are resolved against <base>/extracts, which ExtractsDir returns.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ExtractsDir = filepath.Join(base, "extracts")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "db", "ascesc.db")
	cfgVal.Logging.RetentionDays = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// ExtractsDir returns the directory relative extract paths resolve against.
func ExtractsDir(cfg *config.Config) string {
	return cfg.Paths.ExtractsDir
}

// WithExtract appends an extract, filling unset reader options with defaults.
func WithExtract(period, path, profile string) ConfigOption {
	return func(b *configBuilder) {
		if profile == "" {
			profile = config.ProfilePointsMarquants
		}
		b.cfg.Extracts = append(b.cfg.Extracts, config.Extract{
			Period:    period,
			Path:      path,
			Profile:   profile,
			Delimiter: ";",
			Encoding:  config.EncodingUTF8,
		})
	}
}

// WithExtractConfig appends a fully specified extract.
func WithExtractConfig(extract config.Extract) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extracts = append(b.cfg.Extracts, extract)
	}
}

// WithFormats overrides the enabled output formats.
func WithFormats(formats ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Formats = append([]string(nil), formats...)
	}
}

// WithoutStore disables the SQLite sink.
func WithoutStore() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Store = false
	}
}

// WithNormalizedCopies enables per-period normalized exports.
func WithNormalizedCopies() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.WriteNormalized = true
	}
}
