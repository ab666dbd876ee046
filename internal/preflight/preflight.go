package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"ascesc/internal/config"
	"ascesc/internal/ingest"
	"ascesc/internal/store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Output.Store {
		results = append(results, CheckDatabase(ctx, cfg))
	}
	if len(cfg.Extracts) == 0 {
		results = append(results, Result{Name: "Extracts", Detail: "none configured"})
	}
	for _, e := range cfg.Extracts {
		results = append(results, CheckExtract(cfg, e))
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDatabase opens the store, applying pending migrations, and reports
// the schema version.
func CheckDatabase(ctx context.Context, cfg *config.Config) Result {
	const name = "Database"

	dir := CheckDirectoryAccess(name, filepath.Dir(cfg.Paths.DatabasePath))
	if !dir.Passed {
		return dir
	}
	st, err := store.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.DatabasePath, err)}
	}
	defer st.Close()

	version, err := st.SchemaVersion(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.DatabasePath, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema %s)", cfg.Paths.DatabasePath, version)}
}

// CheckExtract verifies that an extract resolves to a known profile, that
// its file is readable, and that its header carries every profiled column.
func CheckExtract(cfg *config.Config, e config.Extract) Result {
	name := "Extract " + e.Period

	ex, err := ingest.FromConfig(cfg, e)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := unix.Access(ex.Path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", ex.Path, err)}
	}
	rows, err := ingest.CheckHeader(ex)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	profile := strings.TrimSpace(e.Profile)
	if profile == "" {
		profile = cfg.Ingest.DefaultProfile
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s, %d rows)", ex.Path, profile, rows)}
}
