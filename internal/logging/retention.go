package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const runLogStampLayout = "20060102T150405"

// PruneRunLogs removes run logs in dir that are older than retentionDays as
// of now. Age is taken from the timestamp embedded in the file name and falls
// back to the modification time for names that do not carry one. Paths in
// keep are never removed. It returns the number of files removed; a
// retentionDays value of 0 disables pruning.
func PruneRunLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time, keep ...string) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	kept := make(map[string]struct{}, len(keep))
	for _, path := range keep {
		if path = strings.TrimSpace(path); path != "" {
			kept[filepath.Clean(path)] = struct{}{}
		}
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(RunLogPattern, name); !ok {
			continue
		}
		path := filepath.Join(dir, name)
		if _, skip := kept[filepath.Clean(path)]; skip {
			continue
		}
		written, ok := runLogTime(name)
		if !ok {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			written = info.ModTime()
		}
		if !written.Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "run log removal failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on the log directory"),
				String(FieldImpact, "expired run log stays on disk"),
			)
			continue
		}
		removed++
	}
	if removed > 0 && logger != nil {
		logger.Info("expired run logs pruned",
			Int("removed", removed),
			Int("retention_days", retentionDays),
			String(FieldEventType, "log_pruned"),
		)
	}
	return removed
}

// runLogTime parses the stamp out of "run-<stamp>-<id>.log".
func runLogTime(name string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(name, "run-")
	if !ok || len(rest) < len(runLogStampLayout) {
		return time.Time{}, false
	}
	ts, err := time.Parse(runLogStampLayout, rest[:len(runLogStampLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
