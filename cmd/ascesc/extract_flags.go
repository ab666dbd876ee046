package main

import (
	"fmt"
	"slices"
	"strings"

	"ascesc/internal/config"
)

type extractFlags struct {
	specs    []string
	sheet    string
	encoding string
}

// resolve turns --extract values into extracts. It returns nil when no
// value was given so callers fall back to the configured extracts.
func (f *extractFlags) resolve(cfg *config.Config) ([]config.Extract, error) {
	if len(f.specs) == 0 {
		return nil, nil
	}
	out := make([]config.Extract, 0, len(f.specs))
	seen := make(map[string]struct{}, len(f.specs))
	for _, spec := range f.specs {
		e, err := parseExtractSpec(cfg, spec)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[e.Period]; dup {
			return nil, fmt.Errorf("--extract %q: duplicate period %q", spec, e.Period)
		}
		seen[e.Period] = struct{}{}
		e.Sheet = strings.TrimSpace(f.sheet)
		if enc := strings.TrimSpace(f.encoding); enc != "" {
			e.Encoding = strings.ToLower(enc)
		}
		out = append(out, e)
	}
	return out, nil
}

// parseExtractSpec parses "period=path[:profile]". The suffix after the last
// colon is taken as a profile only when it names a known profile, so paths
// containing colons still work.
func parseExtractSpec(cfg *config.Config, spec string) (config.Extract, error) {
	period, rest, ok := strings.Cut(spec, "=")
	period = strings.TrimSpace(period)
	rest = strings.TrimSpace(rest)
	if !ok || period == "" || rest == "" {
		return config.Extract{}, fmt.Errorf("--extract %q: expected period=path[:profile]", spec)
	}

	e := config.Extract{
		Period:    period,
		Path:      rest,
		Profile:   cfg.Ingest.DefaultProfile,
		Delimiter: ";",
		Encoding:  config.EncodingUTF8,
	}
	if idx := strings.LastIndex(rest, ":"); idx > 0 {
		if candidate := rest[idx+1:]; slices.Contains(cfg.ProfileNames(), candidate) {
			e.Path = rest[:idx]
			e.Profile = candidate
		}
	}
	if e.Profile == config.ProfileAlertesTCL {
		e.Encoding = config.EncodingLatin1
	}
	return e, nil
}
