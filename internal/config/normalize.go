package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIngest()
	c.normalizeOutput()
	c.normalizeExtracts()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("ASCESC_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.ExtractsDir, err = expandPath(strings.TrimSpace(c.Paths.ExtractsDir)); err != nil {
		return fmt.Errorf("paths.extracts_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DatabasePath, err = expandPath(strings.TrimSpace(c.Paths.DatabasePath)); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeIngest() {
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = defaultWorkers
	}
	c.Ingest.DefaultProfile = strings.TrimSpace(c.Ingest.DefaultProfile)
	if c.Ingest.DefaultProfile == "" {
		c.Ingest.DefaultProfile = defaultProfile
	}
}

func (c *Config) normalizeOutput() {
	formats := make([]string, 0, len(c.Output.Formats))
	seen := make(map[string]struct{}, len(c.Output.Formats))
	for _, f := range c.Output.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		formats = append(formats, f)
	}
	c.Output.Formats = formats
	c.Output.BaseName = strings.TrimSpace(c.Output.BaseName)
	if c.Output.BaseName == "" {
		c.Output.BaseName = defaultBaseName
	}
	if c.Output.CSVDelimiter == "" {
		c.Output.CSVDelimiter = defaultCSVDelimiter
	}
}

func (c *Config) normalizeExtracts() {
	for i := range c.Extracts {
		e := &c.Extracts[i]
		e.Period = strings.TrimSpace(e.Period)
		e.Path = strings.TrimSpace(e.Path)
		e.Profile = strings.TrimSpace(e.Profile)
		if e.Profile == "" {
			e.Profile = c.Ingest.DefaultProfile
		}
		e.Sheet = strings.TrimSpace(e.Sheet)
		if e.Delimiter == "" {
			e.Delimiter = defaultCSVDelimiter
		}
		e.Encoding = strings.ToLower(strings.TrimSpace(e.Encoding))
		switch e.Encoding {
		case "", "utf8", EncodingUTF8:
			e.Encoding = defaultEncoding
		case "latin-1", "iso-8859-1", EncodingLatin1:
			e.Encoding = EncodingLatin1
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("ASCESC_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
