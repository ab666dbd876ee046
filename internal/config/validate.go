package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateProfiles(); err != nil {
		return err
	}
	if err := c.validateExtracts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOutput() error {
	if len(c.Output.Formats) == 0 {
		return errors.New("output.formats must list at least one of csv, xlsx")
	}
	for _, f := range c.Output.Formats {
		if f != FormatCSV && f != FormatXLSX {
			return fmt.Errorf("output.formats: unsupported format %q", f)
		}
	}
	if utf8.RuneCountInString(c.Output.CSVDelimiter) != 1 {
		return fmt.Errorf("output.csv_delimiter must be a single character, got %q", c.Output.CSVDelimiter)
	}
	if c.Output.Store && c.Paths.DatabasePath == "" {
		return errors.New("output.store requires paths.database_path")
	}
	return nil
}

func (c *Config) validateProfiles() error {
	for name, p := range c.Profiles {
		if err := p.validate(); err != nil {
			return fmt.Errorf("profiles.%s: %w", name, err)
		}
	}
	if _, err := c.Profile(c.Ingest.DefaultProfile); err != nil {
		return fmt.Errorf("ingest.default_profile: %w", err)
	}
	return nil
}

func (c *Config) validateExtracts() error {
	seen := make(map[string]int, len(c.Extracts))
	for i, e := range c.Extracts {
		if e.Period == "" {
			return fmt.Errorf("extracts[%d].period must be set", i)
		}
		if prev, dup := seen[e.Period]; dup {
			return fmt.Errorf("extracts[%d].period %q duplicates extracts[%d]", i, e.Period, prev)
		}
		seen[e.Period] = i
		if e.Path == "" {
			return fmt.Errorf("extracts[%d].path must be set", i)
		}
		if _, err := c.Profile(e.Profile); err != nil {
			return fmt.Errorf("extracts[%d].profile: %w", i, err)
		}
		if e.SkipRows < 0 {
			return fmt.Errorf("extracts[%d].skip_rows must be >= 0", i)
		}
		if utf8.RuneCountInString(e.Delimiter) != 1 {
			return fmt.Errorf("extracts[%d].delimiter must be a single character, got %q", i, e.Delimiter)
		}
		if e.Encoding != EncodingUTF8 && e.Encoding != EncodingLatin1 {
			return fmt.Errorf("extracts[%d].encoding: unsupported encoding %q", i, e.Encoding)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported level %q", c.Logging.Level)
	}
}
