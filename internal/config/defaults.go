package config

const (
	defaultConfigPath       = "~/.config/ascesc/config.toml"
	defaultOutputDir        = "~/.local/share/ascesc/output"
	defaultLogDir           = "~/.local/share/ascesc/logs"
	defaultDatabasePath     = "~/.local/share/ascesc/ascesc.db"
	defaultLogRetentionDays = 60
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultWorkers          = 4
	defaultProfile          = ProfilePointsMarquants
	defaultBaseName         = "incidents"
	defaultCSVDelimiter     = ";"
	defaultEncoding         = EncodingUTF8
)

// Supported extract encodings.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
			DatabasePath: defaultDatabasePath,
		},
		Ingest: Ingest{
			Workers:        defaultWorkers,
			DefaultProfile: defaultProfile,
		},
		Normalize: Normalize{
			LineAliases: map[string]string{"T1 ": "T1"},
		},
		Output: Output{
			Formats:      []string{FormatCSV},
			BaseName:     defaultBaseName,
			CSVDelimiter: defaultCSVDelimiter,
			Store:        true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
