package logger

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	DefaultLevel string            // default log level for all modules
	Timezone     string            // "Local", "UTC", or IANA timezone name
	JSON         bool              // console output as JSON instead of text
	FilePath     string            // optional JSON log file, empty disables file output
	ModuleLevels map[string]string // per-module log level overrides
}

// DefaultLogLevel is used when no level is configured.
const DefaultLogLevel = "info"
