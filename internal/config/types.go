package config

// Config represents the main configuration structure
type Config struct {
	Masking MaskingConfig `yaml:"masking" mapstructure:"masking"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// MaskingConfig contains serial-number masking configuration
type MaskingConfig struct {
	// Patterns are regular expressions matched in order. Empty means the
	// built-in serial-number shapes.
	Patterns []string `yaml:"patterns" mapstructure:"patterns"`
	// Seed fixes the random source for reproducible runs. Zero draws a
	// fresh unpredictable seed per invocation.
	Seed uint64 `yaml:"seed" mapstructure:"seed"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Masking: MaskingConfig{
			Patterns: nil,
			Seed:     0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
