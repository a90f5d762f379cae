package runner

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds harness-level settings. The dispatcher itself is configured
// in code; everything here concerns process I/O and logging.
type Config struct {
	// Input is the request source path; "-" means stdin.
	Input string
	// Output is the response sink path; "-" means stdout.
	Output string

	LogLevel  string
	LogFormat string // "json" or "console"
	// LogFile adds a rotated file sink alongside stderr when set.
	LogFile string
}

// Load reads configuration from an optional config file plus ALGO_-prefixed
// environment variables (ALGO_INPUT, ALGO_OUTPUT, ALGO_LOG_LEVEL, ...), with
// defaults suitable for pipe-based hosting.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("input", "-")
	v.SetDefault("output", "-")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix("ALGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return Config{
		Input:     v.GetString("input"),
		Output:    v.GetString("output"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogFile:   v.GetString("log.file"),
	}, nil
}
