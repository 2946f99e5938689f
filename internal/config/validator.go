package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	if w := viper.GetInt("bar_width"); w <= 0 {
		errors = append(errors, fmt.Sprintf("bar_width must be positive, got: %d", w))
	}

	if len(viper.GetStringSlice("metrics")) == 0 {
		errors = append(errors, "metrics must name at least one metric")
	}

	if strings.TrimSpace(viper.GetString("output_dir")) == "" {
		errors = append(errors, "output_dir must not be empty")
	}

	if strings.TrimSpace(viper.GetString("reference_branch")) == "" {
		errors = append(errors, "reference_branch must not be empty")
	}

	if d := viper.GetDuration("runner.timeout"); d < 0 {
		errors = append(errors, fmt.Sprintf("runner.timeout must not be negative, got: %v", d))
	}

	switch t := strings.ToLower(viper.GetString("history.type")); t {
	case "", "sqlite", "sqlite3":
	case "postgres", "postgresql":
		if viper.GetString("history.dsn") == "" {
			errors = append(errors, "history.dsn is required for postgres history")
		}
	default:
		errors = append(errors, fmt.Sprintf("history.type must be sqlite or postgres, got: %s", t))
	}

	if viper.GetBool("notifications.slack.enabled") && viper.GetString("notifications.slack.channel") == "" {
		errors = append(errors, "notifications.slack.channel must be set when slack is enabled")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errors, "\n  "))
	}

	return nil
}
