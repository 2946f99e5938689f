package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BRANCHBENCH_REFERENCE_BRANCH.
const EnvPrefix = "BRANCHBENCH"

// Settings is the typed view of the loaded configuration.
type Settings struct {
	OutputDir       string
	ReferenceBranch string
	Metrics         []string
	Unit            string
	BarWidth        int
	Permissive      bool
	RequireClean    bool
	RunnerCommand   string
	RunnerTimeout   time.Duration
	MetricsAddr     string
	HistoryType     string
	HistoryDSN      string
	SlackEnabled    bool
	SlackChannel    string
	Verbose         bool
	LogFile         string
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("output_dir", ".branchbench/results")
	viper.SetDefault("reference_branch", "main")
	viper.SetDefault("metrics", []string{"time", "gc_time"})
	viper.SetDefault("unit", "ms")
	viper.SetDefault("bar_width", 20)
	viper.SetDefault("permissive", false)
	viper.SetDefault("require_clean", false)
	viper.SetDefault("runner.command", "")
	viper.SetDefault("runner.timeout", "0s")
	viper.SetDefault("metrics_addr", "")
	viper.SetDefault("history.type", "")
	viper.SetDefault("history.dsn", "")
	viper.SetDefault("notifications.slack.enabled", false)
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
	viper.SetDefault("notifications.slack.events.on_success", true)
	viper.SetDefault("notifications.slack.events.on_failure", true)
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
}

// Load initializes the configuration from file and environment variables.
// A missing default config file is not an error; a missing explicit one is.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("branchbench")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

// Get returns the current settings.
func Get() Settings {
	return Settings{
		OutputDir:       viper.GetString("output_dir"),
		ReferenceBranch: viper.GetString("reference_branch"),
		Metrics:         viper.GetStringSlice("metrics"),
		Unit:            viper.GetString("unit"),
		BarWidth:        viper.GetInt("bar_width"),
		Permissive:      viper.GetBool("permissive"),
		RequireClean:    viper.GetBool("require_clean"),
		RunnerCommand:   viper.GetString("runner.command"),
		RunnerTimeout:   viper.GetDuration("runner.timeout"),
		MetricsAddr:     viper.GetString("metrics_addr"),
		HistoryType:     viper.GetString("history.type"),
		HistoryDSN:      viper.GetString("history.dsn"),
		SlackEnabled:    viper.GetBool("notifications.slack.enabled"),
		SlackChannel:    viper.GetString("notifications.slack.channel"),
		Verbose:         viper.GetBool("verbose"),
		LogFile:         viper.GetString("log_file"),
	}
}
