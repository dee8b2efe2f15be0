package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	kerrors "github.com/kestrelmon/kestrel/internal/errors"
)

type Config struct {
	FaultProfile   string
	LogPath        string  `default:"kestrel.jsonl"`
	Threshold      float64 `default:"0.95"`
	IntervalMS     int     `default:"500"`
	Debug          bool
	Verbose        bool
	MetricsEnabled bool
	MetricsDBPath  string `default:"kestrel-metrics.db"`
}

func Load() (*Config, error) {
	config := &Config{}

	// A fresh FlagSet (rather than the package-level flag.CommandLine)
	// keeps repeated calls to Load within the same process - as happens
	// across table-driven tests - from panicking on redefinition.
	fs := flag.NewFlagSet("kestrel", flag.ContinueOnError)
	debugFlag := fs.Bool("debug", false, "Enable debugging mode")
	verboseFlag := fs.Bool("verbose", false, "Enable verbose logging")
	fs.StringVar(&config.FaultProfile, "fault", "", "Path to a fault profile JSON file")
	fs.StringVar(&config.LogPath, "log", "kestrel.jsonl", "Path to the JSON-lines event log")
	fs.Float64Var(&config.Threshold, "threshold", 0.95, "Fractional usage threshold that triggers DEGRADED")
	fs.IntVar(&config.IntervalMS, "interval", 500, "Supervisor tick interval in milliseconds")
	fs.BoolVar(&config.MetricsEnabled, "metrics", false, "Enable the optional SQLite metrics sink")
	fs.StringVar(&config.MetricsDBPath, "metrics-db", "kestrel-metrics.db", "Path to the metrics database")

	if len(os.Args) > 1 {
		if err := fs.Parse(os.Args[1:]); err != nil {
			return nil, fmt.Errorf("%s: %w", kerrors.GetErrorMessage(kerrors.ErrBindFlags), err)
		}
	}

	// Apply debug and verbose flags
	config.Debug = *debugFlag
	config.Verbose = *verboseFlag

	// Load configuration from file. KESTREL_CONFIG overrides the default
	// /etc search path so tests can point at a fixture without touching
	// the filesystem root.
	viper.Reset()
	if explicit := os.Getenv("KESTREL_CONFIG"); explicit != "" {
		viper.SetConfigFile(explicit)
	} else {
		viper.SetConfigName("kestrel")
		viper.SetConfigType("toml")
		viper.AddConfigPath("/etc")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%s: %w", kerrors.GetErrorMessage(kerrors.ErrReadConfig), err)
		}
	}

	// Override config file values with command line flags
	viper.Set("debug", config.Debug)
	viper.Set("verbose", config.Verbose)
	// Flag names differ from the Config field names Unmarshal matches keys
	// against, so translate them before overlaying.
	flagKeys := map[string]string{
		"fault":      "faultprofile",
		"log":        "logpath",
		"interval":   "intervalms",
		"metrics":    "metricsenabled",
		"metrics-db": "metricsdbpath",
	}
	fs.Visit(func(f *flag.Flag) {
		key := f.Name
		if mapped, ok := flagKeys[key]; ok {
			key = mapped
		}
		viper.Set(key, f.Value.String())
	})

	// Unmarshal the configuration
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("%s: %w", kerrors.GetErrorMessage(kerrors.ErrReadConfig), err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set log level based on config
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if config.Verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	return config, nil
}

// Validate checks invariants flags and config files can't enforce on their
// own: the threshold must describe a fraction, and the supervisor must
// make forward progress.
func (c *Config) Validate() error {
	errFactory := kerrors.New()

	if c.Threshold < 0 || c.Threshold > 1 {
		return errFactory.WithData(kerrors.ErrInvalidThreshold, c.Threshold)
	}

	if c.IntervalMS <= 0 {
		return errFactory.WithData(kerrors.ErrInvalidInterval, c.IntervalMS)
	}

	return nil
}
