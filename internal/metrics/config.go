package metrics

import "github.com/kestrelmon/kestrel/internal/errors"

const (
	// File system permissions and paths
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
	defaultDBPath   = "kestrel-metrics.db"

	defaultBatchSize    = 20
	defaultBatchTimeout = 5 // seconds
)

type Config struct {
	DBPath          string
	SchemaVersion   int
	BackupOnMigrate bool
	Enabled         bool
	BatchSize       int
	BatchTimeout    int // seconds
}

func DefaultConfig() Config {
	return Config{
		DBPath:       defaultDBPath,
		Enabled:      false, // Disabled by default
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate storage parameters if metrics is enabled
	if !c.Enabled {
		return nil
	}

	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize <= 0 {
		return errFactory.WithMessage(ErrInvalidConfig, "batch size must be positive")
	}
	if c.BatchTimeout <= 0 {
		return errFactory.WithMessage(ErrInvalidConfig, "batch timeout must be positive")
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
