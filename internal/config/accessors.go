package config

// Accessor methods satisfy the Provider interface, letting callers depend
// on config.Provider instead of the concrete *Config.

func (c *Config) GetFaultProfile() string { return c.FaultProfile }
func (c *Config) GetLogPath() string      { return c.LogPath }
func (c *Config) GetThreshold() float64   { return c.Threshold }
func (c *Config) GetIntervalMS() int      { return c.IntervalMS }
func (c *Config) IsMetricsEnabled() bool  { return c.MetricsEnabled }
func (c *Config) GetMetricsDBPath() string { return c.MetricsDBPath }

var _ Provider = (*Config)(nil)
