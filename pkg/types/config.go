package types

import "errors"

// Config holds storage engine selection and protocol output settings.
type Config struct {
	Backend     string `json:"backend" yaml:"backend"`
	Pretty      bool   `json:"pretty" yaml:"pretty"`
	WarningDays int    `json:"warning_days" yaml:"warning_days"`
}

// Supported backend names.
const (
	BackendSQLite  = "sqlite"
	BackendStoolap = "stoolap"
)

// DefaultWarningDays is the checkDates threshold used when neither the
// request nor the configuration supplies one.
const DefaultWarningDays = 2

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrWarningDaysInvalid = errors.New("warning_days must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite:  true,
	BackendStoolap: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.WarningDays < 0 {
		return ErrWarningDaysInvalid
	}
	return nil
}
