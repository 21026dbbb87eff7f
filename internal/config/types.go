// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// LogLevelDebug shows every log line.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo shows progress lines.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn shows only warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError shows only errors.
	LogLevelError LogLevel = "error"

	// ScopeSystem installs into a machine-wide directory.
	ScopeSystem InstallScope = "system"
	// ScopeUser installs into the user's own bin directory.
	ScopeUser InstallScope = "user"
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidInstallScope is the sentinel error wrapped by InvalidInstallScopeError.
	ErrInvalidInstallScope = errors.New("invalid install scope")
	// ErrInvalidTimeout is the sentinel error wrapped by InvalidTimeoutError.
	ErrInvalidTimeout = errors.New("invalid network timeout")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InstallScope is the default scope when --user is not given.
	InstallScope string

	// InvalidInstallScopeError is returned when an InstallScope value is not recognized.
	// It wraps ErrInvalidInstallScope for errors.Is() compatibility.
	InvalidInstallScopeError struct {
		Value InstallScope
	}

	// InvalidTimeoutError is returned when network.timeout is not a positive duration.
	// It wraps ErrInvalidTimeout for errors.Is() compatibility.
	InvalidTimeoutError struct {
		Value string
		Err   error
	}

	// InvalidConfigError collects every field error of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the installer configuration.
	Config struct {
		Repository RepositoryConfig `json:"repository" mapstructure:"repository"`
		Install    InstallConfig    `json:"install" mapstructure:"install"`
		Network    NetworkConfig    `json:"network" mapstructure:"network"`
		Log        LogConfig        `json:"log" mapstructure:"log"`
	}

	// RepositoryConfig locates the scripts repository on GitHub.
	RepositoryConfig struct {
		Owner string `json:"owner" mapstructure:"owner"`
		Name  string `json:"name" mapstructure:"name"`
		// ScriptsDir is the repository directory holding the scripts.
		ScriptsDir string `json:"scripts_dir" mapstructure:"scripts_dir"`
		APIURL     string `json:"api_url" mapstructure:"api_url"`
		RawURL     string `json:"raw_url" mapstructure:"raw_url"`
	}

	// InstallConfig holds defaults for the install command.
	InstallConfig struct {
		// DefaultRef is used when --version is not given.
		DefaultRef string       `json:"default_ref" mapstructure:"default_ref"`
		Scope      InstallScope `json:"scope" mapstructure:"scope"`
		// Dest overrides the scope's default directory when set.
		Dest string `json:"dest" mapstructure:"dest"`
	}

	// NetworkConfig configures GitHub requests.
	NetworkConfig struct {
		// Timeout is a Go duration string such as "30s".
		Timeout string `json:"timeout" mapstructure:"timeout"`
		// Token is a GitHub token; usually supplied through GITHUB_TOKEN.
		Token string `json:"token" mapstructure:"token"`
	}

	// LogConfig configures stderr logging.
	LogConfig struct {
		// NoLog hides informational lines.
		NoLog bool     `json:"nolog" mapstructure:"nolog"`
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// String returns the level name.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel so callers can use errors.Is for programmatic detection.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the scope name.
func (s InstallScope) String() string { return string(s) }

// IsValid returns whether the InstallScope is one of the defined scopes,
// and a list of validation errors if it is not.
func (s InstallScope) IsValid() (bool, []error) {
	switch s {
	case ScopeSystem, ScopeUser:
		return true, nil
	default:
		return false, []error{&InvalidInstallScopeError{Value: s}}
	}
}

// Error implements the error interface.
func (e *InvalidInstallScopeError) Error() string {
	return fmt.Sprintf("invalid install scope %q (valid: system, user)", e.Value)
}

// Unwrap returns ErrInvalidInstallScope so callers can use errors.Is for programmatic detection.
func (e *InvalidInstallScopeError) Unwrap() error { return ErrInvalidInstallScope }

// Error implements the error interface.
func (e *InvalidTimeoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid network timeout %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid network timeout %q: must be positive", e.Value)
}

// Unwrap returns ErrInvalidTimeout so callers can use errors.Is for programmatic detection.
func (e *InvalidTimeoutError) Unwrap() error { return ErrInvalidTimeout }

// TimeoutDuration parses Timeout.
func (n NetworkConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(n.Timeout)
	if err != nil {
		return 0, &InvalidTimeoutError{Value: n.Timeout, Err: err}
	}
	if d <= 0 {
		return 0, &InvalidTimeoutError{Value: n.Timeout}
	}
	return d, nil
}

// IsValid validates every typed field of the configuration.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.Install.Scope.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if strings.TrimSpace(c.Install.DefaultRef) == "" {
		errs = append(errs, errors.New("install.default_ref must not be empty"))
	}
	if ok, fieldErrs := c.Log.Level.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if _, err := c.Network.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and every field error, so errors.Is matches
// both the config sentinel and the field sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Repository: RepositoryConfig{
			Owner:      "scruffaluff",
			Name:       "scripts",
			ScriptsDir: "src",
			APIURL:     "https://api.github.com",
			RawURL:     "https://raw.githubusercontent.com",
		},
		Install: InstallConfig{
			DefaultRef: "main",
			Scope:      ScopeSystem,
		},
		Network: NetworkConfig{
			Timeout: "30s",
		},
		Log: LogConfig{
			NoLog: false,
			Level: LogLevelInfo,
		},
	}
}
