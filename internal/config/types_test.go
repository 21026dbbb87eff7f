// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	for _, level := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		if ok, errs := level.IsValid(); !ok {
			t.Errorf("%q.IsValid() = false, %v", level, errs)
		}
	}

	ok, errs := LogLevel("trace").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidLogLevel) {
		t.Errorf("trace.IsValid() = %v, %v; want ErrInvalidLogLevel", ok, errs)
	}
}

func TestInstallScope_IsValid(t *testing.T) {
	t.Parallel()

	if ok, _ := ScopeUser.IsValid(); !ok {
		t.Error("user scope should be valid")
	}
	ok, errs := InstallScope("global").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidInstallScope) {
		t.Errorf("global.IsValid() = %v, %v; want ErrInvalidInstallScope", ok, errs)
	}
}

func TestNetworkConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"0s", 0, true},
		{"-5s", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := NetworkConfig{Timeout: tt.value}.TimeoutDuration()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("TimeoutDuration(%q) error = %v, want ErrInvalidTimeout", tt.value, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("TimeoutDuration(%q) = %v, %v; want %v", tt.value, got, err, tt.want)
			}
		})
	}
}

func TestConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if ok, errs := cfg.IsValid(); !ok {
		t.Fatalf("DefaultConfig().IsValid() = false, %v", errs)
	}

	cfg.Install.Scope = "everywhere"
	cfg.Log.Level = "loud"
	cfg.Network.Timeout = "never"

	ok, errs := cfg.IsValid()
	if ok {
		t.Fatal("expected invalid config")
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("error should wrap ErrInvalidConfig")
	}
}
