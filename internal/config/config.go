// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"scripts-cli/internal/issue"
	"scripts-cli/pkg/platform"
)

const (
	// AppName names the configuration directory.
	AppName = "scripts"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// EnvNoLog hides informational log lines when set to any non-empty value.
	EnvNoLog = "SCRIPTS_NOLOG"
	// EnvLogLevel overrides log.level.
	EnvLogLevel = "SCRIPTS_LOG_LEVEL"
	// EnvGitHubToken supplies network.token.
	EnvGitHubToken = "GITHUB_TOKEN"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the configuration directory: %APPDATA%\scripts on
// Windows, and the XDG config home (~/Library/Application Support on macOS)
// elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var base string
	if runtime.GOOS == platform.Windows {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = xdg.ConfigHome
	}
	if base == "" {
		return "", fmt.Errorf("cannot determine configuration directory")
	}
	return filepath.Join(base, AppName), nil
}

// loadWithOptions loads defaults, then the config file, then environment
// overrides, and validates the result.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("repository.owner", defaults.Repository.Owner)
	v.SetDefault("repository.name", defaults.Repository.Name)
	v.SetDefault("repository.scripts_dir", defaults.Repository.ScriptsDir)
	v.SetDefault("repository.api_url", defaults.Repository.APIURL)
	v.SetDefault("repository.raw_url", defaults.Repository.RawURL)
	v.SetDefault("install.default_ref", defaults.Install.DefaultRef)
	v.SetDefault("install.scope", defaults.Install.Scope)
	v.SetDefault("install.dest", defaults.Install.Dest)
	v.SetDefault("network.timeout", defaults.Network.Timeout)
	v.SetDefault("network.token", defaults.Network.Token)
	v.SetDefault("log.nolog", defaults.Log.NoLog)
	v.SetDefault("log.level", defaults.Log.Level)

	if err := v.BindEnv("log.level", EnvLogLevel); err != nil {
		return nil, "", fmt.Errorf("binding %s: %w", EnvLogLevel, err)
	}
	if err := v.BindEnv("network.token", EnvGitHubToken); err != nil {
		return nil, "", fmt.Errorf("binding %s: %w", EnvGitHubToken, err)
	}

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path passed with --config").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			var err error
			if cfgDir, err = ConfigDir(); err != nil {
				return nil, "", err
			}
		}
		if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
			resolvedPath = p
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the documented schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Any non-empty value counts, as with the shell installers.
	if os.Getenv(EnvNoLog) != "" {
		cfg.Log.NoLog = true
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Use one of debug, info, warn or error for " + EnvLogLevel).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper validates the CUE file at path against #Config and merges
// its values into v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, maxConfigFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
