// SPDX-License-Identifier: MPL-2.0

// Package config loads the installer configuration using Viper with CUE as the
// file format.
//
// The optional file lives at <config dir>/scripts/config.cue, where the config
// dir is $XDG_CONFIG_HOME (default ~/.config) on Linux, ~/Library/Application
// Support on macOS and %APPDATA% on Windows. It is validated against the
// embedded config_schema.cue. SCRIPTS_NOLOG, SCRIPTS_LOG_LEVEL and
// GITHUB_TOKEN override the file.
package config
