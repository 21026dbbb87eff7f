// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// IsWindows reports whether goos names Windows.
func IsWindows(goos string) bool { return goos == Windows }

// ScriptFileName returns the file name an installed script gets on goos.
// Unix hosts drop the extension and rely on the shebang; Windows keeps it so
// the extension association (PATHEXT) can run the file.
func ScriptFileName(name, ext, goos string) string {
	if IsWindows(goos) {
		return name + ext
	}
	return name
}

// JoinPath joins path elements with the separator of goos, so that paths for
// another platform can be computed and compared on any host.
func JoinPath(goos string, elem ...string) string {
	if goos == runtime.GOOS {
		return filepath.Join(elem...)
	}
	if !IsWindows(goos) {
		return path.Join(elem...)
	}
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		if e = strings.Trim(strings.ReplaceAll(e, "/", `\`), `\`); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, `\`)
}

// windowsReservedNames are device names Windows refuses as file names,
// regardless of extension.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName checks if a file name is a Windows device name.
// Extensions are ignored: "nul.ps1" is as reserved as "NUL".
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.Index(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return windowsReservedNames[upper]
}
