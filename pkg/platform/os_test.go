// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestScriptFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ext  string
		goos string
		want string
	}{
		{"packup", ".sh", Linux, "packup"},
		{"packup", ".sh", Darwin, "packup"},
		{"packup", ".ps1", Windows, "packup.ps1"},
		{"mlab", ".nu", Windows, "mlab.nu"},
	}
	for _, tt := range tests {
		if got := ScriptFileName(tt.name, tt.ext, tt.goos); got != tt.want {
			t.Errorf("ScriptFileName(%q, %q, %q) = %q, want %q", tt.name, tt.ext, tt.goos, got, tt.want)
		}
	}
}

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"con", true},
		{"NUL", true},
		{"Com1", true},
		{"lpt9.ps1", true},
		{"nul.tar.gz", true},
		{"console", false},
		{"packup", false},
		{"com10", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsWindowsReservedName(tt.input); got != tt.expected {
			t.Errorf("IsWindowsReservedName(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		elem []string
		want string
	}{
		{Linux, []string{"/home/u", ".local", "bin"}, "/home/u/.local/bin"},
		{Darwin, []string{"/usr/local/", "bin"}, "/usr/local/bin"},
		{Windows, []string{`C:\Program Files`, "Bin"}, `C:\Program Files\Bin`},
		{Windows, []string{`C:\Users\u\AppData\Local\`, "Programs", "Bin"}, `C:\Users\u\AppData\Local\Programs\Bin`},
	}
	for _, tt := range tests {
		if got := JoinPath(tt.goos, tt.elem...); got != tt.want {
			t.Errorf("JoinPath(%q, %q) = %q, want %q", tt.goos, tt.elem, got, tt.want)
		}
	}
}
