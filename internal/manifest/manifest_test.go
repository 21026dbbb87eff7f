// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func sampleEntries() []Entry {
	return []Entry{
		{Path: "src/a.sh", Name: "a", Kind: KindShell},
		{Path: "src/b.ps1", Name: "b", Kind: KindPowerShell},
		{Path: "src/packup.ps1", Name: "packup", Kind: KindPowerShell},
		{Path: "src/packup.sh", Name: "packup", Kind: KindShell},
		{Path: "src/c.nu", Name: "c", Kind: KindNushell},
		{Path: "src/purge-snap.sh", Name: "purge-snap", Kind: KindShell},
	}
}

func TestNames_DistinctInManifestOrder(t *testing.T) {
	t.Parallel()

	got := Names(sampleEntries())
	want := []string{"a", "b", "packup", "c", "purge-snap"}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	for _, n := range got {
		if strings.Contains(n, ".") {
			t.Errorf("name %q still carries an extension", n)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lookup   string
		goos     string
		wantOK   bool
		wantPath string
	}{
		{"unix prefers shell", "packup", "linux", true, "src/packup.sh"},
		{"windows prefers powershell", "packup", "windows", true, "src/packup.ps1"},
		{"single kind on unix", "b", "darwin", true, "src/b.ps1"},
		{"nushell entry", "c", "linux", true, "src/c.nu"},
		{"exact match only", "pack", "linux", false, ""},
		{"case sensitive", "Packup", "linux", false, ""},
		{"absent", "ghost", "linux", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Resolve(sampleEntries(), tt.lookup, tt.goos)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.lookup, ok, tt.wantOK)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Resolve(%q) path = %q, want %q", tt.lookup, got.Path, tt.wantPath)
			}
		})
	}
}

func TestResolve_WindowsDeviceName(t *testing.T) {
	t.Parallel()

	entries := []Entry{{Name: "nul", Kind: KindPowerShell, Path: "src/nul.ps1"}}
	if _, ok := Resolve(entries, "nul", "windows"); ok {
		t.Error("nul must not resolve on windows")
	}
	if got, ok := Resolve(entries, "nul", "linux"); !ok || got.Path != "src/nul.ps1" {
		t.Errorf("Resolve(nul, linux) = %+v, %v", got, ok)
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()

	if got := Suggest(entries, "pack"); len(got) == 0 || got[0] != "packup" {
		t.Errorf("Suggest(pack) = %v, want packup first", got)
	}
	if got := Suggest(entries, "packpu"); !slices.Contains(got, "packup") {
		t.Errorf("Suggest(packpu) = %v, want packup included", got)
	}
	if got := Suggest(entries, "zzzzzzzz"); len(got) != 0 {
		t.Errorf("Suggest(zzzzzzzz) = %v, want none", got)
	}
	if got := Suggest(entries, "a"); slices.Contains(got, "a") {
		t.Errorf("Suggest must not echo the requested name, got %v", got)
	}
	if got := Suggest(entries, "p"); len(got) > maxSuggestions {
		t.Errorf("Suggest returned %d names, cap is %d", len(got), maxSuggestions)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Kind
		wantErr bool
	}{
		{"src/packup.sh", KindShell, false},
		{"src/packup.ps1", KindPowerShell, false},
		{"src/mlab.nu", KindNushell, false},
		{"src/readme.md", "", true},
		{"src/noext", "", true},
	}
	for _, tt := range tests {
		got, err := KindOf(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("KindOf(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidKind) {
			t.Errorf("KindOf(%q) error should wrap ErrInvalidKind, got %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("KindOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestKind_Runtime(t *testing.T) {
	t.Parallel()

	if KindShell.Runtime() != "" {
		t.Errorf("shell scripts need no extra runtime")
	}
	if KindNushell.Runtime() != "nu" {
		t.Errorf("nushell scripts need nu, got %q", KindNushell.Runtime())
	}
	if KindPowerShell.Runtime() != "pwsh" {
		t.Errorf("powershell scripts need pwsh, got %q", KindPowerShell.Runtime())
	}
}
