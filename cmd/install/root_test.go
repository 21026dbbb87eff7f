// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"scripts-cli/internal/config"
	"scripts-cli/internal/installer"
	"scripts-cli/internal/manifest"
	"scripts-cli/internal/pathreg"
	"scripts-cli/internal/testutil"
)

type (
	staticConfig struct {
		cfg *config.Config
		err error
	}

	writablePrivileges struct{}

	nopRegistrar struct {
		calls int
	}
)

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (writablePrivileges) IsPrivileged() bool   { return false }
func (writablePrivileges) CanWrite(string) bool { return true }

func (r *nopRegistrar) EnsurePath(context.Context, string, []manifest.Kind) (pathreg.Mutation, error) {
	r.calls++
	return pathreg.Mutation{Target: "test", Changed: true}, nil
}

type testApp struct {
	app       *App
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	home      string
	registrar *nopRegistrar
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("install paths in these tests are POSIX paths")
	}

	srv := testutil.NewRepoServer(t, testutil.DefaultRepoFiles())
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ta := &testApp{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		home:      t.TempDir(),
		registrar: &nopRegistrar{},
	}
	ta.app = NewApp(Dependencies{
		Config:          staticConfig{cfg: cfg},
		ManifestOptions: []manifest.ClientOption{manifest.WithBaseURL(srv.URL), manifest.WithRawURL(srv.URL)},
		InstallerOptions: []installer.Option{
			installer.WithGOOS("linux"),
			installer.WithPrivileges(writablePrivileges{}),
			installer.WithLookPath(func(file string) (string, error) {
				if slices.Contains([]string{"sudo", "nu", "pwsh"}, file) {
					return "/usr/bin/" + file, nil
				}
				return "", exec.ErrNotFound
			}),
			installer.WithEnv(installer.Env{Home: ta.home, Getenv: func(k string) string {
				if k == "PATH" {
					return "/usr/bin"
				}
				return ""
			}}),
			installer.WithRegistrar(ta.registrar),
		},
		Stdout: ta.stdout,
		Stderr: ta.stderr,
	})
	return ta
}

func (ta *testApp) run(args ...string) int {
	return execute(context.Background(), ta.app, args)
}

func TestExecute_List(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	if code := ta.run("--list"); code != ExitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, ta.stderr)
	}
	if got, want := ta.stdout.String(), "a\nb\nc\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestExecute_ListIsStable(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	ta.run("-l")
	first := ta.stdout.String()
	ta.stdout.Reset()
	ta.run("-l")
	if ta.stdout.String() != first {
		t.Errorf("second listing %q differs from first %q", ta.stdout, first)
	}
}

func TestExecute_InstallsIntoDest(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	dest := t.TempDir()
	if code := ta.run("--dest", dest, "a"); code != ExitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, ta.stderr)
	}

	info, err := os.Stat(filepath.Join(dest, "a"))
	if err != nil {
		t.Fatalf("installed script missing: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
	if !strings.Contains(ta.stdout.String(), "Installed a to "+filepath.Join(dest, "a")) {
		t.Errorf("stdout = %q, want install line", ta.stdout)
	}
	if ta.registrar.calls != 1 {
		t.Errorf("registrar calls = %d, want 1", ta.registrar.calls)
	}
}

func TestExecute_UserDevelopRef(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	if code := ta.run("--user", "--version", "develop", "myscript"); code != ExitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, ta.stderr)
	}

	path := filepath.Join(ta.home, ".local", "bin", "myscript")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("installed script missing: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
	if got := testutil.MustReadFile(t, path); got != "#!/bin/sh\necho develop\n" {
		t.Errorf("content = %q", got)
	}
}

func TestExecute_SecondRunIsAlreadyPresent(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	dest := t.TempDir()
	if code := ta.run("-d", dest, "a"); code != ExitOK {
		t.Fatalf("first run exit code = %d", code)
	}
	ta.stdout.Reset()
	if code := ta.run("-d", dest, "a"); code != ExitOK {
		t.Fatalf("second run exit code = %d, stderr: %s", code, ta.stderr)
	}
	if !strings.Contains(ta.stdout.String(), "a is already installed") {
		t.Errorf("stdout = %q, want already installed line", ta.stdout)
	}
}

func TestExecute_NoMatch(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	dest := t.TempDir()
	if code := ta.run("--dest", dest, "ghost"); code != ExitFailure {
		t.Fatalf("exit code = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(ta.stderr.String(), "no script found") {
		t.Errorf("stderr = %q, want no script found", ta.stderr)
	}
	if _, err := os.Stat(filepath.Join(dest, "ghost")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ghost should not exist, stat error: %v", err)
	}
}

func TestExecute_VerboseNoMatchSuggests(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	if code := ta.run("--verbose", "--dest", t.TempDir(), "cc"); code != ExitFailure {
		t.Fatalf("exit code = %d, want %d", code, ExitFailure)
	}
	stderr := ta.stderr.String()
	if !strings.Contains(stderr, "Did you mean c") {
		t.Errorf("stderr should suggest c, got %q", stderr)
	}
	if !strings.Contains(stderr, "install --list --version main") {
		t.Errorf("stderr should point at --list, got %q", stderr)
	}
}

func TestExecute_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing names", nil},
		{"unknown flag", []string{"--bogus", "a"}},
		{"missing flag value", []string{"a", "--version"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ta := newTestApp(t, nil)
			if code := ta.run(tt.args...); code != ExitUsage {
				t.Fatalf("exit code = %d, want %d; stderr: %s", code, ExitUsage, ta.stderr)
			}
			if !strings.Contains(ta.stderr.String(), usageHint) {
				t.Errorf("stderr = %q, want usage hint", ta.stderr)
			}
		})
	}
}

func TestExecute_NoLogHidesOutcomeLines(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Log.NoLog = true
	ta := newTestApp(t, cfg)
	dest := t.TempDir()
	if code := ta.run("-d", dest, "a"); code != ExitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, ta.stderr)
	}
	if ta.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing with nolog", ta.stdout)
	}
	if _, err := os.Stat(filepath.Join(dest, "a")); err != nil {
		t.Errorf("script should still be installed: %v", err)
	}
}

func TestExecute_ConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Install.DefaultRef = "develop"
	cfg.Install.Dest = t.TempDir()
	ta := newTestApp(t, cfg)

	if code := ta.run("myscript"); code != ExitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, ta.stderr)
	}
	if _, err := os.Stat(filepath.Join(cfg.Install.Dest, "myscript")); err != nil {
		t.Errorf("script should be installed from the configured ref and dest: %v", err)
	}
}

func TestExecute_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	ta.app.Config = staticConfig{err: errors.New("broken config")}
	if code := ta.run("a"); code != ExitFailure {
		t.Fatalf("exit code = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(ta.stderr.String(), "broken config") {
		t.Errorf("stderr = %q", ta.stderr)
	}
}
