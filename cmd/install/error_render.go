// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"scripts-cli/internal/config"
	"scripts-cli/internal/elevate"
	"scripts-cli/internal/installer"
	"scripts-cli/internal/issue"
	"scripts-cli/internal/manifest"
)

// renderError writes err to stderr. Usage errors get the help hint. Other
// errors are one line unless --verbose was given, which adds remediation
// suggestions, the error chain and the matching catalog card.
func (a *App) renderError(err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitUsage {
		fmt.Fprintf(a.stderr, "%s %s\n%s\n", ErrorStyle.Render("Error:"), exitErr.Err, usageHint)
		return
	}

	if !a.verbose {
		fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), err)
		return
	}

	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), actionable(err).Format(true))

	entry := issue.Get(classifyError(err))
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(glamourStyle(a.stderr))
	if renderErr != nil {
		fmt.Fprintf(a.stderr, "%s cannot render help: %v\n", WarningStyle.Render("Warning:"), renderErr)
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// classifyError maps a failure to its issue catalog id, or 0 when no card
// applies.
func classifyError(err error) issue.Id {
	var (
		rateErr *manifest.RateLimitError
		ae      *issue.ActionableError
	)
	switch {
	case errors.As(err, &rateErr):
		return issue.RateLimitedId
	case errors.Is(err, manifest.ErrNetworkTimeout):
		return issue.NetworkTimeoutId
	case errors.Is(err, manifest.ErrRefNotFound):
		return issue.RefNotFoundId
	case errors.Is(err, manifest.ErrManifestFetch):
		return issue.ManifestFetchFailedId
	case errors.Is(err, installer.ErrNoMatch):
		return issue.ScriptNotFoundId
	case errors.Is(err, elevate.ErrElevationUnavailable):
		return issue.ElevationUnavailableId
	case errors.Is(err, installer.ErrPathUpdate):
		return issue.PathUpdateFailedId
	case errors.Is(err, elevate.ErrWrite), errors.Is(err, os.ErrPermission):
		return issue.DestinationNotWritableId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.As(err, &ae) && strings.HasSuffix(ae.Operation, "configuration"):
		return issue.ConfigLoadFailedId
	default:
		return 0
	}
}

// actionable returns err as an ActionableError, attaching suggestions for the
// failures the installer knows how to explain.
func actionable(err error) *issue.ActionableError {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae
	}

	ctx := issue.NewErrorContext().Wrap(err)
	var noMatch *installer.NoMatchError
	switch {
	case errors.As(err, &noMatch):
		ctx.WithOperation("find scripts").WithResource(strings.Join(noMatch.Names, ", "))
		for _, name := range noMatch.Names {
			if s := noMatch.Suggestions[name]; len(s) > 0 {
				ctx.WithSuggestion(fmt.Sprintf("Did you mean %s instead of %q?", strings.Join(s, " or "), name))
			}
		}
		ctx.WithSuggestion(fmt.Sprintf("Run 'install --list --version %s' to see available scripts", noMatch.Ref))
	case errors.Is(err, elevate.ErrElevationUnavailable):
		ctx.WithOperation("elevate privileges").
			WithSuggestions("Install sudo or doas", "Rerun with --user to install into your home directory")
	case errors.Is(err, installer.ErrPathUpdate):
		ctx.WithOperation("update the search path").
			WithSuggestion("Add the install directory to PATH in your shell profile by hand")
	case errors.Is(err, elevate.ErrWrite):
		ctx.WithOperation("write scripts").
			WithSuggestions("Rerun with --user", "Choose a writable directory with --dest")
	case errors.Is(err, manifest.ErrNetworkTimeout):
		ctx.WithOperation("reach GitHub").
			WithSuggestion(`Raise network.timeout in the config file, e.g. "90s"`)
	case errors.Is(err, manifest.ErrRefNotFound):
		ctx.WithOperation("fetch the script list").
			WithSuggestion("Check the branch, tag or commit passed with --version")
	case errors.Is(err, manifest.ErrManifestFetch):
		ctx.WithOperation("fetch the script list").
			WithSuggestion("Set " + config.EnvGitHubToken + " if you are being rate limited")
	default:
		ctx.WithOperation("install scripts")
	}
	return ctx.Build()
}

// glamourStyle picks the Markdown style for w: plain text when w is not a
// terminal, otherwise dark or light to match the background.
func glamourStyle(w io.Writer) string {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
