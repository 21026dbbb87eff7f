// SPDX-License-Identifier: MPL-2.0

package pathreg

import (
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// ShellPOSIX covers sh, dash, ksh and any shell not recognized below.
	ShellPOSIX Shell = "posix"
	// ShellBash is GNU Bash.
	ShellBash Shell = "bash"
	// ShellZsh is the Z shell.
	ShellZsh Shell = "zsh"
	// ShellFish is the friendly interactive shell.
	ShellFish Shell = "fish"
	// ShellNu is Nushell.
	ShellNu Shell = "nu"

	// profileMarker precedes every statement the installer appends.
	profileMarker = "# Added by scripts installer."
)

// Shell identifies the login shell whose profile receives the PATH statement.
type Shell string

// DetectShell maps the value of $SHELL to a Shell by its base name.
func DetectShell(shellEnv string) Shell {
	switch filepath.Base(strings.TrimSpace(shellEnv)) {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	case "nu":
		return ShellNu
	}
	return ShellPOSIX
}

// String returns the shell tag.
func (s Shell) String() string { return string(s) }

// Statement returns the profile line that prepends dir to PATH in shell s.
func (s Shell) Statement(dir string) (string, error) {
	switch s {
	case ShellFish:
		return fmt.Sprintf("set --export PATH %s $PATH", doubleQuote(dir)), nil
	case ShellNu:
		return fmt.Sprintf("$env.PATH = ($env.PATH | split row (char esep) | prepend %s)", nuQuote(dir)), nil
	}
	return posixStatement(dir)
}

// posixStatement builds export PATH="<dir>:${PATH}" and checks that the
// result parses as a single POSIX shell command.
func posixStatement(dir string) (string, error) {
	var stmt string
	if strings.ContainsAny(dir, "\"$`\\") {
		quoted, err := syntax.Quote(dir, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", dir, err)
		}
		stmt = fmt.Sprintf(`export PATH=%s":${PATH}"`, quoted)
	} else {
		stmt = fmt.Sprintf(`export PATH="%s:${PATH}"`, dir)
	}

	file, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(stmt), "profile")
	if err != nil {
		return "", fmt.Errorf("invalid profile statement for %q: %w", dir, err)
	}
	if len(file.Stmts) != 1 {
		return "", fmt.Errorf("invalid profile statement for %q: expected one command, got %d", dir, len(file.Stmts))
	}
	return stmt, nil
}

func doubleQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

// nuQuote uses a single-quoted Nushell string, which has no escapes, and
// falls back to a raw string when dir contains a single quote.
func nuQuote(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	return "r#'" + s + "'#"
}
