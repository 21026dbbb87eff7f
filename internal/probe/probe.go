// SPDX-License-Identifier: MPL-2.0

// Package probe locates optional local tools. Each capability lists its
// candidate programs in preference order; the first one found on the search
// path wins and the answer is memoized for the rest of the invocation.
package probe

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// ErrUnavailable is the sentinel error wrapped by UnavailableError.
var ErrUnavailable = errors.New("no candidate available")

var (
	// Elevator runs a single command with superuser privileges.
	Elevator = Capability{Name: "privilege elevation", Candidates: []string{"sudo", "doas"}}

	// Nushell runs .nu scripts.
	Nushell = Capability{Name: "nushell", Candidates: []string{"nu"}}

	// PowerShell runs .ps1 scripts.
	PowerShell = Capability{Name: "powershell", Candidates: []string{"pwsh", "powershell"}}
)

type (
	// Capability is a named, ordered list of interchangeable programs.
	Capability struct {
		Name       string
		Candidates []string
	}

	// UnavailableError reports that none of a capability's candidates exist.
	// It wraps ErrUnavailable for errors.Is() compatibility.
	UnavailableError struct {
		Capability Capability
	}

	// LookPathFunc resolves a program name to an executable path.
	LookPathFunc func(file string) (string, error)

	// Prober resolves capabilities and memoizes the answers. It is safe for
	// concurrent use.
	Prober struct {
		lookPath LookPathFunc
		mu       sync.Mutex
		cache    map[string]result
	}

	result struct {
		path string
		err  error
	}
)

// New creates a Prober backed by lookPath. A nil lookPath uses exec.LookPath.
func New(lookPath LookPathFunc) *Prober {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &Prober{lookPath: lookPath, cache: make(map[string]result)}
}

// Resolve returns the path of the first available candidate of c.
func (p *Prober) Resolve(c Capability) (string, error) {
	key := c.key()

	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.cache[key]; ok {
		return r.path, r.err
	}

	r := result{err: &UnavailableError{Capability: c}}
	for _, candidate := range c.Candidates {
		if path, err := p.lookPath(candidate); err == nil {
			r = result{path: path}
			break
		}
	}
	p.cache[key] = r
	return r.path, r.err
}

// Available reports whether any candidate of c exists.
func (p *Prober) Available(c Capability) bool {
	_, err := p.Resolve(c)
	return err == nil
}

func (c Capability) key() string {
	return c.Name + "\x00" + strings.Join(c.Candidates, "\x00")
}

// Error lists the candidates that were tried.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("no %s tool found (tried: %s)", e.Capability.Name, strings.Join(e.Capability.Candidates, ", "))
}

// Unwrap returns ErrUnavailable for errors.Is() compatibility.
func (e *UnavailableError) Unwrap() error { return ErrUnavailable }
