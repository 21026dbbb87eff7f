// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "fetch manifest"},
			expected: "failed to fetch manifest",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "install scripts", Resource: "/usr/local/bin"},
			expected: "failed to install scripts: /usr/local/bin",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "config.cue",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load configuration: config.cue: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("place script").Wrap(sentinel).BuildError()
	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is should see through ActionableError, got %v", err)
	}
}

func TestActionableError_Format(t *testing.T) {
	inner := errors.New("permission denied")
	outer := errors.Join(errors.New("cannot write"), inner)
	err := NewErrorContext().
		WithOperation("install scripts").
		WithResource("/opt/bin").
		WithSuggestion("Rerun with --user").
		WithSuggestions("Pick another directory with --dest").
		Wrap(outer).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "• Rerun with --user") || !strings.Contains(short, "• Pick another directory with --dest") {
		t.Errorf("Format(false) missing suggestions:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) must not include the chain:\n%s", short)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "1. ") {
		t.Errorf("Format(true) should include the chain:\n%s", verbose)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation should return nil, got %v", err)
	}
}

func TestErrorContext_HasSuggestions(t *testing.T) {
	if (&ActionableError{Operation: "x"}).HasSuggestions() {
		t.Error("no suggestions expected")
	}
	if !NewErrorContext().WithOperation("x").WithSuggestion("y").Build().HasSuggestions() {
		t.Error("suggestion expected")
	}
}

func TestWrapWithContext(t *testing.T) {
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("nil error should stay nil")
	}
	cause := errors.New("boom")
	err := WrapWithContext(cause, "download script", "packup")
	if err.Error() != "failed to download script: packup: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable")
	}
}
