// SPDX-License-Identifier: MPL-2.0

//go:build windows

package elevate

import (
	"os"

	"golang.org/x/sys/windows"
)

// OSPrivileges answers privilege questions for the running process.
type OSPrivileges struct{}

// IsPrivileged reports whether the process token is elevated.
func (OSPrivileges) IsPrivileged() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// CanWrite probes dir (or its nearest existing ancestor) by creating and
// removing a temporary file. ACLs make a permission-bit check unreliable.
func (OSPrivileges) CanWrite(dir string) bool {
	existing, ok := nearestExisting(dir)
	if !ok {
		return false
	}
	f, err := os.CreateTemp(existing, ".write-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
