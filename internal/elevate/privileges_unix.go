// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package elevate

import (
	"os"

	"golang.org/x/sys/unix"
)

// OSPrivileges answers privilege questions for the running process.
type OSPrivileges struct{}

// IsPrivileged reports whether the effective user is root.
func (OSPrivileges) IsPrivileged() bool {
	return os.Geteuid() == 0
}

// CanWrite reports whether the effective user may create entries in dir, or in
// its nearest existing ancestor.
func (OSPrivileges) CanWrite(dir string) bool {
	existing, ok := nearestExisting(dir)
	if !ok {
		return false
	}
	return unix.Access(existing, unix.W_OK|unix.X_OK) == nil
}
