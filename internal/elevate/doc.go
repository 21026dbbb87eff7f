// SPDX-License-Identifier: MPL-2.0

// Package elevate decides whether installing into a directory needs superuser
// privileges and, when it does, performs the directory creation, file write
// and chmod through sudo or doas.
//
// The process boundary is the Runner interface and the privilege boundary is
// the Privileges interface, so both paths are testable without a real sudo.
package elevate
