// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors that carry remediation hints, and
// a catalog of Markdown remediation cards rendered for verbose output.
package issue
