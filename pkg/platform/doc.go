// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes operating system names and the naming rules
// that differ between Windows and Unix-like hosts for installed scripts.
package platform
