// SPDX-License-Identifier: MPL-2.0

// Package manifest resolves installable scripts from the remote repository.
//
// The manifest is the recursive Git tree of one ref, filtered to blobs that
// live directly under the scripts directory and carry a supported extension.
// The package is organized into three concerns:
//   - kind.go: script kinds and the runtimes they need
//   - github.go: HTTP client for the Git trees API and raw content downloads
//   - manifest.go: name listing, resolution and "did you mean" suggestions
package manifest
