// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"scripts-cli/internal/manifest"
)

// fileHash returns the lowercase hex SHA-256 digest of the file at path.
func fileHash(path string) (_ string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // read-only file handle

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// downloadToTempFile streams entry into a new temporary file and returns its
// path together with the SHA-256 of the content. The caller removes the file.
func downloadToTempFile(ctx context.Context, src Source, ref string, entry manifest.Entry) (path, sum string, err error) {
	body, err := src.Download(ctx, ref, entry)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	tmp, err := os.CreateTemp("", "scripts-download-*")
	if err != nil {
		return "", "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), body); err != nil {
		return "", "", err
	}
	return tmp.Name(), hex.EncodeToString(h.Sum(nil)), nil
}
