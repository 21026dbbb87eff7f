// SPDX-License-Identifier: MPL-2.0

package elevate

import (
	"os"
	"path/filepath"
)

// nearestExisting walks up from dir to the first path that exists.
func nearestExisting(dir string) (string, bool) {
	p := filepath.Clean(dir)
	for {
		if info, err := os.Stat(p); err == nil {
			return p, info.IsDir()
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", false
		}
		p = parent
	}
}
