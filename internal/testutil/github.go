// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
)

type (
	// RepoFiles maps a git ref to the files at that ref, keyed by repository
	// path.
	RepoFiles map[string]map[string]string

	treeNode struct {
		Path string `json:"path"`
		Type string `json:"type"`
	}
)

// NewRepoServer serves the GitHub trees API and raw content for
// scruffaluff/scripts from refs. Use the server URL as both API and raw base.
// Unknown refs and paths answer 404.
func NewRepoServer(t testing.TB, refs RepoFiles) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const treePrefix = "/repos/scruffaluff/scripts/git/trees/"
		if ref, ok := strings.CutPrefix(r.URL.Path, treePrefix); ok {
			files, found := refs[ref]
			if !found {
				http.NotFound(w, r)
				return
			}
			paths := make([]string, 0, len(files))
			for p := range files {
				paths = append(paths, p)
			}
			slices.Sort(paths)

			var tree struct {
				Tree []treeNode `json:"tree"`
			}
			for _, p := range paths {
				tree.Tree = append(tree.Tree, treeNode{Path: p, Type: "blob"})
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(tree)
			return
		}

		rest, ok := strings.CutPrefix(r.URL.Path, "/scruffaluff/scripts/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		ref, filePath, _ := strings.Cut(rest, "/")
		content, found := refs[ref][filePath]
		if !found {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(content))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// DefaultRepoFiles is a small repository: three scripts of different kinds
// plus non-script files on main, and a single script on develop.
func DefaultRepoFiles() RepoFiles {
	return RepoFiles{
		"main": {
			"src/a.sh":   "#!/bin/sh\necho a\n",
			"src/b.ps1":  "Write-Output b\n",
			"src/c.nu":   "print c\n",
			"README.md":  "# scripts\n",
			"src/packup": "not a script\n",
		},
		"develop": {
			"src/myscript.sh": "#!/bin/sh\necho develop\n",
		},
	}
}
