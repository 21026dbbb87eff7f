// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestNewRepoServer(t *testing.T) {
	srv := NewRepoServer(t, DefaultRepoFiles())

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		return resp.StatusCode, string(body)
	}

	code, body := get("/repos/scruffaluff/scripts/git/trees/develop")
	if code != http.StatusOK || !strings.Contains(body, `"src/myscript.sh"`) {
		t.Errorf("tree develop = %d %q", code, body)
	}

	code, body = get("/scruffaluff/scripts/main/src/a.sh")
	if code != http.StatusOK || body != "#!/bin/sh\necho a\n" {
		t.Errorf("raw a.sh = %d %q", code, body)
	}

	if code, _ = get("/repos/scruffaluff/scripts/git/trees/missing"); code != http.StatusNotFound {
		t.Errorf("unknown ref = %d, want 404", code)
	}
	if code, _ = get("/scruffaluff/scripts/main/src/none.sh"); code != http.StatusNotFound {
		t.Errorf("unknown file = %d, want 404", code)
	}
}
