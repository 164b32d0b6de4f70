package panel

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandlerServesRoot(t *testing.T) {
	w := get(t, Handler(""), "/")

	if w.Code != http.StatusOK {
		t.Errorf("GET /: got status %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<!DOCTYPE html>") {
		t.Error("GET /: response doesn't contain HTML doctype")
	}
	if got := w.Header().Get("Cache-Control"); got != "no-cache, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestHandlerServesAssets(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/viewer.js", "scene.changed"},
		{"/viewer.css", "#particles"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(t, Handler(""), tt.path)
			if w.Code != http.StatusOK {
				t.Fatalf("GET %s: got status %d, want 200", tt.path, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("GET %s: body missing %q", tt.path, tt.want)
			}
		})
	}
}

func TestHandlerFallback(t *testing.T) {
	for _, p := range []string{"/nonexistent", "/some/deep/route"} {
		w := get(t, Handler(""), p)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: got status %d, want 200", p, w.Code)
		}
		if !strings.Contains(w.Body.String(), "<!DOCTYPE html>") {
			t.Errorf("GET %s: fallback didn't serve index.html", p)
		}
	}
}

func TestHandlerFilesystemMode(t *testing.T) {
	dir := t.TempDir()
	indexContent := `<!DOCTYPE html><html><body>filesystem viewer</body></html>`
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(indexContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "test.js"), []byte("console.log('test')"), 0o644); err != nil {
		t.Fatal(err)
	}

	handler := Handler(dir)

	if w := get(t, handler, "/"); !strings.Contains(w.Body.String(), "filesystem viewer") {
		t.Errorf("filesystem GET /: got %q", w.Body.String())
	}
	if w := get(t, handler, "/test.js"); w.Code != http.StatusOK {
		t.Errorf("filesystem GET /test.js: got status %d", w.Code)
	}
	if w := get(t, handler, "/deep/route"); !strings.Contains(w.Body.String(), "filesystem viewer") {
		t.Error("filesystem fallback didn't serve index.html")
	}
}

func TestHandlerMissingDirUsesEmbedded(t *testing.T) {
	w := get(t, Handler(filepath.Join(t.TempDir(), "missing")), "/viewer.js")
	if w.Code != http.StatusOK {
		t.Errorf("got status %d, want embedded asset", w.Code)
	}
}
