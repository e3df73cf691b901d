package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"jtl/internal/domain"
)

func writeCandidate(t *testing.T, dir, name, content string) domain.TestFile {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	base := filepath.Base(name)
	return domain.TestFile{
		FileName: path,
		Name:     base[:len(base)-len(filepath.Ext(base))],
	}
}

func TestFilter_Apply(t *testing.T) {
	tmpDir := t.TempDir()
	login := writeCandidate(t, tmpDir, "login.test.js", "// special-marker\nmodule.exports = {};")
	checkout := writeCandidate(t, tmpDir, "checkout.test.js", "module.exports = {};")
	cart := writeCandidate(t, tmpDir, "cart.test.js", "// special-marker too")

	filter := NewFilter()
	all := []domain.TestFile{login, checkout, cart}

	t.Run("empty criteria keeps everything", func(t *testing.T) {
		out, err := filter.Apply(context.Background(), all, Criteria{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 3 {
			t.Errorf("expected 3 files, got %d", len(out))
		}
	})

	t.Run("name filter is unanchored", func(t *testing.T) {
		out, err := filter.Apply(context.Background(), all, Criteria{Name: "out"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 1 || out[0].Name != "checkout.test" {
			t.Errorf("expected [checkout.test], got %v", out)
		}
	})

	t.Run("body filter reads contents", func(t *testing.T) {
		out, err := filter.Apply(context.Background(), all, Criteria{Body: "special-marker"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("expected 2 files, got %d", len(out))
		}
		// Input order preserved
		if out[0].Name != "login.test" || out[1].Name != "cart.test" {
			t.Errorf("expected [login.test cart.test], got %v", out)
		}
	})

	t.Run("name filter applies before body filter", func(t *testing.T) {
		out, err := filter.Apply(context.Background(), all, Criteria{Name: "^cart", Body: "special-marker"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 1 || out[0].Name != "cart.test" {
			t.Errorf("expected [cart.test], got %v", out)
		}
	})

	t.Run("unreadable file aborts the whole call", func(t *testing.T) {
		missing := domain.TestFile{FileName: filepath.Join(tmpDir, "gone.test.js"), Name: "gone.test"}
		_, err := filter.Apply(context.Background(), append(all, missing), Criteria{Body: "special-marker"})
		if err == nil {
			t.Error("expected error for unreadable file")
		}
	})

	t.Run("invalid regexes error", func(t *testing.T) {
		if _, err := filter.Apply(context.Background(), all, Criteria{Name: "("}); err == nil {
			t.Error("expected error for invalid name regex")
		}
		if _, err := filter.Apply(context.Background(), all, Criteria{Body: "("}); err == nil {
			t.Error("expected error for invalid body regex")
		}
	})
}
