package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustTempDir(t *testing.T) string {
	t.Helper()
	d := t.TempDir()
	// Ensure real path (EvalSymlinks on macOS can change /var -> /private/var)
	real, err := filepath.EvalSymlinks(d)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	return real
}

func TestNewManager_ValidateConfig(t *testing.T) {
	dir := mustTempDir(t)
	m, err := NewManager([]string{dir}, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if err := m.ValidateConfig(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	if got := len(m.AllowedDirectories()); got != 1 {
		t.Fatalf("allowed dirs len = %d, want 1", got)
	}
}

func TestValidateConfig_EmptyAllowList(t *testing.T) {
	m, err := NewManager(nil, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if err := m.ValidateConfig(); err == nil {
		t.Fatal("expected error for empty allow-list")
	}
}

func TestValidateOpenPath_AllowsWithinRoot(t *testing.T) {
	root := mustTempDir(t)
	sub := filepath.Join(root, "exports")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fpath := filepath.Join(sub, "deals.csv")
	if err := os.WriteFile(fpath, []byte("title\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	m, err := NewManager([]string{root}, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	got, err := m.ValidateOpenPath(fpath)
	if err != nil {
		t.Fatalf("validate path: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}
}

func TestValidateOpenPath_RejectsOutsideRoot(t *testing.T) {
	root := mustTempDir(t)
	other := mustTempDir(t)
	fpath := filepath.Join(other, "deals.csv")
	if err := os.WriteFile(fpath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	m, err := NewManager([]string{root}, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := m.ValidateOpenPath(fpath); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}
}

func TestValidateOpenPath_RejectsExtension(t *testing.T) {
	root := mustTempDir(t)
	fpath := filepath.Join(root, "deals.json")
	if err := os.WriteFile(fpath, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	m, err := NewManager([]string{root}, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := m.ValidateOpenPath(fpath); !errors.Is(err, ErrUnsupportedExtension) {
		t.Fatalf("err = %v, want ErrUnsupportedExtension", err)
	}
}

func TestValidateOpenPath_MissingFile(t *testing.T) {
	root := mustTempDir(t)
	m, err := NewManager([]string{root}, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := m.ValidateOpenPath(filepath.Join(root, "absent.csv")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestValidateOpenPath_SymlinkEscape(t *testing.T) {
	root := mustTempDir(t)
	outside := mustTempDir(t)
	target := filepath.Join(outside, "secret.csv")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	link := filepath.Join(root, "link.csv")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	m, err := NewManager([]string{root}, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := m.ValidateOpenPath(link); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("err = %v, want ErrNotAllowed", err)
	}
}
