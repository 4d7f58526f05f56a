package developer

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `{"name":"mine","version":"1.0","description":"a game","command":"python3 server_main.py"}`

func TestExtractZipFlatRoot(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"config.json":           validConfig,
		"client/client_main.py": "print('client')",
		"server/server_main.py": "print('server')",
	})
	extractDir, targetRoot, err := extractZip(zipPath, t.TempDir())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	defer os.RemoveAll(extractDir)
	if targetRoot != extractDir {
		t.Fatalf("targetRoot = %q, want extract root %q", targetRoot, extractDir)
	}
}

func TestExtractZipDetectsWrappingDir(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"mine/config.json":           validConfig,
		"mine/client/client_main.py": "c",
		"mine/server/server_main.py": "s",
		"__MACOSX/junk":              "ignored",
	})
	extractDir, targetRoot, err := extractZip(zipPath, t.TempDir())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	defer os.RemoveAll(extractDir)
	if filepath.Base(targetRoot) != "mine" {
		t.Fatalf("targetRoot = %q, want the wrapping dir", targetRoot)
	}
	if err := checkFolderStructure(targetRoot); err != nil {
		t.Fatalf("structure: %v", err)
	}
}

func TestExtractZipRejectsEscapingEntry(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"../evil.py": "import os",
	})
	_, _, err := extractZip(zipPath, t.TempDir())
	if err == nil {
		t.Fatal("expected error for entry escaping the archive root")
	}
}

func TestCheckFolderStructure(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "client"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "client", "client_main.py"), []byte("c"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := checkFolderStructure(root)
	if err == nil || !strings.Contains(err.Error(), "server/server_main.py") {
		t.Fatalf("err = %v, want missing server entry point", err)
	}

	if err := os.MkdirAll(filepath.Join(root, "server"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "server", "server_main.py"), []byte("s"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := checkFolderStructure(root); err != nil {
		t.Fatalf("complete structure rejected: %v", err)
	}
}

func TestReadGameConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "config.json"), []byte(validConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := readGameConfig(root)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.Name != "mine" || cfg.Version != "1.0" || cfg.Command != "python3 server_main.py" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestReadGameConfigMissingFields(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "config.json"), []byte(`{"name":"mine","version":"1.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := readGameConfig(root)
	if err == nil {
		t.Fatal("expected error for missing fields")
	}
	if !strings.Contains(err.Error(), "description") || !strings.Contains(err.Error(), "command") {
		t.Fatalf("err = %v, want both missing fields named", err)
	}
}

func TestReadGameConfigAbsent(t *testing.T) {
	_, err := readGameConfig(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "config.json") {
		t.Fatalf("err = %v, want missing config.json", err)
	}
}
