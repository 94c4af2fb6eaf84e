package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteExportCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")

	path, err := WriteExport(dir, "A.md", []byte("# hi\n"))
	if err != nil {
		t.Fatalf("WriteExport: %v", err)
	}
	if path != filepath.Join(dir, "A.md") {
		t.Fatalf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "# hi\n" {
		t.Fatalf("unexpected content %q", data)
	}
}
