package dataframe

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "data.csv", "a,b\n1,2\n3,4\n")

	f, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if f.Shape() != "(2, 2)" {
		t.Errorf("shape = %s", f.Shape())
	}
	if f.Cell(1, 1) != int64(4) {
		t.Errorf("cell(1,1) = %v", f.Cell(1, 1))
	}
}

func TestReadCSVMissing(t *testing.T) {
	if _, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadCSVEmpty(t *testing.T) {
	path := writeFile(t, "empty.csv", "")
	if _, err := ReadCSV(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestReadCSVRagged(t *testing.T) {
	path := writeFile(t, "ragged.csv", "a,b,c\n1,2\n4,5,6\n")
	f, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if f.Shape() != "(2, 3)" {
		t.Errorf("shape = %s", f.Shape())
	}
	if f.Cell(0, 2) != nil {
		t.Errorf("short row cell = %v", f.Cell(0, 2))
	}
}
