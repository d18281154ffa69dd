package dataframe

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an xlsx file with two sheets.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	// The default sheet is "Sheet1"; rename it and add a second one.
	if err := wb.SetSheetName("Sheet1", "data"); err != nil {
		t.Fatal(err)
	}
	if _, err := wb.NewSheet("extra"); err != nil {
		t.Fatal(err)
	}

	rows := [][]any{{"a", "b"}, {1, 2}, {3, 4}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.SetSheetRow("data", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := wb.SetSheetRow("extra", "A1", &[]any{"x"}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadExcelFirstSheet(t *testing.T) {
	path := writeWorkbook(t)

	f, info, err := ReadExcel(path, "")
	if err != nil {
		t.Fatalf("ReadExcel: %v", err)
	}
	if info.Sheet != "data" {
		t.Errorf("sheet = %q", info.Sheet)
	}
	if len(info.Sheets) != 2 {
		t.Errorf("sheets = %v", info.Sheets)
	}
	if f.Shape() != "(2, 2)" {
		t.Errorf("shape = %s", f.Shape())
	}
	if f.Cell(0, 0) != int64(1) {
		t.Errorf("cell(0,0) = %v", f.Cell(0, 0))
	}
}

func TestReadExcelNamedSheet(t *testing.T) {
	path := writeWorkbook(t)

	f, info, err := ReadExcel(path, "extra")
	if err != nil {
		t.Fatalf("ReadExcel: %v", err)
	}
	if info.Sheet != "extra" {
		t.Errorf("sheet = %q", info.Sheet)
	}
	if f.Cols() != 1 {
		t.Errorf("cols = %d", f.Cols())
	}
}

func TestReadExcelMissingSheet(t *testing.T) {
	path := writeWorkbook(t)

	_, info, err := ReadExcel(path, "nope")
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
	// The valid sheet names must still be reported.
	if info == nil || len(info.Sheets) != 2 {
		t.Errorf("info = %+v", info)
	}
}

func TestReadExcelMissingFile(t *testing.T) {
	if _, _, err := ReadExcel(filepath.Join(t.TempDir(), "nope.xlsx"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHasExcelExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"book.xlsx", true},
		{"BOOK.XLSM", true},
		{"book.xltx", true},
		{"book.csv", false},
		{"book.xls", false},
		{"book", false},
	}
	for _, tc := range tests {
		if got := HasExcelExtension(tc.path); got != tc.want {
			t.Errorf("HasExcelExtension(%q) = %v", tc.path, got)
		}
	}
}
