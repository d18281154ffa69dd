package dataframe

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelExtensions are the spreadsheet extensions the loader accepts.
var ExcelExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

// ErrSheetNotFound reports that the requested sheet does not exist in
// the workbook. Callers can recover the valid names from ExcelInfo.
var ErrSheetNotFound = errors.New("sheet not found")

// ExcelInfo describes which sheet a Frame was read from.
type ExcelInfo struct {
	// Sheet is the sheet that was actually loaded.
	Sheet string
	// Sheets lists every sheet in the workbook, in order.
	Sheets []string
}

// HasExcelExtension reports whether path carries a supported
// spreadsheet extension.
func HasExcelExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(ExcelExtensions, ext)
}

// ReadExcel parses one sheet of an Excel workbook into a Frame. An
// empty sheet name selects the first sheet. The returned ExcelInfo
// always carries the full sheet list, including on ErrSheetNotFound.
func ReadExcel(path, sheet string) (*Frame, *ExcelInfo, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%s contains no sheets", path)
	}

	info := &ExcelInfo{Sheets: sheets}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, info, fmt.Errorf("worksheet %q: %w", sheet, ErrSheetNotFound)
	}
	info.Sheet = sheet

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, info, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, info, fmt.Errorf("sheet %q is empty", sheet)
	}

	return New(rows[0], rows[1:]), info, nil
}
