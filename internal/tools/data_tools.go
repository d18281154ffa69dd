package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/datasage-io/datasage/internal/dataframe"
)

func (r *Registry) registerBuiltins() {
	r.Register(&Tool{
		Name:        "load_csv",
		Description: "Load a CSV file into the analysis table. The table becomes available as 'df' in run_code. Replaces any previously loaded table.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "Path to the CSV file to load",
				},
			},
			"required": []string{"file_path"},
		},
		Handler: r.handleLoadCSV,
	})

	r.Register(&Tool{
		Name:        "load_excel",
		Description: "Load a sheet from an Excel workbook into the analysis table. Loads the first sheet unless sheet_name is given. Replaces any previously loaded table.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "Path to the Excel file to load",
				},
				"sheet_name": map[string]any{
					"type":        "string",
					"description": "Name of the sheet to load (default: first sheet)",
				},
			},
			"required": []string{"file_path"},
		},
		Handler: r.handleLoadExcel,
	})

	r.Register(&Tool{
		Name: "run_code",
		Description: "Execute a Lua snippet against the loaded table for analysis. " +
			"The table is available as 'df' (methods: head, select, filter, column, sum, mean, min, max, count, summary, html; " +
			"properties: shape, columns, rows, cols). " +
			"A 'stats' module works on plain number arrays, and 'plot' (figure, line, scatter, bar) builds charts that are saved automatically. " +
			"The last line, if a bare expression, is printed like in a REPL.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Lua code to execute",
				},
			},
			"required": []string{"code"},
		},
		Handler: r.handleRunCode,
	})
}

// Tool handlers. Load failures are textual results, never errors, and
// leave the previous table intact.

func (r *Registry) handleLoadCSV(ctx context.Context, args map[string]any) (string, error) {
	path, _ := args["file_path"].(string)
	if path == "" {
		return "", fmt.Errorf("file_path is required")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("Error: File '%s' not found.", path), nil
	}

	frame, err := dataframe.ReadCSV(path)
	if err != nil {
		return fmt.Sprintf("Error loading CSV file: %v", err), nil
	}

	r.session.SetFrame(frame)
	r.logger.Info("CSV loaded", "path", path, "rows", frame.Rows(), "cols", frame.Cols())

	return fmt.Sprintf("Successfully loaded CSV file '%s'\n%s", path, frame.Summary()), nil
}

func (r *Registry) handleLoadExcel(ctx context.Context, args map[string]any) (string, error) {
	path, _ := args["file_path"].(string)
	if path == "" {
		return "", fmt.Errorf("file_path is required")
	}
	sheet, _ := args["sheet_name"].(string)

	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("Error: File '%s' not found.", path), nil
	}

	if !dataframe.HasExcelExtension(path) {
		return fmt.Sprintf("Error: File '%s' is not an Excel file. Supported extensions: %s",
			path, strings.Join(dataframe.ExcelExtensions, ", ")), nil
	}

	frame, info, err := dataframe.ReadExcel(path, sheet)
	if err != nil {
		if errors.Is(err, dataframe.ErrSheetNotFound) {
			return fmt.Sprintf("Error: %v\nAvailable sheets: %s",
				err, strings.Join(info.Sheets, ", ")), nil
		}
		return fmt.Sprintf("Error loading Excel file: %v", err), nil
	}

	sheetInfo := fmt.Sprintf(" from sheet '%s'", info.Sheet)
	if sheet == "" {
		sheetInfo += " (first sheet)"
		if len(info.Sheets) > 1 {
			sheetInfo += fmt.Sprintf("\nAvailable sheets: %s", strings.Join(info.Sheets, ", "))
		}
	}

	r.session.SetFrame(frame)
	r.logger.Info("Excel loaded", "path", path, "sheet", info.Sheet, "rows", frame.Rows(), "cols", frame.Cols())

	return fmt.Sprintf("Successfully loaded Excel file '%s'%s\n%s", path, sheetInfo, frame.Summary()), nil
}

func (r *Registry) handleRunCode(ctx context.Context, args map[string]any) (string, error) {
	code, _ := args["code"].(string)
	if code == "" {
		return "", fmt.Errorf("code is required")
	}
	return r.runner.Execute(code), nil
}
