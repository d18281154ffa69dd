package dataframe

import (
	"encoding/csv"
	"fmt"
	"os"
)

// ReadCSV parses a CSV file into a Frame. The first record is the
// header; column types are inferred from the remaining records.
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	// Tolerate ragged rows; New pads or truncates against the header.
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	return New(records[0], records[1:]), nil
}
