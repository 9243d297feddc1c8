package extract

import (
	"context"
	"encoding/csv"
	"os"
)

// CSV flattens delimited text files the same way Spreadsheet flattens
// workbooks. Ragged rows are accepted; a header-only or empty file is a
// valid (possibly empty) result, never an error.
type CSV struct{}

func (CSV) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return "", err
	}
	return flattenRows(rows), nil
}
