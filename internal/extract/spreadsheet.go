package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet dumps the first sheet of a workbook as column-aligned text,
// header row included. Legacy binary .xls files cannot be opened by
// excelize; they degrade to the diagnostic sentinel at the registry
// boundary like any other strategy failure.
type Spreadsheet struct{}

func (Spreadsheet) Extract(ctx context.Context, path string) (string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return "", nil
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return "", err
	}
	return flattenRows(rows), nil
}

// flattenRows renders tabular data row-major with aligned columns, the way
// a human would read the sheet. Zero rows produce an empty string.
func flattenRows(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}
