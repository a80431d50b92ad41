package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrNoWorksheet is returned when a workbook has no usable worksheet.
var ErrNoWorksheet = errors.New("no worksheet found in workbook")

// ReadXLSX loads one worksheet of an .xlsx workbook as a Grid. When sheet is
// empty the first worksheet is used.
func ReadXLSX(r io.Reader, sheet string) (Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoWorksheet
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheet, err)
	}
	return Grid(rows), nil
}
