package schedule

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbookGrid loads the first sheet of an uploaded workbook into the
// string grid the parser consumes. Excelize renders time cells either as
// formatted clock text or as the raw serial fraction; the classifier accepts
// both.
func ReadWorkbookGrid(r io.Reader) ([][]string, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Reason: "workbook could not be opened: " + err.Error()}
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "workbook contains no sheets"}
	}

	rows, err := workbook.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Reason: "sheet could not be read: " + err.Error()}
	}
	return rows, nil
}

// ParseWorkbook is the one-call path from uploaded bytes to normalized records.
func ParseWorkbook(r io.Reader, fileName string) (*ParseResult, error) {
	grid, err := ReadWorkbookGrid(r)
	if err != nil {
		return nil, err
	}
	return ParseGrid(grid, fileName)
}
