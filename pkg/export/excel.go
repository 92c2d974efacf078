package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Artifact describes a generated export file held in memory.
type Artifact struct {
	Filename      string `json:"filename"`
	ContentBase64 string `json:"content_base64"`
	Size          int    `json:"size"`
	Content       []byte `json:"-"`
}

// ExcelExporter serializes tabular rows into an in-memory xlsx workbook.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export writes rows (ordered field-name -> value mappings) to a single
// sheet. Column order is the sorted key set of the first row so repeated
// exports of the same result are byte-stable.
func (e *ExcelExporter) Export(rows []map[string]interface{}, sheetName string) (*Artifact, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to export")
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	headers := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, row[h]); err != nil {
				return nil, fmt.Errorf("write row %d: %w", rowIdx+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	content := buf.Bytes()
	return &Artifact{
		Filename:      fmt.Sprintf("export_%s.xlsx", sheetName),
		ContentBase64: base64.StdEncoding.EncodeToString(content),
		Size:          len(content),
		Content:       content,
	}, nil
}
