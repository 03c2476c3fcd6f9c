package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// xlsxSheet is the single worksheet of a spreadsheet export.
const xlsxSheet = "Sheet1"

// renderXLSX writes one worksheet: Header in row 1, one record per row
// after it. Ids are numeric cells, every other field is text.
func renderXLSX(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+2, err)
		}
		values := make([]any, 0, len(Header))
		for _, v := range r.Values() {
			values = append(values, v)
		}
		if r.HasID() {
			values = append(values, *r.ID)
		} else {
			values = append(values, "")
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("encode xlsx: %w", err)
	}
	return nil
}
