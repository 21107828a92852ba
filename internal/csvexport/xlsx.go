package csvexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ladinglens/internal/domain"
)

const sheetName = "Shipments"

// WriteXLSX renders the documents as a single-sheet XLSX workbook.
func WriteXLSX(w io.Writer, docs []domain.ShipmentDocument) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("csvexport.WriteXLSX: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("csvexport.WriteXLSX: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("csvexport.WriteXLSX: %w", err)
	}

	for i := range docs {
		row := documentToRow(&docs[i])
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("csvexport.WriteXLSX: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("csvexport.WriteXLSX: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("csvexport.WriteXLSX: %w", err)
	}
	return nil
}
