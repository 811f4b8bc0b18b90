package export

import (
	"bytes"

	"packer-backend/internal/apperr"

	"github.com/xuri/excelize/v2"
)

// writeXLSX собирает XLSX-файл: строка заголовка плюс строки данных.
// Заголовок пишется обычным шрифтом, без выделения.
func writeXLSX(headers []string, rows [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerCells := make([]any, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := setRow(f, sheet, 1, headerCells); err != nil {
		return nil, err
	}

	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperr.IO("Не удалось сформировать файл: %v", err)
	}
	return buf, nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return apperr.IO("Не удалось сформировать файл: %v", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return apperr.IO("Не удалось сформировать файл: %v", err)
	}
	return nil
}
