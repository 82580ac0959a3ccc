package utils

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/xuri/excelize/v2"
)

// ExcelColumn maps a struct field onto a header cell.
type ExcelColumn struct {
	Header string
	Field  string
}

// GenerateExcel renders a slice of structs into an xlsx workbook, one row per element.
func GenerateExcel(data interface{}, sheetName string, columns []ExcelColumn) (*bytes.Buffer, error) {
	dataSlice := reflect.ValueOf(data)
	if dataSlice.Kind() != reflect.Slice {
		return nil, fmt.Errorf("expected data to be a slice, got %v", dataSlice.Kind())
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	if sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("error creating header style: %w", err)
	}

	for col, column := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, column.Header); err != nil {
			return nil, fmt.Errorf("error setting header %s: %w", column.Header, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for row := 0; row < dataSlice.Len(); row++ {
		item := reflect.Indirect(dataSlice.Index(row))
		for col, column := range columns {
			field := item.FieldByName(column.Field)
			if !field.IsValid() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, field.Interface()); err != nil {
				return nil, fmt.Errorf("error setting %s at %s: %w", column.Field, cell, err)
			}
		}
	}

	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf, nil
}
