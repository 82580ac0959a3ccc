package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type exportRow struct {
	Tenant string
	Amount float64
}

func TestGenerateExcel(t *testing.T) {
	rows := []exportRow{{Tenant: "Asha", Amount: 10000}, {Tenant: "Ravi", Amount: 8500.5}}
	buf, err := GenerateExcel(rows, "Bills", []ExcelColumn{
		{Header: "Tenant", Field: "Tenant"},
		{Header: "Amount", Field: "Amount"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Bills", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Tenant", header)

	name, err := f.GetCellValue("Bills", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", name)

	amount, err := f.GetCellValue("Bills", "B2")
	require.NoError(t, err)
	assert.Equal(t, "10000", amount)
}

func TestGenerateExcel_RejectsNonSlice(t *testing.T) {
	_, err := GenerateExcel(exportRow{}, "Bills", nil)
	assert.Error(t, err)
}
