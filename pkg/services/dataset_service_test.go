package services

import (
	"bytes"
	"strings"
	"testing"

	"chart-advisor-api/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `date,category,sales
2024-01-01,A,100
2024-01-02,B,110.5
2024-01-03,A,95
2024-01-04,C,120
2024-01-05,B,130
2024-01-06,A,90
2024-01-07,C,105
`

func TestParseDatasetCSV(t *testing.T) {
	service := NewDatasetService()

	dataset, err := service.ParseDataset("sales.csv", strings.NewReader(sampleCSV))
	assert.NoError(t, err)
	assert.Equal(t, []string{"date", "category", "sales"}, dataset.Header)
	assert.Len(t, dataset.Rows, 7)

	descriptor := dataset.Descriptor
	assert.Equal(t, "sales.csv", descriptor.FileName)
	assert.Equal(t, 7, descriptor.RowCount)

	// 列型の推定
	assert.Equal(t, models.ColumnTypeDatetime, descriptor.Columns[0].Type)
	assert.Equal(t, models.ColumnTypeCategorical, descriptor.Columns[1].Type)
	assert.Equal(t, models.ColumnTypeNumeric, descriptor.Columns[2].Type)

	// ユニーク値の数
	assert.Equal(t, 7, descriptor.Columns[0].NUnique)
	assert.Equal(t, 3, descriptor.Columns[1].NUnique)

	// 行サンプルは上限までに制限される
	assert.Len(t, descriptor.SampleRows, MaxSampleRows)
	assert.Equal(t, []string{"2024-01-01", "A", "100"}, descriptor.SampleRows[0])
}

func TestParseDatasetXLSX(t *testing.T) {
	// excelizeでメモリ上にフィクスチャを作成
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"date", "category", "sales"},
		{"2024-01-01", "A", 100},
		{"2024-01-02", "B", 110},
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			assert.NoError(t, err)
			assert.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	assert.NoError(t, err)

	service := NewDatasetService()
	dataset, err := service.ParseDataset("sales.xlsx", &buf)
	assert.NoError(t, err)
	assert.Equal(t, []string{"date", "category", "sales"}, dataset.Header)
	assert.Equal(t, 2, dataset.Descriptor.RowCount)
	assert.Equal(t, models.ColumnTypeNumeric, dataset.Descriptor.Columns[2].Type)
}

func TestParseDatasetRejectsUnsupportedFormat(t *testing.T) {
	service := NewDatasetService()

	_, err := service.ParseDataset("report.pdf", strings.NewReader("dummy"))
	assert.Error(t, err)
}

func TestParseDatasetRequiresHeaderAndData(t *testing.T) {
	service := NewDatasetService()

	// ヘッダーのみ
	_, err := service.ParseDataset("empty.csv", strings.NewReader("a,b,c\n"))
	assert.Error(t, err)

	// 完全に空
	_, err = service.ParseDataset("empty.csv", strings.NewReader(""))
	assert.Error(t, err)
}

func TestInferColumnType(t *testing.T) {
	testCases := []struct {
		name     string
		values   []string
		expected string
	}{
		{"integers", []string{"1", "2", "3"}, models.ColumnTypeNumeric},
		{"floats", []string{"1.5", "-2.25", "0"}, models.ColumnTypeNumeric},
		{"iso dates", []string{"2024-01-01", "2024-02-01"}, models.ColumnTypeDatetime},
		{"slash dates", []string{"2024/1/2", "2024/01/03"}, models.ColumnTypeDatetime},
		{"labels", []string{"A", "B", "C"}, models.ColumnTypeCategorical},
		{"mixed", []string{"1", "A"}, models.ColumnTypeCategorical},
		{"no values", nil, models.ColumnTypeCategorical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, inferColumnType(tc.values))
		})
	}
}

// 列数の揺れたCSVでも取り込めることを確認
func TestParseDatasetRaggedRows(t *testing.T) {
	service := NewDatasetService()

	raw := "a,b,c\n1,2,3\n4,5\n"
	dataset, err := service.ParseDataset("ragged.csv", strings.NewReader(raw))
	assert.NoError(t, err)
	assert.Len(t, dataset.Rows, 2)
}
