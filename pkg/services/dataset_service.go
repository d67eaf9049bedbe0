package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"chart-advisor-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

// DatasetService はアップロードされた表データの取り込みと
// DatasetDescriptorの導出を担当します。
type DatasetService struct{}

// NewDatasetService は新しいDatasetServiceを生成します。
func NewDatasetService() *DatasetService {
	return &DatasetService{}
}

// 日付として解釈を試みるレイアウト
var dateLayouts = []string{
	"2006-01-02",
	"2006/1/2",
	"2006/01/02",
	time.RFC3339,
}

// ParseDataset はCSVまたはXLSXのストリームを読み込み、ヘッダー・データ行・
// DatasetDescriptorを構築します。ヘッダー行と少なくとも1行のデータが必要です。
func (ds *DatasetService) ParseDataset(fileName string, file io.Reader) (*models.Dataset, error) {
	var rows [][]string

	lower := strings.ToLower(fileName)
	if strings.HasSuffix(lower, ".xlsx") {
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, fmt.Errorf("Excelファイルの読み込みに失敗: %w", err)
		}
		rows, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("Excelシートの行取得に失敗: %w", err)
		}
	} else if strings.HasSuffix(lower, ".csv") {
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1 // 列数の揺れは許容する
		var err error
		rows, err = r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("CSVファイルの解析に失敗: %w", err)
		}
	} else {
		return nil, fmt.Errorf("サポートされていないファイル形式です: %s (.xlsxまたは.csvをアップロードしてください)", fileName)
	}

	if len(rows) < 2 { // Header + at least one data row
		return nil, fmt.Errorf("ファイルにはヘッダー行と少なくとも1行のデータが必要です")
	}

	header := rows[0]
	dataRows := rows[1:]

	return &models.Dataset{
		FileName:   fileName,
		Header:     header,
		Rows:       dataRows,
		Descriptor: ds.BuildDescriptor(fileName, header, dataRows),
	}, nil
}

// BuildDescriptor はヘッダーとデータ行から列メタデータと行サンプルを導出します。
func (ds *DatasetService) BuildDescriptor(fileName string, header []string, dataRows [][]string) models.DatasetDescriptor {
	columns := make([]models.ColumnMeta, len(header))
	for i, name := range header {
		values := columnValues(dataRows, i)
		columns[i] = models.ColumnMeta{
			Name:    name,
			Type:    inferColumnType(values),
			NUnique: countUnique(values),
		}
	}

	// 行サンプルは先頭の固定件数のみ
	sampleLen := len(dataRows)
	if sampleLen > MaxSampleRows {
		sampleLen = MaxSampleRows
	}
	sample := make([][]string, sampleLen)
	copy(sample, dataRows[:sampleLen])

	return models.DatasetDescriptor{
		FileName:   fileName,
		Columns:    columns,
		RowCount:   len(dataRows),
		SampleRows: sample,
	}
}

// columnValues は指定列の空でない値を集めます。
func columnValues(dataRows [][]string, colIdx int) []string {
	values := make([]string, 0, len(dataRows))
	for _, row := range dataRows {
		if colIdx < len(row) {
			v := strings.TrimSpace(row[colIdx])
			if v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// inferColumnType は列の粗い型を推定します。
// すべて数値として解釈できればnumeric、すべて日付として解釈できればdatetime、
// それ以外はcategoricalです。
func inferColumnType(values []string) string {
	if len(values) == 0 {
		return models.ColumnTypeCategorical
	}

	numeric := true
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
			break
		}
	}
	if numeric {
		return models.ColumnTypeNumeric
	}

	datetime := true
	for _, v := range values {
		if _, ok := parseDate(v); !ok {
			datetime = false
			break
		}
	}
	if datetime {
		return models.ColumnTypeDatetime
	}

	return models.ColumnTypeCategorical
}

// parseDate は既知のレイアウトで日付の解釈を試みます。
func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// countUnique はユニーク値の数を数えます。
func countUnique(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
