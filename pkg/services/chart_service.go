package services

import (
	"fmt"
	"strconv"
	"strings"

	"chart-advisor-api/pkg/models"
)

// ChartService はchart_typeとX/Y列の選択から宣言的なチャート仕様
// （Vega-Lite）を組み立てます。chart_type -> markの対応は固定の1:1テーブルで、
// ここに推論ロジックはありません。
type ChartService struct{}

// NewChartService は新しいChartServiceを生成します。
func NewChartService() *ChartService {
	return &ChartService{}
}

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// BuildChartSpec はデータセットの行を埋め込んだVega-Lite仕様を返します。
// chart_typeが語彙外、または列が見つからない場合はエラーです
// （Validatorを通過した推薦では起こらない想定）。
func (cs *ChartService) BuildChartSpec(dataset *models.Dataset, xColumn, yColumn, chartType, title string) (map[string]interface{}, error) {
	xIdx := findColumn(dataset.Header, xColumn)
	yIdx := findColumn(dataset.Header, yColumn)
	if xIdx == -1 {
		return nil, fmt.Errorf("X軸の列 '%s' が見つかりません", xColumn)
	}
	if yIdx == -1 {
		return nil, fmt.Errorf("Y軸の列 '%s' が見つかりません", yColumn)
	}

	values := cs.rowsAsValues(dataset)

	spec := map[string]interface{}{
		"$schema": vegaLiteSchema,
		"title":   title,
		"data":    map[string]interface{}{"values": values},
	}

	xType := fieldType(dataset.Descriptor, xColumn)
	yType := fieldType(dataset.Descriptor, yColumn)

	switch chartType {
	case models.ChartTypeLine:
		spec["mark"] = "line"
		spec["encoding"] = xyEncoding(xColumn, xType, yColumn, yType)
	case models.ChartTypeBar:
		spec["mark"] = "bar"
		spec["encoding"] = xyEncoding(xColumn, xType, yColumn, yType)
	case models.ChartTypeScatter:
		spec["mark"] = "point"
		spec["encoding"] = xyEncoding(xColumn, xType, yColumn, yType)
	case models.ChartTypeArea:
		spec["mark"] = "area"
		spec["encoding"] = xyEncoding(xColumn, xType, yColumn, yType)
	case models.ChartTypeHistogram:
		// ヒストグラムはX列をビン分割し、件数を数えます。
		spec["mark"] = "bar"
		spec["encoding"] = map[string]interface{}{
			"x": map[string]interface{}{"field": xColumn, "bin": true, "type": "quantitative"},
			"y": map[string]interface{}{"aggregate": "count", "type": "quantitative"},
		}
	case models.ChartTypeBoxplot:
		spec["mark"] = "boxplot"
		spec["encoding"] = map[string]interface{}{
			"x": map[string]interface{}{"field": xColumn, "type": "nominal"},
			"y": map[string]interface{}{"field": yColumn, "type": "quantitative"},
		}
	default:
		return nil, fmt.Errorf("未対応のチャート種別です: %s", chartType)
	}

	return spec, nil
}

// rowsAsValues はデータ行をVega-Liteのdata.values形式に変換します。
// numeric列は数値として埋め込みます。
func (cs *ChartService) rowsAsValues(dataset *models.Dataset) []map[string]interface{} {
	numericCols := make(map[int]bool)
	for i, name := range dataset.Header {
		if fieldType(dataset.Descriptor, name) == "quantitative" {
			numericCols[i] = true
		}
	}

	values := make([]map[string]interface{}, 0, len(dataset.Rows))
	for _, row := range dataset.Rows {
		record := make(map[string]interface{}, len(dataset.Header))
		for i, name := range dataset.Header {
			if i >= len(row) {
				continue
			}
			if numericCols[i] {
				if f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
					record[name] = f
					continue
				}
			}
			record[name] = row[i]
		}
		values = append(values, record)
	}
	return values
}

// fieldType は列の推定型をVega-Liteのエンコーディング型に対応付けます。
func fieldType(descriptor models.DatasetDescriptor, columnName string) string {
	for _, col := range descriptor.Columns {
		if strings.EqualFold(col.Name, columnName) {
			switch col.Type {
			case models.ColumnTypeNumeric:
				return "quantitative"
			case models.ColumnTypeDatetime:
				return "temporal"
			default:
				return "nominal"
			}
		}
	}
	return "nominal"
}

// xyEncoding は通常のX/Yエンコーディングを組み立てます。
func xyEncoding(xColumn, xType, yColumn, yType string) map[string]interface{} {
	return map[string]interface{}{
		"x": map[string]interface{}{"field": xColumn, "type": xType},
		"y": map[string]interface{}{"field": yColumn, "type": yType},
	}
}

// findColumn はヘッダーから列名を大文字小文字を無視して探します。
func findColumn(header []string, name string) int {
	for i, item := range header {
		if strings.EqualFold(item, name) {
			return i
		}
	}
	return -1
}
