package services

import (
	"strings"
	"testing"

	"chart-advisor-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

func chartTestDataset(t *testing.T) *models.Dataset {
	t.Helper()

	service := NewDatasetService()
	dataset, err := service.ParseDataset("sales.csv", strings.NewReader(sampleCSV))
	assert.NoError(t, err)
	return dataset
}

func TestBuildChartSpecMarks(t *testing.T) {
	dataset := chartTestDataset(t)
	chartService := NewChartService()

	testCases := []struct {
		chartType    string
		expectedMark string
	}{
		{models.ChartTypeLine, "line"},
		{models.ChartTypeBar, "bar"},
		{models.ChartTypeScatter, "point"},
		{models.ChartTypeArea, "area"},
		{models.ChartTypeHistogram, "bar"},
		{models.ChartTypeBoxplot, "boxplot"},
	}

	for _, tc := range testCases {
		t.Run(tc.chartType, func(t *testing.T) {
			spec, err := chartService.BuildChartSpec(dataset, "date", "sales", tc.chartType, "Test Chart")
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedMark, spec["mark"])
			assert.Equal(t, "Test Chart", spec["title"])

			// データ行が埋め込まれていること
			data := spec["data"].(map[string]interface{})
			values := data["values"].([]map[string]interface{})
			assert.Len(t, values, 7)
		})
	}
}

func TestBuildChartSpecEncodings(t *testing.T) {
	dataset := chartTestDataset(t)
	chartService := NewChartService()

	// 折れ線: 日付列はtemporal、数値列はquantitative
	spec, err := chartService.BuildChartSpec(dataset, "date", "sales", models.ChartTypeLine, "Trend")
	assert.NoError(t, err)
	encoding := spec["encoding"].(map[string]interface{})
	x := encoding["x"].(map[string]interface{})
	y := encoding["y"].(map[string]interface{})
	assert.Equal(t, "date", x["field"])
	assert.Equal(t, "temporal", x["type"])
	assert.Equal(t, "sales", y["field"])
	assert.Equal(t, "quantitative", y["type"])

	// ヒストグラム: X列をビン分割し、Yは件数
	spec, err = chartService.BuildChartSpec(dataset, "sales", "sales", models.ChartTypeHistogram, "Distribution")
	assert.NoError(t, err)
	encoding = spec["encoding"].(map[string]interface{})
	x = encoding["x"].(map[string]interface{})
	y = encoding["y"].(map[string]interface{})
	assert.Equal(t, true, x["bin"])
	assert.Equal(t, "count", y["aggregate"])

	// 箱ひげ図: Xはnominal、Yはquantitative
	spec, err = chartService.BuildChartSpec(dataset, "category", "sales", models.ChartTypeBoxplot, "Spread")
	assert.NoError(t, err)
	encoding = spec["encoding"].(map[string]interface{})
	x = encoding["x"].(map[string]interface{})
	y = encoding["y"].(map[string]interface{})
	assert.Equal(t, "nominal", x["type"])
	assert.Equal(t, "quantitative", y["type"])
}

// 数値列はVega-Liteのvaluesに数値として埋め込まれることを確認
func TestBuildChartSpecNumericValues(t *testing.T) {
	dataset := chartTestDataset(t)
	chartService := NewChartService()

	spec, err := chartService.BuildChartSpec(dataset, "date", "sales", models.ChartTypeLine, "Trend")
	assert.NoError(t, err)

	data := spec["data"].(map[string]interface{})
	values := data["values"].([]map[string]interface{})
	assert.Equal(t, 100.0, values[0]["sales"])
	assert.Equal(t, "A", values[0]["category"])
}

func TestBuildChartSpecErrors(t *testing.T) {
	dataset := chartTestDataset(t)
	chartService := NewChartService()

	// 未知のチャート種別
	_, err := chartService.BuildChartSpec(dataset, "date", "sales", "pie", "Bad")
	assert.Error(t, err)

	// 存在しない列
	_, err = chartService.BuildChartSpec(dataset, "nope", "sales", models.ChartTypeLine, "Bad")
	assert.Error(t, err)
	_, err = chartService.BuildChartSpec(dataset, "date", "nope", models.ChartTypeLine, "Bad")
	assert.Error(t, err)
}
