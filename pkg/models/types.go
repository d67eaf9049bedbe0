package models

import "time"

// 列の粗い型分類。アップロード時の推定結果として使用します。
const (
	ColumnTypeNumeric     = "numeric"
	ColumnTypeDatetime    = "datetime"
	ColumnTypeCategorical = "categorical"
)

// チャート語彙。AIはこの中からのみチャート種別を選択できます。
const (
	ChartTypeLine      = "line"
	ChartTypeBar       = "bar"
	ChartTypeScatter   = "scatter"
	ChartTypeArea      = "area"
	ChartTypeHistogram = "histogram"
	ChartTypeBoxplot   = "boxplot"
)

// AllowedChartTypes は描画可能なチャート種別の固定語彙です（順序も固定）。
var AllowedChartTypes = []string{
	ChartTypeLine,
	ChartTypeBar,
	ChartTypeScatter,
	ChartTypeArea,
	ChartTypeHistogram,
	ChartTypeBoxplot,
}

// IsAllowedChartType はチャート種別が語彙に含まれるかを判定します。
func IsAllowedChartType(chartType string) bool {
	for _, t := range AllowedChartTypes {
		if t == chartType {
			return true
		}
	}
	return false
}

// ColumnMeta 1列分のメタデータ
type ColumnMeta struct {
	Name    string `json:"name"`
	Type    string `json:"type"`     // numeric / categorical / datetime
	NUnique int    `json:"n_unique"` // ユニーク値の数
}

// DatasetDescriptor アップロードされた表データから導出されるメタデータ。
// 一度計算したら不変で、次のアップロードで再計算されます。
type DatasetDescriptor struct {
	FileName   string       `json:"file_name"`
	Columns    []ColumnMeta `json:"columns"`
	RowCount   int          `json:"row_count"`
	SampleRows [][]string   `json:"sample_rows"` // 先頭N行（固定の小さなN）
}

// Dataset アップロードされたデータセット本体。永続化はせず、
// セッションごとにメモリ上で保持し、次のアップロードで破棄されます。
type Dataset struct {
	ID         string            `json:"id"`
	SessionID  string            `json:"session_id"`
	FileName   string            `json:"file_name"`
	Header     []string          `json:"header"`
	Rows       [][]string        `json:"-"` // レスポンスには含めない
	Descriptor DatasetDescriptor `json:"descriptor"`
	UploadedAt time.Time         `json:"uploaded_at"`
}

// ChartRecommendation AIが提案する1件のチャート推薦。
// Validatorを通過したものだけが生成され、未検証の外部テキストから
// 直接構築されることはありません。
type ChartRecommendation struct {
	Title      string `json:"title"`
	Intent     string `json:"intent"`
	ChartType  string `json:"chart_type"`
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
	WhenToUse  string `json:"when_to_use"`
}

// RecommendationSet 描画レイヤーに渡される唯一の成果物。
// 含まれる全推薦のchart_typeは固定語彙のメンバーであることが不変条件です。
type RecommendationSet struct {
	Summary         string                `json:"summary"`
	Recommendations []ChartRecommendation `json:"recommendations"`
}

// RecommendChartsRequest チャート推薦リクエスト
type RecommendChartsRequest struct {
	DatasetID string `json:"dataset_id" binding:"required"`
	XColumn   string `json:"x_column" binding:"required"`
	YColumn   string `json:"y_column" binding:"required"`
	Intent    string `json:"intent"`
}

// RenderedRecommendation 推薦1件とその描画用チャート仕様のペア
type RenderedRecommendation struct {
	ChartRecommendation
	ChartSpec map[string]interface{} `json:"chart_spec,omitempty"`
}
