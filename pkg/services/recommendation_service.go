package services

import (
	"encoding/json"
	"strings"

	"chart-advisor-api/pkg/models"
)

// このファイルはResponse Validator & Fallback Selectorを実装します。
// AIの自由テキスト応答は信頼境界の外側にあるため、ここで厳密にデコード・
// 検証し、失敗時は常に固定のフォールバックセットへ置き換えます。
// この変換は純粋・同期・副作用なしで、決して外向きに失敗しません。

// DefaultRecommendationSet はAIの応答を解釈できなかった場合に使用する
// 固定の推薦セットを返します。常にwell-formedで、外部依存なしに描画できます。
func DefaultRecommendationSet() models.RecommendationSet {
	return models.RecommendationSet{
		Summary: "AIの応答を解釈できなかったため、汎用の推薦セットを表示しています。もう一度生成をお試しください。",
		Recommendations: []models.ChartRecommendation{
			{
				Title:      "棒グラフ（フォールバック）",
				Intent:     "カテゴリ間の比較",
				ChartType:  models.ChartTypeBar,
				Strengths:  "カテゴリごとの値の大小が一目で比較できます。",
				Weaknesses: "カテゴリ数が多いと読みにくくなります。",
				WhenToUse:  "X軸がカテゴリ、Y軸が数値のときの標準的な選択肢です。",
			},
			{
				Title:      "折れ線グラフ（フォールバック）",
				Intent:     "時系列の傾向把握",
				ChartType:  models.ChartTypeLine,
				Strengths:  "時間に沿った変化やトレンドを追いやすいです。",
				Weaknesses: "X軸が時系列でない場合は誤解を招きます。",
				WhenToUse:  "X軸が日付・時刻のときに適しています。",
			},
			{
				Title:      "散布図（フォールバック）",
				Intent:     "2変数の相関確認",
				ChartType:  models.ChartTypeScatter,
				Strengths:  "2つの数値変数の関係や外れ値が確認できます。",
				Weaknesses: "点が重なると密度が分かりにくくなります。",
				WhenToUse:  "X軸・Y軸がともに数値のときに適しています。",
			},
		},
	}
}

// ParseRecommendationSet はGatewayから受け取った生テキストを
// RecommendationSetとして解釈します。構造のデコードに失敗した場合、
// またはフィルタ後に推薦が1件も残らない場合はフォールバックセットを返します。
// 戻り値の2番目はフォールバックが使用されたかどうかを示します。
func ParseRecommendationSet(raw string) (models.RecommendationSet, bool) {
	text := extractJSONObject(raw)
	if text == "" {
		return DefaultRecommendationSet(), true
	}

	var decoded models.RecommendationSet
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return DefaultRecommendationSet(), true
	}

	// summaryは必須フィールド
	if decoded.Summary == "" {
		return DefaultRecommendationSet(), true
	}

	filtered := FilterRecommendations(decoded.Recommendations)
	if len(filtered) == 0 {
		return DefaultRecommendationSet(), true
	}

	return models.RecommendationSet{
		Summary:         decoded.Summary,
		Recommendations: filtered,
	}, false
}

// FilterRecommendations は語彙外のchart_typeを持つ推薦と、必須フィールドの
// 欠けた推薦を除外します。相対順序は保持されます。
// 必須フィールド欠落はエントリ単位のデコード失敗として扱います。
func FilterRecommendations(recommendations []models.ChartRecommendation) []models.ChartRecommendation {
	filtered := make([]models.ChartRecommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		if !models.IsAllowedChartType(rec.ChartType) {
			continue
		}
		if !isCompleteRecommendation(rec) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// isCompleteRecommendation は推薦の必須フィールドがすべて埋まっているかを確認します。
func isCompleteRecommendation(rec models.ChartRecommendation) bool {
	return rec.Title != "" &&
		rec.Intent != "" &&
		rec.ChartType != "" &&
		rec.Strengths != "" &&
		rec.Weaknesses != "" &&
		rec.WhenToUse != ""
}

// extractJSONObject はAIの応答からJSONオブジェクト部分を取り出します。
// 「JSONのみで回答」と指示していても、モデルがMarkdownのコードフェンスや
// 前置きを付けてくることがあるため、最初の'{'から最後の'}'までを切り出します。
func extractJSONObject(raw string) string {
	text := strings.TrimSpace(raw)

	// コードフェンスを除去
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}
