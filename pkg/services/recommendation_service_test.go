package services

import (
	"encoding/json"
	"testing"

	"chart-advisor-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

// 検証済みの応答テキストはそのままRecommendationSetになることを確認
func TestParseRecommendationSetValid(t *testing.T) {
	raw := `{"summary":"S","recommendations":[{"title":"T","intent":"trend","chart_type":"line","strengths":"a","weaknesses":"b","when_to_use":"c"}]}`

	result, fallbackUsed := ParseRecommendationSet(raw)

	assert.False(t, fallbackUsed, "valid input should not trigger fallback")
	assert.Equal(t, "S", result.Summary)
	assert.Len(t, result.Recommendations, 1)
	assert.Equal(t, "T", result.Recommendations[0].Title)
	assert.Equal(t, "trend", result.Recommendations[0].Intent)
	assert.Equal(t, models.ChartTypeLine, result.Recommendations[0].ChartType)
	assert.Equal(t, "a", result.Recommendations[0].Strengths)
	assert.Equal(t, "b", result.Recommendations[0].Weaknesses)
	assert.Equal(t, "c", result.Recommendations[0].WhenToUse)
}

// デコードできないテキストは正確にフォールバックセットになることを確認
func TestParseRecommendationSetNotJSON(t *testing.T) {
	result, fallbackUsed := ParseRecommendationSet("not a json object")

	assert.True(t, fallbackUsed)
	assert.Equal(t, DefaultRecommendationSet(), result)
}

func TestParseRecommendationSetStructuralFailures(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"plain prose", "Here are some charts you might like."},
		{"truncated JSON", `{"summary":"S","recommendations":[{"title":"T",`},
		{"missing summary", `{"recommendations":[{"title":"T","intent":"i","chart_type":"line","strengths":"a","weaknesses":"b","when_to_use":"c"}]}`},
		{"empty recommendations", `{"summary":"S","recommendations":[]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, fallbackUsed := ParseRecommendationSet(tc.raw)
			assert.True(t, fallbackUsed, "should fall back")
			assert.Equal(t, DefaultRecommendationSet(), result, "fallback must be the exact constant")
		})
	}
}

// 語彙外のchart_typeのみの応答はフォールバックになることを確認
func TestParseRecommendationSetUnknownChartType(t *testing.T) {
	raw := `{"summary":"S","recommendations":[{"title":"T","intent":"trend","chart_type":"pie","strengths":"a","weaknesses":"b","when_to_use":"c"}]}`

	result, fallbackUsed := ParseRecommendationSet(raw)

	assert.True(t, fallbackUsed, "pie is not in the vocabulary, list becomes empty")
	assert.Equal(t, DefaultRecommendationSet(), result)
}

// 有効・無効の混在では有効なエントリだけが相対順序を保って残ることを確認
func TestParseRecommendationSetMixedEntries(t *testing.T) {
	raw := `{"summary":"S","recommendations":[
		{"title":"first","intent":"i","chart_type":"bar","strengths":"a","weaknesses":"b","when_to_use":"c"},
		{"title":"bad","intent":"i","chart_type":"pie","strengths":"a","weaknesses":"b","when_to_use":"c"},
		{"title":"second","intent":"i","chart_type":"scatter","strengths":"a","weaknesses":"b","when_to_use":"c"},
		{"title":"incomplete","intent":"i","chart_type":"line","strengths":"a","weaknesses":"","when_to_use":"c"}
	]}`

	result, fallbackUsed := ParseRecommendationSet(raw)

	assert.False(t, fallbackUsed)
	assert.Len(t, result.Recommendations, 2)
	assert.Equal(t, "first", result.Recommendations[0].Title)
	assert.Equal(t, models.ChartTypeBar, result.Recommendations[0].ChartType)
	assert.Equal(t, "second", result.Recommendations[1].Title)
	assert.Equal(t, models.ChartTypeScatter, result.Recommendations[1].ChartType)
}

// モデルがコードフェンスで包んできた場合でも解釈できることを確認
func TestParseRecommendationSetCodeFence(t *testing.T) {
	raw := "```json\n{\"summary\":\"S\",\"recommendations\":[{\"title\":\"T\",\"intent\":\"i\",\"chart_type\":\"area\",\"strengths\":\"a\",\"weaknesses\":\"b\",\"when_to_use\":\"c\"}]}\n```"

	result, fallbackUsed := ParseRecommendationSet(raw)

	assert.False(t, fallbackUsed)
	assert.Len(t, result.Recommendations, 1)
	assert.Equal(t, models.ChartTypeArea, result.Recommendations[0].ChartType)
}

// フォールバックセット自体が語彙フィルタで不変であること（冪等性）を確認
func TestFilterRecommendationsIdempotentOnFallback(t *testing.T) {
	fallback := DefaultRecommendationSet()

	filtered := FilterRecommendations(fallback.Recommendations)

	assert.Equal(t, fallback.Recommendations, filtered)
}

// フォールバックセットをそのままValidatorに通しても内容が保たれることを確認
func TestParseRecommendationSetFallbackRoundTrip(t *testing.T) {
	fallback := DefaultRecommendationSet()
	raw, err := json.Marshal(fallback)
	assert.NoError(t, err)

	result, fallbackUsed := ParseRecommendationSet(string(raw))

	assert.False(t, fallbackUsed, "the fallback set itself is a valid recommendation set")
	assert.Equal(t, fallback, result)
}

// フォールバックセットは常にwell-formedであることを確認
func TestDefaultRecommendationSetIsWellFormed(t *testing.T) {
	fallback := DefaultRecommendationSet()

	assert.NotEmpty(t, fallback.Summary)
	assert.NotEmpty(t, fallback.Recommendations)
	for _, rec := range fallback.Recommendations {
		assert.True(t, models.IsAllowedChartType(rec.ChartType), "chart_type %s must be in the vocabulary", rec.ChartType)
		assert.NotEmpty(t, rec.Title)
		assert.NotEmpty(t, rec.Intent)
		assert.NotEmpty(t, rec.Strengths)
		assert.NotEmpty(t, rec.Weaknesses)
		assert.NotEmpty(t, rec.WhenToUse)
	}

	// 同一入力に対して決定的であること
	assert.Equal(t, fallback, DefaultRecommendationSet())
}
