package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"chart-advisor-api/pkg/models"
	"chart-advisor-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// AIHandler AI統合ハンドラー。Gateway -> Validator -> チャート仕様の
// パイプラインを1リクエストの中で同期的に実行します。
type AIHandler struct {
	azureOpenAIService *services.AzureOpenAIService
	chartService       *services.ChartService
	datasetStore       *services.DatasetStore
}

// NewAIHandler 新しいAI統合ハンドラーを作成
func NewAIHandler(azureOpenAIService *services.AzureOpenAIService, chartService *services.ChartService, datasetStore *services.DatasetStore) *AIHandler {
	return &AIHandler{
		azureOpenAIService: azureOpenAIService,
		chartService:       chartService,
		datasetStore:       datasetStore,
	}
}

// GetAICapabilities はAI連携機能の一覧とチャート語彙を返します。
func (ah *AIHandler) GetAICapabilities(c *gin.Context) {
	capabilities := map[string]interface{}{
		"chart_recommendation": map[string]interface{}{
			"description": "データセットのメタデータからAIがチャートを推薦",
			"endpoint":    "/api/v1/ai/recommend-charts",
			"method":      "POST",
		},
		"dataset_upload": map[string]interface{}{
			"description": "CSV/XLSXデータセットのアップロードと列型の推定",
			"endpoint":    "/api/v1/datasets/upload",
			"method":      "POST",
		},
	}
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"capabilities":        capabilities,
		"allowed_chart_types": models.AllowedChartTypes,
		"ai_service":          "Azure OpenAI",
	})
}

// RecommendCharts はアップロード済みデータセットとX/Y選択・分析意図から
// チャート推薦を生成します。外部呼び出しの失敗は502で呼び出し元へ伝え、
// 応答の解釈失敗はフォールバックセットで吸収します（fallback_usedで通知）。
func (ah *AIHandler) RecommendCharts(c *gin.Context) {
	var req models.RecommendChartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "リクエストの形式が正しくありません: " + err.Error()})
		return
	}

	dataset, ok := ah.datasetStore.Get(req.DatasetID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "データセットが見つかりません。先にアップロードしてください。"})
		return
	}

	// 列選択の検証はGatewayへ渡す前に行う
	for _, col := range []string{req.XColumn, req.YColumn} {
		if !hasColumn(dataset.Header, col) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "指定された列が存在しません: " + col})
			return
		}
	}

	intent := req.Intent
	if intent == "" {
		intent = "explore the relationship between the selected variables"
	}

	log.Printf("📊 [チャート推薦] dataset=%s x=%s y=%s intent=%q", dataset.ID, req.XColumn, req.YColumn, intent)

	rawText, err := ah.azureOpenAIService.RecommendCharts(c.Request.Context(), dataset.Descriptor, req.XColumn, req.YColumn, intent)
	if err != nil {
		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) {
			log.Printf("❌ [チャート推薦] 外部AIサービスの呼び出しに失敗: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "チャート推薦の生成に失敗しました。時間をおいて再度お試しください。"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// 応答テキストの検証。ここから先は決して失敗しません。
	recommendationSet, fallbackUsed := services.ParseRecommendationSet(rawText)
	if fallbackUsed {
		log.Printf("⚠️ [チャート推薦] AI応答を解釈できなかったため、フォールバックセットを使用します")
	}

	// 各推薦を描画用のチャート仕様へ展開
	rendered := make([]models.RenderedRecommendation, 0, len(recommendationSet.Recommendations))
	for _, rec := range recommendationSet.Recommendations {
		spec, specErr := ah.chartService.BuildChartSpec(dataset, req.XColumn, req.YColumn, rec.ChartType, rec.Title)
		if specErr != nil {
			// 描画仕様を作れない推薦はテキストのみで返す
			log.Printf("⚠️ [チャート推薦] チャート仕様の生成に失敗 (%s): %v", rec.ChartType, specErr)
		}
		rendered = append(rendered, models.RenderedRecommendation{
			ChartRecommendation: rec,
			ChartSpec:           spec,
		})
	}

	log.Printf("✅ [チャート推薦] %d件の推薦を返します (fallback=%v)", len(rendered), fallbackUsed)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"summary":         recommendationSet.Summary,
		"recommendations": rendered,
		"fallback_used":   fallbackUsed,
		"x_column":        req.XColumn,
		"y_column":        req.YColumn,
	})
}

// hasColumn はヘッダーに列名が含まれるかを確認します（大文字小文字は無視）。
func hasColumn(header []string, name string) bool {
	for _, item := range header {
		if strings.EqualFold(item, name) {
			return true
		}
	}
	return false
}
