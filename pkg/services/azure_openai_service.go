package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	config "chart-advisor-api/configs"
	"chart-advisor-api/pkg/azure"
	"chart-advisor-api/pkg/models"
)

// MaxSampleRows はAIへ送信する行サンプルの上限です。
// データセットの実サイズに関わらずこの件数で打ち切り、リクエストコストを抑えます。
const MaxSampleRows = 5

// AzureOpenAIService Azure OpenAI API サービス。
// チャート推薦のGateway: リクエストの組み立てと送信だけを担当し、
// 応答テキストの解釈は一切行いません（それはrecommendation_serviceの仕事です）。
type AzureOpenAIService struct {
	client       *azure.OpenAIClient
	systemPrompt string
}

// chartAdvicePayload はAIへ渡すユーザーペイロードです。
type chartAdvicePayload struct {
	ColumnMetadata    []models.ColumnMeta `json:"column_metadata"`
	RowSample         [][]string          `json:"row_sample"`
	XColumn           string              `json:"x_column"`
	YColumn           string              `json:"y_column"`
	Intent            string              `json:"intent"`
	AllowedChartTypes []string            `json:"allowed_chart_types"`
}

// NewAzureOpenAIService 新しいAzure OpenAI サービスを作成
func NewAzureOpenAIService(endpoint, apiKey, apiVersion, chatDeploymentName string) *AzureOpenAIService {
	client := azure.NewOpenAIClient(endpoint, apiKey, apiVersion, chatDeploymentName)

	// システムプロンプトはYAMLから構築し、読み込めない環境では組み込み版を使用します。
	systemPrompt := ""
	if promptConfig, err := config.LoadSystemPrompt(); err != nil {
		log.Printf("⚠️ システムプロンプト設定の読み込みに失敗したため、組み込みプロンプトを使用します: %v", err)
	} else {
		systemPrompt = promptConfig.BuildSystemPrompt(models.AllowedChartTypes)
	}
	if systemPrompt == "" {
		systemPrompt = config.DefaultSystemPrompt(models.AllowedChartTypes)
	}

	return &AzureOpenAIService{
		client:       client,
		systemPrompt: systemPrompt,
	}
}

// RecommendCharts はデータセットのメタデータとX/Y選択・分析意図から
// チャート推薦のリクエストを1回だけ送信し、AIの生テキストを返します。
// 応答テキストは未検証のままValidatorへ渡されます。
// 呼び出しが完了できなかった場合は*ServiceErrorを返します（リトライなし）。
func (aos *AzureOpenAIService) RecommendCharts(ctx context.Context, descriptor models.DatasetDescriptor, xColumn, yColumn, intent string) (string, error) {
	if len(descriptor.Columns) == 0 {
		return "", fmt.Errorf("列が1つもないデータセットは分析できません")
	}

	// 行サンプルの上限を適用
	sample := descriptor.SampleRows
	if len(sample) > MaxSampleRows {
		sample = sample[:MaxSampleRows]
	}

	payload := chartAdvicePayload{
		ColumnMetadata:    descriptor.Columns,
		RowSample:         sample,
		XColumn:           xColumn,
		YColumn:           yColumn,
		Intent:            intent,
		AllowedChartTypes: models.AllowedChartTypes,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ペイロードのJSON化に失敗: %w", err)
	}

	messages := []azure.ChatMessage{
		{Role: "system", Content: aos.systemPrompt},
		{Role: "user", Content: string(payloadJSON)},
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := aos.client.ChatCompletion(ctx, messages, 1500, 0.3)
	if err != nil {
		return "", &ServiceError{Op: "chat_completion", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Op: "chat_completion", Err: fmt.Errorf("Azure OpenAI からの応答が空です")}
	}

	return resp.Choices[0].Message.Content, nil
}
