package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SystemPromptConfig はsystem_prompt.yamlの構造を定義
type SystemPromptConfig struct {
	System struct {
		Role     string `yaml:"role"`
		Version  string `yaml:"version"`
		Language string `yaml:"language"`
	} `yaml:"system"`

	OutputSchema struct {
		Description    string   `yaml:"description"`
		RequiredFields []string `yaml:"required_fields"`
	} `yaml:"output_schema"`

	ResponseGuidelines []struct {
		Priority  int    `yaml:"priority"`
		Condition string `yaml:"condition"`
		Action    string `yaml:"action"`
	} `yaml:"response_guidelines"`

	Constraints []string `yaml:"constraints"`

	Metadata struct {
		CreatedAt   string `yaml:"created_at"`
		LastUpdated string `yaml:"last_updated"`
		Version     string `yaml:"version"`
		Author      string `yaml:"author"`
	} `yaml:"metadata"`
}

var cachedSystemPrompt *SystemPromptConfig

// LoadSystemPrompt はYAMLファイルからシステムプロンプト設定を読み込む
func LoadSystemPrompt() (*SystemPromptConfig, error) {
	if cachedSystemPrompt != nil {
		return cachedSystemPrompt, nil
	}

	data, err := os.ReadFile("configs/system_prompt.yaml")
	if err != nil {
		return nil, fmt.Errorf("システムプロンプト設定ファイルの読み込みに失敗: %w", err)
	}

	var config SystemPromptConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}

	cachedSystemPrompt = &config
	return cachedSystemPrompt, nil
}

// BuildSystemPrompt は設定からシステムプロンプトを構築
func (c *SystemPromptConfig) BuildSystemPrompt(allowedChartTypes []string) string {
	var sb strings.Builder

	// 役割の定義
	sb.WriteString(fmt.Sprintf("You are %s.\n\n", c.System.Role))

	// 出力スキーマ
	sb.WriteString("## Output schema\n")
	sb.WriteString(fmt.Sprintf("%s\n", c.OutputSchema.Description))
	sb.WriteString("Required fields per recommendation:\n")
	for _, field := range c.OutputSchema.RequiredFields {
		sb.WriteString(fmt.Sprintf("- %s\n", field))
	}
	sb.WriteString("\n")

	// チャート語彙
	sb.WriteString("## Allowed chart types\n")
	sb.WriteString(fmt.Sprintf("chart_type MUST be one of: %s\n\n", strings.Join(allowedChartTypes, " | ")))

	// 回答方針
	sb.WriteString("## Guidelines\n")
	for _, guideline := range c.ResponseGuidelines {
		sb.WriteString(fmt.Sprintf("%d. %s -> %s\n", guideline.Priority, guideline.Condition, guideline.Action))
	}
	sb.WriteString("\n")

	// 制約
	sb.WriteString("## Constraints\n")
	for _, constraint := range c.Constraints {
		sb.WriteString(fmt.Sprintf("- %s\n", constraint))
	}

	return sb.String()
}

// DefaultSystemPrompt はYAMLが読み込めない環境（テスト・サーバーレス等）向けの
// 組み込みプロンプトを返します。内容はsystem_prompt.yamlと同等です。
func DefaultSystemPrompt(allowedChartTypes []string) string {
	return fmt.Sprintf(`You are a data visualization expert.
Given metadata about a dataset, the selected X and Y variables, and the user's analysis intent,
you recommend appropriate chart types.

You MUST respond in strict JSON with the following schema:

{
  "summary": "string, one-paragraph summary of the dataset",
  "recommendations": [
    {
      "title": "string",
      "intent": "string, analytical purpose of the chart",
      "chart_type": %q,
      "strengths": "string",
      "weaknesses": "string",
      "when_to_use": "string"
    }
  ]
}

chart_type MUST be one of: %s
No extra text, no markdown, only valid JSON.`,
		allowedChartTypes[0], strings.Join(allowedChartTypes, " | "))
}
