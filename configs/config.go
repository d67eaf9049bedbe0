package config

import (
	"fmt"
	"os"
)

// Config holds the application configuration
type Config struct {
	Port                      string
	AzureOpenAIEndpoint       string
	AzureOpenAIAPIKey         string
	AzureOpenAIModel          string
	AzureOpenAIAPIVersion     string
	AzureOpenAIDeploymentName string
	Environment               string
	APIKey                    string
	AdminUsername             string
	AdminPassword             string
}

// MissingCredentialError はAI連携に必須の設定が欠けていることを示します。
// Gatewayの起動条件なので、cmd/server側ではこのエラーを致命的として扱います。
type MissingCredentialError struct {
	Key string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("必須の環境変数 %s が設定されていません", e.Key)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                      getEnv("PORT", "8080"),
		AzureOpenAIEndpoint:       getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIAPIKey:         getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIModel:          getEnv("AZURE_OPENAI_MODEL", "gpt-4o-mini"),
		AzureOpenAIAPIVersion:     getEnv("AZURE_OPENAI_API_VERSION", "2023-12-01-preview"),
		AzureOpenAIDeploymentName: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o-mini"),
		Environment:               getEnv("ENVIRONMENT", "development"),
		APIKey:                    getEnv("API_KEY", ""),
		AdminUsername:             getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:             getEnv("ADMIN_PASSWORD", ""),
	}
}

// Validate はAI連携に必須の設定が揃っているかを検証します。
func (c *Config) Validate() error {
	if c.AzureOpenAIEndpoint == "" {
		return &MissingCredentialError{Key: "AZURE_OPENAI_ENDPOINT"}
	}
	if c.AzureOpenAIAPIKey == "" {
		return &MissingCredentialError{Key: "AZURE_OPENAI_API_KEY"}
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
