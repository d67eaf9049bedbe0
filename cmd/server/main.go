package main

import (
	"log"
	"net/http"

	config "chart-advisor-api/configs"
	"chart-advisor-api/pkg/handlers"
	"chart-advisor-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	// AI連携の認証情報がなければGatewayは動作できないため、起動を中止します。
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: 設定が不正です: %v", err)
	}

	// Ginルーターの初期化
	r := gin.Default()

	// サービスの初期化
	monitoringService := services.NewMonitoringService()
	azureOpenAIService := services.NewAzureOpenAIService(
		cfg.AzureOpenAIEndpoint,
		cfg.AzureOpenAIAPIKey,
		cfg.AzureOpenAIAPIVersion,
		cfg.AzureOpenAIDeploymentName,
	)
	datasetService := services.NewDatasetService()
	datasetStore := services.NewDatasetStore()
	chartService := services.NewChartService()

	// ハンドラーの初期化
	aiHandler := handlers.NewAIHandler(azureOpenAIService, chartService, datasetStore)
	datasetHandler := handlers.NewDatasetHandler(datasetService, datasetStore)
	adminHandler := handlers.NewAdminHandler(cfg)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware()) // ロギングミドルウェアをグローバルに適用
	r.Use(cors.Default())

	// 認証ミドルウェア
	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" || apiKey == "default_secret_key" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		v1.GET("/hello", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Hello from Chart Advisor API!",
			})
		})

		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		// モニタリングAPI
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}

		// データセットAPI
		datasets := v1.Group("/datasets")
		{
			datasets.POST("/upload", datasetHandler.UploadDataset)
			datasets.GET("/:id", datasetHandler.GetDataset)
		}

		// AI統合API
		ai := v1.Group("/ai")
		{
			ai.GET("/capabilities", aiHandler.GetAICapabilities)
			ai.POST("/recommend-charts", aiHandler.RecommendCharts)
		}
	}

	log.Printf("Starting Chart Advisor API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
