package handlers

import (
	"log"
	"net/http"
	"time"

	"chart-advisor-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DatasetHandler はデータセットのアップロードと参照のハンドラです。
type DatasetHandler struct {
	datasetService *services.DatasetService
	datasetStore   *services.DatasetStore
}

// NewDatasetHandler は新しいDatasetHandlerを生成します。
func NewDatasetHandler(datasetService *services.DatasetService, datasetStore *services.DatasetStore) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
		datasetStore:   datasetStore,
	}
}

// UploadDataset はCSV/XLSXファイルを受け取り、列メタデータを推定して
// メモリ上に保持します。同一セッションの前回データセットは破棄されます。
func (dh *DatasetHandler) UploadDataset(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20) // 10MB limit

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ファイルの取得に失敗しました。"})
		return
	}
	defer file.Close()

	// セッションIDが指定されていない場合は新規生成
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	dataset, err := dh.datasetService.ParseDataset(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	dataset.ID = uuid.New().String()
	dataset.SessionID = sessionID
	dataset.UploadedAt = time.Now()

	dh.datasetStore.Save(dataset)

	log.Printf("📂 [アップロード] %s: %d列 %d行 (dataset=%s, session=%s)",
		dataset.FileName, len(dataset.Header), dataset.Descriptor.RowCount, dataset.ID, sessionID)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"dataset_id": dataset.ID,
		"session_id": sessionID,
		"descriptor": dataset.Descriptor,
	})
}

// GetDataset はアップロード済みデータセットのメタデータを返します。
func (dh *DatasetHandler) GetDataset(c *gin.Context) {
	id := c.Param("id")

	dataset, ok := dh.datasetStore.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "データセットが見つかりません。"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "dataset": dataset})
}
