package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
)

// 起動中のサーバーに対してアップロード→チャート推薦を手動で通すための確認用ツールです。
// 使い方: go run ./cmd/recommend_check <csvファイル> <X列> <Y列>
func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: recommend_check <csv-file> <x-column> <y-column>")
		os.Exit(1)
	}

	baseURL := os.Getenv("CHART_ADVISOR_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	fmt.Println("=== Chart Advisor API 手動確認 ===")

	// ファイルのアップロード
	file, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("ファイルを開けません: %v", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", os.Args[1])
	if err != nil {
		log.Fatalf("マルチパートの作成に失敗: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		log.Fatalf("ファイルの書き込みに失敗: %v", err)
	}
	writer.Close()

	resp, err := http.Post(baseURL+"/api/v1/datasets/upload", writer.FormDataContentType(), &body)
	if err != nil {
		log.Fatalf("アップロードに失敗: %v", err)
	}
	defer resp.Body.Close()

	var uploadResult struct {
		Success   bool   `json:"success"`
		DatasetID string `json:"dataset_id"`
		Error     string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResult); err != nil {
		log.Fatalf("アップロード応答の解析に失敗: %v", err)
	}
	if !uploadResult.Success {
		log.Fatalf("アップロードエラー: %s", uploadResult.Error)
	}
	fmt.Printf("アップロード完了: dataset_id=%s\n", uploadResult.DatasetID)

	// チャート推薦
	reqBody, _ := json.Marshal(map[string]string{
		"dataset_id": uploadResult.DatasetID,
		"x_column":   os.Args[2],
		"y_column":   os.Args[3],
		"intent":     "explore the data",
	})

	resp2, err := http.Post(baseURL+"/api/v1/ai/recommend-charts", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		log.Fatalf("チャート推薦に失敗: %v", err)
	}
	defer resp2.Body.Close()

	raw, _ := io.ReadAll(resp2.Body)
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Printf("ステータス: %d\n", resp2.StatusCode)
	fmt.Println(pretty.String())
}
