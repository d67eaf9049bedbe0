package services

import (
	"sync"

	"chart-advisor-api/pkg/models"
)

// DatasetStore はアップロードされたデータセットをメモリ上で保持します。
// 永続化は行わず、同一セッションの新しいアップロードが来た時点で
// 前のデータセットを破棄します。セッション間で共有される状態はありません。
type DatasetStore struct {
	mu        sync.RWMutex
	datasets  map[string]*models.Dataset // dataset ID -> dataset
	bySession map[string]string          // session ID -> dataset ID
}

// NewDatasetStore は新しいDatasetStoreを生成します。
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets:  make(map[string]*models.Dataset),
		bySession: make(map[string]string),
	}
}

// Save はデータセットを保存します。同じセッションの既存データセットは破棄されます。
func (s *DatasetStore) Save(dataset *models.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oldID, ok := s.bySession[dataset.SessionID]; ok {
		delete(s.datasets, oldID)
	}
	s.datasets[dataset.ID] = dataset
	s.bySession[dataset.SessionID] = dataset.ID
}

// Get はIDでデータセットを取得します。
func (s *DatasetStore) Get(id string) (*models.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, ok := s.datasets[id]
	return dataset, ok
}

// Count は保持中のデータセット数を返します（モニタリング用）。
func (s *DatasetStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.datasets)
}
