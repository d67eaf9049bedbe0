package services

import (
	"testing"

	"chart-advisor-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestDatasetStoreSaveAndGet(t *testing.T) {
	store := NewDatasetStore()

	dataset := &models.Dataset{ID: "d1", SessionID: "s1", FileName: "a.csv"}
	store.Save(dataset)

	got, ok := store.Get("d1")
	assert.True(t, ok)
	assert.Equal(t, "a.csv", got.FileName)
	assert.Equal(t, 1, store.Count())

	_, ok = store.Get("unknown")
	assert.False(t, ok)
}

// 同一セッションの再アップロードで前のデータセットが破棄されることを確認
func TestDatasetStoreReplacesOnNewUpload(t *testing.T) {
	store := NewDatasetStore()

	store.Save(&models.Dataset{ID: "d1", SessionID: "s1", FileName: "first.csv"})
	store.Save(&models.Dataset{ID: "d2", SessionID: "s1", FileName: "second.csv"})

	_, ok := store.Get("d1")
	assert.False(t, ok, "previous dataset of the session should be discarded")

	got, ok := store.Get("d2")
	assert.True(t, ok)
	assert.Equal(t, "second.csv", got.FileName)
	assert.Equal(t, 1, store.Count())
}

// セッションが異なれば互いに影響しないことを確認
func TestDatasetStoreSessionsAreIndependent(t *testing.T) {
	store := NewDatasetStore()

	store.Save(&models.Dataset{ID: "d1", SessionID: "s1"})
	store.Save(&models.Dataset{ID: "d2", SessionID: "s2"})

	_, ok1 := store.Get("d1")
	_, ok2 := store.Get("d2")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, 2, store.Count())
}
