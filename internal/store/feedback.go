package store

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FeedbackRecord 一次人工反馈
//
// 只追加，从不修改或删除。
type FeedbackRecord struct {
	ID         string    `json:"id"`
	SourceLang string    `json:"sourceLang"`
	TargetLang string    `json:"targetLang"`
	Text       string    `json:"text"`
	Corrected  string    `json:"corrected,omitempty"`
	URL        string    `json:"url,omitempty"`
	Selector   string    `json:"selector,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FeedbackStore 持久化的反馈日志
type FeedbackStore struct {
	mu      sync.RWMutex
	path    string
	records []FeedbackRecord
}

// NewFeedbackStore 从数据目录加载反馈日志
func NewFeedbackStore(dataDir string) (*FeedbackStore, error) {
	s := &FeedbackStore{
		path:    filepath.Join(dataDir, FeedbackFileName),
		records: make([]FeedbackRecord, 0),
	}
	if err := loadJSON(s.path, &s.records); err != nil {
		return nil, err
	}
	return s, nil
}

// Append 追加一条反馈并持久化，返回生成的记录 ID
func (s *FeedbackStore) Append(rec FeedbackRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	s.records = append(s.records, rec)

	if err := saveJSON(s.path, s.records); err != nil {
		s.records = s.records[:len(s.records)-1]
		return "", err
	}
	return rec.ID, nil
}

// Len 返回反馈记录数
func (s *FeedbackStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
