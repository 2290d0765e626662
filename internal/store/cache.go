package store

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sync"
)

// CacheMeta 缓存条目的来源信息
type CacheMeta struct {
	Text     string `json:"text"`
	URL      string `json:"url,omitempty"`
	Selector string `json:"selector,omitempty"`
	Context  string `json:"context,omitempty"`
}

// CacheEntry 缓存条目
type CacheEntry struct {
	Translation string    `json:"translation"`
	UserEdited  bool      `json:"userEdited"`
	Meta        CacheMeta `json:"meta"`
}

// CacheStore 持久化的翻译缓存
//
// 键为 "源语言|目标语言|sha256(文本)[:16]"，整个映射镜像到一个 JSON 文件，
// 每次写入都会同步重写该文件。
type CacheStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]CacheEntry
}

// NewCacheStore 从数据目录加载缓存
func NewCacheStore(dataDir string) (*CacheStore, error) {
	s := &CacheStore{
		path:    filepath.Join(dataDir, CacheFileName),
		entries: make(map[string]CacheEntry),
	}
	if err := loadJSON(s.path, &s.entries); err != nil {
		return nil, err
	}
	return s, nil
}

// CacheKey 计算缓存键
func CacheKey(text, sourceLang, targetLang string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s|%s|%x", sourceLang, targetLang, sum[:8])
}

// Get 查询缓存，纯内存读取
func (s *CacheStore) Get(text, sourceLang, targetLang string) (CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[CacheKey(text, sourceLang, targetLang)]
	if !ok || entry.Translation == "" {
		return CacheEntry{}, false
	}
	return entry, true
}

// Put 写入缓存并同步持久化
//
// 固定不变量：已被用户修正的条目（userEdited=true）不能被自动写入覆盖，
// 此时写入被拒绝并返回 false。只有另一次用户反馈可以替换它。
func (s *CacheStore) Put(text, sourceLang, targetLang, translation string, meta CacheMeta, userEdited bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := CacheKey(text, sourceLang, targetLang)
	if existing, ok := s.entries[key]; ok && existing.UserEdited && !userEdited {
		return false, nil
	}

	meta.Text = text
	s.entries[key] = CacheEntry{
		Translation: translation,
		UserEdited:  userEdited,
		Meta:        meta,
	}

	if err := saveJSON(s.path, s.entries); err != nil {
		return false, err
	}
	return true, nil
}

// Len 返回缓存条目数
func (s *CacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// UserEditedCount 返回被用户修正过的条目数
func (s *CacheStore) UserEditedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, entry := range s.entries {
		if entry.UserEdited {
			count++
		}
	}
	return count
}
