package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// 数据目录下的三个持久化文件
const (
	CacheFileName    = "translation-cache.json"
	JobsFileName     = "translation-jobs.json"
	FeedbackFileName = "translation-feedback.json"
)

// loadJSON 读取 JSON 文件到 v；文件不存在时保持 v 的零值
func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// saveJSON 将 v 完整写入 path
//
// 先写临时文件再重命名，崩溃不会留下截断的存储文件。
func saveJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
