package store

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 任务与任务项的状态
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"

	ItemStatusQueued = "queued"
	ItemStatusDone   = "done"
	ItemStatusError  = "error"
)

// JobItem 任务中的单条待翻译文本
type JobItem struct {
	Text        string `json:"text"`
	Context     string `json:"context,omitempty"`
	URL         string `json:"url,omitempty"`
	Status      string `json:"status"`
	Translation string `json:"translation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Job 一个批次中缓存未命中部分的异步完成记录
//
// Done 单调不减，等于状态为 done 或 error 的条目数；
// Status 为 completed 当且仅当 Done == Total。
type Job struct {
	Status    string    `json:"status"`
	Total     int       `json:"total"`
	Done      int       `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	Items     []JobItem `json:"items"`
}

// JobStore 持久化的任务注册表
type JobStore struct {
	mu   sync.RWMutex
	path string
	jobs map[string]*Job
	ttl  time.Duration
}

// NewJobStore 从数据目录加载任务注册表
//
// ttl 大于零时，加载时以及每次创建任务时会清理超过 ttl 的已完成任务。
func NewJobStore(dataDir string, ttl time.Duration) (*JobStore, error) {
	s := &JobStore{
		path: filepath.Join(dataDir, JobsFileName),
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
	if err := loadJSON(s.path, &s.jobs); err != nil {
		return nil, err
	}
	if s.pruneLocked() {
		if err := saveJSON(s.path, s.jobs); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// pruneLocked 清理过期的已完成任务，返回是否有删除。调用方必须持有锁或独占访问。
func (s *JobStore) pruneLocked() bool {
	if s.ttl <= 0 {
		return false
	}
	cutoff := time.Now().Add(-s.ttl)
	removed := false
	for id, job := range s.jobs {
		if job.Status == JobStatusCompleted && job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed = true
		}
	}
	return removed
}

// Create 为待翻译条目创建任务，返回任务 ID
func (s *JobStore) Create(items []JobItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	jobItems := make([]JobItem, len(items))
	for i, it := range items {
		it.Status = ItemStatusQueued
		jobItems[i] = it
	}

	id := uuid.NewString()
	s.jobs[id] = &Job{
		Status:    JobStatusQueued,
		Total:     len(jobItems),
		Done:      0,
		CreatedAt: time.Now().UTC(),
		Items:     jobItems,
	}

	if err := saveJSON(s.path, s.jobs); err != nil {
		delete(s.jobs, id)
		return "", err
	}
	return id, nil
}

// Get 返回任务的副本；未知 ID 返回 false
func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}

	copied := *job
	copied.Items = make([]JobItem, len(job.Items))
	copy(copied.Items, job.Items)
	return copied, true
}

// CompleteItem 标记任务项完成并持久化
func (s *JobStore) CompleteItem(id string, index int, translation string) error {
	return s.finishItem(id, index, func(item *JobItem) {
		item.Status = ItemStatusDone
		item.Translation = translation
	})
}

// FailItem 标记任务项出错并持久化
//
// 出错的条目同样计入 Done，单个失败不会让任务卡在 processing。
func (s *JobStore) FailItem(id string, index int, errMsg string) error {
	return s.finishItem(id, index, func(item *JobItem) {
		item.Status = ItemStatusError
		item.Error = errMsg
	})
}

func (s *JobStore) finishItem(id string, index int, update func(*JobItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || index < 0 || index >= len(job.Items) {
		return nil
	}

	item := &job.Items[index]
	if item.Status != ItemStatusQueued {
		// 已经结束的条目不再改动，保持 Done 单调
		return nil
	}
	update(item)

	job.Done++
	if job.Done >= job.Total {
		job.Status = JobStatusCompleted
	} else {
		job.Status = JobStatusProcessing
	}

	return saveJSON(s.path, s.jobs)
}

// Counts 按状态统计任务数
func (s *JobStore) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, job := range s.jobs {
		counts[job.Status]++
	}
	return counts
}
