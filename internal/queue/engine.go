package queue

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-site-translator/internal/store"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
)

// BatchItem 客户端提交的一条待翻译文本
type BatchItem struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Result 可以立刻返回的翻译结果
type Result struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
	FromCache   bool   `json:"fromCache,omitempty"`
}

// BatchResult 批次提交的响应
type BatchResult struct {
	JobID       string   `json:"jobId,omitempty"`
	Results     []Result `json:"results"`
	QueuedCount int      `json:"queuedCount"`
}

// task 队列中的一条翻译任务，引用任务 ID 和条目下标
type task struct {
	jobID      string
	index      int
	text       string
	context    string
	url        string
	sourceLang string
	targetLang string
}

// Engine 翻译队列引擎
//
// 协调缓存、任务注册表和翻译提供商：命中缓存的条目立即返回，
// 未命中的进入任务队列，由单个后台循环逐条排空。
// 每个进程只构造一个实例，依赖全部注入，测试可以建隔离实例。
type Engine struct {
	cache    *store.CacheStore
	jobs     *store.JobStore
	feedback *store.FeedbackStore
	provider providers.Provider
	logger   *zap.Logger
	timeout  time.Duration

	mu         sync.Mutex
	queue      []task
	processing bool
}

// NewEngine 创建队列引擎
func NewEngine(cache *store.CacheStore, jobs *store.JobStore, feedback *store.FeedbackStore, provider providers.Provider, logger *zap.Logger, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Engine{
		cache:    cache,
		jobs:     jobs,
		feedback: feedback,
		provider: provider,
		logger:   logger,
		timeout:  timeout,
	}
}

// BatchTranslate 处理一个批次
//
// 空文本被跳过；源语言等于目标语言时所有条目原样直通，不建任务、
// 不调用提供商。缓存命中立即进入 Results，未命中的创建任务并入队。
func (e *Engine) BatchTranslate(ctx context.Context, items []BatchItem, sourceLang, targetLang string) (*BatchResult, error) {
	result := &BatchResult{Results: make([]Result, 0, len(items))}

	if sourceLang == targetLang {
		for _, item := range items {
			text := strings.TrimSpace(item.Text)
			if text == "" {
				continue
			}
			result.Results = append(result.Results, Result{Text: text, Translation: text})
		}
		return result, nil
	}

	var pending []store.JobItem
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		if entry, ok := e.cache.Get(text, sourceLang, targetLang); ok {
			result.Results = append(result.Results, Result{
				Text:        text,
				Translation: entry.Translation,
				FromCache:   true,
			})
			continue
		}
		pending = append(pending, store.JobItem{
			Text:    text,
			Context: item.Context,
			URL:     item.URL,
		})
	}

	result.QueuedCount = len(pending)
	if len(pending) == 0 {
		return result, nil
	}

	jobID, err := e.jobs.Create(pending)
	if err != nil {
		return nil, err
	}
	result.JobID = jobID

	e.mu.Lock()
	for i, item := range pending {
		e.queue = append(e.queue, task{
			jobID:      jobID,
			index:      i,
			text:       item.Text,
			context:    item.Context,
			url:        item.URL,
			sourceLang: sourceLang,
			targetLang: targetLang,
		})
	}
	e.mu.Unlock()

	e.logger.Info("batch queued",
		zap.String("jobId", jobID),
		zap.Int("queued", len(pending)),
		zap.Int("cached", len(result.Results)),
		zap.String("sourceLang", sourceLang),
		zap.String("targetLang", targetLang))

	e.kick()
	return result, nil
}

// GetJob 查询任务状态，纯读取
func (e *Engine) GetJob(id string) (store.Job, bool) {
	return e.jobs.Get(id)
}

// SubmitFeedback 接收人工反馈
//
// 总是追加反馈记录；corrected 非空时把修正写入缓存并标记为
// userEdited，此后自动翻译不能再覆盖该条目。
func (e *Engine) SubmitFeedback(rec store.FeedbackRecord) (string, error) {
	id, err := e.feedback.Append(rec)
	if err != nil {
		return "", err
	}

	if corrected := strings.TrimSpace(rec.Corrected); corrected != "" {
		meta := store.CacheMeta{URL: rec.URL, Selector: rec.Selector}
		if _, err := e.cache.Put(rec.Text, rec.SourceLang, rec.TargetLang, corrected, meta, true); err != nil {
			return "", err
		}
	}

	e.logger.Info("translation feedback received",
		zap.String("id", id),
		zap.String("url", rec.URL))
	return id, nil
}

// kick 启动后台排空循环；已有循环在跑时什么都不做
func (e *Engine) kick() {
	e.mu.Lock()
	if e.processing {
		e.mu.Unlock()
		return
	}
	e.processing = true
	e.mu.Unlock()

	go e.drain()
}

// drain 逐条处理队列直到为空
//
// 每个进程最多一个排空循环；并发度固定为 1，顺序调用提供商，
// 批次内条目按提交顺序完成。
func (e *Engine) drain() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.processing = false
			e.mu.Unlock()
			return
		}
		t := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		e.process(t)
	}
}

// process 处理一条任务
//
// 提供商错误被捕获为该条目的 error 状态，永远不会中断批次。
func (e *Engine) process(t task) {
	// 重新检查缓存，覆盖入队后其他批次已经翻译完成的情况
	if entry, ok := e.cache.Get(t.text, t.sourceLang, t.targetLang); ok {
		if err := e.jobs.CompleteItem(t.jobID, t.index, entry.Translation); err != nil {
			e.logger.Error("failed to persist job item", zap.String("jobId", t.jobID), zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	req := &providers.Request{
		Text:       t.text,
		SourceLang: t.sourceLang,
		TargetLang: t.targetLang,
	}
	if t.context != "" || t.url != "" {
		req.Context = map[string]string{}
		if t.context != "" {
			req.Context["context"] = t.context
		}
		if t.url != "" {
			req.Context["url"] = t.url
		}
	}

	resp, err := e.provider.Translate(ctx, req)
	if err != nil {
		e.logger.Error("translation task failed",
			zap.String("jobId", t.jobID),
			zap.Int("index", t.index),
			zap.Error(err))
		if err := e.jobs.FailItem(t.jobID, t.index, err.Error()); err != nil {
			e.logger.Error("failed to persist job item", zap.String("jobId", t.jobID), zap.Error(err))
		}
		return
	}

	translation := ""
	if resp != nil {
		translation = resp.Text
	}

	if translation != "" {
		meta := store.CacheMeta{URL: t.url, Context: t.context}
		written, err := e.cache.Put(t.text, t.sourceLang, t.targetLang, translation, meta, false)
		if err != nil {
			e.logger.Error("failed to persist cache entry", zap.String("jobId", t.jobID), zap.Error(err))
		}
		if !written {
			// 翻译期间有人工修正抢先落地，任务项沿用修正后的值
			if entry, ok := e.cache.Get(t.text, t.sourceLang, t.targetLang); ok {
				translation = entry.Translation
			}
		}
	}

	if err := e.jobs.CompleteItem(t.jobID, t.index, translation); err != nil {
		e.logger.Error("failed to persist job item", zap.String("jobId", t.jobID), zap.Error(err))
	}
}
