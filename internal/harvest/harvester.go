package harvest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Harvester 页面文本采集编排器
//
// 从 TextSource 采集可翻译单元，按可见性分两批提交，
// 应用同步结果，轮询任务把增量结果写回，并在每个会话里
// 对每个目标语言触发一次站点级预热。
type Harvester struct {
	client  *Client
	policy  LanguagePolicy
	resolve SourceResolver
	logger  *zap.Logger

	baseLang     string
	allowBase    bool
	pageURL      string
	pollInterval time.Duration
	pollTimeout  time.Duration

	mu        sync.Mutex
	prewarmed map[string]bool
}

// Option Harvester 配置项
type Option func(*Harvester)

// WithPolicy 替换语言策略
func WithPolicy(policy LanguagePolicy) Option {
	return func(h *Harvester) { h.policy = policy }
}

// WithSourceResolver 替换源语言推断
func WithSourceResolver(resolve SourceResolver) Option {
	return func(h *Harvester) { h.resolve = resolve }
}

// WithBaseLang 设置站点基础语言及是否允许翻译成基础语言
func WithBaseLang(baseLang string, allowBase bool) Option {
	return func(h *Harvester) {
		h.baseLang = baseLang
		h.allowBase = allowBase
	}
}

// WithPageURL 设置当前页面 URL（随批次上报，用于缓存溯源）
func WithPageURL(url string) Option {
	return func(h *Harvester) { h.pageURL = url }
}

// WithPolling 设置轮询间隔和超时
func WithPolling(interval, timeout time.Duration) Option {
	return func(h *Harvester) {
		h.pollInterval = interval
		h.pollTimeout = timeout
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(h *Harvester) { h.logger = logger }
}

// New 创建采集编排器
func New(client *Client, opts ...Option) *Harvester {
	h := &Harvester{
		client:       client,
		resolve:      DefaultSourceResolver,
		logger:       zap.NewNop(),
		baseLang:     "en",
		pollInterval: 1200 * time.Millisecond,
		pollTimeout:  60 * time.Second,
		prewarmed:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.policy == nil {
		h.policy = &ScriptPolicy{BaseLang: h.baseLang, AllowBase: h.allowBase}
	}
	return h
}

// group 同一原文的所有回写位置
type group struct {
	text  string
	units []*Unit
}

// Run 对一个页面执行完整的分批翻译
//
// 目标语言等于基础语言时是幂等的空操作。可见批次先提交以降低
// 首屏延迟，剩余文本随后提交；两个批次的任务并发轮询，全部结束
// （完成或超时）后返回。
func (h *Harvester) Run(ctx context.Context, source TextSource, targetLang string) error {
	if targetLang == h.baseLang && !h.allowBase {
		return nil
	}
	sourceLang := h.resolve(targetLang)

	visible, rest := h.collect(source, targetLang)
	if len(visible) == 0 && len(rest) == 0 {
		return nil
	}

	h.logger.Debug("harvest collected",
		zap.String("targetLang", targetLang),
		zap.Int("visible", len(visible)),
		zap.Int("rest", len(rest)))

	var wg sync.WaitGroup
	submit := func(groups map[string]*group) {
		if len(groups) == 0 {
			return
		}
		jobID, err := h.submit(ctx, groups, sourceLang, targetLang)
		if err != nil {
			h.logger.Warn("batch submit failed", zap.Error(err))
			return
		}
		if jobID != "" {
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.poll(ctx, jobID, groups)
			}()
		}
	}

	submit(visible)
	submit(rest)

	h.prewarmOnce(ctx, targetLang)

	wg.Wait()
	return ctx.Err()
}

// Observe 把初始加载后新发现的内容（动态插入的节点）送入同一条批次路径
func (h *Harvester) Observe(ctx context.Context, source TextSource, targetLang string) error {
	if targetLang == h.baseLang && !h.allowBase {
		return nil
	}
	sourceLang := h.resolve(targetLang)

	visible, rest := h.collect(source, targetLang)
	merged := visible
	for text, g := range rest {
		merged[text] = g
	}
	if len(merged) == 0 {
		return nil
	}

	jobID, err := h.submit(ctx, merged, sourceLang, targetLang)
	if err != nil {
		return err
	}
	if jobID != "" {
		h.poll(ctx, jobID, merged)
	}
	return nil
}

// SubmitFeedback 上报人工修正
func (h *Harvester) SubmitFeedback(ctx context.Context, text, corrected, reason, selector, targetLang string) (string, error) {
	return h.client.SubmitFeedback(ctx, Feedback{
		SourceLang: h.resolve(targetLang),
		TargetLang: targetLang,
		Text:       text,
		Corrected:  corrected,
		Reason:     reason,
		Selector:   selector,
		URL:        h.pageURL,
	})
}

// collect 采集并按可见性分组
//
// 相同原文去重，保留每个出现位置的回写回调；任一位置可见的文本
// 归入可见批次（它的所有位置都会被一次请求更新）。
func (h *Harvester) collect(source TextSource, targetLang string) (visible, rest map[string]*group) {
	visible = make(map[string]*group)
	rest = make(map[string]*group)

	for _, unit := range source.Units() {
		if !h.policy.ShouldTranslate(unit.Text, targetLang) {
			continue
		}

		g, ok := visible[unit.Text]
		if !ok {
			g, ok = rest[unit.Text]
		}
		if !ok {
			g = &group{text: unit.Text}
			rest[unit.Text] = g
		}
		g.units = append(g.units, unit)

		if unit.Visible {
			if _, promoted := visible[unit.Text]; !promoted {
				delete(rest, unit.Text)
				visible[unit.Text] = g
			}
		}
	}
	return visible, rest
}

// submit 提交一批分组，应用同步返回的结果，返回任务 ID（可能为空）
func (h *Harvester) submit(ctx context.Context, groups map[string]*group, sourceLang, targetLang string) (string, error) {
	items := make([]Item, 0, len(groups))
	for text := range groups {
		items = append(items, Item{Text: text, URL: h.pageURL})
	}

	resp, err := h.client.BatchTranslate(ctx, sourceLang, targetLang, items)
	if err != nil {
		return "", err
	}

	h.apply(groups, resp.Results)
	return resp.JobID, nil
}

// apply 把结果扇出到每个原文的所有回写位置
//
// 空译文意味着"没有可用的翻译"，原文保持不动。
func (h *Harvester) apply(groups map[string]*group, results []Result) {
	for _, r := range results {
		if r.Translation == "" {
			continue
		}
		g, ok := groups[r.Text]
		if !ok {
			continue
		}
		for _, unit := range g.units {
			unit.Apply(r.Translation)
		}
	}
}

// poll 以固定间隔轮询任务，把新完成的条目增量写回
//
// 任务完成或超时后停止；超时放弃轮询，页面保持部分翻译状态。
func (h *Harvester) poll(ctx context.Context, jobID string, groups map[string]*group) {
	deadline := time.Now().Add(h.pollTimeout)
	applied := make(map[string]bool)

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		status, err := h.client.JobStatus(ctx, jobID)
		if err == nil {
			var fresh []Result
			for _, item := range status.Items {
				if item.Status != "done" || item.Translation == "" || applied[item.Text] {
					continue
				}
				applied[item.Text] = true
				fresh = append(fresh, Result{Text: item.Text, Translation: item.Translation})
			}
			if len(fresh) > 0 {
				h.apply(groups, fresh)
			}
			if status.Status == "completed" {
				return
			}
		}

		if time.Now().After(deadline) {
			h.logger.Warn("job polling timed out", zap.String("jobId", jobID))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// prewarmOnce 每个目标语言每个会话只触发一次站点级预热
func (h *Harvester) prewarmOnce(ctx context.Context, targetLang string) {
	h.mu.Lock()
	if h.prewarmed[targetLang] {
		h.mu.Unlock()
		return
	}
	h.prewarmed[targetLang] = true
	h.mu.Unlock()

	if _, err := h.client.Prewarm(ctx); err != nil {
		h.logger.Warn("prewarm request failed", zap.Error(err))
	}
}
