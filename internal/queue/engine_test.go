package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-site-translator/internal/store"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/echo"
)

// fakeProvider 可编程的测试提供商：计数每次调用，指定文本时报错
type fakeProvider struct {
	mu        sync.Mutex
	calls     int
	failTexts map[string]bool
}

func (p *fakeProvider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.failTexts[req.Text] {
		return nil, errors.New("provider exploded")
	}
	if req.SourceLang == req.TargetLang {
		return nil, nil
	}
	return &providers.Response{Text: "[" + req.TargetLang + "] " + req.Text}, nil
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestEngine(t *testing.T, provider providers.Provider) *Engine {
	t.Helper()
	dir := t.TempDir()

	cache, err := store.NewCacheStore(dir)
	require.NoError(t, err)
	jobs, err := store.NewJobStore(dir, 0)
	require.NoError(t, err)
	feedback, err := store.NewFeedbackStore(dir)
	require.NoError(t, err)

	return NewEngine(cache, jobs, feedback, provider, zap.NewNop(), 5*time.Second)
}

// waitCompleted 等待任务完成并返回最终状态
func waitCompleted(t *testing.T, e *Engine, jobID string) store.Job {
	t.Helper()
	require.Eventually(t, func() bool {
		job, ok := e.GetJob(jobID)
		return ok && job.Status == store.JobStatusCompleted
	}, 3*time.Second, 10*time.Millisecond)
	job, _ := e.GetJob(jobID)
	return job
}

func TestBatchTranslate(t *testing.T) {
	t.Run("Cache Idempotence", func(t *testing.T) {
		provider := &fakeProvider{}
		e := newTestEngine(t, provider)

		result, err := e.BatchTranslate(context.Background(), []BatchItem{{Text: "Привет"}}, "ru", "en")
		require.NoError(t, err)
		require.NotEmpty(t, result.JobID)
		assert.Equal(t, 1, result.QueuedCount)
		assert.Empty(t, result.Results)

		waitCompleted(t, e, result.JobID)
		assert.Equal(t, 1, provider.callCount())

		// 第二次提交同一三元组：命中缓存，不建任务，不再调用提供商
		second, err := e.BatchTranslate(context.Background(), []BatchItem{{Text: "Привет"}}, "ru", "en")
		require.NoError(t, err)
		assert.Empty(t, second.JobID)
		assert.Equal(t, 0, second.QueuedCount)
		require.Len(t, second.Results, 1)
		assert.True(t, second.Results[0].FromCache)
		assert.Equal(t, "[en] Привет", second.Results[0].Translation)
		assert.Equal(t, 1, provider.callCount())
	})

	t.Run("Same Language Pass Through", func(t *testing.T) {
		provider := &fakeProvider{}
		e := newTestEngine(t, provider)

		result, err := e.BatchTranslate(context.Background(),
			[]BatchItem{{Text: "Привет"}, {Text: "Мир"}}, "ru", "ru")
		require.NoError(t, err)

		assert.Empty(t, result.JobID)
		assert.Equal(t, 0, result.QueuedCount)
		require.Len(t, result.Results, 2)
		for _, r := range result.Results {
			assert.Equal(t, r.Text, r.Translation)
			assert.False(t, r.FromCache)
		}
		assert.Equal(t, 0, provider.callCount())
	})

	t.Run("Empty Texts Skipped", func(t *testing.T) {
		provider := &fakeProvider{}
		e := newTestEngine(t, provider)

		result, err := e.BatchTranslate(context.Background(),
			[]BatchItem{{Text: "   "}, {Text: ""}, {Text: "\n\t"}}, "ru", "en")
		require.NoError(t, err)
		assert.Empty(t, result.JobID)
		assert.Equal(t, 0, result.QueuedCount)
		assert.Empty(t, result.Results)
	})

	t.Run("Partial Failure Isolation", func(t *testing.T) {
		provider := &fakeProvider{failTexts: map[string]bool{"c": true}}
		e := newTestEngine(t, provider)

		items := []BatchItem{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"}}
		result, err := e.BatchTranslate(context.Background(), items, "ru", "en")
		require.NoError(t, err)
		require.NotEmpty(t, result.JobID)

		job := waitCompleted(t, e, result.JobID)
		assert.Equal(t, 5, job.Total)
		assert.Equal(t, 5, job.Done)

		for i, item := range job.Items {
			if i == 2 {
				assert.Equal(t, store.ItemStatusError, item.Status)
				assert.Equal(t, "provider exploded", item.Error)
				assert.Empty(t, item.Translation)
			} else {
				assert.Equal(t, store.ItemStatusDone, item.Status)
				assert.Equal(t, "[en] "+item.Text, item.Translation)
			}
		}
	})

	t.Run("Echo Scenario", func(t *testing.T) {
		e := newTestEngine(t, echo.New())

		result, err := e.BatchTranslate(context.Background(), []BatchItem{{Text: "Привет"}}, "ru", "en")
		require.NoError(t, err)
		require.NotEmpty(t, result.JobID)

		job := waitCompleted(t, e, result.JobID)
		require.Len(t, job.Items, 1)
		assert.Equal(t, "[en] Привет", job.Items[0].Translation)
	})

	t.Run("Done Is Monotonic Across Polls", func(t *testing.T) {
		provider := &fakeProvider{}
		e := newTestEngine(t, provider)

		items := make([]BatchItem, 10)
		for i := range items {
			items[i] = BatchItem{Text: string(rune('a' + i))}
		}
		result, err := e.BatchTranslate(context.Background(), items, "ru", "en")
		require.NoError(t, err)

		lastDone := 0
		require.Eventually(t, func() bool {
			job, ok := e.GetJob(result.JobID)
			if !ok {
				return false
			}
			assert.GreaterOrEqual(t, job.Done, lastDone)
			lastDone = job.Done
			return job.Status == store.JobStatusCompleted
		}, 3*time.Second, 5*time.Millisecond)

		job, _ := e.GetJob(result.JobID)
		assert.Equal(t, job.Total, job.Done)
	})
}

func TestGetJobUnknown(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{})
	_, ok := e.GetJob("no-such-job")
	assert.False(t, ok)
}

func TestSubmitFeedback(t *testing.T) {
	t.Run("Correction Pins Cache", func(t *testing.T) {
		provider := &fakeProvider{}
		e := newTestEngine(t, provider)

		id, err := e.SubmitFeedback(store.FeedbackRecord{
			SourceLang: "ru",
			TargetLang: "en",
			Text:       "Привет",
			Corrected:  "Hello",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		// 之后的批次直接拿到修正值，无论提供商会返回什么
		result, err := e.BatchTranslate(context.Background(), []BatchItem{{Text: "Привет"}}, "ru", "en")
		require.NoError(t, err)
		assert.Empty(t, result.JobID)
		require.Len(t, result.Results, 1)
		assert.True(t, result.Results[0].FromCache)
		assert.Equal(t, "Hello", result.Results[0].Translation)
		assert.Equal(t, 0, provider.callCount())
	})

	t.Run("Pin Survives Automated Writes", func(t *testing.T) {
		provider := &fakeProvider{}
		e := newTestEngine(t, provider)

		// 先让机器翻译落进缓存
		first, err := e.BatchTranslate(context.Background(), []BatchItem{{Text: "Мир"}}, "ru", "en")
		require.NoError(t, err)
		waitCompleted(t, e, first.JobID)

		// 人工修正覆盖机器结果
		_, err = e.SubmitFeedback(store.FeedbackRecord{
			SourceLang: "ru",
			TargetLang: "en",
			Text:       "Мир",
			Corrected:  "World",
		})
		require.NoError(t, err)

		result, err := e.BatchTranslate(context.Background(), []BatchItem{{Text: "Мир"}}, "ru", "en")
		require.NoError(t, err)
		require.Len(t, result.Results, 1)
		assert.Equal(t, "World", result.Results[0].Translation)
	})

	t.Run("Without Correction Only Appends", func(t *testing.T) {
		provider := &fakeProvider{}
		e := newTestEngine(t, provider)

		id, err := e.SubmitFeedback(store.FeedbackRecord{
			SourceLang: "ru",
			TargetLang: "en",
			Text:       "Привет",
			Reason:     "sounds awkward",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		// 没有修正值时缓存不受影响
		_, ok := e.cache.Get("Привет", "ru", "en")
		assert.False(t, ok)
	})
}
