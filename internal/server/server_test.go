package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-site-translator/internal/config"
	"github.com/nerdneilsfield/go-site-translator/internal/queue"
	"github.com/nerdneilsfield/go-site-translator/internal/store"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/echo"
)

func newTestServer(t *testing.T, pagesDir string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	cache, err := store.NewCacheStore(dir)
	require.NoError(t, err)
	jobs, err := store.NewJobStore(dir, 0)
	require.NoError(t, err)
	feedback, err := store.NewFeedbackStore(dir)
	require.NoError(t, err)

	engine := queue.NewEngine(cache, jobs, feedback, echo.New(), zap.NewNop(), 5*time.Second)

	cfg := config.Default()
	cfg.Server.PagesDir = pagesDir

	srv := New(engine, cfg, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestBatchEndpoint(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		ts := newTestServer(t, t.TempDir())

		for _, body := range []map[string]interface{}{
			{"targetLang": "en", "items": []interface{}{}},
			{"sourceLang": "ru", "items": []interface{}{}},
			{"sourceLang": "ru", "targetLang": "en"},
		} {
			resp, _ := postJSON(t, ts.URL+"/api/translate/batch", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		}
	})

	t.Run("Queue And Poll To Completion", func(t *testing.T) {
		ts := newTestServer(t, t.TempDir())

		resp, body := postJSON(t, ts.URL+"/api/translate/batch", map[string]interface{}{
			"sourceLang": "ru",
			"targetLang": "en",
			"items": []map[string]string{
				{"text": "Привет"},
				{"text": "Мир"},
				{"text": "Заказать"},
			},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out queue.BatchResult
		require.NoError(t, json.Unmarshal(body, &out))
		require.NotEmpty(t, out.JobID)
		assert.Equal(t, 3, out.QueuedCount)

		var job store.Job
		require.Eventually(t, func() bool {
			status := getJSON(t, ts.URL+"/api/translate/status/"+out.JobID, &job)
			return status == http.StatusOK && job.Status == store.JobStatusCompleted
		}, 3*time.Second, 20*time.Millisecond)

		assert.Equal(t, 3, job.Done)
		assert.Equal(t, "[en] Привет", job.Items[0].Translation)

		// 排空后再提交：全部命中缓存
		resp, body = postJSON(t, ts.URL+"/api/translate/batch", map[string]interface{}{
			"sourceLang": "ru",
			"targetLang": "en",
			"items":      []map[string]string{{"text": "Привет"}},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out = queue.BatchResult{}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Empty(t, out.JobID)
		require.Len(t, out.Results, 1)
		assert.True(t, out.Results[0].FromCache)
		assert.Equal(t, "[en] Привет", out.Results[0].Translation)
	})
}

func TestStatusEndpointUnknownJob(t *testing.T) {
	ts := newTestServer(t, t.TempDir())
	status := getJSON(t, ts.URL+"/api/translate/status/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFeedbackEndpoint(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		ts := newTestServer(t, t.TempDir())
		resp, _ := postJSON(t, ts.URL+"/api/translate/feedback", map[string]string{
			"sourceLang": "ru",
			"targetLang": "en",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Correction Overrides Provider", func(t *testing.T) {
		ts := newTestServer(t, t.TempDir())

		resp, body := postJSON(t, ts.URL+"/api/translate/feedback", map[string]string{
			"sourceLang": "ru",
			"targetLang": "en",
			"text":       "Привет",
			"corrected":  "Hello",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var fb struct {
			ID string `json:"id"`
			OK bool   `json:"ok"`
		}
		require.NoError(t, json.Unmarshal(body, &fb))
		assert.True(t, fb.OK)
		assert.NotEmpty(t, fb.ID)

		// 同一批次随后提交：必须返回修正值而不是 echo 的结果
		resp, body = postJSON(t, ts.URL+"/api/translate/batch", map[string]interface{}{
			"sourceLang": "ru",
			"targetLang": "en",
			"items":      []map[string]string{{"text": "Привет"}},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out queue.BatchResult
		require.NoError(t, json.Unmarshal(body, &out))
		require.Len(t, out.Results, 1)
		assert.True(t, out.Results[0].FromCache)
		assert.Equal(t, "Hello", out.Results[0].Translation)
	})
}

func TestPrewarmEndpoint(t *testing.T) {
	pagesDir := t.TempDir()
	page := `<!DOCTYPE html>
<html lang="ru"><head><title>ignored</title></head>
<body>
  <h1>Bhagavad Gita As It Is</h1>
  <p>Order the original 1972 edition</p>
  <img src="/cover.jpg" alt="Book cover">
  <script>var ignored = "do not pick this up";</script>
</body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(pagesDir, "index.html"), []byte(page), 0o644))

	ts := newTestServer(t, pagesDir)

	resp, body := postJSON(t, ts.URL+"/api/translate/prewarm", map[string]interface{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out prewarmResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.JobID)
	assert.Equal(t, 3, out.Queued)

	var job store.Job
	require.Eventually(t, func() bool {
		status := getJSON(t, ts.URL+"/api/translate/status/"+out.JobID, &job)
		return status == http.StatusOK && job.Status == store.JobStatusCompleted
	}, 3*time.Second, 20*time.Millisecond)

	translations := make(map[string]string)
	for _, item := range job.Items {
		translations[item.Text] = item.Translation
	}
	assert.Equal(t, fmt.Sprintf("[%s] %s", "en", "Book cover"), translations["Book cover"])
	assert.NotContains(t, translations, `var ignored = "do not pick this up";`)
}
