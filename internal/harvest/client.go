package harvest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Item 批次中的一条请求
type Item struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Result 服务端立即返回的结果
type Result struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
	FromCache   bool   `json:"fromCache,omitempty"`
}

// BatchResponse POST /api/translate/batch 的响应
type BatchResponse struct {
	JobID       string   `json:"jobId,omitempty"`
	Results     []Result `json:"results"`
	QueuedCount int      `json:"queuedCount"`
}

// JobStatusItem 任务状态中的一条
type JobStatusItem struct {
	Text        string `json:"text"`
	Status      string `json:"status"`
	Translation string `json:"translation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// JobStatus GET /api/translate/status/{jobId} 的响应
type JobStatus struct {
	Status string          `json:"status"`
	Total  int             `json:"total"`
	Done   int             `json:"done"`
	Items  []JobStatusItem `json:"items"`
}

// Feedback 一次人工修正
type Feedback struct {
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	Text       string `json:"text"`
	Corrected  string `json:"corrected,omitempty"`
	URL        string `json:"url,omitempty"`
	Selector   string `json:"selector,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// PrewarmResult POST /api/translate/prewarm 的响应
type PrewarmResult struct {
	Queued int    `json:"queued"`
	JobID  string `json:"jobId,omitempty"`
}

// Client 翻译服务的 API 客户端
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient 创建客户端；baseURL 形如 "http://localhost:3000"
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    resty.New().SetTimeout(timeout),
		baseURL: strings.TrimSuffix(baseURL, "/") + "/api/translate",
	}
}

// BatchTranslate 提交一个批次
func (c *Client) BatchTranslate(ctx context.Context, sourceLang, targetLang string, items []Item) (*BatchResponse, error) {
	var result BatchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"sourceLang": sourceLang,
			"targetLang": targetLang,
			"items":      items,
		}).
		SetResult(&result).
		Post(c.baseURL + "/batch")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("batch translate returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return &result, nil
}

// JobStatus 查询任务状态
func (c *Client) JobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	var result JobStatus
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(c.baseURL + "/status/" + jobID)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("job %s not found", jobID)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("job status returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return &result, nil
}

// SubmitFeedback 提交人工修正，返回记录 ID
func (c *Client) SubmitFeedback(ctx context.Context, fb Feedback) (string, error) {
	var result struct {
		ID string `json:"id"`
		OK bool   `json:"ok"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(fb).
		SetResult(&result).
		Post(c.baseURL + "/feedback")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("feedback returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return result.ID, nil
}

// Prewarm 触发站点级预热
func (c *Client) Prewarm(ctx context.Context) (*PrewarmResult, error) {
	var result PrewarmResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{}).
		SetResult(&result).
		Post(c.baseURL + "/prewarm")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("prewarm returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return &result, nil
}
