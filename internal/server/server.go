package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-site-translator/internal/config"
	"github.com/nerdneilsfield/go-site-translator/internal/queue"
)

// Server 翻译服务的 HTTP 外观
type Server struct {
	engine *queue.Engine
	cfg    *config.Config
	logger *zap.Logger
	http   *http.Server
}

// New 创建 HTTP 服务
func New(engine *queue.Engine, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/translate/batch", s.handleBatch)
	mux.HandleFunc("GET /api/translate/status/{jobId}", s.handleStatus)
	mux.HandleFunc("POST /api/translate/feedback", s.handleFeedback)
	mux.HandleFunc("POST /api/translate/prewarm", s.handlePrewarm)

	s.http = &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler 返回路由处理器（测试用）
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run 启动服务并阻塞直到 ctx 取消，随后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// logRequests 记录每个请求的方法、路径、状态码和耗时
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// writeJSON 输出 JSON 响应
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError 输出 {"error": ...} 响应
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
