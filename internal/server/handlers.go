package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-site-translator/internal/queue"
	"github.com/nerdneilsfield/go-site-translator/internal/store"
)

// batchRequest POST /api/translate/batch 的请求体
type batchRequest struct {
	SourceLang string            `json:"sourceLang"`
	TargetLang string            `json:"targetLang"`
	Items      []queue.BatchItem `json:"items"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SourceLang == "" || req.TargetLang == "" || req.Items == nil {
		writeError(w, http.StatusBadRequest, "sourceLang, targetLang and items[] are required")
		return
	}

	result, err := s.engine.BatchTranslate(r.Context(), req.Items, req.SourceLang, req.TargetLang)
	if err != nil {
		s.logger.Error("batch translate failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "jobId required")
		return
	}

	job, ok := s.engine.GetJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// feedbackRequest POST /api/translate/feedback 的请求体
type feedbackRequest struct {
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	Text       string `json:"text"`
	Corrected  string `json:"corrected,omitempty"`
	URL        string `json:"url,omitempty"`
	Selector   string `json:"selector,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SourceLang == "" || req.TargetLang == "" || req.Text == "" {
		writeError(w, http.StatusBadRequest, "sourceLang, targetLang, text required")
		return
	}

	id, err := s.engine.SubmitFeedback(store.FeedbackRecord{
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Text:       req.Text,
		Corrected:  req.Corrected,
		URL:        req.URL,
		Selector:   req.Selector,
		Reason:     req.Reason,
	})
	if err != nil {
		s.logger.Error("submit feedback failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "ok": true})
}

// prewarmResponse POST /api/translate/prewarm 的响应体
type prewarmResponse struct {
	Queued int    `json:"queued"`
	JobID  string `json:"jobId,omitempty"`
}

func (s *Server) handlePrewarm(w http.ResponseWriter, r *http.Request) {
	items, err := CollectSiteTexts(s.cfg.Server.PagesDir)
	if err != nil {
		s.logger.Error("prewarm page scan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	result, err := s.engine.BatchTranslate(r.Context(), items,
		s.cfg.Translator.PrewarmSource, s.cfg.Translator.PrewarmTarget)
	if err != nil {
		s.logger.Error("prewarm translate failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info("prewarm started",
		zap.Int("discovered", len(items)),
		zap.Int("queued", result.QueuedCount),
		zap.String("jobId", result.JobID))
	writeJSON(w, http.StatusOK, prewarmResponse{Queued: result.QueuedCount, JobID: result.JobID})
}
