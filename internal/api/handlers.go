package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/veritas-agent/veritas/internal/chat"
)

// Simulated analysis values. The real forensic model replaces these behind
// the analyzer seam; the console contract stays the same.
const (
	simulatedScore    = 88.5
	criticalThreshold = 70.0
	defaultQuestion   = "Generate Forensic Report"
)

var simulatedAnomalies = []string{
	"Lip Sync Failure",
	"Unnatural Blinking Patterns",
	"Mouth Artifacts",
}

type chatRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history"`
}

type chatResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reply      string  `json:"reply"`
}

// handleChat classifies one operator message and routes it. History is the
// caller's session log, passed through read-only.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := trimmed(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	res := s.classifier.Classify(message)
	reply := s.chat.RouteIntent(r.Context(), res.Label, message, req.History, nil)

	writeJSON(w, http.StatusOK, chatResponse{
		Intent:     res.Label,
		Confidence: res.Confidence,
		Reply:      reply,
	})
}

type analyzeRequest struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Question  string `json:"question"`
}

type analyzeResponse struct {
	Score     float64  `json:"score"`
	Status    string   `json:"status"`
	Anomalies []string `json:"anomalies"`
	Report    string   `json:"report"`
}

// handleAnalyze runs the (simulated) deepfake analysis for one uploaded
// video and synthesizes its forensic report via the evidence path.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if trimmed(req.Filename) == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	evidence := &chat.Evidence{
		Score:     simulatedScore,
		Anomalies: simulatedAnomalies,
		Metadata:  fmt.Sprintf("Filename: %s | Size: %.1fKB", req.Filename, float64(req.SizeBytes)/1024),
	}

	question := trimmed(req.Question)
	if question == "" {
		question = defaultQuestion
	}

	status := "SAFE"
	if evidence.Score > criticalThreshold {
		status = "CRITICAL"
	}

	reportText := s.chat.RouteIntent(r.Context(), "report", question, nil, evidence)

	writeJSON(w, http.StatusOK, analyzeResponse{
		Score:     evidence.Score,
		Status:    status,
		Anomalies: evidence.Anomalies,
		Report:    reportText,
	})
}

type batchRequest struct {
	Paths []string `json:"paths"`
}

type batchResponse struct {
	JobID   string            `json:"job_id"`
	Reports map[string]string `json:"reports"`
}

// handleBatch runs the evidence pipeline over a list of file paths,
// archiving each report and emitting report events.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Paths) == 0 {
		writeError(w, http.StatusBadRequest, "paths are required")
		return
	}

	jobID := uuid.New()
	items := s.proc.Run(r.Context(), jobID, req.Paths)

	reports := make(map[string]string, len(items))
	for _, item := range items {
		reports[item.Path] = item.Report
	}

	writeJSON(w, http.StatusOK, batchResponse{
		JobID:   jobID.String(),
		Reports: reports,
	})
}

// handleReports lists recent archived reports.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "report archive not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := s.store.RecentReports(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list reports", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": records})
}
