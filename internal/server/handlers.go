package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/examhack/examhack/internal/model"
	"github.com/examhack/examhack/internal/render"
)

// Pipeline is the orchestration surface the handlers call into.
type Pipeline interface {
	Scrape(ctx context.Context, query model.CourseQuery) ([]string, error)
	Analyze(ctx context.Context, courseCode string, paths []string) (*model.AnalysisResult, bool, error)
}

type scrapeRequest struct {
	CourseCode string `json:"courseCode"`
	ExamType   string `json:"examType"`
}

type scrapeResponse struct {
	Success    bool     `json:"success"`
	CourseCode string   `json:"courseCode"`
	ExamType   string   `json:"examType"`
	PDFPaths   []string `json:"pdfPaths"`
	Count      int      `json:"count"`
	Message    string   `json:"message"`
}

type analyzeRequest struct {
	CourseCode string   `json:"courseCode"`
	PDFPaths   []string `json:"pdfPaths"`
}

type analyzeResponse struct {
	Success        bool                `json:"success"`
	CourseCode     string              `json:"courseCode"`
	FromCache      bool                `json:"fromCache"`
	TopQuestions   []model.TopQuestion `json:"topQuestions"`
	TopicWeightage []model.TopicWeight `json:"topicWeightage"`
}

type downloadRequest struct {
	CourseCode     string              `json:"courseCode"`
	TopQuestions   []model.TopQuestion `json:"topQuestions"`
	TopicWeightage []model.TopicWeight `json:"topicWeightage"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CourseCode == "" {
		writeFailure(w, http.StatusBadRequest, "Course code is required")
		return
	}

	query, err := model.NewCourseQuery(req.CourseCode, req.ExamType)
	if err != nil {
		writeError(w, err)
		return
	}

	paths, err := s.pipeline.Scrape(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scrapeResponse{
		Success:    true,
		CourseCode: query.Code,
		ExamType:   string(query.Category),
		PDFPaths:   paths,
		Count:      len(paths),
		Message:    fmt.Sprintf("Successfully downloaded %d %s papers", len(paths), query.Category),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CourseCode == "" || len(req.PDFPaths) == 0 {
		writeFailure(w, http.StatusBadRequest, "Course code and PDF paths are required")
		return
	}

	result, fromCache, err := s.pipeline.Analyze(r.Context(), req.CourseCode, req.PDFPaths)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:        true,
		CourseCode:     req.CourseCode,
		FromCache:      fromCache,
		TopQuestions:   result.TopQuestions,
		TopicWeightage: result.TopicWeightage,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CourseCode == "" || len(req.TopQuestions) == 0 || len(req.TopicWeightage) == 0 {
		writeFailure(w, http.StatusBadRequest, "Missing required data for study guide generation")
		return
	}

	guide := render.StudyGuide(req.CourseCode, &model.AnalysisResult{
		TopQuestions:   req.TopQuestions,
		TopicWeightage: req.TopicWeightage,
	})

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s", render.Filename(req.CourseCode)))
	_, _ = w.Write([]byte(guide))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "ExamHack API is running",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// writeError maps the domain error taxonomy to HTTP statuses. Anything
// unrecognized is a 500; the body shape is always {success, message}.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *model.ValidationError
		notFound   *model.NotFoundError
		timeout    *model.TimeoutError
		quota      *model.QuotaExceededError
		status     = http.StatusInternalServerError
	)
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &timeout):
		status = http.StatusGatewayTimeout
	case errors.As(err, &quota):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
	}
	writeFailure(w, status, err.Error())
}
