package api

import (
	"net/http"

	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/services"
)

func (s *Server) handleReadingQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
		Level string `json:"level"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Debug("generating reading quiz: topic=%s, level=%s", req.Topic, req.Level)

	quiz, err := s.Content.GenerateReadingQuiz(r.Context(), req.Topic, req.Level)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, quiz)
}

func (s *Server) handleEvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passage  string `json:"passage"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	eval, err := s.Content.EvaluateOpenAnswer(r.Context(), req.Passage, req.Question, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, eval)
}

func (s *Server) handleSaveReadingSession(w http.ResponseWriter, r *http.Request) {
	var session services.ReadingSession
	if err := decodeJSON(r, &session); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Content.SaveReadingSession(r.Context(), session)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, result)
}

func (s *Server) handleWritingFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
		Essay string `json:"essay"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Content.WritingFeedback(r.Context(), req.Topic, req.Essay)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleLearningPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Content.GenerateLearningPlan(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, plan)
}
