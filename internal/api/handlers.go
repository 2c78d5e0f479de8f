package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/takeru/enghub/internal/db"
	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/models"
	"github.com/takeru/enghub/internal/services"
)

type Server struct {
	Progress services.ProgressService
	Content  services.ContentService
	DB       *db.DB
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.Progress.GetProgress(r.Context()))
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var event models.ActivityEvent
	if err := decodeJSON(r, &event); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Progress.RecordActivity(r.Context(), event)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, result)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	q := r.URL.Query()

	filter := models.LogFilter{
		Type:     models.ActivityType(q.Get("type")),
		OrderDir: strings.ToUpper(q.Get("order_dir")),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, invalidParam("limit"))
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, invalidParam("offset"))
			return
		}
		filter.Offset = n
	}

	log.Debug("listing activities: type=%s, limit=%d, offset=%d", filter.Type, filter.Limit, filter.Offset)
	entries, total, err := s.Progress.ActivityHistory(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.ActivityLog{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
	})
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var goal models.UserGoal
	if err := decodeJSON(r, &goal); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Progress.SetGoal(r.Context(), goal); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, s.Progress.GetProgress(r.Context()).Goal)
}

func (s *Server) handleClearGoal(w http.ResponseWriter, r *http.Request) {
	s.Progress.ClearGoal(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch models.PreferencesPatch
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	prefs, err := s.Progress.UpdatePreferences(r.Context(), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, prefs)
}

func (s *Server) handleAnswerWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word    string `json:"word"`
		Correct bool   `json:"correct"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	status, err := s.Progress.AnswerWord(r.Context(), req.Word, req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"word":   req.Word,
		"status": status,
	})
}

func (s *Server) handleListBadges(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.Progress.ListBadges(r.Context()))
}

func (s *Server) handleGetMission(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.Progress.CurrentMission(r.Context()))
}
