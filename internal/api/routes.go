package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/progress", s.handleGetProgress)

		r.Post("/activities", s.handleRecordActivity)
		r.Get("/activities", s.handleListActivities)

		r.Put("/goal", s.handleSetGoal)
		r.Delete("/goal", s.handleClearGoal)

		r.Patch("/preferences", s.handleUpdatePreferences)

		r.Post("/words/answer", s.handleAnswerWord)
		r.Get("/badges", s.handleListBadges)
		r.Get("/mission", s.handleGetMission)

		r.Route("/reading", func(r chi.Router) {
			r.Post("/quiz", s.handleReadingQuiz)
			r.Post("/evaluate", s.handleEvaluateAnswer)
			r.Post("/history", s.handleSaveReadingSession)
		})

		r.Post("/writing/feedback", s.handleWritingFeedback)
		r.Post("/plan", s.handleLearningPlan)
	})

	return r
}
