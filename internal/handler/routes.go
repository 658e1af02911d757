package handler

import (
	"gemini-multitool/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Routes bundles what SetupRoutes mounts.
type Routes struct {
	Chat       *ChatHandler
	Quiz       *QuizHandler
	History    *HistoryHandler
	Session    *SessionHandler
	Health     *HealthHandler
	Sessions   *middleware.SessionMiddleware
	Validation *middleware.ValidationMiddleware
}

// SetupRoutes mounts the API. Read-only views share the session; actions
// that change it run one at a time per session.
func SetupRoutes(app *fiber.App, r Routes) {
	app.Get("/healthz", r.Health.Health)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	view := r.Sessions.Load()
	exclusive := r.Sessions.Exclusive()

	api.Get("/chat", view, r.Chat.GetMessages)
	api.Post("/chat", r.Validation.ValidateChatRequest(), exclusive, r.Chat.SendMessage)

	api.Get("/quiz", view, r.Quiz.GetQuiz)
	api.Post("/quiz", r.Validation.ValidateGenerateQuizRequest(), exclusive, r.Quiz.GenerateQuiz)
	api.Post("/quiz/submit", r.Validation.ValidateSubmitQuizRequest(), exclusive, r.Quiz.SubmitQuiz)
	api.Post("/quiz/retake", exclusive, r.Quiz.RetakeQuiz)

	api.Get("/history", view, r.History.GetHistory)
	api.Delete("/history", exclusive, r.History.ClearHistory)

	api.Delete("/session", exclusive, r.Session.EndSession)
}
