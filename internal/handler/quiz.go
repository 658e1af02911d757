package handler

import (
	"gemini-multitool/internal/middleware"
	"gemini-multitool/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GetQuiz godoc
// @Summary Get the quiz view
// @Description Returns the quiz state, its questions and, once graded, the score and breakdown
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	return c.JSON(toQuizResponse(sess.Quiz, middleware.SessionBusy(c)))
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Asks the model for a new multiple-choice quiz on the topic, replacing any current quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Topic"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	topic, _ := c.Locals(middleware.ValidatedTopicKey).(string)

	if err := h.service.Generate(c.UserContext(), sess, topic); err != nil {
		return err
	}
	return c.JSON(toQuizResponse(sess.Quiz, false))
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Grades the quiz. Questions without a selection are answered with their first option.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.SubmitQuizRequest false "Selected option per question index"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	answers, _ := c.Locals(middleware.ValidatedAnswersKey).(map[int]string)

	if err := h.service.Submit(sess, answers); err != nil {
		return err
	}
	return c.JSON(toQuizResponse(sess.Quiz, false))
}

// RetakeQuiz godoc
// @Summary Start over
// @Description Clears the quiz so a new topic can be entered
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuizResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/retake [post]
func (h *QuizHandler) RetakeQuiz(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	h.service.Retake(sess)
	return c.JSON(toQuizResponse(sess.Quiz, false))
}
