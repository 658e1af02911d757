package dto

// GenerateQuizRequest represents the topic entered in the quiz view
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Topic string `json:"topic" example:"The French Revolution"`
}

// SubmitQuizRequest carries the selected option per question index.
// Keys are decimal item indices; unanswered questions default to their first option.
// @Description Request body for submitting quiz answers
type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

// QuizItemResponse is one question as shown in the quiz view
type QuizItemResponse struct {
	Index    int      `json:"index"`
	Number   int      `json:"number"`
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
	Selected string   `json:"selected,omitempty"`
	Skipped  bool     `json:"skipped"`
	Notice   string   `json:"notice,omitempty" example:"Skipping malformed question 3"`
	Problems []string `json:"problems,omitempty"`
}

// QuizResultResponse is one line of the graded breakdown
type QuizResultResponse struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Summary       string `json:"summary" example:"Your answer: B (Correct!)"`
}

// QuizResponse represents the quiz view
// @Description Quiz state, questions and, once graded, the score and breakdown
type QuizResponse struct {
	Heading   string               `json:"heading,omitempty" example:"Quiz on: The French Revolution"`
	Topic     string               `json:"topic,omitempty"`
	State     string               `json:"state" example:"READY"`
	Items     []QuizItemResponse   `json:"items"`
	Score     *int                 `json:"score,omitempty"`
	Total     int                  `json:"total"`
	ScoreLine string               `json:"score_line,omitempty" example:"Your Score: 7 / 20"`
	Breakdown []QuizResultResponse `json:"breakdown,omitempty"`
	Busy      bool                 `json:"busy"`
}
