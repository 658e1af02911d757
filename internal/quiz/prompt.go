package quiz

import "fmt"

// QuestionCount is how many questions every generated quiz asks for.
const QuestionCount = 20

const generationPrompt = `
Generate a %d-question multiple-choice quiz on the topic: '%s'.
You MUST return the quiz as a valid JSON array of objects.
Each object must have "question", "options" (an array of 4 strings), and "correct_answer".
You must follow this exact schema:
[
    {
        "question": "The question text",
        "options": ["Option A", "Option B", "Option C", "Option D"],
        "correct_answer": "The text of the correct option"
    }
]
Do not include any text, notes, or markdown backticks outside of the main JSON array.
The "options" array MUST contain exactly 4 string items.
The "correct_answer" MUST be exactly the text of one of the options.
`

// BuildPrompt returns the generation instruction for topic.
func BuildPrompt(topic string) string {
	return fmt.Sprintf(generationPrompt, QuestionCount, topic)
}

// Heading is the title shown above an active quiz.
func Heading(topic string) string {
	if topic == "" {
		topic = "your topic"
	}
	return fmt.Sprintf("Quiz on: %s", topic)
}
