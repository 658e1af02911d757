package sanitizer

import (
	"testing"

	"gemini-multitool/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_FencedResponse(t *testing.T) {
	raw := "Here you go:\n```json\n[{\"question\":\"Q\",\"options\":[\"A\",\"B\"],\"correct_answer\":\"A\"}]\n```"

	items, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Q", items[0].Question)
	assert.Equal(t, []string{"A", "B"}, items[0].Options)
	assert.Equal(t, "A", items[0].CorrectAnswer)
	assert.True(t, items[0].Renderable())
	assert.True(t, items[0].HasCorrectAnswer())
	assert.False(t, items[0].Malformed())
}

func TestExtract_ArrayBetweenProse(t *testing.T) {
	raw := `Sure! I made a quiz.
[
  {"question": "2+2?", "options": ["3", "4", "5", "6"], "correct_answer": "4"},
  {"question": "Capital of France?", "options": ["Paris", "Rome", "Berlin", "Madrid"], "correct_answer": "Paris"}
]
Let me know if you want more.`

	items, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2+2?", items[0].Question)
	assert.Equal(t, []string{"3", "4", "5", "6"}, items[0].Options)
	assert.Equal(t, "4", items[0].CorrectAnswer)
	assert.Equal(t, "Capital of France?", items[1].Question)
	assert.Equal(t, "Paris", items[1].CorrectAnswer)
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no brackets", raw: "I cannot produce a quiz on that topic."},
		{name: "only opening bracket", raw: "[ {\"question\": \"Q\"}"},
		{name: "only closing bracket", raw: "question ]"},
		{name: "closing before opening", raw: "] nothing here ["},
		{name: "invalid JSON between brackets", raw: "[ this is not json ]"},
		{name: "empty input", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Extract(tt.raw)
			assert.Nil(t, items)
			require.Error(t, err)
			assert.True(t, domain.HasCode(err, domain.CodeMalformedResponse))

			var domainErr *domain.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.raw, domainErr.Raw())
			if tt.raw != "" {
				assert.NotContains(t, domainErr.Message, tt.raw)
			}
		})
	}
}

func TestExtract_EmptyArray(t *testing.T) {
	items, err := Extract("[]")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtract_PartialMalformation(t *testing.T) {
	raw := `[
  {"question": "Good", "options": ["A", "B", "C", "D"], "correct_answer": "B"},
  {"options": ["A", "B"], "correct_answer": "A"},
  {"question": "Options not a list", "options": "A, B", "correct_answer": "A"},
  {"question": "No answer", "options": ["X", "Y"]},
  42
]`

	items, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, items, 5)

	assert.True(t, items[0].Renderable())
	assert.False(t, items[0].Malformed())

	assert.False(t, items[1].HasQuestion)
	assert.False(t, items[1].Renderable())
	assert.True(t, items[1].Malformed())

	assert.True(t, items[2].HasQuestion)
	assert.False(t, items[2].HasOptions)
	assert.Nil(t, items[2].Options)
	assert.False(t, items[2].Renderable())
	assert.True(t, items[2].Malformed())

	assert.True(t, items[3].Renderable())
	assert.False(t, items[3].HasCorrectAnswer())
	assert.True(t, items[3].Malformed())

	assert.False(t, items[4].Renderable())
	assert.True(t, items[4].Malformed())
	assert.JSONEq(t, "42", string(items[4].Raw))
}

func TestExtract_VariableOptionCountIsAccepted(t *testing.T) {
	raw := `[{"question": "Pick", "options": ["only", "two"], "correct_answer": "neither"}]`

	items, err := Extract(raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Renderable())
	assert.False(t, items[0].Malformed())
	assert.False(t, items[0].HasOption(items[0].CorrectAnswer))
}

func TestExtract_NullFieldsArePresentButFlagged(t *testing.T) {
	items, err := Extract(`[{"question": null, "options": ["A", "B"], "correct_answer": "A"}]`)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.True(t, item.HasQuestion)
	assert.Empty(t, item.Question)
	assert.True(t, item.Renderable())
	assert.True(t, item.Malformed())
}
