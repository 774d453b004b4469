package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebooto/rebooto_api/shared"
)

func validQuizBlock() ContentBlock {
	return ContentBlock{
		Type:          shared.BlockTypeQuiz,
		Question:      "What is the first step?",
		Options:       []string{"Reboot", "Panic"},
		CorrectAnswer: 0,
		Explanation:   "Rebooting clears most transient faults.",
		Difficulty:    shared.DifficultyEasy,
	}
}

func TestParseContentRoundTrip(t *testing.T) {
	blocks := []ContentBlock{
		{Type: shared.BlockTypeText, Content: "Welcome to the help desk."},
		validQuizBlock(),
	}
	raw, err := json.Marshal(blocks)
	require.NoError(t, err)

	parsed, err := ParseContent(raw)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.False(t, parsed[0].IsQuiz())
	assert.True(t, parsed[1].IsQuiz())
	assert.Equal(t, "Reboot", parsed[1].Options[0])
}

func TestParseContentRejectsEmptyPayload(t *testing.T) {
	_, err := ParseContent(nil)
	assert.Error(t, err)

	_, err = ParseContent(json.RawMessage(`[]`))
	assert.Error(t, err)
}

func TestParseContentRejectsMalformedJSON(t *testing.T) {
	_, err := ParseContent(json.RawMessage(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestValidateContentBlockRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContentBlock)
		wantErr string
	}{
		{
			name:    "unknown type",
			mutate:  func(b *ContentBlock) { b.Type = "video" },
			wantErr: "unknown block type",
		},
		{
			name: "text without content",
			mutate: func(b *ContentBlock) {
				*b = ContentBlock{Type: shared.BlockTypeText}
			},
			wantErr: "text block requires content",
		},
		{
			name: "scenario without content",
			mutate: func(b *ContentBlock) {
				*b = ContentBlock{Type: shared.BlockTypeScenario}
			},
			wantErr: "scenario block requires content",
		},
		{
			name:    "quiz without question",
			mutate:  func(b *ContentBlock) { b.Question = "" },
			wantErr: "requires a question",
		},
		{
			name:    "quiz with one option",
			mutate:  func(b *ContentBlock) { b.Options = []string{"only"} },
			wantErr: "2-5 options",
		},
		{
			name: "quiz with six options",
			mutate: func(b *ContentBlock) {
				b.Options = []string{"a", "b", "c", "d", "e", "f"}
			},
			wantErr: "2-5 options",
		},
		{
			name:    "correct answer out of range",
			mutate:  func(b *ContentBlock) { b.CorrectAnswer = 2 },
			wantErr: "out of range",
		},
		{
			name:    "negative correct answer",
			mutate:  func(b *ContentBlock) { b.CorrectAnswer = -1 },
			wantErr: "out of range",
		},
		{
			name:    "quiz without explanation",
			mutate:  func(b *ContentBlock) { b.Explanation = "" },
			wantErr: "requires an explanation",
		},
		{
			name:    "unknown difficulty",
			mutate:  func(b *ContentBlock) { b.Difficulty = "impossible" },
			wantErr: "unknown difficulty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := validQuizBlock()
			tt.mutate(&block)

			err := ValidateContent([]ContentBlock{block})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateContentAllowsEmptyDifficulty(t *testing.T) {
	block := validQuizBlock()
	block.Difficulty = ""
	assert.NoError(t, ValidateContent([]ContentBlock{block}))
}
