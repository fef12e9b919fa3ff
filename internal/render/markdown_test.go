package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examhack/examhack/internal/model"
)

func TestStudyGuide(t *testing.T) {
	result := &model.AnalysisResult{
		TopQuestions: []model.TopQuestion{
			{Topic: "Process Models", Subtopic: "Agile", Text: "Explain the Scrum lifecycle.", Frequency: 5, Years: []string{"2022", "2023", "2024"}},
			{Topic: "Testing", Text: "Differentiate black box and white box testing.", Frequency: 3},
		},
		TopicWeightage: []model.TopicWeight{
			{Name: "Process Models", Count: 8, Percentage: 40},
			{Name: "Testing", Count: 6, Percentage: 30},
		},
	}

	md := StudyGuide("UCS503", result)

	assert.Contains(t, md, "## UCS503 Cheat Sheet")
	assert.Contains(t, md, "### 1. Explain the Scrum lifecycle.")
	assert.Contains(t, md, "**Process Models / Agile**")
	assert.Contains(t, md, "Appeared 5x | Years: 2022, 2023, 2024")
	assert.Contains(t, md, "Appeared 3x | Years: N/A")
	assert.Contains(t, md, "| 1 | Process Models | 8 | 40% ████░░░░░░ |")
	assert.Contains(t, md, "Smart Study Tips")

	rank1 := strings.Index(md, "### 1.")
	rank2 := strings.Index(md, "### 2.")
	assert.Less(t, rank1, rank2, "questions keep their ranked order")
}

func TestStudyGuide_EmptyResult(t *testing.T) {
	md := StudyGuide("UCS301", &model.AnalysisResult{})
	assert.Contains(t, md, "## UCS301 Cheat Sheet")
	assert.Contains(t, md, "Topic Weightage Analysis")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "ExamHack_UCS503_CheatSheet.md", Filename("UCS503"))
}

func TestBarClamps(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 10), bar(-5))
	assert.Equal(t, strings.Repeat("█", 10), bar(130))
}
