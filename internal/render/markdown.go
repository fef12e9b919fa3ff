// Package render produces the downloadable study guide from an analysis
// result.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/examhack/examhack/internal/model"
)

type studyTip struct {
	title string
	text  string
}

var studyTips = []studyTip{
	{"Top 5 Questions Are Your Best Friends", "Focus on the top 5 questions, they have the highest probability of appearing in your exam."},
	{"High Weightage Topics First", "Prioritize topics with higher weightage for maximum marks in minimum time."},
	{"Repeat Questions = Easy Marks", "Questions appearing in multiple years are strong indicators of important concepts."},
	{"Frequency 4+ = Must Do", "Questions with frequency 4 or higher should be your top priority."},
	{"Last Minute Strategy", "If time is limited, focus on the first three questions and you'll be good to go."},
}

// Filename returns the attachment name for a course's study guide.
func Filename(courseCode string) string {
	return fmt.Sprintf("ExamHack_%s_CheatSheet.md", courseCode)
}

// StudyGuide renders an analysis result as a markdown document with the
// ranked questions, a topic weightage table and fixed study tips.
func StudyGuide(courseCode string, result *model.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# ExamHack\n\n")
	fmt.Fprintf(&b, "## %s Cheat Sheet\n\n", courseCode)
	fmt.Fprintf(&b, "AI-Generated Study Guide | %s\n\n", time.Now().Format("January 2, 2006"))
	b.WriteString("---\n\n")

	b.WriteString("## Top Most Repeated Questions\n\n")
	for i, q := range result.TopQuestions {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, q.Text)
		if q.Topic != "" || q.Subtopic != "" {
			b.WriteString("**")
			b.WriteString(q.Topic)
			if q.Subtopic != "" {
				if q.Topic != "" {
					b.WriteString(" / ")
				}
				b.WriteString(q.Subtopic)
			}
			b.WriteString("**\n\n")
		}
		fmt.Fprintf(&b, "Appeared %dx | Years: %s\n\n", q.Frequency, yearsLine(q.Years))
	}

	b.WriteString("## Topic Weightage Analysis\n\n")
	b.WriteString("| # | Topic | Questions | Weightage |\n")
	b.WriteString("|---|-------|-----------|-----------|\n")
	for i, tw := range result.TopicWeightage {
		fmt.Fprintf(&b, "| %d | %s | %d | %.0f%% %s |\n", i+1, tw.Name, tw.Count, tw.Percentage, bar(tw.Percentage))
	}
	b.WriteString("\n")

	b.WriteString("## Smart Study Tips\n\n")
	for _, tip := range studyTips {
		fmt.Fprintf(&b, "- **%s**: %s\n", tip.title, tip.text)
	}
	b.WriteString("\n---\n\n")
	b.WriteString("Generated by ExamHack, your AI-powered exam prep assistant.\n")
	b.WriteString("This cheat sheet is based on AI analysis of past exam papers.\n")

	return b.String()
}

func yearsLine(years []string) string {
	if len(years) == 0 {
		return "N/A"
	}
	return strings.Join(years, ", ")
}

// bar draws a ten-step block gauge for a percentage.
func bar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct) / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
