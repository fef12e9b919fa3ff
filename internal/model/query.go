package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ExamCategory classifies a past paper by the exam it was set for.
type ExamCategory string

const (
	CategoryAll       ExamCategory = "ALL"
	CategoryEST       ExamCategory = "EST"
	CategoryMST       ExamCategory = "MST"
	CategoryAUX       ExamCategory = "AUX"
	CategorySummerMST ExamCategory = "SUMMER_MST"
	CategorySummerEST ExamCategory = "SUMMER_EST"
)

// portalLabels maps categories to the labels the library portal renders in
// its results table. ALL is handled separately (matches every row).
var portalLabels = map[ExamCategory]string{
	CategoryEST:       "EST",
	CategoryMST:       "MST",
	CategoryAUX:       "AUX",
	CategorySummerMST: "Summer(MST)",
	CategorySummerEST: "Summer(EST)",
}

// ParseCategory validates and normalizes an exam category string.
// An empty string defaults to ALL.
func ParseCategory(s string) (ExamCategory, error) {
	if s == "" {
		return CategoryAll, nil
	}
	c := ExamCategory(strings.ToUpper(strings.TrimSpace(s)))
	if c == CategoryAll {
		return c, nil
	}
	if _, ok := portalLabels[c]; !ok {
		return "", eris.Errorf("model: unknown exam category %q", s)
	}
	return c, nil
}

// Matches reports whether a results-table category label satisfies this
// category filter.
func (c ExamCategory) Matches(label string) bool {
	if c == CategoryAll {
		return true
	}
	return portalLabels[c] == strings.TrimSpace(label)
}

// CourseQuery is the normalized (code, category) pair driving one pipeline
// run. Immutable once formed.
type CourseQuery struct {
	Code     string
	Category ExamCategory
}

// NewCourseQuery normalizes the course code to uppercase and validates the
// category. An empty course code is a ValidationError.
func NewCourseQuery(code, category string) (CourseQuery, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return CourseQuery{}, &ValidationError{Field: "courseCode"}
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return CourseQuery{}, &ValidationError{Field: "examType", Reason: err.Error()}
	}
	return CourseQuery{Code: code, Category: cat}, nil
}
