package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryAll, c)

	c, err = ParseCategory("mst")
	require.NoError(t, err)
	assert.Equal(t, CategoryMST, c)

	c, err = ParseCategory(" summer_est ")
	require.NoError(t, err)
	assert.Equal(t, CategorySummerEST, c)

	_, err = ParseCategory("FINALS")
	assert.Error(t, err)
}

func TestCategoryMatches(t *testing.T) {
	assert.True(t, CategoryAll.Matches("EST"))
	assert.True(t, CategoryAll.Matches("anything"))
	assert.True(t, CategoryMST.Matches("MST"))
	assert.True(t, CategoryMST.Matches(" MST "))
	assert.False(t, CategoryMST.Matches("EST"))
	assert.True(t, CategorySummerMST.Matches("Summer(MST)"))
	assert.False(t, CategorySummerMST.Matches("Summer(EST)"))
}

func TestNewCourseQuery(t *testing.T) {
	q, err := NewCourseQuery(" ucs503 ", "mst")
	require.NoError(t, err)
	assert.Equal(t, "UCS503", q.Code)
	assert.Equal(t, CategoryMST, q.Category)
}

func TestNewCourseQuery_MissingCode(t *testing.T) {
	_, err := NewCourseQuery("  ", "ALL")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "courseCode", verr.Field)
}

func TestNewCourseQuery_BadCategory(t *testing.T) {
	_, err := NewCourseQuery("UCS503", "FINALS")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "examType", verr.Field)
}

func TestResultTruncate(t *testing.T) {
	r := AnalysisResult{}
	for i := 0; i < 13; i++ {
		r.TopQuestions = append(r.TopQuestions, TopQuestion{Frequency: i})
	}
	r.Truncate()
	require.Len(t, r.TopQuestions, MaxTopQuestions)
	assert.Equal(t, 0, r.TopQuestions[0].Frequency, "order preserved")
	assert.Equal(t, 9, r.TopQuestions[9].Frequency)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "accepted", VerdictAccepted.String())
	assert.Equal(t, "suspect", VerdictSuspect.String())
	assert.Equal(t, "rejected", VerdictRejected.String())
}
