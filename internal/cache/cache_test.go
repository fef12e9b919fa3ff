package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examhack/examhack/internal/model"
)

func testResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		TopQuestions: []model.TopQuestion{
			{Topic: "Stacks", Subtopic: "Infix to Postfix", Text: "Convert infix to postfix", Frequency: 5, Years: []string{"2024", "2023"}},
		},
		TopicWeightage: []model.TopicWeight{
			{Name: "Stacks", Count: 10, Percentage: 20},
		},
	}
}

func TestKey_DeterministicAndCaseInsensitive(t *testing.T) {
	assert.Equal(t, Key("ucs503"), Key("UCS503"))
	assert.Equal(t, Key("UCS503"), Key("UCS503"))
	// md5("UCS503")
	assert.Equal(t, "8bd42dfeebf1b05f00cfb0c68fdda7f9", Key("UCS503"))
	assert.NotEqual(t, Key("UCS503"), Key("UCS504"))
}

func TestStore_RoundTrip(t *testing.T) {
	s, err := New(t.TempDir(), 7*24*time.Hour)
	require.NoError(t, err)

	want := testResult()
	s.Put("ucs503", want)

	got, ok := s.Get("UCS503")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStore_MissOnAbsent(t *testing.T) {
	s, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, ok := s.Get("UCS503")
	assert.False(t, ok)
}

func TestStore_MissOnCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, time.Hour)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, Key("UCS503")+".json"), []byte("{not json"), 0o644))

	_, ok := s.Get("UCS503")
	assert.False(t, ok)
}

func TestStore_ExpiredEntryDeletedOnRead(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 7*24*time.Hour)
	require.NoError(t, err)

	s.Put("UCS503", testResult())

	// Advance the clock past the TTL.
	s.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	_, ok := s.Get("UCS503")
	assert.False(t, ok)

	_, statErr := os.Stat(filepath.Join(dir, Key("UCS503")+".json"))
	assert.True(t, os.IsNotExist(statErr), "expired entry should be removed as a side effect")
}

func TestStore_PutOverwrites(t *testing.T) {
	s, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	first := testResult()
	s.Put("UCS503", first)

	second := testResult()
	second.TopQuestions[0].Frequency = 9
	s.Put("UCS503", second)

	got, ok := s.Get("UCS503")
	require.True(t, ok)
	assert.Equal(t, 9, got.TopQuestions[0].Frequency)
}

func TestStore_EntryRecordsUppercasedCode(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, time.Hour)
	require.NoError(t, err)

	s.Put("ucs503", testResult())

	data, err := os.ReadFile(filepath.Join(dir, Key("ucs503")+".json"))
	require.NoError(t, err)

	var entry Entry
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "UCS503", entry.CourseCode)
	assert.WithinDuration(t, time.Now(), entry.CreatedAt, time.Minute)
}

func TestStore_SweepExpired(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 7*24*time.Hour)
	require.NoError(t, err)

	s.Put("UCS503", testResult())
	s.Put("UCS504", testResult())

	// Age one file's mtime past the TTL.
	old := time.Now().Add(-8 * 24 * time.Hour)
	stale := filepath.Join(dir, Key("UCS503")+".json")
	require.NoError(t, os.Chtimes(stale, old, old))

	s.SweepExpired()

	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr))

	_, ok := s.Get("UCS504")
	assert.True(t, ok, "fresh entry survives the sweep")
}
