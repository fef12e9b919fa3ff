// Package cache persists analysis results as one JSON file per course code,
// keyed by a hash of the normalized code, with a fixed expiry window.
package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/examhack/examhack/internal/model"
)

// Entry is the on-disk record wrapping a cached result.
type Entry struct {
	CourseCode string                `json:"courseCode"`
	CreatedAt  time.Time             `json:"createdAt"`
	Result     *model.AnalysisResult `json:"result"`
}

// Store maps course codes to cached analysis results. Single writer per key,
// last writer wins; concurrent overwrites are accepted rather than serialized.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New creates a Store rooted at dir, creating it if needed. TTL bounds the
// validity of entries; expired entries are removed lazily on read or by
// SweepExpired.
func New(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "cache: create dir %s", dir)
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Key returns the hex md5 of the uppercased course code. Deterministic and
// case-insensitive, so "ucs503" and "UCS503" share one entry.
func Key(courseCode string) string {
	sum := md5.Sum([]byte(strings.ToUpper(courseCode)))
	return fmt.Sprintf("%x", sum)
}

func (s *Store) path(courseCode string) string {
	return filepath.Join(s.dir, Key(courseCode)+".json")
}

// Get returns the cached result for a course code, or (nil, false) on a miss.
// Missing, unreadable, or unparsable files are treated as misses. An entry
// older than the TTL is deleted and reported as a miss.
func (s *Store) Get(courseCode string) (*model.AnalysisResult, bool) {
	file := s.path(courseCode)

	data, err := os.ReadFile(file)
	if err != nil {
		zap.L().Debug("cache miss", zap.String("course", courseCode))
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		zap.L().Warn("cache entry unparsable, treating as miss",
			zap.String("course", courseCode),
			zap.Error(err),
		)
		return nil, false
	}

	age := s.now().Sub(entry.CreatedAt)
	if age > s.ttl {
		zap.L().Info("cache entry expired",
			zap.String("course", courseCode),
			zap.Duration("age", age),
		)
		_ = os.Remove(file)
		return nil, false
	}

	zap.L().Info("cache hit",
		zap.String("course", courseCode),
		zap.Duration("age", age),
	)
	return entry.Result, true
}

// Put stores a result under the course code, unconditionally overwriting any
// existing entry. Write failures are logged, never raised; the caller
// proceeds as if uncached.
func (s *Store) Put(courseCode string, result *model.AnalysisResult) {
	entry := Entry{
		CourseCode: strings.ToUpper(courseCode),
		CreatedAt:  s.now(),
		Result:     result,
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		zap.L().Error("cache marshal failed", zap.String("course", courseCode), zap.Error(err))
		return
	}

	if err := os.WriteFile(s.path(courseCode), data, 0o644); err != nil {
		zap.L().Error("cache write failed", zap.String("course", courseCode), zap.Error(err))
		return
	}

	zap.L().Info("cached analysis", zap.String("course", courseCode))
}

// SweepExpired deletes every entry whose file-modification age exceeds the
// TTL. Invoked once at process start.
func (s *Store) SweepExpired() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		zap.L().Error("cache sweep failed", zap.Error(err))
		return
	}

	cleared := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if s.now().Sub(info.ModTime()) > s.ttl {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
				cleared++
			}
		}
	}

	if cleared > 0 {
		zap.L().Info("cleared expired cache entries", zap.Int("count", cleared))
	}
}
