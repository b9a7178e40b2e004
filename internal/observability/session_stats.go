// Package observability provides attempt statistics tracking for the tutor
// session summary.
package observability

import (
	"sort"
	"sync"
	"time"
)

// SessionStats tracks per-lesson attempt outcomes for one tutor session.
// Everything lives in memory and dies with the process.
type SessionStats struct {
	mu      sync.RWMutex
	lessons map[string]*LessonStats
}

// LessonStats holds the attempt history for one lesson.
type LessonStats struct {
	Lesson        string
	Attempts      int64
	Passes        int64
	Failures      int64
	EngineErrors  int64
	TotalDuration time.Duration
	LastAttempt   time.Time
}

// NewSessionStats creates a new session statistics tracker.
func NewSessionStats() *SessionStats {
	return &SessionStats{
		lessons: make(map[string]*LessonStats),
	}
}

// RecordAttempt records one validation attempt for a lesson.
// lesson: a "module:lesson" key. This method is O(1) and thread-safe.
func (s *SessionStats) RecordAttempt(lesson string, passed, engineError bool, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, exists := s.lessons[lesson]
	if !exists {
		stats = &LessonStats{Lesson: lesson}
		s.lessons[lesson] = stats
	}

	stats.Attempts++
	if passed {
		stats.Passes++
	} else {
		stats.Failures++
	}
	if engineError {
		stats.EngineErrors++
	}
	stats.TotalDuration += duration
	stats.LastAttempt = time.Now()
}

// Lesson returns a copy of the stats for one lesson, or nil if unseen.
func (s *SessionStats) Lesson(lesson string) *LessonStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.lessons[lesson]
	if !ok {
		return nil
	}
	cp := *stats
	return &cp
}

// Summary returns a copy of all lesson stats, hardest lessons first
// (most attempts, ties broken by lesson key for stable output).
func (s *SessionStats) Summary() []LessonStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LessonStats, 0, len(s.lessons))
	for _, stats := range s.lessons {
		out = append(out, *stats)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts > out[j].Attempts
		}
		return out[i].Lesson < out[j].Lesson
	})

	return out
}

// TotalAttempts returns the attempt count across all lessons.
func (s *SessionStats) TotalAttempts() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, stats := range s.lessons {
		total += stats.Attempts
	}
	return total
}
