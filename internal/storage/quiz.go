package storage

import (
	"sync"

	"github.com/aliskhannn/guess-the-flag-bot/internal/service"
)

type quizEntry struct {
	engine    *service.QuizEngine
	messageID int
}

// QuizStorage provides in-memory storage of quiz engines by player key
// (a Telegram chat ID or an HTTP game ID).
type QuizStorage[K comparable] struct {
	mu      sync.RWMutex
	entries map[K]*quizEntry
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage[K comparable]() *QuizStorage[K] {
	return &QuizStorage[K]{
		entries: make(map[K]*quizEntry),
	}
}

// Store saves the engine for a key. A previously stored engine is closed.
func (s *QuizStorage[K]) Store(key K, engine *service.QuizEngine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok && old.engine != engine {
		old.engine.Close()
	}
	s.entries[key] = &quizEntry{engine: engine}
}

// Get retrieves the engine for a key.
func (s *QuizStorage[K]) Get(key K) (*service.QuizEngine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.engine, true
}

// Delete closes and removes the engine for a key. It reports whether one existed.
func (s *QuizStorage[K]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}

	e.engine.Close()
	delete(s.entries, key)
	return true
}

// SetMessageID remembers the message that shows the current question for a key.
func (s *QuizStorage[K]) SetMessageID(key K, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.messageID = messageID
	}
}

// GetMessageID returns the message that shows the current question for a key.
func (s *QuizStorage[K]) GetMessageID(key K) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.messageID == 0 {
		return 0, false
	}
	return e.messageID, true
}

// Len returns the number of stored engines.
func (s *QuizStorage[K]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// CloseAll closes every stored engine and empties the storage.
func (s *QuizStorage[K]) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		e.engine.Close()
		delete(s.entries, key)
	}
}
