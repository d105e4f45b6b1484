package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
)

type chatSession struct {
	// mu serialises message exchanges within one session.
	mu       sync.Mutex
	id       string
	greeting dto.ChatMessage
	messages []dto.ChatMessage
	created  time.Time
	lastUsed time.Time
}

func (s *chatSession) view() *dto.ChatSession {
	return &dto.ChatSession{
		ID:        s.id,
		Greeting:  s.greeting,
		Messages:  append([]dto.ChatMessage{}, s.messages...),
		CreatedAt: s.created,
	}
}

// appendExchange records a user turn and its reply, dropping the oldest
// exchanges once maxTurns messages are exceeded.
func (s *chatSession) appendExchange(user, reply dto.ChatMessage, maxTurns int) {
	s.messages = append(s.messages, user, reply)
	for maxTurns > 0 && len(s.messages) > maxTurns {
		s.messages = s.messages[2:]
	}
}

// chatStore holds advisor conversations in memory, evicting the least recently used beyond maxSessions.
type chatStore struct {
	mu          sync.Mutex
	sessions    map[string]*chatSession
	maxSessions int
	maxTurns    int
	now         func() time.Time
}

func newChatStore(maxSessions, maxTurns int) *chatStore {
	if maxSessions <= 0 {
		maxSessions = 100
	}
	if maxTurns <= 0 {
		maxTurns = 40
	}
	if maxTurns%2 != 0 {
		maxTurns++
	}
	return &chatStore{
		sessions:    make(map[string]*chatSession),
		maxSessions: maxSessions,
		maxTurns:    maxTurns,
		now:         time.Now,
	}
}

func (s *chatStore) create(greeting string) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	for len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}
	sess := &chatSession{
		id:       uuid.NewString(),
		greeting: dto.ChatMessage{Role: chatRoleModel, Text: greeting, SentAt: now},
		messages: []dto.ChatMessage{},
		created:  now,
		lastUsed: now,
	}
	s.sessions[sess.id] = sess
	return sess
}

func (s *chatStore) get(id string) (*chatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastUsed = s.now().UTC()
	}
	return sess, ok
}

func (s *chatStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *chatStore) evictOldestLocked() {
	var oldest *chatSession
	for _, sess := range s.sessions {
		if oldest == nil || sess.lastUsed.Before(oldest.lastUsed) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.id)
	}
}
