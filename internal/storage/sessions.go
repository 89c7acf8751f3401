package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/quitflow-bot/internal/scheduler"
)

// SessionKind tells what a live message is showing.
type SessionKind string

const (
	SessionCountdown SessionKind = "countdown"
	SessionBreathing SessionKind = "breathing"
)

// LiveMessage identifies a message that is being edited on every tick.
type LiveMessage struct {
	Kind      SessionKind
	ChatID    int64
	MessageID int
}

type liveSession struct {
	msg  LiveMessage
	task *scheduler.Periodic
}

// LiveSessions keeps at most one running periodic task per chat.
type LiveSessions struct {
	mu       sync.Mutex
	sessions map[int64]liveSession
}

func NewLiveSessions() *LiveSessions {
	return &LiveSessions{
		sessions: make(map[int64]liveSession),
	}
}

// Start stops the chat's previous task, if any, and runs task in its place.
// It returns the message the previous task was editing.
func (s *LiveSessions) Start(ctx context.Context, msg LiveMessage, task *scheduler.Periodic) (prev LiveMessage, hadPrev bool) {
	s.mu.Lock()
	old, hadPrev := s.sessions[msg.ChatID]
	s.sessions[msg.ChatID] = liveSession{msg: msg, task: task}
	s.mu.Unlock()

	if hadPrev {
		old.task.Stop()
	}

	task.Start(ctx)

	go func() {
		<-task.Done()
		s.remove(msg.ChatID, task)
	}()

	return old.msg, hadPrev
}

// Stop cancels the chat's running task.
func (s *LiveSessions) Stop(chatID int64) (LiveMessage, bool) {
	s.mu.Lock()
	cur, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	s.mu.Unlock()

	if ok {
		cur.task.Stop()
	}
	return cur.msg, ok
}

// Get returns the message the chat's running task is editing.
func (s *LiveSessions) Get(chatID int64) (LiveMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.sessions[chatID]
	return cur.msg, ok
}

// Len returns the number of running tasks.
func (s *LiveSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StopAll cancels every running task.
func (s *LiveSessions) StopAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[int64]liveSession)
	s.mu.Unlock()

	for _, cur := range sessions {
		cur.task.Stop()
	}
}

// remove drops the entry only if it still belongs to task.
func (s *LiveSessions) remove(chatID int64, task *scheduler.Periodic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[chatID]; ok && cur.task == task {
		delete(s.sessions, chatID)
	}
}
