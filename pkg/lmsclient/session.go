package lmsclient

import "sync"

// Session 客户端唯一的登录态来源，可在多个 goroutine 间共享
type Session struct {
	mu           sync.RWMutex
	token        string
	userID       uint
	role         string
	onInvalidate func()
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Set(token string, userID uint, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userID = userID
	s.role = role
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) UserID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) IsTeacher() bool {
	return s.Role() == RoleTeacher
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = 0
	s.role = ""
}

// OnInvalidate 服务端拒绝当前令牌（401/403）后回调，通常用于跳转登录
func (s *Session) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidate = fn
}

// invalidate 仅当被拒绝的仍是当前令牌时才清空，避免覆盖并发登录的新令牌
func (s *Session) invalidate(token string) {
	s.mu.Lock()
	if token == "" || s.token != token {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.userID = 0
	s.role = ""
	hook := s.onInvalidate
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}
