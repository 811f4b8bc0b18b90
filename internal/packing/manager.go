package packing

import "sync"

// Manager: сессии упаковки по пользователям. Операции каждой сессии
// выполняются последовательно под общим мьютексом — одновременной записи
// в сессию нет, как и в настольном оригинале.
type Manager struct {
	mu       sync.Mutex
	sessions map[uint]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uint]*Session)}
}

// WithSession выполняет fn над сессией пользователя, создавая её при
// первом обращении.
func (m *Manager) WithSession(userID uint, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = NewSession()
		m.sessions[userID] = s
	}
	return fn(s)
}
