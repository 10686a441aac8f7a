// Package session tracks websocket client sessions. These are transport
// connections, not game instances: a client session exists from connect to
// disconnect regardless of whether its user is playing.
package session

import (
	"sync"
	"time"

	"github.com/playword/wordbomb/network"
)

type Session struct {
	ID         string
	Conn       network.Connection
	UserID     string
	RoomID     string
	CreatedAt  time.Time
	LastActive time.Time
}

func NewSession(id, userID, roomID string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		UserID:     userID,
		RoomID:     roomID,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(msgID, data)
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager indexes live client sessions by session ID and by room so the
// broadcaster can fan a room message out without scanning every client.
type Manager struct {
	sessions map[string]*Session
	byRoom   map[string]map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		byRoom:   make(map[string]map[string]*Session),
	}
}

func (m *Manager) Add(sess *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[sess.ID] = sess
	if m.byRoom[sess.RoomID] == nil {
		m.byRoom[sess.RoomID] = make(map[string]*Session)
	}
	m.byRoom[sess.RoomID][sess.ID] = sess
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return
	}
	delete(m.sessions, sessionID)
	if room := m.byRoom[sess.RoomID]; room != nil {
		delete(room, sessionID)
		if len(room) == 0 {
			delete(m.byRoom, sess.RoomID)
		}
	}
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	sess, exists := m.sessions[sessionID]
	return sess, exists
}

// GetByRoom returns all sessions currently connected to a room.
func (m *Manager) GetByRoom(roomID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room := m.byRoom[roomID]
	result := make([]*Session, 0, len(room))
	for _, sess := range room {
		result = append(result, sess)
	}
	return result
}

// GetByUserID returns sessions belonging to a user. A user can be
// connected from more than one client at once.
func (m *Manager) GetByUserID(userID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, sess := range m.sessions {
		if sess.UserID == userID {
			result = append(result, sess)
		}
	}
	return result
}

// Count returns the number of connected clients.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
