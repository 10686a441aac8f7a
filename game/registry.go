package game

import (
	"sync"

	"github.com/playword/wordbomb/transport"
	"github.com/playword/wordbomb/words"
)

// Registry is the process-wide collection of active sessions, indexed by
// host and by room so "is this room occupied" and "is this host already
// hosting" are O(1). It is the only structure mutated by more than one
// goroutine across games.
type Registry struct {
	index     *words.Index
	messenger transport.Messenger
	recorder  Recorder
	timing    Timing

	mu     sync.RWMutex
	byHost map[string]*Session
	byRoom map[string]*Session
}

func NewRegistry(index *words.Index, messenger transport.Messenger, recorder Recorder, timing Timing) *Registry {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Registry{
		index:     index,
		messenger: messenger,
		recorder:  recorder,
		timing:    timing,
		byHost:    make(map[string]*Session),
		byRoom:    make(map[string]*Session),
	}
}

// Create registers a new lobby session with the host as sole roster entry.
// One game per room, one hosted game per host.
func (r *Registry) Create(host, room string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, occupied := r.byRoom[room]; occupied {
		return nil, ErrRoomOccupied
	}
	if _, hosting := r.byHost[host]; hosting {
		return nil, ErrHostAlreadyHosting
	}

	sess := NewSession(host, room, r.index, r.messenger, r.recorder, r.timing, func(s *Session) {
		r.Release(s.HostIdentity)
	})
	r.byHost[host] = sess
	r.byRoom[room] = sess
	r.recorder.GameCreated()
	return sess, nil
}

// LookupByGameID scans active sessions for the given id.
func (r *Registry) LookupByGameID(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sess := range r.byHost {
		if sess.ID == id {
			return sess, true
		}
	}
	return nil, false
}

// LookupByRoom returns the session occupying the given room, if any.
func (r *Registry) LookupByRoom(room string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.byRoom[room]
	return sess, ok
}

// LookupByHost returns the session hosted by the given identity, if any.
func (r *Registry) LookupByHost(host string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.byHost[host]
	return sess, ok
}

// Release removes the host's session from both indexes. Idempotent when
// absent.
func (r *Registry) Release(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.byHost[host]
	if !ok {
		return
	}
	delete(r.byHost, host)
	delete(r.byRoom, sess.RoomIdentity)
	r.recorder.GameReleased()
}

// Sessions returns a snapshot of all active sessions.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.byHost))
	for _, sess := range r.byHost {
		out = append(out, sess)
	}
	return out
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byHost)
}
