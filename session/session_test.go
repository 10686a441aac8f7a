package session

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playword/wordbomb/network"
)

type mockConnection struct {
	mu       sync.Mutex
	sent     []uint16
	closed   bool
	sendFail error
}

func (c *mockConnection) Send(msgID uint16, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendFail != nil {
		return c.sendFail
	}
	c.sent = append(c.sent, msgID)
	return nil
}

func (c *mockConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *mockConnection) RemoteAddr() net.Addr                 { return nil }
func (c *mockConnection) SetHeartbeat(interval time.Duration)  {}
func (c *mockConnection) ReadPacket() (*network.Packet, error) { return nil, errors.New("closed") }

func TestSession_Send(t *testing.T) {
	conn := &mockConnection{}
	sess := NewSession("s1", "alice", "room-1", conn)
	before := sess.LastActive

	time.Sleep(time.Millisecond)
	require.NoError(t, sess.Send(301, []byte(`{}`)))

	assert.Equal(t, []uint16{301}, conn.sent)
	assert.True(t, sess.LastActive.After(before), "sending refreshes activity")
}

func TestSession_SendError(t *testing.T) {
	conn := &mockConnection{sendFail: errors.New("broken pipe")}
	sess := NewSession("s1", "alice", "room-1", conn)
	assert.Error(t, sess.Send(301, nil))
}

func TestSession_Close(t *testing.T) {
	conn := &mockConnection{}
	sess := NewSession("s1", "alice", "room-1", conn)
	require.NoError(t, sess.Close())
	assert.True(t, conn.closed)
}

func TestManager_AddAndGet(t *testing.T) {
	m := NewManager()
	sess := NewSession("s1", "alice", "room-1", &mockConnection{})
	m.Add(sess)

	got, ok := m.Get("s1")
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, m.Count())

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestManager_Remove(t *testing.T) {
	m := NewManager()
	m.Add(NewSession("s1", "alice", "room-1", &mockConnection{}))
	m.Remove("s1")

	_, ok := m.Get("s1")
	assert.False(t, ok)
	assert.Empty(t, m.GetByRoom("room-1"), "room index is cleaned up")
	assert.Equal(t, 0, m.Count())

	// Removing an unknown session is a no-op.
	m.Remove("s1")
}

func TestManager_GetByRoom(t *testing.T) {
	m := NewManager()
	m.Add(NewSession("s1", "alice", "room-1", &mockConnection{}))
	m.Add(NewSession("s2", "bob", "room-1", &mockConnection{}))
	m.Add(NewSession("s3", "carol", "room-2", &mockConnection{}))

	assert.Len(t, m.GetByRoom("room-1"), 2)
	assert.Len(t, m.GetByRoom("room-2"), 1)
	assert.Empty(t, m.GetByRoom("room-3"))
}

func TestManager_GetByUserID(t *testing.T) {
	m := NewManager()
	m.Add(NewSession("s1", "alice", "room-1", &mockConnection{}))
	m.Add(NewSession("s2", "alice", "room-2", &mockConnection{}))
	m.Add(NewSession("s3", "bob", "room-1", &mockConnection{}))

	assert.Len(t, m.GetByUserID("alice"), 2, "one user can hold several connections")
	assert.Len(t, m.GetByUserID("bob"), 1)
	assert.Empty(t, m.GetByUserID("carol"))
}
