// Package broadcast implements the transport.Messenger capability on top
// of the websocket client sessions: every message sent to a room is fanned
// out to all clients connected to it, and edits, deletions, and reactions
// are re-broadcast referencing the original message ID.
package broadcast

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/playword/wordbomb/network"
	"github.com/playword/wordbomb/session"
	"github.com/playword/wordbomb/transport"
)

var ErrUnknownMessage = errors.New("broadcast: unknown message handle")

// WireMessage is the JSON payload for all display traffic (send, edit,
// delete, react). Clients key their local state on ID.
type WireMessage struct {
	ID       string              `json:"id"`
	Room     string              `json:"room,omitempty"`
	Author   string              `json:"author,omitempty"`
	Content  string              `json:"content,omitempty"`
	Embed    *transport.Embed    `json:"embed,omitempty"`
	Controls *transport.Controls `json:"controls,omitempty"`
	Symbol   string              `json:"symbol,omitempty"`
}

// RoomMessenger fans room messages out to connected clients and remembers
// which room each handle was sent to so later edits can be routed.
type RoomMessenger struct {
	sessions *session.Manager

	mu    sync.RWMutex
	rooms map[transport.Handle]string
}

func NewRoomMessenger(sessions *session.Manager) *RoomMessenger {
	return &RoomMessenger{
		sessions: sessions,
		rooms:    make(map[transport.Handle]string),
	}
}

func (b *RoomMessenger) SendMessage(room, content string, embed *transport.Embed, controls *transport.Controls) (transport.Handle, error) {
	h := transport.Handle(uuid.New().String())
	b.mu.Lock()
	b.rooms[h] = room
	b.mu.Unlock()

	err := b.toRoom(room, network.MsgTypeMessage, WireMessage{
		ID:       string(h),
		Room:     room,
		Content:  content,
		Embed:    embed,
		Controls: controls,
	})
	return h, err
}

func (b *RoomMessenger) EditMessage(h transport.Handle, content string, embed *transport.Embed) error {
	room, ok := b.room(h)
	if !ok {
		return ErrUnknownMessage
	}
	return b.toRoom(room, network.MsgTypeEdit, WireMessage{
		ID:      string(h),
		Content: content,
		Embed:   embed,
	})
}

func (b *RoomMessenger) DeleteMessage(h transport.Handle) error {
	room, ok := b.room(h)
	if !ok {
		return ErrUnknownMessage
	}
	b.mu.Lock()
	delete(b.rooms, h)
	b.mu.Unlock()
	return b.toRoom(room, network.MsgTypeDelete, WireMessage{ID: string(h)})
}

func (b *RoomMessenger) ReactToMessage(h transport.Handle, symbol string) error {
	room, ok := b.room(h)
	if !ok {
		return ErrUnknownMessage
	}
	return b.toRoom(room, network.MsgTypeReaction, WireMessage{ID: string(h), Symbol: symbol})
}

// RelayChat broadcasts a user's chat line to the room and returns a handle
// for it, so the game can react to the submission message.
func (b *RoomMessenger) RelayChat(room, author, text string) (transport.Handle, error) {
	h := transport.Handle(uuid.New().String())
	b.mu.Lock()
	b.rooms[h] = room
	b.mu.Unlock()

	err := b.toRoom(room, network.MsgTypeChat, WireMessage{
		ID:      string(h),
		Room:    room,
		Author:  author,
		Content: text,
	})
	return h, err
}

func (b *RoomMessenger) room(h transport.Handle) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	room, ok := b.rooms[h]
	return room, ok
}

func (b *RoomMessenger) toRoom(room string, msgID uint16, msg WireMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	for _, sess := range b.sessions.GetByRoom(room) {
		if err := sess.Send(msgID, data); err != nil {
			// A dead client is reaped by its own read loop; keep fanning
			// out to the rest.
			continue
		}
	}
	return nil
}
