// Package transport defines the messaging capability the game core holds.
// The interface lives here, on the consumer side, so the core never depends
// on a concrete chat backend.
package transport

// Handle identifies a sent message so it can later be edited or deleted.
type Handle string

// Field is one name/value pair inside an embed.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Embed is the structured part of a display message. The core fills it with
// game state; how it is rendered is the adapter's business.
type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

// Controls describes the interactive elements attached to a message. Each
// non-empty field asks the adapter to render a control tagged with the
// given game ID.
type Controls struct {
	JoinGameID  string `json:"join_game_id,omitempty"`
	StartGameID string `json:"start_game_id,omitempty"`
}

// Messenger is the outbound capability. Implementations must be safe for
// concurrent use; every game's turn loop calls it from its own goroutine.
//
// Failures are recoverable from the caller's perspective: a failed edit
// must not desynchronize the game state machine, so callers log and
// continue.
type Messenger interface {
	SendMessage(room, content string, embed *Embed, controls *Controls) (Handle, error)
	EditMessage(h Handle, content string, embed *Embed) error
	DeleteMessage(h Handle) error
	ReactToMessage(h Handle, symbol string) error
}
