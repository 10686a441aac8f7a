package game

import "errors"

// User-facing, non-fatal errors. The gateway reports them back to the
// requester as an ephemeral notice; none of them change game state.
var (
	ErrRoomOccupied       = errors.New("a game is already running in this room")
	ErrHostAlreadyHosting = errors.New("you already have an active game")
	ErrNotHost            = errors.New("only the host may do that")
	ErrAlreadyJoined      = errors.New("you have already joined the game")
	ErrAlreadyStarted     = errors.New("game already started")
	ErrGameNotFound       = errors.New("game not found")
)
