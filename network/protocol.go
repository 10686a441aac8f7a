package network

// Message IDs on the wire. 1xx are client requests, 2xx are room traffic,
// 3xx are server-rendered display messages.
const (
	MsgTypeHeartbeat  = 1
	MsgTypeCreateGame = 101
	MsgTypeJoinGame   = 102
	MsgTypeStartGame  = 103
	MsgTypeStopGame   = 104
	MsgTypeRandomWord = 105
	MsgTypeChat       = 201
	MsgTypeMessage    = 301
	MsgTypeEdit       = 302
	MsgTypeDelete     = 303
	MsgTypeReaction   = 304
	MsgTypeNotice     = 305
)
