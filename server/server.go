package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/playword/wordbomb/broadcast"
	"github.com/playword/wordbomb/game"
	"github.com/playword/wordbomb/logger"
	"github.com/playword/wordbomb/monitor"
	"github.com/playword/wordbomb/network"
	wordbombrpc "github.com/playword/wordbomb/rpc"
	"github.com/playword/wordbomb/session"
	"github.com/playword/wordbomb/timer"
	"github.com/playword/wordbomb/words"
)

// Options carries everything the gateway needs from the bootstrap.
type Options struct {
	HTTPAddress  string
	RPCAddress   string
	Token        string
	LobbyTimeout time.Duration
	Index        *words.Index
	Monitor      *monitor.Monitor
	Timing       game.Timing
}

// GameServer is the websocket gateway: it authenticates clients, relays
// room chat, and routes interactions into the game registry.
type GameServer struct {
	opts           Options
	upgrader       websocket.Upgrader
	registry       *game.Registry
	sessionManager *session.Manager
	messenger      *broadcast.RoomMessenger
	rpcServer      *wordbombrpc.Server
	timers         *timer.Manager
	httpServer     *http.Server
	shutdownChan   chan struct{}
}

func NewGameServer(opts Options) (*GameServer, error) {
	s := &GameServer{
		opts:           opts,
		sessionManager: session.NewManager(),
		timers:         timer.NewManager(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.messenger = broadcast.NewRoomMessenger(s.sessionManager)

	var recorder game.Recorder = game.NopRecorder{}
	if opts.Monitor != nil {
		recorder = opts.Monitor
	}
	s.registry = game.NewRegistry(opts.Index, s.messenger, recorder, opts.Timing)

	rpcServer, err := wordbombrpc.NewServer(opts.RPCAddress)
	if err != nil {
		return nil, err
	}
	s.rpcServer = rpcServer
	if err := wordbombrpc.RegisterAdmin(wordbombrpc.NewAdminService(s.registry, opts.Monitor)); err != nil {
		return nil, err
	}

	return s, nil
}

// Registry exposes the game registry, mainly for tests and the admin RPC.
func (s *GameServer) Registry() *game.Registry {
	return s.registry
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.httpServer = &http.Server{Addr: s.opts.HTTPAddress, Handler: mux}

	logger.Log.Infof("Game server listening on %s", s.opts.HTTPAddress)
	return s.httpServer.ListenAndServe()
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.timers.Stop()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if s.opts.Token != "" && query.Get("token") != s.opts.Token {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	user := query.Get("user")
	room := query.Get("room")
	if user == "" || room == "" {
		http.Error(w, "user and room are required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn, user, room)
}

func (s *GameServer) handleConnection(conn *websocket.Conn, user, room string) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), user, room, wsConn)
	s.sessionManager.Add(sess)
	if s.opts.Monitor != nil {
		s.opts.Monitor.IncConnectedClients()
	}

	logger.Log.Infof("New connection from %s, user %s, room %s", wsConn.RemoteAddr(), user, room)

	defer func() {
		logger.Log.Infof("Connection closed from %s, user %s", wsConn.RemoteAddr(), user)
		s.sessionManager.Remove(sess.ID)
		if s.opts.Monitor != nil {
			s.opts.Monitor.DecConnectedClients()
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

// request is the JSON payload of client packets that reference a game.
type request struct {
	GameID string `json:"game_id,omitempty"`
	Text   string `json:"text,omitempty"`
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	var req request
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.notice(sess, "malformed request")
			return
		}
	}

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeCreateGame:
		s.handleCreateGame(sess)
	case network.MsgTypeJoinGame:
		s.handleJoinGame(sess, req.GameID)
	case network.MsgTypeStartGame:
		s.handleStartGame(sess, req.GameID)
	case network.MsgTypeStopGame:
		s.handleStopGame(sess)
	case network.MsgTypeRandomWord:
		s.handleRandomWord(sess)
	case network.MsgTypeChat:
		s.handleChat(sess, req.Text)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) handleCreateGame(sess *session.Session) {
	g, err := s.registry.Create(sess.UserID, sess.RoomID)
	if err != nil {
		s.notice(sess, err.Error())
		return
	}
	logger.Log.Infof("User %s created game %s in room %s", sess.UserID, g.ID, sess.RoomID)
	g.AnnounceLobby()

	// Reclaim lobbies that never start.
	if s.opts.LobbyTimeout > 0 {
		s.timers.Schedule(s.opts.LobbyTimeout, 0, func() {
			if g.Phase() == game.PhaseLobby {
				logger.Log.Infof("Game %s expired in lobby", g.ID)
				_ = g.Stop(g.HostIdentity)
			}
		})
	}
}

func (s *GameServer) handleJoinGame(sess *session.Session, gameID string) {
	g, ok := s.registry.LookupByGameID(gameID)
	if !ok {
		s.notice(sess, "Game not found or invalid game ID.")
		return
	}
	// Joins are only wired to the join control while the game accepts
	// them; the session itself does not re-check the phase.
	if g.Phase() != game.PhaseLobby {
		s.notice(sess, game.ErrAlreadyStarted.Error())
		return
	}
	if err := g.Join(sess.UserID); err != nil {
		s.notice(sess, err.Error())
	}
}

func (s *GameServer) handleStartGame(sess *session.Session, gameID string) {
	g, ok := s.registry.LookupByGameID(gameID)
	if !ok {
		s.notice(sess, "Game not found or invalid game ID.")
		return
	}
	if err := g.BeginCountdown(sess.UserID); err != nil {
		s.notice(sess, err.Error())
	}
}

func (s *GameServer) handleStopGame(sess *session.Session) {
	g, ok := s.registry.LookupByHost(sess.UserID)
	if !ok {
		s.notice(sess, "You have no ongoing games!")
		return
	}
	if err := g.Stop(sess.UserID); err != nil {
		s.notice(sess, err.Error())
	}
}

func (s *GameServer) handleRandomWord(sess *session.Session) {
	s.notice(sess, "Random Word: "+s.opts.Index.RandomWord())
}

func (s *GameServer) handleChat(sess *session.Session, text string) {
	if text == "" {
		return
	}
	handle, err := s.messenger.RelayChat(sess.RoomID, sess.UserID, text)
	if err != nil {
		logger.Log.Warnf("failed to relay chat from %s: %v", sess.UserID, err)
	}

	if g, ok := s.registry.LookupByRoom(sess.RoomID); ok {
		g.SubmitAnswer(sess.UserID, text, handle)
	}
}

// notice sends an ephemeral message to a single client.
func (s *GameServer) notice(sess *session.Session, text string) {
	data, err := json.Marshal(broadcast.WireMessage{Content: text})
	if err != nil {
		return
	}
	if err := sess.Send(network.MsgTypeNotice, data); err != nil {
		logger.Log.Warnf("failed to send notice to %s: %v", sess.UserID, err)
	}
}
