// Package rpc exposes a small admin surface over stdlib net/rpc: list
// running games, stop one, and read server stats. It is meant for
// operators, not players.
package rpc

import (
	"net"
	"net/rpc"

	"github.com/playword/wordbomb/game"
	"github.com/playword/wordbomb/logger"
	"github.com/playword/wordbomb/monitor"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins accepting RPC connections. Blocks until Stop.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes the registry to operators. Methods follow the
// net/rpc signature rules.
type AdminService struct {
	registry *game.Registry
	monitor  *monitor.Monitor
}

func NewAdminService(registry *game.Registry, mon *monitor.Monitor) *AdminService {
	return &AdminService{registry: registry, monitor: mon}
}

// RegisterAdmin publishes the service as "Admin" on the default rpc server,
// which Start's connections are served from.
func RegisterAdmin(svc *AdminService) error {
	return rpc.RegisterName("Admin", svc)
}

type GameInfo struct {
	GameID  string
	Host    string
	Room    string
	Phase   string
	Stage   int
	Plays   int
	Players int
}

type ListGamesArgs struct{}

type ListGamesReply struct {
	Games []GameInfo
}

func (a *AdminService) ListGames(args *ListGamesArgs, reply *ListGamesReply) error {
	for _, sess := range a.registry.Sessions() {
		snap := sess.Snapshot()
		reply.Games = append(reply.Games, GameInfo{
			GameID:  snap.GameID,
			Host:    snap.Host,
			Room:    snap.Room,
			Phase:   snap.Phase.String(),
			Stage:   snap.Stage,
			Plays:   snap.Plays,
			Players: len(snap.Players),
		})
	}
	return nil
}

type StopGameArgs struct {
	GameID string
}

type StopGameReply struct {
	Stopped bool
}

// StopGame force-finalizes a session with no winner, acting with the
// host's authority.
func (a *AdminService) StopGame(args *StopGameArgs, reply *StopGameReply) error {
	sess, ok := a.registry.LookupByGameID(args.GameID)
	if !ok {
		return game.ErrGameNotFound
	}
	if err := sess.Stop(sess.HostIdentity); err != nil {
		return err
	}
	reply.Stopped = true
	return nil
}

type ServerStatsArgs struct{}

type ServerStatsReply struct {
	ActiveGames   int
	UptimeSeconds float64
}

func (a *AdminService) ServerStats(args *ServerStatsArgs, reply *ServerStatsReply) error {
	reply.ActiveGames = a.registry.Count()
	if a.monitor != nil {
		reply.UptimeSeconds = a.monitor.Uptime().Seconds()
	}
	return nil
}
