package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playword/wordbomb/logger"
	"github.com/playword/wordbomb/transport"
	"github.com/playword/wordbomb/words"
)

// Timing holds the real-time parameters of a session's loop. Tests shrink
// these so a full game resolves in milliseconds; the number of logical
// ticks stays the same either way.
type Timing struct {
	// CountdownTick is the interval between pre-start countdown
	// decrements.
	CountdownTick time.Duration
	// PollInterval is the sleep between polls of the per-turn wait. Each
	// poll subtracts pollStep logical seconds from timeRemaining.
	PollInterval time.Duration
	// DisplayPause is the pause after a life loss or elimination, purely
	// for display pacing.
	DisplayPause time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		CountdownTick: time.Second,
		PollInterval:  100 * time.Millisecond,
		DisplayPause:  2 * time.Second,
	}
}

// pendingAnswer is the at-most-one unconsumed submission for the current
// turn.
type pendingAnswer struct {
	identity string
	text     string
	msg      transport.Handle
}

// Session is one game instance: the roster, the turn pointer, the word
// history and the lifecycle phase. All mutable fields are guarded by mu;
// inbound gateway events arrive on goroutines other than the turn loop's.
type Session struct {
	ID           string
	HostIdentity string
	RoomIdentity string

	index     *words.Index
	messenger transport.Messenger
	recorder  Recorder
	timing    Timing

	// onFinished is invoked exactly once, after finalization, so the
	// registry can release the session.
	onFinished func(*Session)

	mu            sync.Mutex
	phase         Phase
	stage         int
	plays         int
	turnIndex     int
	timeRemaining float64
	countdown     int
	roster        []*Player
	usedWords     map[string]struct{}
	currentPrefix string
	pending       *pendingAnswer
	singlePlayer  bool
	stopRequested bool
	winner        *Player

	joinMsg transport.Handle
	mainMsg transport.Handle
}

// NewSession builds a session in the lobby phase with the host as the sole
// roster entry. Callers normally go through Registry.Create.
func NewSession(host, room string, index *words.Index, messenger transport.Messenger, recorder Recorder, timing Timing, onFinished func(*Session)) *Session {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Session{
		ID:            uuid.New().String(),
		HostIdentity:  host,
		RoomIdentity:  room,
		index:         index,
		messenger:     messenger,
		recorder:      recorder,
		timing:        timing,
		onFinished:    onFinished,
		phase:         PhaseLobby,
		stage:         1,
		timeRemaining: timeForStage(1),
		countdown:     countdownStart,
		roster:        []*Player{NewPlayer(host, RoleOwner)},
		usedWords:     make(map[string]struct{}),
	}
}

// AnnounceLobby posts the join message with the join/start controls.
// Called once, right after creation.
func (s *Session) AnnounceLobby() {
	s.mu.Lock()
	embed := lobbyEmbed(s.roster)
	s.mu.Unlock()

	h, err := s.messenger.SendMessage(s.RoomIdentity, "", embed, &transport.Controls{
		JoinGameID:  s.ID,
		StartGameID: s.ID,
	})
	if err != nil {
		logger.Log.Warnf("game %s: failed to post lobby message: %v", s.ID, err)
		return
	}
	s.mu.Lock()
	s.joinMsg = h
	s.mu.Unlock()
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Join appends a participant with fresh lives. Duplicate identities are
// rejected. The gateway only routes joins while the session is in the
// lobby, so the phase is not re-validated here.
func (s *Session) Join(identity string) error {
	s.mu.Lock()
	for _, p := range s.roster {
		if p.Identity == identity {
			s.mu.Unlock()
			return ErrAlreadyJoined
		}
	}
	s.roster = append(s.roster, NewPlayer(identity, RoleParticipant))
	embed := lobbyEmbed(s.roster)
	joinMsg := s.joinMsg
	s.mu.Unlock()

	if joinMsg != "" {
		content := mention(identity) + " has joined the game!"
		if err := s.messenger.EditMessage(joinMsg, content, embed); err != nil {
			logger.Log.Warnf("game %s: failed to update lobby message: %v", s.ID, err)
		}
	}
	return nil
}

// BeginCountdown starts the pre-game countdown and, once it expires, the
// turn loop. Only the host may start the game, and only from the lobby.
// Single-player mode is latched here from the roster size.
func (s *Session) BeginCountdown(requester string) error {
	s.mu.Lock()
	if requester != s.HostIdentity {
		s.mu.Unlock()
		return ErrNotHost
	}
	if s.phase != PhaseLobby {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.phase = PhaseCountdown
	s.singlePlayer = len(s.roster) == 1
	s.countdown = countdownStart
	s.mu.Unlock()

	go s.run()
	return nil
}

// SubmitAnswer routes a chat message into the current turn. It is consumed
// only when the author is on the clock, the game is active, and no answer
// is pending for this turn; every other case is silently ignored, since
// off-turn chatter and repeat messages are expected and common. The
// returned bool reports whether the message was consumed.
func (s *Session) SubmitAnswer(identity, raw string, msg transport.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive || s.pending != nil {
		return false
	}
	if len(s.roster) == 0 || s.roster[s.turnIndex].Identity != identity {
		return false
	}
	s.pending = &pendingAnswer{identity: identity, text: raw, msg: msg}
	return true
}

// Stop force-finalizes the session with no winner. Host only. Idempotent
// once finished. The turn loop observes the stop flag at every suspension
// boundary, so an in-flight wait never outlives this call by more than one
// tick.
func (s *Session) Stop(requester string) error {
	s.mu.Lock()
	if requester != s.HostIdentity {
		s.mu.Unlock()
		return ErrNotHost
	}
	if s.phase == PhaseFinished {
		s.mu.Unlock()
		return nil
	}
	s.stopRequested = true
	s.mu.Unlock()

	s.finalize(nil)
	return nil
}

// finalize transitions to Finished exactly once, announces the final
// statistics, and hands the session back to the registry. Later calls are
// no-ops.
func (s *Session) finalize(winner *Player) {
	s.mu.Lock()
	if s.phase == PhaseFinished {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseFinished
	s.winner = winner
	sum := Summary{
		GameID: s.ID,
		Host:   s.HostIdentity,
		Room:   s.RoomIdentity,
		Stage:  s.stage,
		Plays:  s.plays,
	}
	if winner != nil {
		sum.Winner = winner.Identity
	}
	mainMsg, joinMsg := s.mainMsg, s.joinMsg
	s.mu.Unlock()

	if mainMsg != "" {
		if err := s.messenger.DeleteMessage(mainMsg); err != nil {
			logger.Log.Warnf("game %s: failed to delete main message: %v", s.ID, err)
		}
	}
	if _, err := s.messenger.SendMessage(s.RoomIdentity, "Game over!", summaryEmbed(sum), nil); err != nil {
		logger.Log.Warnf("game %s: failed to post final statistics: %v", s.ID, err)
	}
	if joinMsg != "" {
		if err := s.messenger.DeleteMessage(joinMsg); err != nil {
			logger.Log.Warnf("game %s: failed to delete lobby message: %v", s.ID, err)
		}
	}

	logger.Log.Infow("game finished",
		"game_id", s.ID,
		"room", s.RoomIdentity,
		"plays", sum.Plays,
		"stage", sum.Stage,
		"winner", sum.Winner,
	)

	if s.onFinished != nil {
		s.onFinished(s)
	}
}

// PlayerInfo is a read-only roster entry for snapshots.
type PlayerInfo struct {
	Identity string
	Role     Role
	Lives    int
}

// Snapshot is a consistent read of the session for the admin RPC, the
// gateway, and tests.
type Snapshot struct {
	GameID        string
	Host          string
	Room          string
	Phase         Phase
	Stage         int
	Plays         int
	TurnIndex     int
	Prefix        string
	TimeRemaining float64
	Countdown     int
	SinglePlayer  bool
	Winner        string
	Players       []PlayerInfo
	UsedWords     []string
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		GameID:        s.ID,
		Host:          s.HostIdentity,
		Room:          s.RoomIdentity,
		Phase:         s.phase,
		Stage:         s.stage,
		Plays:         s.plays,
		TurnIndex:     s.turnIndex,
		Prefix:        s.currentPrefix,
		TimeRemaining: s.timeRemaining,
		Countdown:     s.countdown,
		SinglePlayer:  s.singlePlayer,
	}
	if s.winner != nil {
		snap.Winner = s.winner.Identity
	}
	for _, p := range s.roster {
		snap.Players = append(snap.Players, PlayerInfo{Identity: p.Identity, Role: p.Role, Lives: p.Lives})
	}
	for w := range s.usedWords {
		snap.UsedWords = append(snap.UsedWords, w)
	}
	return snap
}

// validateLocked applies the acceptance rules to a normalized answer.
// Caller holds s.mu.
func (s *Session) validateLocked(w string) bool {
	if len(w) < minAnswerLen {
		return false
	}
	if _, used := s.usedWords[w]; used {
		return false
	}
	if !strings.HasPrefix(w, strings.ToLower(s.currentPrefix)) {
		return false
	}
	return s.index.IsValid(w)
}
