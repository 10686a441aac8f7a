package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/playword/wordbomb/logger"
	"github.com/playword/wordbomb/transport"
)

// run drives the session from countdown to Finished. It owns the session
// for its whole lifetime: no two turns ever overlap, and every suspension
// point re-checks the stop flag before continuing.
func (s *Session) run() {
	if !s.runCountdown() {
		s.finalize(nil)
		return
	}
	if err := s.beginActive(); err != nil {
		logger.Log.Errorw("failed to activate game", "game_id", s.ID, "error", err)
		s.finalize(nil)
		return
	}
	for !s.resolveTurn() {
	}
}

// runCountdown posts the main game message and ticks the visible counter
// down at a fixed interval. Returns false when a stop arrived mid-count.
func (s *Session) runCountdown() bool {
	s.mu.Lock()
	remaining := s.countdown
	s.mu.Unlock()

	h, err := s.messenger.SendMessage(s.RoomIdentity, "", countdownEmbed(remaining), nil)
	if err != nil {
		logger.Log.Warnf("game %s: failed to post countdown message: %v", s.ID, err)
	} else {
		s.mu.Lock()
		s.mainMsg = h
		s.mu.Unlock()
	}

	for i := 0; i < countdownTicks; i++ {
		time.Sleep(s.timing.CountdownTick)

		s.mu.Lock()
		if s.stopRequested {
			s.mu.Unlock()
			return false
		}
		s.countdown--
		remaining = s.countdown
		s.mu.Unlock()

		s.editMain("", countdownEmbed(remaining))
	}
	return true
}

// beginActive transitions Countdown -> Active and seeds the first turn.
func (s *Session) beginActive() error {
	prefix, err := s.index.RandomPrefix(1)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopRequested {
		return fmt.Errorf("stopped during countdown")
	}
	s.phase = PhaseActive
	s.stage = 1
	s.currentPrefix = prefix
	s.timeRemaining = timeForStage(1)
	return nil
}

// resolveTurn runs one full iteration of the turn loop. It returns true
// when the session reached Finished, ending the loop.
func (s *Session) resolveTurn() bool {
	started := time.Now()

	s.mu.Lock()
	if s.stopRequested {
		s.mu.Unlock()
		s.finalize(nil)
		return true
	}
	if len(s.roster) == 0 {
		s.mu.Unlock()
		s.finalize(nil)
		return true
	}
	current := s.roster[s.turnIndex]
	view := RenderState{
		Prefix:        s.currentPrefix,
		Stage:         s.stage,
		Plays:         s.plays,
		NextUp:        current.Identity,
		TimeRemaining: s.timeRemaining,
	}
	s.mu.Unlock()

	s.editMain(mention(current.Identity), turnEmbed(view))

	answered := s.waitForTurn()

	// Apply consequences. The stop flag wins over whatever the wait
	// produced.
	s.mu.Lock()
	if s.stopRequested {
		s.mu.Unlock()
		s.finalize(nil)
		return true
	}

	var (
		lifeLost    bool
		rejectedMsg transport.Handle
	)
	if answered {
		w := strings.ToLower(s.pending.text)
		if s.validateLocked(w) {
			s.usedWords[w] = struct{}{}
			s.plays++
			s.recorder.AnswerAccepted()
		} else {
			current.Lives--
			lifeLost = true
			rejectedMsg = s.pending.msg
			s.recorder.AnswerRejected()
		}
	} else {
		current.Lives--
		lifeLost = true
		s.recorder.TurnTimeout()
	}
	livesLeft := current.Lives
	s.mu.Unlock()

	if rejectedMsg != "" {
		if err := s.messenger.ReactToMessage(rejectedMsg, "❌"); err != nil {
			logger.Log.Warnf("game %s: failed to react to answer: %v", s.ID, err)
		}
	}
	if lifeLost {
		s.editMain(fmt.Sprintf("%s lost a life! %d life remaining", mention(current.Identity), livesLeft), nil)
		time.Sleep(s.timing.DisplayPause)
	}

	// Elimination and win check.
	s.mu.Lock()
	if s.stopRequested {
		s.mu.Unlock()
		s.finalize(nil)
		return true
	}
	eliminated := false
	if current.Lives == 0 {
		s.roster = append(s.roster[:s.turnIndex], s.roster[s.turnIndex+1:]...)
		if s.turnIndex >= len(s.roster) {
			s.turnIndex = 0
		}
		eliminated = true
	}
	var winner *Player
	if len(s.roster) == 1 && !s.singlePlayer {
		winner = s.roster[0]
	}
	s.mu.Unlock()

	if eliminated {
		s.editMain(mention(current.Identity)+" died!", nil)
		time.Sleep(s.timing.DisplayPause)
	}
	if winner != nil {
		s.editMain(mention(winner.Identity)+" wins!", nil)
		s.finalize(winner)
		s.recorder.ObserveTurn(time.Since(started))
		return true
	}

	// Advance stage and turn pointer for the next iteration.
	s.mu.Lock()
	if s.stopRequested || s.phase == PhaseFinished {
		s.mu.Unlock()
		s.finalize(nil)
		return true
	}
	s.stage = stageFor(s.plays)
	s.timeRemaining = timeForStage(s.stage)
	if prefix, err := s.index.RandomPrefix(s.stage); err == nil {
		s.currentPrefix = prefix
	} else {
		// Must not occur for lengths 1..7 with a real dictionary; keep
		// the previous prefix rather than kill the game.
		logger.Log.Errorw("no prefix for stage", "game_id", s.ID, "stage", s.stage, "error", err)
	}
	if len(s.roster) > 0 {
		s.turnIndex = (s.turnIndex + 1) % len(s.roster)
	}
	s.pending = nil
	s.mu.Unlock()

	s.recorder.ObserveTurn(time.Since(started))
	return false
}

// waitForTurn is the single suspension point per turn: it polls at a fixed
// interval, draining timeRemaining, until an answer arrives, the clock runs
// out, or a stop is requested. Returns true only when an answer arrived.
func (s *Session) waitForTurn() bool {
	for {
		s.mu.Lock()
		if s.stopRequested {
			s.mu.Unlock()
			return false
		}
		if s.pending != nil {
			s.mu.Unlock()
			return true
		}
		s.timeRemaining -= pollStep
		expired := s.timeRemaining <= 0
		s.mu.Unlock()

		if expired {
			return false
		}
		time.Sleep(s.timing.PollInterval)
	}
}

// editMain edits the main game message, tolerating transport failures: a
// failed edit must not desynchronize the state machine.
func (s *Session) editMain(content string, embed *transport.Embed) {
	s.mu.Lock()
	h := s.mainMsg
	s.mu.Unlock()
	if h == "" {
		return
	}
	if err := s.messenger.EditMessage(h, content, embed); err != nil {
		logger.Log.Warnf("game %s: failed to edit main message: %v", s.ID, err)
	}
}
