package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// submitWhenOnClock keeps trying to submit the word for whichever player is
// on the clock until the session consumes it.
func submitWhenOnClock(t *testing.T, s *Session, word string) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		if snap.Phase != PhaseActive || len(snap.Players) == 0 {
			return false
		}
		return s.SubmitAnswer(snap.Players[snap.TurnIndex].Identity, word, "")
	}, 5*time.Second, time.Millisecond, "submission of %q was never consumed", word)
}

func TestSinglePlayer_ValidAnswerAdvancesBackToSamePlayer(t *testing.T) {
	s, _ := newTestSession(t, "alice")
	require.NoError(t, s.BeginCountdown("alice"))
	waitForPhase(t, s, PhaseActive)

	submitWhenOnClock(t, s, "ab")

	require.Eventually(t, func() bool {
		return s.Snapshot().Plays == 1
	}, 5*time.Second, time.Millisecond)

	snap := s.Snapshot()
	assert.Contains(t, snap.UsedWords, "ab")
	assert.Equal(t, 0, snap.TurnIndex, "single player stays on the clock")
	assert.NotEmpty(t, snap.Prefix)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, 2, snap.Players[0].Lives, "a valid answer costs nothing")

	require.NoError(t, s.Stop("alice"))
}

func TestRejectedAnswer_CostsALifeAndPassesTurn(t *testing.T) {
	s, m := newTestSession(t, "alice")
	require.NoError(t, s.Join("bob"))
	require.NoError(t, s.BeginCountdown("alice"))
	waitForPhase(t, s, PhaseActive)

	// Every dictionary word starts with "a"; "zebra" fails the prefix
	// check no matter which prefix was drawn.
	require.Eventually(t, func() bool {
		return s.SubmitAnswer("alice", "zebra", "chat-1")
	}, 5*time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return len(snap.Players) == 2 && snap.Players[0].Lives == 1 && snap.TurnIndex == 1
	}, 5*time.Second, time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Plays)
	assert.Empty(t, snap.UsedWords)

	// The rejected submission got the usual reaction.
	symbol, ok := m.reactionFor("chat-1")
	require.True(t, ok)
	assert.Equal(t, "❌", symbol)

	require.NoError(t, s.Stop("alice"))
}

func TestTimeout_TreatedLikeRejection(t *testing.T) {
	s, _ := newTestSession(t, "alice")
	require.NoError(t, s.BeginCountdown("alice"))
	waitForPhase(t, s, PhaseActive)

	// Nobody answers; the clock runs out.
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return len(snap.Players) == 1 && snap.Players[0].Lives == 1
	}, 5*time.Second, time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Plays, "no word is consumed on timeout")
	assert.Empty(t, snap.UsedWords)

	require.NoError(t, s.Stop("alice"))
}

func TestElimination_LastPlayerStandingWins(t *testing.T) {
	released := make(chan struct{})
	m := newMockMessenger()
	s := NewSession("alice", "room-1", testIndex(t), m, nil, fastTiming(), func(*Session) {
		close(released)
	})
	require.NoError(t, s.Join("bob"))
	require.NoError(t, s.BeginCountdown("alice"))

	// Nobody ever answers: alice times out (2→1), bob times out (2→1),
	// alice times out again (1→0) and is eliminated, leaving bob as the
	// sole player and the winner, since this is not single-player mode.
	waitForPhase(t, s, PhaseFinished)

	snap := s.Snapshot()
	assert.Equal(t, "bob", snap.Winner)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "bob", snap.Players[0].Identity)
	assert.False(t, snap.SinglePlayer)

	for _, p := range snap.Players {
		assert.Greater(t, p.Lives, 0, "no zero-life player survives resolution")
	}

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("finished session was never released")
	}
}

func TestStageAdvancesEveryTenPlays(t *testing.T) {
	s, _ := newTestSession(t, "alice")
	require.NoError(t, s.Join("bob"))
	require.NoError(t, s.BeginCountdown("alice"))
	waitForPhase(t, s, PhaseActive)

	answers := []string{
		"ab", "abacus", "able", "absolve", "academy",
		"acrobat", "admiral", "aerobic", "against", "airship",
	}
	for _, w := range answers {
		submitWhenOnClock(t, s, w)
	}

	require.Eventually(t, func() bool {
		return s.Snapshot().Plays == len(answers)
	}, 5*time.Second, time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Stage, "stage must be min(7, plays/10+1)")
	assert.Len(t, snap.UsedWords, len(answers), "used words never repeat")
	for _, p := range snap.Players {
		assert.Equal(t, 2, p.Lives, "accepted answers cost nothing")
	}
	assert.Less(t, snap.TurnIndex, len(snap.Players))

	require.NoError(t, s.Stop("alice"))
}

func TestStop_InterruptsCountdown(t *testing.T) {
	s, _ := newTestSession(t, "alice")
	require.NoError(t, s.BeginCountdown("alice"))

	require.NoError(t, s.Stop("alice"))
	waitForPhase(t, s, PhaseFinished)

	snap := s.Snapshot()
	assert.Empty(t, snap.Winner)
}

func TestTransportFailures_DoNotKillTheLoop(t *testing.T) {
	m := newMockMessenger()
	m.fail = true
	s := NewSession("alice", "room-1", testIndex(t), m, nil, fastTiming(), nil)
	s.AnnounceLobby()

	require.NoError(t, s.BeginCountdown("alice"))
	waitForPhase(t, s, PhaseActive)

	// The loop keeps resolving turns even though every send/edit fails.
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return len(snap.Players) == 1 && snap.Players[0].Lives == 1
	}, 5*time.Second, time.Millisecond)

	require.NoError(t, s.Stop("alice"))
	assert.Equal(t, PhaseFinished, s.Phase())
}
