package game

import (
	"fmt"

	"github.com/playword/wordbomb/transport"
)

// RenderState is the immutable per-turn view the core hands to the
// transport. The adapter renders it however it likes; the core never holds
// a live message's internal fields.
type RenderState struct {
	Prefix        string
	Stage         int
	Plays         int
	NextUp        string
	TimeRemaining float64
}

// Summary is the final statistics snapshot produced exactly once, at
// finalization.
type Summary struct {
	GameID string
	Host   string
	Room   string
	Stage  int
	Plays  int
	Winner string // empty when nobody won
}

func mention(identity string) string {
	return "@" + identity
}

func lobbyEmbed(roster []*Player) *transport.Embed {
	e := &transport.Embed{Title: "Waiting for players..."}
	for _, p := range roster {
		e.Fields = append(e.Fields, transport.Field{
			Name:  string(p.Role),
			Value: mention(p.Identity),
		})
	}
	return e
}

func countdownEmbed(remaining int) *transport.Embed {
	return &transport.Embed{
		Title:       "Game starting...",
		Description: fmt.Sprintf("Game will start in **%d**", remaining),
		Fields: []transport.Field{
			{Name: "Rule #1", Value: "Answers must be greater than or equal to 2 in length"},
			{Name: "Rule #2", Value: "Answers must not be repeated"},
		},
	}
}

func turnEmbed(view RenderState) *transport.Embed {
	return &transport.Embed{
		Title:       "Guess a word",
		Description: fmt.Sprintf("Send a word that begins with `%s`", view.Prefix),
		Fields: []transport.Field{
			{Name: "Stage", Value: fmt.Sprintf("%d", view.Stage)},
			{Name: "Plays", Value: fmt.Sprintf("%d", view.Plays)},
			{Name: "Next Up", Value: mention(view.NextUp)},
			{Name: "Time remaining", Value: fmt.Sprintf("%d seconds", int(view.TimeRemaining))},
		},
	}
}

func summaryEmbed(sum Summary) *transport.Embed {
	winner := "None"
	if sum.Winner != "" {
		winner = mention(sum.Winner)
	}
	return &transport.Embed{
		Title: "Statistics",
		Fields: []transport.Field{
			{Name: "Stage", Value: fmt.Sprintf("%d", sum.Stage)},
			{Name: "Plays", Value: fmt.Sprintf("%d", sum.Plays)},
			{Name: "Winner", Value: winner},
			{Name: "Host", Value: mention(sum.Host)},
		},
	}
}
