package game

const (
	maxStage       = 7
	playsPerStage  = 10
	minAnswerLen   = 2
	countdownStart = 10
	countdownTicks = 5

	// pollStep is the logical time subtracted from timeRemaining on each
	// poll of the per-turn wait, in seconds.
	pollStep = 0.1
)

// stageTime maps a stage to its per-turn time budget in seconds. Index 0
// is unused.
var stageTime = [maxStage + 1]float64{0, 8, 7, 6, 5, 4, 3, 2}

// stageFor derives the difficulty stage from the number of accepted
// answers: one stage up every ten plays, capped at the final stage.
func stageFor(plays int) int {
	stage := plays/playsPerStage + 1
	if stage > maxStage {
		stage = maxStage
	}
	return stage
}

func timeForStage(stage int) float64 {
	return stageTime[stage]
}
