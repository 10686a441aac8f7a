package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageFor(t *testing.T) {
	cases := []struct {
		plays int
		want  int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{19, 2},
		{20, 3},
		{59, 6},
		{60, 7},
		{69, 7},
		{500, 7}, // capped at the final stage
	}
	for _, c := range cases {
		assert.Equal(t, c.want, stageFor(c.plays), "plays=%d", c.plays)
	}
}

func TestTimeForStage(t *testing.T) {
	want := map[int]float64{1: 8, 2: 7, 3: 6, 4: 5, 5: 4, 6: 3, 7: 2}
	for stage, budget := range want {
		assert.Equal(t, budget, timeForStage(stage), "stage=%d", stage)
	}
}
