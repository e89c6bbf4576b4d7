package replay

import (
	"fmt"
	"math/rand"
)

// Generator tuning constants.
const (
	lineupSize     = 7
	minTouches     = 3
	maxTouches     = 8
	turnoverChance = 0.25
)

// Generate produces the action script of a plausible game: each point
// opens with a pull, continues with passes and the occasional turnover,
// and ends with a score.
func Generate(seed int64, points int) []Action {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic games for reproducible runs

	players := func(team string, i int) string {
		return fmt.Sprintf("%s%d", team, i+1)
	}

	var actions []Action
	pulling := "A"
	for p := 0; p < points; p++ {
		receiving := other(pulling)

		// Pull: click the puller, then press pull.
		actions = append(actions,
			Action{Op: "click", Team: pulling, Player: players(pulling, rng.Intn(lineupSize))},
			Action{Op: "press", Action: "pull"},
		)

		// The receiving team's first click establishes the holder.
		possession := receiving
		holder := rng.Intn(lineupSize)
		actions = append(actions, Action{Op: "click", Team: possession, Player: players(possession, holder)})

		touches := minTouches + rng.Intn(maxTouches-minTouches+1)
		for t := 0; t < touches; t++ {
			if rng.Float64() < turnoverChance {
				// Cross-team click: turnover plus block, possession flips.
				possession = other(possession)
				holder = rng.Intn(lineupSize)
				actions = append(actions, Action{Op: "click", Team: possession, Player: players(possession, holder)})
				continue
			}
			// Same-team pass to a different player.
			next := rng.Intn(lineupSize - 1)
			if next >= holder {
				next++
			}
			holder = next
			actions = append(actions, Action{Op: "click", Team: possession, Player: players(possession, holder)})
		}

		// Score on a final pass; the last click is the receiver.
		next := rng.Intn(lineupSize - 1)
		if next >= holder {
			next++
		}
		actions = append(actions,
			Action{Op: "click", Team: possession, Player: players(possession, next)},
			Action{Op: "press", Action: "score"},
		)

		// The team scored against pulls the next point.
		pulling = other(possession)
	}
	return actions
}

func other(team string) string {
	if team == "A" {
		return "B"
	}
	return "A"
}
