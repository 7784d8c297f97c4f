package game

import "math/rand"

// Directions are the four seat winds in deal order.
var Directions = []string{"east", "south", "west", "north"}

// PickDirection returns a random seat wind not yet taken in the room.
// The random source is injected so tests can make the pick deterministic.
// Returns "" when all four winds are taken (a fifth player sits without
// a wind, matching table convention for spectating scorers).
func PickDirection(taken []string, rng *rand.Rand) string {
	available := make([]string, 0, len(Directions))
	for _, d := range Directions {
		used := false
		for _, t := range taken {
			if t == d {
				used = true
				break
			}
		}
		if !used {
			available = append(available, d)
		}
	}

	if len(available) == 0 {
		return ""
	}
	return available[rng.Intn(len(available))]
}
