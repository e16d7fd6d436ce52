package league

import (
	"fmt"
	"math/rand/v2"
)

// newClub builds a club whose squad players all rate overall.
func newClub(name, abbr string, overall, size int) *Club {
	c := &Club{Name: name, StateAbbr: abbr, StateName: abbr + " state"}
	for i := 0; i < size; i++ {
		c.Squad = append(c.Squad, &Player{
			Name:      fmt.Sprintf("%s player %d", name, i+1),
			Age:       25,
			Strength:  overall,
			Technique: overall,
			Speed:     overall,
			Morale:    70,
		})
	}
	return c
}

func clubNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Club %02d", i+1)
	}
	return out
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func countGoals(res *MatchResult, club string) int {
	n := 0
	for _, ev := range res.Timeline {
		if ev.Kind == Goal && ev.Club == club {
			n++
		}
	}
	return n
}
