package league

import (
	"math/rand/v2"
)

// bye marks the placeholder slot that pads an odd field. It is an index,
// never a club name, so it cannot collide with a real club.
const bye = -1

// scheduleStream separates the pre-shuffle stream from match streams
// derived from the same seed.
const scheduleStream = 0x5c4ed01e

// TotalWeeks is the number of weeks of a double round-robin between n clubs.
func TotalWeeks(n int) int {
	if n <= 1 {
		return 0
	}
	if n%2 != 0 {
		n++
	}
	return 2 * (n - 1)
}

// BuildSchedule returns a double round-robin for the named clubs: every pair
// meets twice, once at each ground, in different weeks. The club order is
// shuffled once with seed before the rounds are built.
func BuildSchedule(names []string, seed int64) ([]Fixture, error) {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return nil, &ScheduleError{Reason: "empty club name"}
		}
		if _, ok := seen[name]; ok {
			return nil, &DuplicateClubError{Name: name}
		}
		seen[name] = struct{}{}
	}
	if len(names) <= 1 {
		return nil, nil
	}

	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(uint64(seed), scheduleStream))
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	// If odd number of clubs, add a bye placeholder
	if len(order)%2 != 0 {
		order = append(order, bye)
	}
	n := len(order)

	firstLeg := make([][][2]int, n-1)
	for r := 0; r < n-1; r++ {
		round := make([][2]int, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := order[j], order[n-1-j]
			// the fixed slot would otherwise host every first-leg match
			if j == 0 && r%2 == 1 {
				home, away = away, home
			}
			if home == bye || away == bye {
				continue
			}
			round = append(round, [2]int{home, away})
		}
		firstLeg[r] = round

		// Rotate everyone except the fixed first slot
		last := order[n-1]
		copy(order[2:], order[1:n-1])
		order[1] = last
	}

	legWeeks := n - 1
	fixtures := make([]Fixture, 0, len(names)*(len(names)-1))
	for r, round := range firstLeg {
		for _, m := range round {
			fixtures = append(fixtures, Fixture{Week: r + 1, Home: names[m[0]], Away: names[m[1]]})
		}
	}
	// Second leg with swapped home/away
	for r, round := range firstLeg {
		for _, m := range round {
			fixtures = append(fixtures, Fixture{Week: legWeeks + r + 1, Home: names[m[1]], Away: names[m[0]]})
		}
	}
	return fixtures, nil
}
