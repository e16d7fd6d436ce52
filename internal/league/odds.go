package league

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"
)

// TitleOdds plays the rest of the season runs times on copies of the
// state league's clubs and returns each club's chance of finishing first,
// as a percentage. The career itself is not touched.
func (c *Career) TitleOdds(runs int, rng *rand.Rand) ([]Prediction, error) {
	if c.Season == nil {
		return nil, ErrNoSeason
	}
	if runs <= 0 {
		return nil, errors.New("runs must be positive")
	}
	clubs := c.League.Region(c.Season.Region)

	// 1) Count how many times each club wins the league
	wins := make(map[string]int, len(clubs))
	engine := NewMatchEngine(rng)
	for i := 0; i < runs; i++ {
		champ, err := c.simulateChampion(clubs, engine)
		if err != nil {
			return nil, err
		}
		wins[champ]++
	}

	// 2) Turn counts into probabilities
	preds := make([]Prediction, 0, len(clubs))
	for _, club := range clubs {
		p := float64(wins[club.Name]) / float64(runs) * 100.0
		preds = append(preds, Prediction{Club: club.Name, Probability: math.Round(p*100) / 100})
	}

	// 3) Sort descending by probability
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})
	return preds, nil
}

func (c *Career) simulateChampion(clubs []*Club, engine *MatchEngine) (string, error) {
	copies, err := c.simulateRest(clubs, engine)
	if err != nil {
		return "", err
	}
	table := Table(copies)
	if len(table) == 0 {
		return "", nil
	}
	return table[0].Club, nil
}

// simulateRest plays every unplayed fixture on copies of clubs, week by
// week, and returns the copies.
func (c *Career) simulateRest(clubs []*Club, engine *MatchEngine) ([]*Club, error) {
	copies := make([]*Club, len(clubs))
	byName := make(map[string]*Club, len(clubs))
	for i, club := range clubs {
		copies[i] = club.Clone()
		byName[club.Name] = copies[i]
	}

	for w := c.Season.CurrentWeek; w <= c.Season.TotalWeeks; w++ {
		idx := c.Season.weekIndexes(w)
		if c.Season.weekFresh(idx) {
			tickSquads(copies, engine.rng)
		}
		for _, i := range idx {
			f := c.Season.fixtures[i]
			if f.Played() {
				continue
			}
			home, ok := byName[f.Home]
			if !ok {
				return nil, &UnknownClubError{Name: f.Home}
			}
			away, ok := byName[f.Away]
			if !ok {
				return nil, &UnknownClubError{Name: f.Away}
			}
			res, err := engine.Simulate(home, away)
			if err != nil {
				return nil, err
			}
			if err := ApplyMatch(home, away, res); err != nil {
				return nil, err
			}
		}
	}
	return copies, nil
}
