package league

import "sort"

const (
	pointsWin  = 3
	pointsDraw = 1
)

// ApplyResult books one match onto a club's season record. It is not
// idempotent: call it once per side per match.
func ApplyResult(c *Club, goalsFor, goalsAgainst int) {
	c.GoalsFor += goalsFor
	c.GoalsAgainst += goalsAgainst

	switch {
	case goalsFor > goalsAgainst:
		c.Wins++
		c.Points += pointsWin
	case goalsFor < goalsAgainst:
		c.Losses++
	default:
		c.Draws++
		c.Points += pointsDraw
	}
}

// Table ranks clubs by points, then goal difference, then goals scored,
// then name.
func Table(clubs []*Club) []TableEntry {
	entries := make([]TableEntry, 0, len(clubs))
	for _, c := range clubs {
		entries = append(entries, TableEntry{
			Club:         c.Name,
			Played:       c.Played(),
			Wins:         c.Wins,
			Draws:        c.Draws,
			Losses:       c.Losses,
			GoalsFor:     c.GoalsFor,
			GoalsAgainst: c.GoalsAgainst,
			GoalDiff:     c.GoalDiff(),
			Points:       c.Points,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Club < b.Club
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
