package league

import (
	"errors"
	"fmt"
)

var (
	ErrSeasonFinished = errors.New("season finished")
	ErrNoSeason       = errors.New("no state league in progress")
)

// RosterError reports a club that has no player to attribute events to.
type RosterError struct {
	Club string
}

func (e *RosterError) Error() string {
	return fmt.Sprintf("club %q has no players", e.Club)
}

// UnknownClubError reports a name that resolves to no club.
type UnknownClubError struct {
	Name string
}

func (e *UnknownClubError) Error() string {
	return fmt.Sprintf("unknown club %q", e.Name)
}

// DuplicateClubError reports two clubs sharing a name.
type DuplicateClubError struct {
	Name string
}

func (e *DuplicateClubError) Error() string {
	return fmt.Sprintf("duplicate club name %q", e.Name)
}

// SharedPlayerError reports one player record listed by two clubs.
type SharedPlayerError struct {
	Player string
	Clubs  [2]string
}

func (e *SharedPlayerError) Error() string {
	return fmt.Sprintf("player %q is listed by both %q and %q", e.Player, e.Clubs[0], e.Clubs[1])
}

// DuplicatePlayerError reports two players of one club sharing a name.
// Match events name players, so names must be unique per club.
type DuplicatePlayerError struct {
	Club   string
	Player string
}

func (e *DuplicatePlayerError) Error() string {
	return fmt.Sprintf("club %q lists two players called %q", e.Club, e.Player)
}

type UnknownEventKindError struct {
	Kind string
}

func (e *UnknownEventKindError) Error() string {
	return fmt.Sprintf("unknown event kind %q", e.Kind)
}

// ScheduleError reports a fixture list that cannot describe a valid season.
type ScheduleError struct {
	Reason string
}

func (e *ScheduleError) Error() string {
	return "invalid schedule: " + e.Reason
}
