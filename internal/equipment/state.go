// Package equipment implements the location/usage lifecycle of a single
// equipment unit. A unit is either stored in a warehouse location or in use
// at a site; the two are mutually exclusive.
package equipment

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/erazemk/armazem/internal/model"
)

var (
	ErrBlankSite      = errors.New("usage site must not be blank")
	ErrBlankLocation  = errors.New("warehouse location must not be blank")
	ErrAmbiguousState = errors.New("local and observation are mutually exclusive")
	ErrNoState        = errors.New("one of local or observation is required")
)

// State is either InWarehouse or InUse.
type State interface {
	isState()
}

// InWarehouse is a unit stored at an internal location.
type InWarehouse struct {
	Location string
}

// InUse is a unit deployed at a site.
type InUse struct {
	Site string
}

func (InWarehouse) isState() {}
func (InUse) isState()       {}

// Initial returns the state of a newly created unit.
func Initial(local string) (State, error) {
	return ReturnToWarehouse(local)
}

// MarkInUse moves a unit to a site. It is valid from either state.
func MarkInUse(site string) (State, error) {
	site = strings.TrimSpace(site)
	if site == "" {
		return nil, ErrBlankSite
	}
	return InUse{Site: site}, nil
}

// ReturnToWarehouse stores a unit at a location. It is valid from either
// state, which also covers moving a stored unit between locations.
func ReturnToWarehouse(location string) (State, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrBlankLocation
	}
	return InWarehouse{Location: location}, nil
}

// Encode translates a state to the (local, observation) column pair.
// Exactly one of the returned pointers is non-nil.
func Encode(s State) (local, observation *string) {
	switch s := s.(type) {
	case InWarehouse:
		return &s.Location, nil
	case InUse:
		return nil, &s.Site
	}
	return nil, nil
}

// Decode translates a stored column pair back to a state.
func Decode(local, observation *string) (State, error) {
	hasLocal := local != nil && strings.TrimSpace(*local) != ""
	hasObservation := observation != nil && strings.TrimSpace(*observation) != ""

	switch {
	case hasLocal && hasObservation:
		return nil, ErrAmbiguousState
	case hasObservation:
		return InUse{Site: strings.TrimSpace(*observation)}, nil
	case hasLocal:
		return InWarehouse{Location: strings.TrimSpace(*local)}, nil
	}
	return nil, ErrNoState
}

// FromRequest decides the transition requested by an update carrying both
// nullable fields. A request must set exactly one of them; a request setting
// both is rejected rather than silently corrected.
func FromRequest(local, observation *string) (State, error) {
	switch {
	case local != nil && observation != nil:
		return nil, ErrAmbiguousState
	case observation != nil:
		return MarkInUse(*observation)
	case local != nil:
		return ReturnToWarehouse(*local)
	}
	return nil, ErrNoState
}

// Touches reports whether moving from prev to next counts as usage, i.e.
// whether the unit's last-used timestamp must be refreshed. prev may be nil
// when the stored state could not be decoded.
func Touches(prev, next State) bool {
	if _, ok := next.(InUse); ok {
		return true
	}
	_, wasInUse := prev.(InUse)
	return wasInUse
}

// Apply writes a state into the unit's column pair and refreshes LastUsedAt
// when the transition touches the unit.
func Apply(e *model.Equipment, next State, now time.Time) {
	prev, _ := Decode(e.Local, e.Observation)
	e.Local, e.Observation = Encode(next)
	if Touches(prev, next) {
		e.LastUsedAt = &now
	}
}

// InactiveAfterDays is the idle day count a stored unit must exceed to be
// considered inactive.
const InactiveAfterDays = 30

// IdleDays returns the number of whole days elapsed between lastUsed and now.
func IdleDays(lastUsed, now time.Time) int {
	return int(math.Floor(now.Sub(lastUsed).Hours() / 24))
}

// Inactive reports whether a unit is a stored unit unused for more than
// InactiveAfterDays, along with its idle day count. Units without a last-used
// timestamp are never inactive.
func Inactive(e model.Equipment, now time.Time) (int, bool) {
	if e.Observation != nil && *e.Observation != "" {
		return 0, false
	}
	if e.LastUsedAt == nil {
		return 0, false
	}
	days := IdleDays(*e.LastUsedAt, now)
	return days, days > InactiveAfterDays
}
