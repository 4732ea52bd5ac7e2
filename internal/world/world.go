// Package world holds the entity and clock state that decisions are made
// against. Every component on an Actor is optional.
package world

import "slices"

// Actor is a simulated character. Nil component pointers mean the component
// is absent.
type Actor struct {
	ID     int
	Name   string
	Kind   string
	Active bool

	Position      *Position
	Needs         *Needs
	Health        *Health
	Wallet        *Wallet
	Inventory     *Inventory
	Occupation    *Occupation
	Goals         *Goals
	Relationships *Relationships
	Schedule      *Schedule
	Memory        *Memory
}

// MaxActors bounds State.
const MaxActors = 1000

// State is the world: a clock, the weather and an array of actors.
type State struct {
	Clock   Clock
	Weather Weather

	actors []*Actor
	nextID int
}

// New returns a world at day 1, spring morning of year 1.
func New() *State {
	return &State{Clock: Clock{Day: 1, Year: 1}, nextID: 1}
}

// Spawn adds an active actor with no components. It returns nil once
// MaxActors is reached.
func (s *State) Spawn(name, kind string) *Actor {
	if len(s.actors) >= MaxActors {
		return nil
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	a := &Actor{ID: s.nextID, Name: name, Kind: kind, Active: true}
	s.nextID++
	s.actors = append(s.actors, a)
	return a
}

func (s *State) Actor(id int) *Actor {
	for _, a := range s.actors {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Actors returns every actor in spawn order, including inactive ones.
func (s *State) Actors() []*Actor { return slices.Clone(s.actors) }

func (s *State) Remove(id int) bool {
	for i, a := range s.actors {
		if a.ID == id {
			s.actors = slices.Delete(s.actors, i, i+1)
			return true
		}
	}
	return false
}

// Len is the number of actors, active or not.
func (s *State) Len() int { return len(s.actors) }

// Advance moves the clock one quarter forward.
func (s *State) Advance() (newDay bool) { return s.Clock.Advance() }
