package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// DuelEventKind distinguishes the actions narrated during a duel
type DuelEventKind string

const (
	DuelEventAttack DuelEventKind = "attack"
	DuelEventHeal   DuelEventKind = "heal"
)

// DuelTermination selects when a duel stops
type DuelTermination string

const (
	// DuelTerminationKnockout stops after the first full round in which a
	// combatant is at or below zero HP with no potion left
	DuelTerminationKnockout DuelTermination = "knockout"
	// DuelTerminationBothDown keeps fighting until both combatants are at or
	// below zero HP
	DuelTerminationBothDown DuelTermination = "both_down"
)

// DuelEvent is one narrated action inside a round
type DuelEvent struct {
	Round    int           `json:"round"`
	Kind     DuelEventKind `json:"kind"`
	Actor    string        `json:"actor"`
	Target   string        `json:"target,omitempty"`
	Amount   int           `json:"amount"`
	ActorHP  int           `json:"actor_hp"`
	TargetHP int           `json:"target_hp"`
	Item     string        `json:"item,omitempty"`
}

// Narrate renders the event the way a chat front end prints it
func (e DuelEvent) Narrate() string {
	switch e.Kind {
	case DuelEventHeal:
		return fmt.Sprintf("%s used a potion", e.Actor)
	default:
		return fmt.Sprintf("%s hit %s for %d damage!", e.Actor, e.Target, e.Amount)
	}
}

// DuelResult is the terminal outcome of a duel
type DuelResult struct {
	ID         uuid.UUID   `json:"id"`
	Challenger Identity    `json:"challenger"`
	Opponent   Identity    `json:"opponent"`
	Winner     Identity    `json:"winner"`
	Loser      Identity    `json:"loser"`
	WinnerName string      `json:"winner_name"`
	LoserName  string      `json:"loser_name"`
	WinnerHP   int         `json:"winner_hp"`
	Rounds     int         `json:"rounds"`
	Capped     bool        `json:"capped,omitempty"`
	Events     []DuelEvent `json:"events"`
}

// Summary renders the final line of a duel
func (r DuelResult) Summary() string {
	return fmt.Sprintf("%s beat %s in a duel with %d hp remaining!", r.WinnerName, r.LoserName, r.WinnerHP)
}
