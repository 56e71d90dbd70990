// Package duel resolves turn-based fights between two accounts' equipped gear.
package duel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/osse101/armorsmith/internal/concurrency"
	"github.com/osse101/armorsmith/internal/dice"
	"github.com/osse101/armorsmith/internal/domain"
	"github.com/osse101/armorsmith/internal/metrics"
)

// Registry is the slice of the account registry a duel needs
type Registry interface {
	GetAccount(ctx context.Context, id domain.Identity) (*domain.Account, error)
	RemoveItem(ctx context.Context, id domain.Identity, item domain.Item) error
}

// Options tunes the combat loop. Zero fields take the package defaults.
type Options struct {
	StartingHP  int
	MaxRounds   int
	Termination domain.DuelTermination
}

func (o Options) withDefaults() (Options, error) {
	if o.StartingHP <= 0 {
		o.StartingHP = DefaultStartingHP
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	switch o.Termination {
	case "":
		o.Termination = domain.DuelTerminationBothDown
	case domain.DuelTerminationKnockout, domain.DuelTerminationBothDown:
	default:
		return o, fmt.Errorf("%s: %q", ErrMsgUnknownTermination, o.Termination)
	}
	return o, nil
}

// PreconditionError reports why a duel was refused before any round ran
type PreconditionError struct {
	Reason   error
	Identity domain.Identity
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("duel refused: %v: %s", e.Reason, e.Identity)
}

func (e *PreconditionError) Unwrap() error {
	return e.Reason
}

// Observer receives each event as soon as it happens
type Observer func(domain.DuelEvent)

// Engine runs duels. Fights touching the same account are serialized.
type Engine struct {
	registry Registry
	roller   dice.Roller
	locks    *concurrency.LockManager
	opts     Options
	log      *slog.Logger
}

// NewEngine creates a duel engine
func NewEngine(registry Registry, roller dice.Roller, opts Options, log *slog.Logger) (*Engine, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		registry: registry,
		roller:   roller,
		locks:    concurrency.NewLockManager(),
		opts:     opts,
		log:      log,
	}, nil
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.opts
}

type combatant struct {
	id         domain.Identity
	name       string
	hp         int
	weapon     domain.Item
	armor      *domain.Item
	potion     *domain.Item
	potionUsed bool
}

func (c *combatant) down() bool {
	return c.hp <= 0
}

// Fight runs a duel to completion. The challenger strikes first every round.
// observer may be nil.
func (e *Engine) Fight(ctx context.Context, challenger, opponent domain.Identity, observer Observer) (*domain.DuelResult, error) {
	unlock := e.locks.LockAll(challenger.Key(), opponent.Key())
	defer unlock()

	// Both accounts must exist before either weapon is checked.
	a, err := e.load(ctx, challenger)
	if err != nil {
		return nil, e.reject(ctx, err)
	}
	b, err := e.load(ctx, opponent)
	if err != nil {
		return nil, e.reject(ctx, err)
	}
	if a.Equipment.Weapon == nil {
		return nil, e.reject(ctx, &PreconditionError{Reason: domain.ErrMissingWeapon, Identity: challenger})
	}
	if b.Equipment.Weapon == nil {
		return nil, e.reject(ctx, &PreconditionError{Reason: domain.ErrMissingWeapon, Identity: opponent})
	}
	ca, cb := e.combatant(challenger, a), e.combatant(opponent, b)

	result := &domain.DuelResult{
		ID:         uuid.New(),
		Challenger: challenger,
		Opponent:   opponent,
	}
	emit := func(ev domain.DuelEvent) {
		result.Events = append(result.Events, ev)
		if observer != nil {
			observer(ev)
		}
	}

	log := e.log.With("duel_id", result.ID.String())
	log.InfoContext(ctx, LogMsgDuelStarted, "challenger", challenger.Key(), "opponent", opponent.Key())

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Rounds = round

		if err := e.strike(ctx, log, round, ca, cb, emit); err != nil {
			return nil, err
		}
		if err := e.strike(ctx, log, round, cb, ca, emit); err != nil {
			return nil, err
		}

		if e.finished(ca, cb) {
			break
		}
		if round >= e.opts.MaxRounds {
			result.Capped = true
			log.WarnContext(ctx, LogMsgDuelCapped, "rounds", round, "challenger_hp", ca.hp, "opponent_hp", cb.hp)
			break
		}
	}

	winner, loser := e.decide(ca, cb, result.Capped)
	result.Winner = winner.id
	result.Loser = loser.id
	result.WinnerName = winner.name
	result.LoserName = loser.name
	result.WinnerHP = winner.hp

	outcome := metrics.OutcomeKnockout
	if result.Capped {
		outcome = metrics.OutcomeCapped
	}
	metrics.Duels.WithLabelValues(outcome).Inc()
	metrics.DuelRounds.Observe(float64(result.Rounds))

	log.InfoContext(ctx, LogMsgDuelFinished,
		"winner", winner.id.Key(),
		"winner_hp", winner.hp,
		"rounds", result.Rounds,
		"capped", result.Capped)
	return result, nil
}

// load fetches one side's account
func (e *Engine) load(ctx context.Context, id domain.Identity) (*domain.Account, error) {
	acc, err := e.registry.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNoAccount) {
			return nil, &PreconditionError{Reason: domain.ErrNoAccount, Identity: id}
		}
		return nil, err
	}
	return acc, nil
}

func (e *Engine) combatant(id domain.Identity, acc *domain.Account) *combatant {
	return &combatant{
		id:     id,
		name:   acc.Name,
		hp:     e.opts.StartingHP,
		weapon: *acc.Equipment.Weapon,
		armor:  acc.Equipment.Armor,
		potion: acc.Equipment.Potion,
	}
}

func (e *Engine) reject(ctx context.Context, err error) error {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		metrics.Duels.WithLabelValues(metrics.OutcomeRejected).Inc()
		e.log.InfoContext(ctx, LogMsgDuelRejected, "account", pe.Identity.Key(), "reason", pe.Reason.Error())
	}
	return err
}

// strike resolves one attack and the defender's potion response
func (e *Engine) strike(ctx context.Context, log *slog.Logger, round int, attacker, defender *combatant, emit func(domain.DuelEvent)) error {
	damage, err := attacker.weapon.DamageRoll(e.roller)
	if err != nil {
		return err
	}
	if defender.armor != nil {
		damage = defender.armor.BlockDamage(damage)
	}
	defender.hp -= damage

	emit(domain.DuelEvent{
		Round:    round,
		Kind:     domain.DuelEventAttack,
		Actor:    attacker.name,
		Target:   defender.name,
		Amount:   damage,
		ActorHP:  attacker.hp,
		TargetHP: defender.hp,
		Item:     attacker.weapon.Name,
	})

	if !defender.down() || defender.potion == nil || defender.potionUsed {
		return nil
	}
	return e.drinkPotion(ctx, log, round, defender, emit)
}

// drinkPotion consumes the defender's potion from their stash and heals them
func (e *Engine) drinkPotion(ctx context.Context, log *slog.Logger, round int, c *combatant, emit func(domain.DuelEvent)) error {
	potion := *c.potion
	c.potionUsed = true

	err := e.registry.RemoveItem(ctx, c.id, potion)
	if errors.Is(err, domain.ErrItemNotFound) {
		log.WarnContext(ctx, LogMsgPotionAlreadyGone, "account", c.id.Key(), "potion", potion.Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgConsumePotion, err)
	}

	heal, err := potion.HealingRoll(e.roller)
	if err != nil {
		return err
	}
	c.hp += heal
	metrics.PotionsConsumed.Inc()
	log.DebugContext(ctx, LogMsgPotionConsumed, "account", c.id.Key(), "potion", potion.Name, "heal", heal)

	emit(domain.DuelEvent{
		Round:   round,
		Kind:    domain.DuelEventHeal,
		Actor:   c.name,
		Amount:  heal,
		ActorHP: c.hp,
		Item:    potion.Name,
	})
	return nil
}

// finished applies the termination policy after a full round. Any potion a
// downed combatant had was already drunk during the round.
func (e *Engine) finished(a, b *combatant) bool {
	if e.opts.Termination == domain.DuelTerminationBothDown {
		return a.down() && b.down()
	}
	return a.down() || b.down()
}

// decide picks the winner: the challenger wins whenever the opponent is
// down. A capped duel goes to the higher HP, ties to the challenger.
func (e *Engine) decide(a, b *combatant, capped bool) (winner, loser *combatant) {
	if capped {
		if b.hp > a.hp {
			return b, a
		}
		return a, b
	}
	if b.down() {
		return a, b
	}
	return b, a
}
