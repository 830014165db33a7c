package battle

import (
	"fmt"
	"log"

	"github.com/KirkDiggler/blur-battle/internal/dice"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/KirkDiggler/blur-battle/internal/feedback"
)

// turnResult is what an action body reports back to apply
type turnResult struct {
	hooks []feedback.Hook
	err   error
}

// Attack strikes the enemy. Killing it wins the battle without a reply.
func (e *Engine) Attack() error {
	return e.apply(ActionAttack, func() turnResult {
		player := e.progression.Player()
		multiplier := e.roller.Uniform(AttackMinMultiplier, AttackMaxMultiplier)
		crit := e.roller.Chance(CritChance)

		damage := PlayerAttackDamage(player.Attack, e.enemy.Defense, multiplier, crit)
		// Overkill is not counted: only the hp the enemy actually loses
		applied := min(damage, e.enemy.HP)
		e.enemy.HP -= applied
		e.progression.RecordDamageDealt(applied)

		e.lastAction = ActionResult{Action: ActionAttack, Damage: applied, Crit: crit}
		if crit {
			e.appendLogLocked(fmt.Sprintf("Critical hit! %s deals %d damage to %s", player.Name, applied, e.enemy.Name))
		} else {
			e.appendLogLocked(fmt.Sprintf("%s deals %d damage to %s", player.Name, applied, e.enemy.Name))
		}

		hooks := []feedback.Hook{feedback.HookAttack}
		if e.enemy.HP <= 0 {
			hooks = append(hooks, feedback.HookEnemyDeath)
			e.appendLogLocked(fmt.Sprintf("%s is defeated", e.enemy.Name))
			e.endLocked(OutcomeVictory)
			return turnResult{hooks: hooks}
		}

		e.passTurnLocked()
		return turnResult{hooks: hooks}
	})
}

// Defend braces for the enemy's next attack
func (e *Engine) Defend() error {
	return e.apply(ActionDefend, func() turnResult {
		e.defending = true
		e.lastAction = ActionResult{Action: ActionDefend}
		e.appendLogLocked(fmt.Sprintf("%s raises their guard", e.progression.Player().Name))

		e.passTurnLocked()
		return turnResult{hooks: []feedback.Hook{feedback.HookDefend}}
	})
}

// UseItem drinks a potion
func (e *Engine) UseItem() error {
	return e.apply(ActionUseItem, func() turnResult {
		rolled := dice.FloorUniform(e.roller, HealMin, HealMax)
		healed := e.progression.Heal(rolled)

		e.lastAction = ActionResult{Action: ActionUseItem, Heal: healed}
		e.appendLogLocked(fmt.Sprintf("%s recovers %d hp", e.progression.Player().Name, healed))

		e.passTurnLocked()
		return turnResult{hooks: []feedback.Hook{feedback.HookUseItem}}
	})
}

// Mercy spares the enemy if it is eligible. Otherwise the enemy refuses,
// the turn is spent, and a mercy_refused error is returned.
func (e *Engine) Mercy() error {
	return e.apply(ActionMercy, func() turnResult {
		hooks := []feedback.Hook{feedback.HookMercyAttempt}

		if e.mercyEligible {
			e.lastAction = ActionResult{Action: ActionMercy}
			e.appendLogLocked(fmt.Sprintf("%s spares %s", e.progression.Player().Name, e.enemy.Name))
			e.endLocked(OutcomeMercy)
			return turnResult{hooks: hooks}
		}

		e.lastAction = ActionResult{Action: ActionMercy, Refused: true}
		e.appendLogLocked(fmt.Sprintf("%s refuses mercy", e.enemy.Name))
		e.passTurnLocked()
		return turnResult{hooks: hooks, err: battleerr.MercyRefused(e.enemy.Name)}
	})
}

// apply runs one player action: reject outside the player's turn, mutate,
// publish, then either finish the battle or schedule the enemy's reply.
func (e *Engine) apply(action Action, body func() turnResult) error {
	e.deliverMu.Lock()

	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		e.deliverMu.Unlock()
		return battleerr.InvalidAction(string(action), "disposed")
	}
	if e.state != StatePlayerTurn {
		state := e.state
		e.mu.Unlock()
		e.deliverMu.Unlock()
		return battleerr.InvalidAction(string(action), string(state))
	}

	result := body()
	snap := e.nextSnapshotLocked()
	turn := e.turn
	e.mu.Unlock()

	e.publish(snap, result.hooks)
	e.deliverMu.Unlock()

	switch snap.State {
	case StateEnded:
		e.fireEnd(snap)
	case StateEnemyTurnPending:
		e.scheduleEnemyTurn(turn)
	}

	return result.err
}

// passTurnLocked hands the turn to the enemy; scheduling happens after publishing
func (e *Engine) passTurnLocked() {
	e.state = StateEnemyTurnPending
	e.turn++
}

// scheduleEnemyTurn arms the enemy's reply for the given turn.
// Schedule is called without holding mu so a synchronous scheduler cannot deadlock.
func (e *Engine) scheduleEnemyTurn(turn uint64) {
	e.mu.Lock()
	if e.disposed || e.turn != turn || e.state != StateEnemyTurnPending {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	token := e.scheduler.Schedule(e.delay, func() { e.resolveEnemyTurn(turn) })

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed || e.turn != turn || e.state != StateEnemyTurnPending {
		token.Cancel()
		return
	}
	e.pending = token
}

// resolveEnemyTurn is the enemy's reply. It does nothing if the engine was
// disposed or reset since the turn was scheduled.
func (e *Engine) resolveEnemyTurn(turn uint64) {
	e.deliverMu.Lock()

	e.mu.Lock()
	if e.disposed || e.turn != turn || e.state != StateEnemyTurnPending {
		e.mu.Unlock()
		e.deliverMu.Unlock()
		return
	}
	e.pending = nil

	e.round++
	multiplier := e.roller.Uniform(EnemyMinMultiplier, EnemyMaxMultiplier)
	raw := EnemyRawDamage(e.enemy.Attack, multiplier)
	player := e.progression.Player()
	damage := EnemyDamage(raw, player.Defense, e.defending)
	e.progression.TakeDamage(damage)
	e.defending = false

	e.mercyEligible = e.mercyEligible || MercyEligible(e.enemy.HP, e.enemy.MaxHP, e.round)

	e.lastAction = ActionResult{Action: ActionEnemyAttack, Damage: damage}
	e.appendLogLocked(fmt.Sprintf("%s deals %d damage to %s", e.enemy.Name, damage, player.Name))

	hooks := []feedback.Hook{feedback.HookEnemyHit}
	if e.progression.Player().HP <= 0 {
		hooks = append(hooks, feedback.HookPlayerDeath)
		e.appendLogLocked(fmt.Sprintf("%s has fallen", player.Name))
		e.endLocked(OutcomeDefeat)
	} else {
		e.state = StatePlayerTurn
	}

	snap := e.nextSnapshotLocked()
	e.mu.Unlock()

	e.publish(snap, hooks)
	e.deliverMu.Unlock()

	if snap.State == StateEnded {
		e.fireEnd(snap)
	}
}

// endLocked moves to the terminal state and pays out experience for a win or a spare
func (e *Engine) endLocked(outcome Outcome) {
	e.state = StateEnded
	e.outcome = outcome
	e.defending = false
	e.cancelPendingLocked()

	if (outcome == OutcomeVictory || outcome == OutcomeMercy) && e.enemy.ExpReward > 0 {
		e.levelsGained = e.progression.AddExp(e.enemy.ExpReward)
		e.progression.RecordBattleVictory()
		e.expGained = e.enemy.ExpReward
		e.appendLogLocked(fmt.Sprintf("Gained %d exp", e.expGained))
		if e.levelsGained > 0 {
			e.appendLogLocked(fmt.Sprintf("Level up! Now level %d", e.progression.GetProgress().Level))
		}
	}

	log.Printf("BattleEngine: %s ended in %s after %d rounds (exp %d, levels %d)",
		e.id, outcome, e.round, e.expGained, e.levelsGained)
}

func (e *Engine) publish(snap Snapshot, hooks []feedback.Hook) {
	for _, hook := range hooks {
		feedback.Fire(e.sink, hook)
	}
	e.bus.Emit(snap)
}
