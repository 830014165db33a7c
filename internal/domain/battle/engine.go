// Package battle is the turn-based combat state machine.
//
// An Engine starts on the player's turn. Each player action either ends the
// battle or hands the turn to the enemy, whose reply is scheduled after a
// pacing delay. Every change is published as a Snapshot to the engine's
// listeners before the call that caused it returns.
//
// Listeners run while the engine holds its delivery lock: they may read
// Snapshot or call Dispose, but must not call actions, ResetBattle or
// Subscribe synchronously.
package battle

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/blur-battle/internal/dice"
	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
	"github.com/KirkDiggler/blur-battle/internal/events"
	"github.com/KirkDiggler/blur-battle/internal/feedback"
	"github.com/KirkDiggler/blur-battle/internal/scheduler"
)

// EndHandler receives the outcome and final snapshot once a battle ends
type EndHandler func(outcome Outcome, final Snapshot)

// Config holds everything needed to start a battle
type Config struct {
	ID          string              // Optional, generated if empty
	Enemy       *entities.Enemy     // Required
	Progression Progression         // Required
	Roller      dice.Roller         // Optional, random if nil
	Scheduler   scheduler.Scheduler // Optional, wall-clock timer if nil
	PacingDelay time.Duration       // Delay before the enemy replies; zero replies as soon as the scheduler runs
	Feedback    feedback.Sink       // Optional
}

// Engine runs a single battle
type Engine struct {
	id          string
	progression Progression
	roller      dice.Roller
	scheduler   scheduler.Scheduler
	delay       time.Duration
	sink        feedback.Sink
	bus         *events.Bus[Snapshot]

	// deliverMu keeps snapshots delivered in the order their mutations happened
	deliverMu sync.Mutex
	mu        sync.Mutex

	enemy         entities.Enemy
	state         State
	outcome       Outcome
	round         int
	mercyEligible bool
	defending     bool
	lastAction    ActionResult
	expGained     int
	levelsGained  int
	combatLog     []string
	sequence      uint64

	turn     uint64
	pending  scheduler.Token
	disposed bool
	endFired bool
	onEnd    EndHandler
}

// NewEngine validates the enemy and starts a battle on the player's turn
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, battleerr.InvalidArgument("battle config is required")
	}
	if cfg.Progression == nil {
		return nil, battleerr.InvalidArgument("progression is required")
	}
	if err := cfg.Enemy.Validate(); err != nil {
		return nil, battleerr.Wrap(err, "malformed enemy descriptor")
	}

	e := &Engine{
		id:          cfg.ID,
		progression: cfg.Progression,
		roller:      cfg.Roller,
		scheduler:   cfg.Scheduler,
		delay:       cfg.PacingDelay,
		sink:        cfg.Feedback,
		enemy:       *cfg.Enemy,
		state:       StatePlayerTurn,
		round:       1,
		lastAction:  ActionResult{Action: ActionNone},
		sequence:    1,
	}

	if e.id == "" {
		e.id = fmt.Sprintf("battle-%d", time.Now().UnixNano())
	}
	if e.roller == nil {
		e.roller = dice.NewRandomRoller()
	}
	if e.scheduler == nil {
		e.scheduler = scheduler.NewTimer()
	}
	if e.delay < 0 {
		e.delay = 0
	}
	e.bus = events.NewBus[Snapshot]("BattleEngine[" + e.id + "]")

	e.progression.RecordBattleStarted()
	e.appendLogLocked(fmt.Sprintf("%s appears!", e.enemy.Name))

	log.Printf("BattleEngine: started %s against %s (hp %d, atk %d, def %d, exp %d)",
		e.id, e.enemy.Name, e.enemy.HP, e.enemy.Attack, e.enemy.Defense, e.enemy.ExpReward)

	return e, nil
}

// ID returns the battle ID
func (e *Engine) ID() string {
	return e.id
}

// Enemy returns a copy of the enemy as it is now
func (e *Engine) Enemy() entities.Enemy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enemy
}

// Snapshot returns the current state without notifying anyone
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers listener and immediately delivers the current snapshot to it.
// The returned function unsubscribes; it is safe to call more than once.
func (e *Engine) Subscribe(listener events.Listener[Snapshot]) (unsubscribe func()) {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()

	id := e.bus.Subscribe(listener)
	if id == "" {
		return func() {}
	}

	e.bus.Deliver(id, e.Snapshot())

	return func() { e.bus.Unsubscribe(id) }
}

// OnBattleEnd sets the terminal handler, replacing any previous one.
// If the battle already ended and no handler has run yet, it runs now.
func (e *Engine) OnBattleEnd(handler EndHandler) {
	e.mu.Lock()
	e.onEnd = handler
	ended := e.state == StateEnded
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if ended {
		e.fireEnd(snap)
	}
}

// ResetBattle replays the same enemy: both sides at full health, round 1, player's turn.
// A pending enemy reply is cancelled.
func (e *Engine) ResetBattle() error {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()

	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return battleerr.InvalidAction("reset", "disposed")
	}

	e.cancelPendingLocked()
	e.turn++
	e.enemy.HP = e.enemy.MaxHP
	e.state = StatePlayerTurn
	e.outcome = OutcomeNone
	e.round = 1
	e.mercyEligible = false
	e.defending = false
	e.lastAction = ActionResult{Action: ActionReset}
	e.expGained = 0
	e.levelsGained = 0
	e.endFired = false
	e.combatLog = nil
	e.progression.RestoreFullHealth()
	e.progression.RecordBattleStarted()
	e.appendLogLocked(fmt.Sprintf("%s appears again!", e.enemy.Name))
	snap := e.nextSnapshotLocked()
	e.mu.Unlock()

	log.Printf("BattleEngine: reset %s", e.id)
	e.bus.Emit(snap)
	return nil
}

// Dispose cancels any pending enemy reply and drops all listeners and the end handler.
// Safe to call more than once, including from a listener.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	e.cancelPendingLocked()
	e.onEnd = nil
	e.mu.Unlock()

	e.bus.Close()
	log.Printf("BattleEngine: disposed %s", e.id)
}

// IsDisposed reports whether Dispose has been called
func (e *Engine) IsDisposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

// nextSnapshotLocked records a mutation and returns the snapshot to publish
func (e *Engine) nextSnapshotLocked() Snapshot {
	e.sequence++
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	logCopy := make([]string, len(e.combatLog))
	copy(logCopy, e.combatLog)

	return Snapshot{
		BattleID:      e.id,
		Sequence:      e.sequence,
		Player:        e.progression.GetProgress(),
		Enemy:         e.enemy,
		Round:         e.round,
		State:         e.state,
		Outcome:       e.outcome,
		MercyEligible: e.mercyEligible,
		Defending:     e.defending,
		LastAction:    e.lastAction,
		ExpGained:     e.expGained,
		LevelsGained:  e.levelsGained,
		Log:           logCopy,
	}
}

func (e *Engine) appendLogLocked(entry string) {
	e.combatLog = append(e.combatLog, entry)
	if len(e.combatLog) > MaxLogEntries {
		e.combatLog = e.combatLog[len(e.combatLog)-MaxLogEntries:]
	}
}

func (e *Engine) cancelPendingLocked() {
	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}
}

// fireEnd runs the end handler at most once per battle
func (e *Engine) fireEnd(final Snapshot) {
	e.mu.Lock()
	handler := e.onEnd
	if e.endFired || handler == nil || e.disposed {
		e.mu.Unlock()
		return
	}
	e.endFired = true
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("BattleEngine: end handler for %s panicked: %v", e.id, r)
		}
	}()

	handler(final.Outcome, final)
}
