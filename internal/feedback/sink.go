// Package feedback carries the fire-and-forget side effects (sounds, haptics)
// the battle engine triggers at fixed points of a fight.
package feedback

//go:generate mockgen -destination=mock/mock_sink.go -package=mockfeedback -source=sink.go

import (
	"log"
)

// Hook identifies the moment in a battle a side effect belongs to
type Hook string

const (
	HookAttack       Hook = "player.attack"
	HookDefend       Hook = "player.shield"
	HookUseItem      Hook = "player.heal"
	HookMercyAttempt Hook = "player.mercy"
	HookEnemyHit     Hook = "player.hit"
	HookEnemyDeath   Hook = "enemy.death"
	HookPlayerDeath  Hook = "player.death"
)

// AllHooks lists every hook the engine can trigger
var AllHooks = []Hook{
	HookAttack,
	HookDefend,
	HookUseItem,
	HookMercyAttempt,
	HookEnemyHit,
	HookEnemyDeath,
	HookPlayerDeath,
}

// Sink receives battle side effects
type Sink interface {
	Trigger(hook Hook) error
}

// Fire triggers hook on sink and swallows any error or panic.
// A failing sink never affects the caller.
func Fire(sink Sink, hook Hook) {
	if sink == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Feedback: sink panicked on %s: %v", hook, r)
		}
	}()

	if err := sink.Trigger(hook); err != nil {
		log.Printf("Feedback: sink failed on %s: %v", hook, err)
	}
}

// NopSink discards every hook
type NopSink struct{}

// Trigger implements Sink.Trigger
func (NopSink) Trigger(Hook) error { return nil }

// LogSink writes every hook to the standard logger
type LogSink struct {
	Prefix string
}

// Trigger implements Sink.Trigger
func (s *LogSink) Trigger(hook Hook) error {
	log.Printf("%s: %s", s.Prefix, hook)
	return nil
}
