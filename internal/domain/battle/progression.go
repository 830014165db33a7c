package battle

import (
	"github.com/KirkDiggler/blur-battle/internal/domain/progression"
)

// Progression is the part of the player's progression a battle reads and writes.
// *progression.Engine implements it.
type Progression interface {
	Player() progression.Stats
	GetProgress() progression.Progress
	AddExp(amount int) int
	TakeDamage(amount int) int
	Heal(amount int) int
	RestoreFullHealth()
	RecordDamageDealt(amount int)
	RecordBattleVictory()
	RecordBattleStarted()
}

var _ Progression = (*progression.Engine)(nil)
