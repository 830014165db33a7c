package battle

import (
	"math"
	"time"
)

// DefaultPacingDelay is how long the enemy waits before replying
const DefaultPacingDelay = 500 * time.Millisecond

// Player attack
const (
	AttackMinMultiplier = 0.6
	AttackMaxMultiplier = 1.3
	CritChance          = 0.08
	CritMultiplier      = 1.7
)

// Items
const (
	HealMin = 8
	HealMax = 28
)

// Enemy attack. Mitigation multipliers are in tenths so defending (2.2x) stays exact.
const (
	EnemyMinMultiplier     = 0.6
	EnemyMaxMultiplier     = 1.3
	NormalMitigationTenths = 10
	DefendMitigationTenths = 22
)

// Mercy becomes available below this share of enemy hp, or after this many rounds
const (
	MercyHPPercent      = 10
	MercyRoundThreshold = 8
)

// PlayerAttackDamage is floor(max(1, attack*multiplier*crit - enemyDefense))
func PlayerAttackDamage(attack, enemyDefense int, multiplier float64, crit bool) int {
	damage := float64(attack) * multiplier
	if crit {
		damage *= CritMultiplier
	}
	damage -= float64(enemyDefense)
	return int(math.Floor(math.Max(1, damage)))
}

// EnemyRawDamage is floor(multiplier*attack)
func EnemyRawDamage(attack int, multiplier float64) int {
	return int(math.Floor(multiplier * float64(attack)))
}

// Mitigation is the damage absorbed by defense, rounded up to a whole point.
// Rounding up makes raw-Mitigation equal floor(raw - defense*multiplier).
func Mitigation(defense int, defending bool) int {
	if defense <= 0 {
		return 0
	}

	tenths := NormalMitigationTenths
	if defending {
		tenths = DefendMitigationTenths
	}
	return (defense*tenths + 9) / 10
}

// EnemyDamage is max(1, raw - mitigation)
func EnemyDamage(raw, defense int, defending bool) int {
	return max(1, raw-Mitigation(defense, defending))
}

// MercyEligible reports whether the enemy can be spared
func MercyEligible(enemyHP, enemyMaxHP, round int) bool {
	return enemyHP*100 < enemyMaxHP*MercyHPPercent || round > MercyRoundThreshold
}
