package roll

import (
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/pity"
)

// advance records one resolved unit on the progress counters.
func (c Config) advance(p *domain.RollProgress, produced domain.Rarity) {
	pity.Advance(p.Pity, produced)
	p.TotalRolls++

	if p.BoostedMode {
		p.BoostedRollsRemaining--
		if p.BoostedRollsRemaining <= 0 {
			p.BoostedMode = false
			p.BoostedRollsRemaining = 0
			p.BoostCharge = 0
		}
		return
	}

	p.BoostCharge++
	if p.BoostCharge >= c.BoostChargeThreshold {
		p.BoostedMode = true
		p.BoostedRollsRemaining = c.BoostedModeRolls
		p.BoostCharge = 0
	}
}

// cycleLuck is the boosted-mode multiplier for the next unit.
func (c Config) cycleLuck(p domain.RollProgress) float64 {
	if p.BoostedMode && p.BoostedRollsRemaining > 0 {
		return c.BoostedModeLuck
	}
	return 1
}

// payment splits count units into bonus-roll units and coin-paid units.
type payment struct {
	free int
	paid int
	cost int64
}

func (c Config) plan(count, bonusRolls int) payment {
	free := bonusRolls
	if free > count {
		free = count
	}
	if free < 0 {
		free = 0
	}
	paid := count - free
	return payment{free: free, paid: paid, cost: int64(paid) * c.Cost}
}

// refundFor returns the coins to refund when only credited of the planned units were
// delivered. Bonus rolls pay for the leading units, so the undelivered tail is coin-paid
// first; unspent bonus rolls stay in the progress snapshot of the last credited unit.
func (c Config) refundFor(p payment, credited int) int64 {
	shortfall := p.free + p.paid - credited
	if shortfall <= 0 {
		return 0
	}
	refundPaid := shortfall
	if refundPaid > p.paid {
		refundPaid = p.paid
	}
	return int64(refundPaid) * c.Cost
}
