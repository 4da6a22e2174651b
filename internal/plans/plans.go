// Package plans holds the service-plan fee tables. Plans are stateless
// lookups, not objects: every function is pure over immutable data.
package plans

import (
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/models"
)

// ReferenceCurrency is the currency commissions and fees are quoted in.
const ReferenceCurrency = "RON"

// tier orders plans for upgrade checks; standard and student share the
// bottom tier.
var tier = map[models.PlanType]int{
	models.PlanStandard: 0,
	models.PlanStudent:  0,
	models.PlanSilver:   1,
	models.PlanGold:     2,
}

// upgradeFees maps current plan -> target plan -> fee in RON.
var upgradeFees = map[models.PlanType]map[models.PlanType]float64{
	models.PlanStandard: {models.PlanSilver: 100, models.PlanGold: 350},
	models.PlanStudent:  {models.PlanSilver: 100, models.PlanGold: 350},
	models.PlanSilver:   {models.PlanGold: 250},
}

// Commission returns the fee charged on top of a debit, computed over
// the RON-converted amount. Silver pays 0.1% only from 500 RON up.
func Commission(plan models.PlanType, amountRON float64) float64 {
	switch plan {
	case models.PlanStandard:
		return amountRON * 0.002
	case models.PlanSilver:
		if amountRON >= 500 {
			return amountRON * 0.001
		}
	}
	return 0
}

// Tier returns the plan's cashback tier, bottom first.
func Tier(plan models.PlanType) int {
	return tier[plan]
}

// UpgradeFee returns the RON fee for moving between plans. Downgrades
// and same-tier moves are InvalidArgument.
func UpgradeFee(from, to models.PlanType) (float64, error) {
	if _, ok := tier[to]; !ok {
		return 0, errs.New(errs.InvalidArgument, "unknown plan %q", to)
	}
	if tier[to] <= tier[from] {
		return 0, errs.New(errs.InvalidArgument, "cannot downgrade from %s to %s", from, to)
	}
	return upgradeFees[from][to], nil
}

// AutoUpgradeThreshold is the silver->gold rule: this many card
// payments of at least AutoUpgradeMinAmount RON trigger a free upgrade.
const (
	AutoUpgradeThreshold = 5
	AutoUpgradeMinAmount = 300.0
)
