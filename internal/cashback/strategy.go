package cashback

import (
	"github.com/abkawan/banking-core/internal/models"
	"github.com/abkawan/banking-core/internal/plans"
)

// strategy produces at most one discount candidate per registered
// transaction. The merchant picks its strategy at registration time.
type strategy interface {
	candidate(e *Engine, m *models.Merchant, iban string, plan models.PlanType, amountRON float64) (Discount, bool)
}

var strategies = map[models.CashbackPlan]strategy{
	models.CashbackByCount:    countStrategy{},
	models.CashbackBySpending: spendingStrategy{},
}

// countStrategy grants a one-time deferred category discount when the
// per-(merchant, account) transaction count hits a threshold.
type countStrategy struct{}

var countThresholds = []struct {
	count    int
	percent  float64
	category models.MerchantCategory
}{
	{count: 2, percent: 2, category: models.CategoryFood},
	{count: 5, percent: 5, category: models.CategoryClothing},
	{count: 10, percent: 10, category: models.CategoryTech},
}

func (countStrategy) candidate(e *Engine, m *models.Merchant, iban string, plan models.PlanType, amountRON float64) (Discount, bool) {
	key := pairKey{merchant: m.Name, account: iban}
	e.counts[key]++
	for _, th := range countThresholds {
		if e.counts[key] == th.count {
			return Discount{
				Percent:  th.percent,
				Category: th.category,
				OneTime:  true,
			}, true
		}
	}
	return Discount{}, false
}

// spendingStrategy grants a recurring, unrestricted, immediately
// applicable discount once cumulative spending crosses a threshold; the
// percentage grows with the owner's plan tier and the threshold.
type spendingStrategy struct{}

var spendingThresholds = []struct {
	limit    float64
	percents [3]float64 // indexed by plans.Tier
}{
	{limit: 500, percents: [3]float64{0.25, 0.5, 0.7}},
	{limit: 300, percents: [3]float64{0.2, 0.4, 0.55}},
	{limit: 100, percents: [3]float64{0.1, 0.3, 0.5}},
}

func (spendingStrategy) candidate(e *Engine, m *models.Merchant, iban string, plan models.PlanType, amountRON float64) (Discount, bool) {
	key := pairKey{merchant: m.Name, account: iban}
	e.totals[key] += amountRON
	for _, th := range spendingThresholds {
		if e.totals[key] >= th.limit {
			return Discount{
				Percent:       th.percents[plans.Tier(plan)],
				ApplicableNow: true,
			}, true
		}
	}
	return Discount{}, false
}
