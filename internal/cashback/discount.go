package cashback

import "github.com/abkawan/banking-core/internal/models"

// Discount is a percentage rebate. A deferred discount (ApplicableNow
// false) waits in the pending set for a future transaction with a
// matching merchant category; an immediate one benefits the triggering
// transaction. One-time discounts move to the applied set once used so
// the same grant never repeats.
type Discount struct {
	Percent       float64
	Category      models.MerchantCategory // empty means unrestricted
	ApplicableNow bool
	OneTime       bool
}

// matches reports whether the discount applies to a merchant category.
func (d Discount) matches(category models.MerchantCategory) bool {
	return d.Category == "" || d.Category == category
}

// sameGrant identifies one-time discounts for the at-most-once rule.
func (d Discount) sameGrant(other Discount) bool {
	return d.Category == other.Category && d.Percent == other.Percent
}
