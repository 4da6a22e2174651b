package models

type MerchantCategory string

const (
	CategoryFood     MerchantCategory = "food"
	CategoryClothing MerchantCategory = "clothing"
	CategoryTech     MerchantCategory = "tech"
)

type CashbackPlan string

const (
	// CashbackByCount grants deferred category discounts at
	// transaction-count thresholds
	CashbackByCount CashbackPlan = "nr_of_transactions"

	// CashbackBySpending grants immediate tier discounts at cumulative
	// spending thresholds
	CashbackBySpending CashbackPlan = "spending_threshold"
)

// Merchant is a payment counterparty with a cashback strategy chosen at
// registration time.
type Merchant struct {
	Name     string           `json:"name"`
	ID       string           `json:"id"`
	IBAN     string           `json:"iban"`
	Category MerchantCategory `json:"category"`
	Cashback CashbackPlan     `json:"cashback"`
}
