package models

import "time"

type SplitType string

const (
	SplitEqual  SplitType = "equal"
	SplitCustom SplitType = "custom"
)

// SplitPayment is one purchase divided across several accounts. Amounts
// is parallel to AccountIBANs and denominated in Currency. Confirmation
// state lives on the payment itself; the coordinator owns the indices.
type SplitPayment struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	AccountIBANs []string        `json:"accounts"`
	Amounts      []float64       `json:"amounts"`
	Currency     string          `json:"currency"`
	Type         SplitType       `json:"type"`
	Confirmed    map[string]bool `json:"-"`
	Remaining    int             `json:"-"`
}

// ShareOf returns the amount assigned to the given account.
func (p *SplitPayment) ShareOf(iban string) (float64, bool) {
	for i, acc := range p.AccountIBANs {
		if acc == iban {
			return p.Amounts[i], true
		}
	}
	return 0, false
}
