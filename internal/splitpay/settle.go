package splitpay

import (
	"fmt"

	"github.com/abkawan/banking-core/internal/audit"
	"github.com/abkawan/banking-core/internal/events"
	"github.com/abkawan/banking-core/internal/models"
)

// Funds is the slice of the account ledger the settler mutates.
type Funds interface {
	GetAccount(iban string) (*models.Account, error)
	RemoveFunds(iban string, amount float64) error
}

// Converter resolves shares into each account's own currency.
type Converter interface {
	Convert(from, to string, amount float64) (float64, error)
}

// Recorder receives the per-account audit entries.
type Recorder interface {
	Record(iban string, entry audit.Entry)
}

// Settler is the split-payment outcome handler. On acceptance it
// re-converts each share and debits all involved accounts, or none of
// them: a single short account voids the whole settlement and leaves an
// error annotation on every account's log entry.
type Settler struct {
	funds     Funds
	converter Converter
	auditLog  Recorder
}

func NewSettler(funds Funds, converter Converter, auditLog Recorder) *Settler {
	return &Settler{funds: funds, converter: converter, auditLog: auditLog}
}

// Handle implements events.Handler for split payment outcomes.
func (s *Settler) Handle(e events.Event) {
	outcome, ok := e.(events.SplitOutcome)
	if !ok {
		return
	}
	if outcome.Accepted {
		s.settle(outcome.Payment)
	} else {
		s.recordAll(outcome.Payment, audit.StatusFailure, "one participant rejected the split payment")
	}
}

func (s *Settler) settle(p *models.SplitPayment) {
	converted := make([]float64, len(p.AccountIBANs))
	var reason string
	for i, iban := range p.AccountIBANs {
		account, err := s.funds.GetAccount(iban)
		if err != nil {
			reason = err.Error()
			break
		}
		amount, err := s.converter.Convert(p.Currency, account.Currency, p.Amounts[i])
		if err != nil {
			reason = err.Error()
			break
		}
		converted[i] = amount
		if account.Balance-amount < account.MinBalance {
			reason = fmt.Sprintf("account %s has insufficient funds for the split payment", iban)
			break
		}
	}

	if reason != "" {
		s.recordAll(p, audit.StatusFailure, reason)
		return
	}

	for i, iban := range p.AccountIBANs {
		// the dry run above guarantees this cannot fail mid-way
		_ = s.funds.RemoveFunds(iban, converted[i])
	}
	s.recordAll(p, audit.StatusSuccess, "")
}

func (s *Settler) recordAll(p *models.SplitPayment, status audit.Status, errText string) {
	total := 0.0
	for _, amount := range p.Amounts {
		total += amount
	}
	for i, iban := range p.AccountIBANs {
		s.auditLog.Record(iban, audit.Entry{
			Timestamp:   p.Timestamp,
			Kind:        audit.KindSplitPayment,
			Status:      status,
			Description: fmt.Sprintf("split payment of %.2f %s", total, p.Currency),
			Error:       errText,
			Details: audit.SplitPaymentDetails{
				PaymentID: p.ID,
				SplitType: string(p.Type),
				Share:     p.Amounts[i],
				Total:     total,
				Currency:  p.Currency,
			},
		})
	}
}
