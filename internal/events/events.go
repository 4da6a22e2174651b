package events

import "github.com/abkawan/banking-core/internal/models"

// Kind is the explicit event discriminant; dispatch never inspects
// runtime types.
type Kind string

const (
	KindTransaction  Kind = "transaction"
	KindSplitOutcome Kind = "split_payment_outcome"
)

// Event is anything the bus can carry.
type Event interface {
	EventKind() Kind
}

// Transaction is posted after a completed payment or transfer, while
// the triggering operation is still on the stack.
type Transaction struct {
	SenderIBAN   string
	ReceiverIBAN string
	Merchant     string
	Amount       float64
	Currency     string
}

func (Transaction) EventKind() Kind { return KindTransaction }

// SplitOutcome is posted exactly once per split payment, the instant it
// is fully confirmed or rejected.
type SplitOutcome struct {
	Payment  *models.SplitPayment
	Accepted bool
}

func (SplitOutcome) EventKind() Kind { return KindSplitOutcome }
