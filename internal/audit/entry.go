package audit

import "time"

type EntryKind string

const (
	KindAccountCreated   EntryKind = "account_created"
	KindAccountDeleted   EntryKind = "account_deleted"
	KindCardCreated      EntryKind = "card_created"
	KindCardDeleted      EntryKind = "card_deleted"
	KindCardPayment      EntryKind = "card_payment"
	KindTransfer         EntryKind = "transfer"
	KindSplitPayment     EntryKind = "split_payment"
	KindInterestChanged  EntryKind = "interest_changed"
	KindInterestClaimed  EntryKind = "interest_claimed"
	KindSavingsWithdraw  EntryKind = "savings_withdrawal"
	KindPlanUpgrade      EntryKind = "plan_upgrade"
	KindCashWithdrawal   EntryKind = "cash_withdrawal"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Details is the kind-specific payload of an entry. Implementations
// hold plain values captured at log time, never live references, so a
// later query cannot observe post-hoc mutation.
type Details interface {
	EntryKind() EntryKind
}

// Entry is one audit record for one account.
type Entry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Kind        EntryKind `json:"kind"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	Error       string    `json:"error,omitempty"`
	Details     Details   `json:"details,omitempty"`
}

type CardPaymentDetails struct {
	CardNumber string  `json:"card"`
	Merchant   string  `json:"merchant"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Commission float64 `json:"commission"`
}

func (CardPaymentDetails) EntryKind() EntryKind { return KindCardPayment }

type TransferDetails struct {
	SenderIBAN   string  `json:"sender"`
	ReceiverIBAN string  `json:"receiver"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Direction    string  `json:"direction"`
}

func (TransferDetails) EntryKind() EntryKind { return KindTransfer }

type SplitPaymentDetails struct {
	PaymentID string  `json:"payment_id"`
	SplitType string  `json:"split_type"`
	Share     float64 `json:"share"`
	Total     float64 `json:"total"`
	Currency  string  `json:"currency"`
}

func (SplitPaymentDetails) EntryKind() EntryKind { return KindSplitPayment }

type CardDetails struct {
	CardNumber string `json:"card"`
	Holder     string `json:"holder"`
	OneTime    bool   `json:"one_time,omitempty"`
}

func (CardDetails) EntryKind() EntryKind { return KindCardCreated }

type InterestDetails struct {
	Rate   float64 `json:"rate,omitempty"`
	Amount float64 `json:"amount,omitempty"`
}

func (InterestDetails) EntryKind() EntryKind { return KindInterestClaimed }

type PlanUpgradeDetails struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Fee  float64 `json:"fee"`
}

func (PlanUpgradeDetails) EntryKind() EntryKind { return KindPlanUpgrade }

type CashWithdrawalDetails struct {
	CardNumber string  `json:"card"`
	Amount     float64 `json:"amount"`
	Commission float64 `json:"commission"`
}

func (CashWithdrawalDetails) EntryKind() EntryKind { return KindCashWithdrawal }

type SavingsWithdrawalDetails struct {
	TargetIBAN string  `json:"target"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

func (SavingsWithdrawalDetails) EntryKind() EntryKind { return KindSavingsWithdraw }
