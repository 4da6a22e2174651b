package dispatch

import (
	"fmt"

	"github.com/abkawan/banking-core/internal/audit"
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/events"
	"github.com/abkawan/banking-core/internal/ledger"
	"github.com/abkawan/banking-core/internal/models"
	"github.com/abkawan/banking-core/internal/plans"
)

// SendMoney transfers funds between accounts. The receiver may be an
// IBAN or an alias; the sender must be an IBAN. Insufficient funds is a
// soft failure on the sender's history.
type SendMoney struct {
	SenderIBAN  string
	Receiver    string
	Email       string
	Amount      float64
	Description string
}

func (SendMoney) Name() string { return OpSendMoney }

func (op SendMoney) Execute(ctx *Context) Result {
	if op.Amount <= 0 {
		return failure(errs.New(errs.InvalidArgument, "amount must be positive, got %v", op.Amount))
	}
	sender, err := ctx.Ledger.GetAccount(op.SenderIBAN)
	if err != nil {
		return failure(err)
	}
	receiver, err := ctx.Ledger.ResolveAccount(op.Receiver)
	if err != nil {
		return failure(err)
	}
	if sender.IBAN == receiver.IBAN {
		return failure(errs.New(errs.InvalidArgument, "cannot transfer to the same account"))
	}
	user, err := ctx.Ledger.GetUser(op.Email)
	if err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.ValidatePermission(sender, op.Email, ledger.PermSpend, op.Amount); err != nil {
		return failure(err)
	}

	amountRON, err := ctx.toReference(sender.Currency, op.Amount)
	if err != nil {
		return failure(err)
	}
	commission, err := ctx.Converter.Convert(plans.ReferenceCurrency, sender.Currency, plans.Commission(user.Plan, amountRON))
	if err != nil {
		return failure(err)
	}
	converted, err := ctx.Converter.Convert(sender.Currency, receiver.Currency, op.Amount)
	if err != nil {
		return failure(err)
	}

	if err := ctx.Ledger.RemoveFunds(sender.IBAN, op.Amount+commission); err != nil {
		ctx.Audit.Record(sender.IBAN, audit.Entry{
			Kind:        audit.KindTransfer,
			Status:      audit.StatusFailure,
			Description: op.Description,
			Error:       err.Error(),
			Details: audit.TransferDetails{
				SenderIBAN:   sender.IBAN,
				ReceiverIBAN: receiver.IBAN,
				Amount:       op.Amount,
				Currency:     sender.Currency,
				Direction:    "sent",
			},
		})
		return silentFailure(err)
	}
	if err := ctx.Ledger.AddFunds(receiver.IBAN, converted); err != nil {
		return failure(err)
	}

	ctx.Audit.Record(sender.IBAN, audit.Entry{
		Kind:        audit.KindTransfer,
		Status:      audit.StatusSuccess,
		Description: op.Description,
		Details: audit.TransferDetails{
			SenderIBAN:   sender.IBAN,
			ReceiverIBAN: receiver.IBAN,
			Amount:       op.Amount,
			Currency:     sender.Currency,
			Direction:    "sent",
		},
	})
	ctx.Audit.Record(receiver.IBAN, audit.Entry{
		Kind:        audit.KindTransfer,
		Status:      audit.StatusSuccess,
		Description: op.Description,
		Details: audit.TransferDetails{
			SenderIBAN:   sender.IBAN,
			ReceiverIBAN: receiver.IBAN,
			Amount:       converted,
			Currency:     receiver.Currency,
			Direction:    "received",
		},
	})

	ctx.Bus.Post(events.Transaction{
		SenderIBAN:   sender.IBAN,
		ReceiverIBAN: receiver.IBAN,
		Amount:       op.Amount,
		Currency:     sender.Currency,
	})
	return success(nil)
}

// CashWithdrawal takes RON out of an account through a card, with the
// plan commission on top. Shortfalls are soft failures.
type CashWithdrawal struct {
	CardNumber string
	Email      string
	Amount     float64 // RON
}

func (CashWithdrawal) Name() string { return OpCashWithdrawal }

func (op CashWithdrawal) Execute(ctx *Context) Result {
	if op.Amount <= 0 {
		return failure(errs.New(errs.InvalidArgument, "amount must be positive, got %v", op.Amount))
	}
	card, account, err := ctx.Ledger.GetCard(op.CardNumber)
	if err != nil {
		return failure(err)
	}
	user, err := ctx.Ledger.GetUser(op.Email)
	if err != nil {
		return failure(err)
	}
	if card.CreatorEmail != op.Email && account.OwnerEmail != op.Email {
		return failure(errs.New(errs.Unauthorized, "card %s does not belong to %s", op.CardNumber, op.Email))
	}

	softFail := func(reason error) Result {
		ctx.Audit.Record(account.IBAN, audit.Entry{
			Kind:        audit.KindCashWithdrawal,
			Status:      audit.StatusFailure,
			Description: "cash withdrawal refused",
			Error:       reason.Error(),
			Details:     audit.CashWithdrawalDetails{CardNumber: op.CardNumber, Amount: op.Amount},
		})
		return silentFailure(reason)
	}

	if card.Status != models.CardActive {
		return softFail(errs.New(errs.InvalidOperation, "the card is frozen"))
	}

	amount, err := ctx.Converter.Convert(plans.ReferenceCurrency, account.Currency, op.Amount)
	if err != nil {
		return failure(err)
	}
	commission, err := ctx.Converter.Convert(plans.ReferenceCurrency, account.Currency, plans.Commission(user.Plan, op.Amount))
	if err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.RemoveFunds(account.IBAN, amount+commission); err != nil {
		return softFail(err)
	}

	ctx.Audit.Record(account.IBAN, audit.Entry{
		Kind:        audit.KindCashWithdrawal,
		Status:      audit.StatusSuccess,
		Description: fmt.Sprintf("cash withdrawal of %.2f RON", op.Amount),
		Details:     audit.CashWithdrawalDetails{CardNumber: op.CardNumber, Amount: op.Amount, Commission: commission},
	})
	return success(nil)
}

// UpgradePlan moves the user to a higher service plan for a RON fee
// debited from the named account. Downgrades and unpayable fees are
// soft failures on the account's history.
type UpgradePlan struct {
	IBAN    string
	Email   string
	NewPlan models.PlanType
}

func (UpgradePlan) Name() string { return OpUpgradePlan }

func (op UpgradePlan) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	if account.OwnerEmail != op.Email {
		return failure(errs.New(errs.Unauthorized, "account %s is not owned by %s", op.IBAN, op.Email))
	}
	user, err := ctx.Ledger.GetUser(op.Email)
	if err != nil {
		return failure(err)
	}

	softFail := func(reason error) Result {
		ctx.Audit.Record(op.IBAN, audit.Entry{
			Kind:        audit.KindPlanUpgrade,
			Status:      audit.StatusFailure,
			Description: "plan upgrade refused",
			Error:       reason.Error(),
			Details:     audit.PlanUpgradeDetails{From: string(user.Plan), To: string(op.NewPlan)},
		})
		return silentFailure(reason)
	}

	fee, err := plans.UpgradeFee(user.Plan, op.NewPlan)
	if err != nil {
		return softFail(err)
	}
	feeConverted, err := ctx.Converter.Convert(plans.ReferenceCurrency, account.Currency, fee)
	if err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.RemoveFunds(op.IBAN, feeConverted); err != nil {
		return softFail(err)
	}

	previous := user.Plan
	user.Plan = op.NewPlan
	ctx.Audit.Record(op.IBAN, audit.Entry{
		Kind:        audit.KindPlanUpgrade,
		Status:      audit.StatusSuccess,
		Description: fmt.Sprintf("upgrade plan to %s", op.NewPlan),
		Details:     audit.PlanUpgradeDetails{From: string(previous), To: string(op.NewPlan), Fee: fee},
	})
	return success(nil)
}
