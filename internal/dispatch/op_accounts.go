package dispatch

import (
	"fmt"

	"github.com/abkawan/banking-core/internal/audit"
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/ledger"
	"github.com/abkawan/banking-core/internal/models"
)

// CreateAccount allocates an account for an existing user.
type CreateAccount struct {
	OwnerEmail   string
	Currency     string
	Type         models.AccountType
	InterestRate float64
}

func (CreateAccount) Name() string { return OpCreateAccount }

func (op CreateAccount) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.CreateAccount(op.OwnerEmail, op.Currency, op.Type, op.InterestRate)
	if err != nil {
		return failure(err)
	}
	ctx.Audit.Record(account.IBAN, audit.Entry{
		Kind:        audit.KindAccountCreated,
		Status:      audit.StatusSuccess,
		Description: fmt.Sprintf("new %s account in %s", account.Type, account.Currency),
	})
	return success(account)
}

// DeleteAccount removes an account owned by the caller; the balance
// must be zero. The refusal is a hard error and also lands in the
// account's own history.
type DeleteAccount struct {
	IBAN  string
	Email string
}

func (DeleteAccount) Name() string { return OpDeleteAccount }

func (op DeleteAccount) Execute(ctx *Context) Result {
	if err := ctx.Ledger.DeleteAccount(op.IBAN, op.Email); err != nil {
		if errs.IsKind(err, errs.InvalidOperation) {
			ctx.Audit.Record(op.IBAN, audit.Entry{
				Kind:        audit.KindAccountDeleted,
				Status:      audit.StatusFailure,
				Description: "account could not be deleted",
				Error:       err.Error(),
			})
		}
		return failure(err)
	}
	ctx.Audit.Record(op.IBAN, audit.Entry{
		Kind:        audit.KindAccountDeleted,
		Status:      audit.StatusSuccess,
		Description: "account deleted",
	})
	return success(nil)
}

// AddFunds credits an account; on business accounts the caller's role
// deposit limit applies.
type AddFunds struct {
	IBAN   string
	Email  string
	Amount float64
}

func (AddFunds) Name() string { return OpAddFunds }

func (op AddFunds) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.ValidatePermission(account, op.Email, ledger.PermDeposit, op.Amount); err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.AddFunds(op.IBAN, op.Amount); err != nil {
		return failure(err)
	}
	return success(nil)
}

// SetMinBalance sets the account's balance floor; owner only.
type SetMinBalance struct {
	IBAN   string
	Email  string
	Amount float64
}

func (SetMinBalance) Name() string { return OpSetMinBalance }

func (op SetMinBalance) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	if account.OwnerEmail != op.Email {
		return failure(errs.New(errs.Unauthorized, "account %s is not owned by %s", op.IBAN, op.Email))
	}
	if err := ctx.Ledger.SetMinBalance(op.IBAN, op.Amount); err != nil {
		return failure(err)
	}
	return success(nil)
}

// SetAlias registers a secondary lookup key for the account.
type SetAlias struct {
	IBAN  string
	Email string
	Alias string
}

func (SetAlias) Name() string { return OpSetAlias }

func (op SetAlias) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	if account.OwnerEmail != op.Email {
		return failure(errs.New(errs.Unauthorized, "account %s is not owned by %s", op.IBAN, op.Email))
	}
	if err := ctx.Ledger.RegisterAlias(op.IBAN, op.Alias); err != nil {
		return failure(err)
	}
	return success(nil)
}

// ChangeInterestRate updates a savings account's rate.
type ChangeInterestRate struct {
	IBAN  string
	Email string
	Rate  float64
}

func (ChangeInterestRate) Name() string { return OpChangeInterestRate }

func (op ChangeInterestRate) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	if account.OwnerEmail != op.Email {
		return failure(errs.New(errs.Unauthorized, "account %s is not owned by %s", op.IBAN, op.Email))
	}
	if err := ctx.Ledger.ChangeInterestRate(op.IBAN, op.Rate); err != nil {
		return failure(err)
	}
	ctx.Audit.Record(op.IBAN, audit.Entry{
		Kind:        audit.KindInterestChanged,
		Status:      audit.StatusSuccess,
		Description: fmt.Sprintf("interest rate of the account changed to %v", op.Rate),
		Details:     audit.InterestDetails{Rate: op.Rate},
	})
	return success(nil)
}

// CollectInterest credits accrued interest on a savings account.
type CollectInterest struct {
	IBAN  string
	Email string
}

func (CollectInterest) Name() string { return OpCollectInterest }

func (op CollectInterest) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	if account.OwnerEmail != op.Email {
		return failure(errs.New(errs.Unauthorized, "account %s is not owned by %s", op.IBAN, op.Email))
	}
	interest, err := ctx.Ledger.CollectInterest(op.IBAN)
	if err != nil {
		return failure(err)
	}
	ctx.Audit.Record(op.IBAN, audit.Entry{
		Kind:        audit.KindInterestClaimed,
		Status:      audit.StatusSuccess,
		Description: fmt.Sprintf("interest of %.2f %s claimed", interest, account.Currency),
		Details:     audit.InterestDetails{Rate: account.InterestRate, Amount: interest},
	})
	return success(interest)
}

// WithdrawSavings moves funds from a savings account into a classic
// account of the same owner. Failed checks write a failure entry and
// report success to the caller.
type WithdrawSavings struct {
	IBAN       string
	TargetIBAN string
	Email      string
	Amount     float64
}

func (WithdrawSavings) Name() string { return OpWithdrawSavings }

func (op WithdrawSavings) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	target, err := ctx.Ledger.GetAccount(op.TargetIBAN)
	if err != nil {
		return failure(err)
	}
	user, err := ctx.Ledger.GetUser(op.Email)
	if err != nil {
		return failure(err)
	}

	softFail := func(reason error) Result {
		ctx.Audit.Record(op.IBAN, audit.Entry{
			Kind:        audit.KindSavingsWithdraw,
			Status:      audit.StatusFailure,
			Description: "savings withdrawal refused",
			Error:       reason.Error(),
		})
		return silentFailure(reason)
	}

	if account.OwnerEmail != op.Email || target.OwnerEmail != op.Email {
		return failure(errs.New(errs.Unauthorized, "both accounts must belong to %s", op.Email))
	}
	if account.Type != models.Savings {
		return softFail(errs.New(errs.InvalidOperation, "account %s is not a savings account", op.IBAN))
	}
	if target.Type != models.Classic {
		return softFail(errs.New(errs.InvalidOperation, "account %s is not a classic account", op.TargetIBAN))
	}
	if user.AgeAt(timeNow()) < minimumSavingsAge {
		return softFail(errs.New(errs.Unauthorized, "minimum age of %d not met", minimumSavingsAge))
	}

	converted, err := ctx.Converter.Convert(account.Currency, target.Currency, op.Amount)
	if err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.RemoveFunds(op.IBAN, op.Amount); err != nil {
		return softFail(err)
	}
	if err := ctx.Ledger.AddFunds(op.TargetIBAN, converted); err != nil {
		return failure(err)
	}

	ctx.Audit.Record(op.IBAN, audit.Entry{
		Kind:        audit.KindSavingsWithdraw,
		Status:      audit.StatusSuccess,
		Description: fmt.Sprintf("savings withdrawal of %.2f %s", op.Amount, account.Currency),
		Details: audit.SavingsWithdrawalDetails{
			TargetIBAN: op.TargetIBAN,
			Amount:     op.Amount,
			Currency:   account.Currency,
		},
	})
	return success(nil)
}
