package dispatch

import (
	"github.com/abkawan/banking-core/internal/ledger"
	"github.com/abkawan/banking-core/internal/models"
)

// AddBusinessAssociate grants a user a role on a business account.
type AddBusinessAssociate struct {
	IBAN  string
	Email string // acting user
	New   string // associate email
	Role  models.BusinessRole
}

func (AddBusinessAssociate) Name() string { return OpAddAssociate }

func (op AddBusinessAssociate) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.ValidatePermission(account, op.Email, ledger.PermAddAssociate, 0); err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.AddAssociate(op.IBAN, op.New, op.Role); err != nil {
		return failure(err)
	}
	return success(nil)
}

// ChangeSpendingLimit updates the employee spending cap; owner only.
type ChangeSpendingLimit struct {
	IBAN   string
	Email  string
	Amount float64
}

func (ChangeSpendingLimit) Name() string { return OpChangeSpendingLimit }

func (op ChangeSpendingLimit) Execute(ctx *Context) Result {
	if err := ctx.Ledger.ChangeBusinessLimit(op.IBAN, op.Email, ledger.PermSpend, op.Amount); err != nil {
		return failure(err)
	}
	return success(nil)
}

// ChangeDepositLimit updates the employee deposit cap; owner only.
type ChangeDepositLimit struct {
	IBAN   string
	Email  string
	Amount float64
}

func (ChangeDepositLimit) Name() string { return OpChangeDepositLimit }

func (op ChangeDepositLimit) Execute(ctx *Context) Result {
	if err := ctx.Ledger.ChangeBusinessLimit(op.IBAN, op.Email, ledger.PermDeposit, op.Amount); err != nil {
		return failure(err)
	}
	return success(nil)
}
