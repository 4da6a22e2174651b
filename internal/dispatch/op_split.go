package dispatch

import (
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/models"
)

// RequestSplitPayment registers a payment divided across several
// accounts. Equal splits derive the shares from the total; custom
// splits take them verbatim.
type RequestSplitPayment struct {
	AccountIBANs []string
	Amounts      []float64
	Total        float64
	Currency     string
	Type         models.SplitType
}

func (RequestSplitPayment) Name() string { return OpRequestSplitPayment }

func (op RequestSplitPayment) Execute(ctx *Context) Result {
	amounts := op.Amounts
	if op.Type == models.SplitEqual {
		if len(op.AccountIBANs) == 0 {
			return failure(errs.New(errs.InvalidArgument, "split payment involves no accounts"))
		}
		share := op.Total / float64(len(op.AccountIBANs))
		amounts = make([]float64, len(op.AccountIBANs))
		for i := range amounts {
			amounts[i] = share
		}
	}
	payment := &models.SplitPayment{
		AccountIBANs: op.AccountIBANs,
		Amounts:      amounts,
		Currency:     op.Currency,
		Type:         op.Type,
	}
	if err := ctx.Splits.RegisterPayment(payment); err != nil {
		return failure(err)
	}
	return success(payment)
}

// ConfirmSplitPayment confirms the caller's oldest pending payment of
// the given type.
type ConfirmSplitPayment struct {
	Email string
	Type  models.SplitType
}

func (ConfirmSplitPayment) Name() string { return OpConfirmSplitPayment }

func (op ConfirmSplitPayment) Execute(ctx *Context) Result {
	if err := ctx.Splits.ConfirmPayment(op.Email, op.Type); err != nil {
		return failure(err)
	}
	return success(nil)
}

// RejectSplitPayment rejects the caller's oldest pending payment of the
// given type.
type RejectSplitPayment struct {
	Email string
	Type  models.SplitType
}

func (RejectSplitPayment) Name() string { return OpRejectSplitPayment }

func (op RejectSplitPayment) Execute(ctx *Context) Result {
	if err := ctx.Splits.RejectPayment(op.Email, op.Type); err != nil {
		return failure(err)
	}
	return success(nil)
}
