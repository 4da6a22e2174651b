package dispatch

import (
	"errors"

	"github.com/abkawan/banking-core/internal/audit"
	"github.com/abkawan/banking-core/internal/cashback"
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/events"
	"github.com/abkawan/banking-core/internal/exchange"
	"github.com/abkawan/banking-core/internal/ledger"
	"github.com/abkawan/banking-core/internal/plans"
	"github.com/abkawan/banking-core/internal/splitpay"
)

// Context bundles the collaborators an operation may touch. It is built
// once by the command layer and passed read-only into every Execute.
type Context struct {
	Ledger    *ledger.Ledger
	Converter *exchange.Converter
	Audit     *audit.Ledger
	Cashback  *cashback.Engine
	Splits    *splitpay.Coordinator
	Bus       *events.Bus
}

// toReference converts an amount into the reference currency used by
// commissions and cashback thresholds.
func (c *Context) toReference(currency string, amount float64) (float64, error) {
	return c.Converter.Convert(currency, plans.ReferenceCurrency, amount)
}

// Operation is a value object built by the command layer and executed
// exactly once.
type Operation interface {
	Name() string
	Execute(ctx *Context) Result
}

// Result is the normalized outcome of an operation: success with an
// optional payload, an error surfaced to the caller, or a silent error
// that only the audit trail may reveal.
type Result struct {
	Payload interface{}
	Err     error
	Silent  bool
}

func success(payload interface{}) Result {
	return Result{Payload: payload}
}

func failure(err error) Result {
	return Result{Err: err}
}

// silentFailure carries an error the command layer must not render as
// a user-facing failure.
func silentFailure(err error) Result {
	return Result{Err: err, Silent: true}
}

// operation names, doubling as the dispatcher allow-list keys
const (
	OpCreateAccount       = "create_account"
	OpDeleteAccount       = "delete_account"
	OpAddFunds            = "add_funds"
	OpSetMinBalance       = "set_min_balance"
	OpSetAlias            = "set_alias"
	OpChangeInterestRate  = "change_interest_rate"
	OpCollectInterest     = "collect_interest"
	OpWithdrawSavings     = "withdraw_savings"
	OpCreateCard          = "create_card"
	OpDeleteCard          = "delete_card"
	OpPayOnline           = "pay_online"
	OpSendMoney           = "send_money"
	OpCashWithdrawal      = "cash_withdrawal"
	OpUpgradePlan         = "upgrade_plan"
	OpRequestSplitPayment = "request_split_payment"
	OpConfirmSplitPayment = "confirm_split_payment"
	OpRejectSplitPayment  = "reject_split_payment"
	OpAddAssociate        = "add_business_associate"
	OpChangeSpendingLimit = "change_spending_limit"
	OpChangeDepositLimit  = "change_deposit_limit"
)

// Dispatcher guards execution behind an explicit allow-list so an
// operation constructed outside the command layer cannot run.
type Dispatcher struct {
	allowed map[string]bool
}

// creates a dispatcher allowing every wired operation
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{allowed: make(map[string]bool)}
	for _, name := range []string{
		OpCreateAccount, OpDeleteAccount, OpAddFunds, OpSetMinBalance,
		OpSetAlias, OpChangeInterestRate, OpCollectInterest,
		OpWithdrawSavings, OpCreateCard, OpDeleteCard, OpPayOnline,
		OpSendMoney, OpCashWithdrawal, OpUpgradePlan,
		OpRequestSplitPayment, OpConfirmSplitPayment,
		OpRejectSplitPayment, OpAddAssociate, OpChangeSpendingLimit,
		OpChangeDepositLimit,
	} {
		d.allowed[name] = true
	}
	return d
}

// Execute runs one operation. Unlisted operations fail Unauthorized;
// untyped failures from the body are wrapped as Internal; typed domain
// errors pass through unchanged.
func (d *Dispatcher) Execute(op Operation, ctx *Context) (result Result) {
	if !d.allowed[op.Name()] {
		return failure(errs.New(errs.Unauthorized, "operation %q is not allow-listed", op.Name()))
	}

	defer func() {
		if r := recover(); r != nil {
			result = failure(errs.New(errs.Internal, "operation %s panicked: %v", op.Name(), r))
		}
	}()

	result = op.Execute(ctx)
	if result.Err != nil {
		var domainErr *errs.Error
		if !errors.As(result.Err, &domainErr) {
			result.Err = errs.Wrap(errs.Internal, result.Err, "operation %s failed", op.Name())
		}
	}
	return result
}
