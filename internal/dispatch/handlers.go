package dispatch

import (
	"fmt"

	"github.com/abkawan/banking-core/internal/audit"
	"github.com/abkawan/banking-core/internal/cashback"
	"github.com/abkawan/banking-core/internal/events"
	"github.com/abkawan/banking-core/internal/exchange"
	"github.com/abkawan/banking-core/internal/ledger"
	"github.com/abkawan/banking-core/internal/models"
	"github.com/abkawan/banking-core/internal/plans"
	"github.com/abkawan/banking-core/internal/splitpay"
)

// NewContext wires a complete core: ledger, converter, audit trail,
// cashback engine, split coordinator and the event handlers that close
// the loop. The triggering operations never call the handlers directly.
func NewContext() *Context {
	bus := events.NewBus()
	l := ledger.NewLedger()
	converter := exchange.NewConverter()
	auditLog := audit.NewLedger()
	engine := cashback.NewEngine()

	ctx := &Context{
		Ledger:    l,
		Converter: converter,
		Audit:     auditLog,
		Cashback:  engine,
		Splits:    splitpay.NewCoordinator(l, bus),
		Bus:       bus,
	}
	bus.Subscribe(events.KindSplitOutcome, splitpay.NewSettler(l, converter, auditLog))
	bus.Subscribe(events.KindTransaction, &cashbackHandler{ctx: ctx})
	bus.Subscribe(events.KindTransaction, &planUpgradeHandler{ctx: ctx, largePayments: make(map[string]int)})
	return ctx
}

// cashbackHandler credits merchant cashback on the paying account while
// the payment operation is still on the stack.
type cashbackHandler struct {
	ctx *Context
}

func (h *cashbackHandler) Handle(e events.Event) {
	tx, ok := e.(events.Transaction)
	if !ok || tx.Merchant == "" {
		return
	}
	merchant, err := h.ctx.Ledger.GetMerchant(tx.Merchant)
	if err != nil {
		return
	}
	account, err := h.ctx.Ledger.GetAccount(tx.SenderIBAN)
	if err != nil {
		return
	}
	user, err := h.ctx.Ledger.GetUser(account.OwnerEmail)
	if err != nil {
		return
	}
	amountRON, err := h.ctx.toReference(tx.Currency, tx.Amount)
	if err != nil {
		return
	}
	percent, err := h.ctx.Cashback.RegisterTransaction(merchant, account.IBAN, user.Plan, amountRON)
	if err != nil || percent == 0 {
		return
	}
	_ = h.ctx.Ledger.AddFunds(account.IBAN, tx.Amount*percent/100)
}

// planUpgradeHandler counts large payments per silver user and upgrades
// them to gold at the threshold, free of charge.
type planUpgradeHandler struct {
	ctx           *Context
	largePayments map[string]int
}

func (h *planUpgradeHandler) Handle(e events.Event) {
	tx, ok := e.(events.Transaction)
	if !ok {
		return
	}
	account, err := h.ctx.Ledger.GetAccount(tx.SenderIBAN)
	if err != nil {
		return
	}
	user, err := h.ctx.Ledger.GetUser(account.OwnerEmail)
	if err != nil || user.Plan != models.PlanSilver {
		return
	}
	amountRON, err := h.ctx.toReference(tx.Currency, tx.Amount)
	if err != nil || amountRON < plans.AutoUpgradeMinAmount {
		return
	}

	h.largePayments[user.Email]++
	if h.largePayments[user.Email] < plans.AutoUpgradeThreshold {
		return
	}
	user.Plan = models.PlanGold
	h.ctx.Audit.Record(account.IBAN, audit.Entry{
		Kind:        audit.KindPlanUpgrade,
		Status:      audit.StatusSuccess,
		Description: fmt.Sprintf("upgrade plan to %s", models.PlanGold),
		Details:     audit.PlanUpgradeDetails{From: string(models.PlanSilver), To: string(models.PlanGold)},
	})
}
