package dispatch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abkawan/banking-core/internal/audit"
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/models"
)

type harness struct {
	ctx *Context
	d   *Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := NewContext()
	require.NoError(t, ctx.Converter.UpdateRate("RON", "EUR", 0.2))
	require.NoError(t, ctx.Converter.UpdateRate("EUR", "USD", 1.1))
	require.NoError(t, ctx.Ledger.RegisterUser(&models.User{
		FirstName: "Ana",
		LastName:  "Pop",
		Email:     "ana@example.com",
		BirthDate: time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
		Plan:      models.PlanStudent,
	}))
	require.NoError(t, ctx.Ledger.RegisterMerchant(&models.Merchant{
		Name:     "shop",
		Category: models.CategoryClothing,
		Cashback: models.CashbackBySpending,
	}))
	return &harness{ctx: ctx, d: NewDispatcher()}
}

// account creates a funded RON account for the given user.
func (h *harness) account(t *testing.T, email string, balance float64) *models.Account {
	t.Helper()
	res := h.d.Execute(CreateAccount{OwnerEmail: email, Currency: "RON", Type: models.Classic}, h.ctx)
	require.NoError(t, res.Err)
	account := res.Payload.(*models.Account)
	require.NoError(t, h.ctx.Ledger.AddFunds(account.IBAN, balance))
	return account
}

func (h *harness) card(t *testing.T, iban, email string, oneTime bool) *models.Card {
	t.Helper()
	res := h.d.Execute(CreateCard{IBAN: iban, Email: email, OneTime: oneTime}, h.ctx)
	require.NoError(t, res.Err)
	return res.Payload.(*models.Card)
}

type rogueOperation struct{}

func (rogueOperation) Name() string              { return "mint_money" }
func (rogueOperation) Execute(ctx *Context) Result { return success(nil) }

func TestDispatcherRejectsUnlistedOperations(t *testing.T) {
	h := newHarness(t)
	res := h.d.Execute(rogueOperation{}, h.ctx)
	require.Error(t, res.Err)
	assert.True(t, errs.IsKind(res.Err, errs.Unauthorized))
}

type faultyOperation struct{}

func (faultyOperation) Name() string { return OpAddFunds }
func (faultyOperation) Execute(ctx *Context) Result {
	return failure(errors.New("disk on fire"))
}

func TestDispatcherWrapsUntypedErrors(t *testing.T) {
	h := newHarness(t)
	res := h.d.Execute(faultyOperation{}, h.ctx)
	require.Error(t, res.Err)
	assert.Equal(t, errs.Internal, errs.KindOf(res.Err))
	assert.Contains(t, res.Err.Error(), "disk on fire")
}

type panicOperation struct{}

func (panicOperation) Name() string                { return OpAddFunds }
func (panicOperation) Execute(ctx *Context) Result { panic("boom") }

func TestDispatcherRecoversPanics(t *testing.T) {
	h := newHarness(t)
	res := h.d.Execute(panicOperation{}, h.ctx)
	require.Error(t, res.Err)
	assert.Equal(t, errs.Internal, errs.KindOf(res.Err))
}

func TestPayOnlineDebitsAndCreditsCashback(t *testing.T) {
	h := newHarness(t)
	account := h.account(t, "ana@example.com", 1000)
	card := h.card(t, account.IBAN, "ana@example.com", false)

	res := h.d.Execute(PayOnline{
		CardNumber: card.Number,
		Email:      "ana@example.com",
		Amount:     150,
		Currency:   "RON",
		Merchant:   "shop",
	}, h.ctx)
	require.NoError(t, res.Err)

	// student pays no commission; spending over 100 RON triggers the
	// 0.1% tier cashback, credited before the operation returned
	assert.InDelta(t, 1000-150+0.15, account.Balance, 1e-9)

	entries := h.ctx.Audit.QueryAll(account.IBAN)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, audit.KindCardPayment, last.Kind)
	assert.Equal(t, audit.StatusSuccess, last.Status)
}

func TestPayOnlineSoftFailures(t *testing.T) {
	h := newHarness(t)
	account := h.account(t, "ana@example.com", 100)
	card := h.card(t, account.IBAN, "ana@example.com", false)

	t.Run("insufficient_funds", func(t *testing.T) {
		res := h.d.Execute(PayOnline{
			CardNumber: card.Number,
			Email:      "ana@example.com",
			Amount:     500,
			Currency:   "RON",
			Merchant:   "shop",
		}, h.ctx)
		require.Error(t, res.Err)
		assert.True(t, res.Silent, "the caller must not see this failure")
		assert.Equal(t, 100.0, account.Balance)

		entries := h.ctx.Audit.QueryAll(account.IBAN)
		last := entries[len(entries)-1]
		assert.Equal(t, audit.StatusFailure, last.Status)
		assert.NotEmpty(t, last.Error)
	})

	t.Run("frozen_card", func(t *testing.T) {
		require.NoError(t, h.ctx.Ledger.SetCardStatus(card.Number, models.CardFrozen))
		res := h.d.Execute(PayOnline{
			CardNumber: card.Number,
			Email:      "ana@example.com",
			Amount:     10,
			Currency:   "RON",
			Merchant:   "shop",
		}, h.ctx)
		require.Error(t, res.Err)
		assert.True(t, res.Silent)
	})

	t.Run("unknown_card_is_a_hard_error", func(t *testing.T) {
		res := h.d.Execute(PayOnline{
			CardNumber: "0000111122223333",
			Email:      "ana@example.com",
			Amount:     10,
			Currency:   "RON",
			Merchant:   "shop",
		}, h.ctx)
		require.Error(t, res.Err)
		assert.False(t, res.Silent)
		assert.True(t, errs.IsKind(res.Err, errs.NotFound))
	})
}

func TestPayOnlineRegeneratesOneTimeCard(t *testing.T) {
	h := newHarness(t)
	account := h.account(t, "ana@example.com", 1000)
	card := h.card(t, account.IBAN, "ana@example.com", true)
	original := card.Number

	res := h.d.Execute(PayOnline{
		CardNumber: original,
		Email:      "ana@example.com",
		Amount:     50,
		Currency:   "RON",
		Merchant:   "shop",
	}, h.ctx)
	require.NoError(t, res.Err)

	assert.False(t, account.HasCard(original))
	assert.Len(t, account.Cards, 1)
}

func TestSendMoneyResolvesAliasAndConverts(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctx.Ledger.RegisterUser(&models.User{Email: "bob@example.com", Plan: models.PlanStandard}))
	sender := h.account(t, "ana@example.com", 1000)

	res := h.d.Execute(CreateAccount{OwnerEmail: "bob@example.com", Currency: "EUR"}, h.ctx)
	require.Error(t, res.Err, "account type is required")

	res = h.d.Execute(CreateAccount{OwnerEmail: "bob@example.com", Currency: "EUR", Type: models.Classic}, h.ctx)
	require.NoError(t, res.Err)
	receiver := res.Payload.(*models.Account)
	require.NoError(t, h.d.Execute(SetAlias{IBAN: receiver.IBAN, Email: "bob@example.com", Alias: "bob-eur"}, h.ctx).Err)

	res = h.d.Execute(SendMoney{
		SenderIBAN:  sender.IBAN,
		Receiver:    "bob-eur",
		Email:       "ana@example.com",
		Amount:      100,
		Description: "rent",
	}, h.ctx)
	require.NoError(t, res.Err)

	assert.InDelta(t, 900.0, sender.Balance, 1e-9, "student pays no commission")
	assert.InDelta(t, 20.0, receiver.Balance, 1e-9, "100 RON arrives as 20 EUR")

	sent := h.ctx.Audit.QueryAll(sender.IBAN)
	received := h.ctx.Audit.QueryAll(receiver.IBAN)
	assert.Equal(t, audit.KindTransfer, sent[len(sent)-1].Kind)
	assert.Equal(t, audit.KindTransfer, received[len(received)-1].Kind)
}

func TestSendMoneyInsufficientFundsIsSilent(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctx.Ledger.RegisterUser(&models.User{Email: "bob@example.com", Plan: models.PlanStandard}))
	sender := h.account(t, "ana@example.com", 50)
	receiver := h.account(t, "bob@example.com", 0)

	res := h.d.Execute(SendMoney{
		SenderIBAN: sender.IBAN,
		Receiver:   receiver.IBAN,
		Email:      "ana@example.com",
		Amount:     100,
	}, h.ctx)
	require.Error(t, res.Err)
	assert.True(t, res.Silent)
	assert.Equal(t, 50.0, sender.Balance)
	assert.Equal(t, 0.0, receiver.Balance)

	entries := h.ctx.Audit.QueryAll(sender.IBAN)
	assert.Equal(t, audit.StatusFailure, entries[len(entries)-1].Status)
}

func TestCommissionByPlan(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctx.Ledger.RegisterUser(&models.User{Email: "std@example.com", Plan: models.PlanStandard}))
	require.NoError(t, h.ctx.Ledger.RegisterUser(&models.User{Email: "sink@example.com", Plan: models.PlanStandard}))
	sender := h.account(t, "std@example.com", 1000)
	receiver := h.account(t, "sink@example.com", 0)

	res := h.d.Execute(SendMoney{
		SenderIBAN: sender.IBAN,
		Receiver:   receiver.IBAN,
		Email:      "std@example.com",
		Amount:     100,
	}, h.ctx)
	require.NoError(t, res.Err)
	assert.InDelta(t, 1000-100-0.2, sender.Balance, 1e-9, "standard plan pays 0.2%")
}

func TestCashWithdrawal(t *testing.T) {
	h := newHarness(t)
	account := h.account(t, "ana@example.com", 1000)
	card := h.card(t, account.IBAN, "ana@example.com", false)

	res := h.d.Execute(CashWithdrawal{CardNumber: card.Number, Email: "ana@example.com", Amount: 200}, h.ctx)
	require.NoError(t, res.Err)
	assert.InDelta(t, 800.0, account.Balance, 1e-9)

	res = h.d.Execute(CashWithdrawal{CardNumber: card.Number, Email: "ana@example.com", Amount: 5000}, h.ctx)
	require.Error(t, res.Err)
	assert.True(t, res.Silent)
	assert.InDelta(t, 800.0, account.Balance, 1e-9)
}

func TestUpgradePlan(t *testing.T) {
	h := newHarness(t)
	account := h.account(t, "ana@example.com", 1000)
	user, err := h.ctx.Ledger.GetUser("ana@example.com")
	require.NoError(t, err)

	res := h.d.Execute(UpgradePlan{IBAN: account.IBAN, Email: "ana@example.com", NewPlan: models.PlanSilver}, h.ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, models.PlanSilver, user.Plan)
	assert.InDelta(t, 900.0, account.Balance, 1e-9, "100 RON silver fee")

	// downgrades are recorded but never surfaced
	res = h.d.Execute(UpgradePlan{IBAN: account.IBAN, Email: "ana@example.com", NewPlan: models.PlanStandard}, h.ctx)
	require.Error(t, res.Err)
	assert.True(t, res.Silent)
	assert.Equal(t, models.PlanSilver, user.Plan)
}

func TestAutomaticSilverToGoldUpgrade(t *testing.T) {
	h := newHarness(t)
	account := h.account(t, "ana@example.com", 10000)
	card := h.card(t, account.IBAN, "ana@example.com", false)
	user, err := h.ctx.Ledger.GetUser("ana@example.com")
	require.NoError(t, err)
	user.Plan = models.PlanSilver

	for i := 0; i < 5; i++ {
		res := h.d.Execute(PayOnline{
			CardNumber: card.Number,
			Email:      "ana@example.com",
			Amount:     400,
			Currency:   "RON",
			Merchant:   "shop",
		}, h.ctx)
		require.NoError(t, res.Err)
	}
	assert.Equal(t, models.PlanGold, user.Plan, "five payments of 300+ RON upgrade silver to gold")
}

func TestWithdrawSavingsAgeGate(t *testing.T) {
	h := newHarness(t)
	res := h.d.Execute(CreateAccount{
		OwnerEmail:   "ana@example.com",
		Currency:     "RON",
		Type:         models.Savings,
		InterestRate: 0.05,
	}, h.ctx)
	require.NoError(t, res.Err)
	savings := res.Payload.(*models.Account)
	require.NoError(t, h.ctx.Ledger.AddFunds(savings.IBAN, 500))
	classic := h.account(t, "ana@example.com", 0)

	restore := timeNow
	defer func() { timeNow = restore }()

	// under 21: refused, but only the audit trail knows
	timeNow = func() time.Time { return time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC) }
	res = h.d.Execute(WithdrawSavings{
		IBAN:       savings.IBAN,
		TargetIBAN: classic.IBAN,
		Email:      "ana@example.com",
		Amount:     100,
	}, h.ctx)
	require.Error(t, res.Err)
	assert.True(t, res.Silent)
	assert.Equal(t, 500.0, savings.Balance)

	timeNow = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	res = h.d.Execute(WithdrawSavings{
		IBAN:       savings.IBAN,
		TargetIBAN: classic.IBAN,
		Email:      "ana@example.com",
		Amount:     100,
	}, h.ctx)
	require.NoError(t, res.Err)
	assert.InDelta(t, 400.0, savings.Balance, 1e-9)
	assert.InDelta(t, 100.0, classic.Balance, 1e-9)
}

func TestBusinessLimitsThroughOperations(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctx.Ledger.RegisterUser(&models.User{Email: "emp@example.com", Plan: models.PlanStandard}))

	res := h.d.Execute(CreateAccount{OwnerEmail: "ana@example.com", Currency: "RON", Type: models.Business}, h.ctx)
	require.NoError(t, res.Err)
	account := res.Payload.(*models.Account)
	require.NoError(t, h.ctx.Ledger.AddFunds(account.IBAN, 10000))

	res = h.d.Execute(AddBusinessAssociate{
		IBAN:  account.IBAN,
		Email: "ana@example.com",
		New:   "emp@example.com",
		Role:  models.RoleEmployee,
	}, h.ctx)
	require.NoError(t, res.Err)

	// the employee's card payment above the spending limit is refused
	card := h.card(t, account.IBAN, "emp@example.com", false)
	res = h.d.Execute(PayOnline{
		CardNumber: card.Number,
		Email:      "emp@example.com",
		Amount:     600,
		Currency:   "RON",
		Merchant:   "shop",
	}, h.ctx)
	require.Error(t, res.Err)
	assert.True(t, errs.IsKind(res.Err, errs.Unauthorized))

	res = h.d.Execute(ChangeSpendingLimit{IBAN: account.IBAN, Email: "ana@example.com", Amount: 1000}, h.ctx)
	require.NoError(t, res.Err)

	res = h.d.Execute(PayOnline{
		CardNumber: card.Number,
		Email:      "emp@example.com",
		Amount:     600,
		Currency:   "RON",
		Merchant:   "shop",
	}, h.ctx)
	require.NoError(t, res.Err)
}
