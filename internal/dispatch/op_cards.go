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

// CreateCard links a new card to an account.
type CreateCard struct {
	IBAN    string
	Email   string
	OneTime bool
}

func (CreateCard) Name() string { return OpCreateCard }

func (op CreateCard) Execute(ctx *Context) Result {
	account, err := ctx.Ledger.GetAccount(op.IBAN)
	if err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.ValidatePermission(account, op.Email, ledger.PermManageCards, 0); err != nil {
		return failure(err)
	}
	card, err := ctx.Ledger.CreateCard(op.IBAN, op.Email, op.OneTime)
	if err != nil {
		return failure(err)
	}
	ctx.Audit.Record(op.IBAN, audit.Entry{
		Kind:        audit.KindCardCreated,
		Status:      audit.StatusSuccess,
		Description: "new card created",
		Details:     audit.CardDetails{CardNumber: card.Number, Holder: op.Email, OneTime: op.OneTime},
	})
	return success(card)
}

// DeleteCard unlinks a card; allowed for its creator or the account
// owner.
type DeleteCard struct {
	Number string
	Email  string
}

func (DeleteCard) Name() string { return OpDeleteCard }

func (op DeleteCard) Execute(ctx *Context) Result {
	card, account, err := ctx.Ledger.GetCard(op.Number)
	if err != nil {
		return failure(err)
	}
	if card.CreatorEmail != op.Email && account.OwnerEmail != op.Email {
		return failure(errs.New(errs.Unauthorized, "card %s was not created by %s", op.Number, op.Email))
	}
	if err := ctx.Ledger.DeleteCard(op.Number); err != nil {
		return failure(err)
	}
	ctx.Audit.Record(account.IBAN, audit.Entry{
		Kind:        audit.KindCardDeleted,
		Status:      audit.StatusSuccess,
		Description: "the card has been destroyed",
		Details:     audit.CardDetails{CardNumber: op.Number, Holder: op.Email},
	})
	return success(nil)
}

// PayOnline is a card payment to a merchant: conversion, plan
// commission, cashback and plan-upgrade side effects through the bus,
// and one-time card regeneration. Insufficient funds and frozen cards
// are soft failures.
type PayOnline struct {
	CardNumber string
	Email      string
	Amount     float64
	Currency   string
	Merchant   string
}

func (PayOnline) Name() string { return OpPayOnline }

func (op PayOnline) Execute(ctx *Context) Result {
	if op.Amount <= 0 {
		return failure(errs.New(errs.InvalidArgument, "amount must be positive, got %v", op.Amount))
	}
	card, account, err := ctx.Ledger.GetCard(op.CardNumber)
	if err != nil {
		return failure(err)
	}
	if _, err := ctx.Ledger.GetMerchant(op.Merchant); err != nil {
		return failure(err)
	}
	user, err := ctx.Ledger.GetUser(op.Email)
	if err != nil {
		return failure(err)
	}

	softFail := func(reason error) Result {
		ctx.Audit.Record(account.IBAN, audit.Entry{
			Kind:        audit.KindCardPayment,
			Status:      audit.StatusFailure,
			Description: "card payment refused",
			Error:       reason.Error(),
			Details: audit.CardPaymentDetails{
				CardNumber: op.CardNumber,
				Merchant:   op.Merchant,
				Amount:     op.Amount,
				Currency:   op.Currency,
			},
		})
		return silentFailure(reason)
	}

	if card.Status != models.CardActive {
		return softFail(errs.New(errs.InvalidOperation, "the card is frozen"))
	}

	amount, err := ctx.Converter.Convert(op.Currency, account.Currency, op.Amount)
	if err != nil {
		return failure(err)
	}
	if err := ctx.Ledger.ValidatePermission(account, op.Email, ledger.PermSpend, amount); err != nil {
		return failure(err)
	}

	amountRON, err := ctx.toReference(account.Currency, amount)
	if err != nil {
		return failure(err)
	}
	commission, err := ctx.Converter.Convert(plans.ReferenceCurrency, account.Currency, plans.Commission(user.Plan, amountRON))
	if err != nil {
		return failure(err)
	}

	if err := ctx.Ledger.RemoveFunds(account.IBAN, amount+commission); err != nil {
		return softFail(err)
	}

	ctx.Audit.Record(account.IBAN, audit.Entry{
		Kind:        audit.KindCardPayment,
		Status:      audit.StatusSuccess,
		Description: fmt.Sprintf("card payment of %.2f %s to %s", amount, account.Currency, op.Merchant),
		Details: audit.CardPaymentDetails{
			CardNumber: op.CardNumber,
			Merchant:   op.Merchant,
			Amount:     amount,
			Currency:   account.Currency,
			Commission: commission,
		},
	})

	// side effects run on this stack, before the operation returns
	ctx.Bus.Post(events.Transaction{
		SenderIBAN: account.IBAN,
		Merchant:   op.Merchant,
		Amount:     amount,
		Currency:   account.Currency,
	})

	if card.OneTime {
		fresh, err := ctx.Ledger.RegenerateCard(op.CardNumber)
		if err != nil {
			return failure(err)
		}
		ctx.Audit.Record(account.IBAN, audit.Entry{
			Kind:        audit.KindCardDeleted,
			Status:      audit.StatusSuccess,
			Description: "single-use card number retired",
			Details:     audit.CardDetails{CardNumber: op.CardNumber, Holder: op.Email, OneTime: true},
		})
		ctx.Audit.Record(account.IBAN, audit.Entry{
			Kind:        audit.KindCardCreated,
			Status:      audit.StatusSuccess,
			Description: "new card created",
			Details:     audit.CardDetails{CardNumber: fresh, Holder: op.Email, OneTime: true},
		})
	}
	return success(nil)
}
