package ledger

import (
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/models"
)

// CreateCard links a new card to the account. One-time cards regenerate
// their number after a single payment.
func (l *Ledger) CreateCard(iban, creatorEmail string, oneTime bool) (*models.Card, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[iban]
	if !ok {
		return nil, errs.New(errs.NotFound, "account %s not found", iban)
	}
	card := &models.Card{
		Number:       newCardNumber(),
		AccountIBAN:  iban,
		Status:       models.CardActive,
		CreatorEmail: creatorEmail,
		OneTime:      oneTime,
	}
	account.Cards[card.Number] = card
	l.cards[card.Number] = iban
	return card, nil
}

// GetCard resolves a card and its account by card number.
func (l *Ledger) GetCard(number string) (*models.Card, *models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	iban, ok := l.cards[number]
	if !ok {
		return nil, nil, errs.New(errs.NotFound, "card %s not found", number)
	}
	account := l.accounts[iban]
	return account.Cards[number], account, nil
}

// DeleteCard unlinks the card from its account.
func (l *Ledger) DeleteCard(number string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	iban, ok := l.cards[number]
	if !ok {
		return errs.New(errs.NotFound, "card %s not found", number)
	}
	delete(l.accounts[iban].Cards, number)
	delete(l.cards, number)
	return nil
}

// SetCardStatus updates a card's status in place.
func (l *Ledger) SetCardStatus(number string, status models.CardStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	iban, ok := l.cards[number]
	if !ok {
		return errs.New(errs.NotFound, "card %s not found", number)
	}
	l.accounts[iban].Cards[number].Status = status
	return nil
}

// RegenerateCard assigns a fresh number to a card after a single-use
// payment and returns the new number.
func (l *Ledger) RegenerateCard(number string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	iban, ok := l.cards[number]
	if !ok {
		return "", errs.New(errs.NotFound, "card %s not found", number)
	}
	account := l.accounts[iban]
	card := account.Cards[number]

	delete(account.Cards, number)
	delete(l.cards, number)

	card.Number = newCardNumber()
	account.Cards[card.Number] = card
	l.cards[card.Number] = iban
	return card.Number, nil
}
