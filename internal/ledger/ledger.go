package ledger

import (
	"sync"
	"time"

	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/models"
)

// Ledger owns every in-memory directory: users, accounts, cards and
// merchants. A single mutex serializes map access; no method calls
// another locking method while holding the lock, so event handlers may
// re-enter between mutations.
type Ledger struct {
	mu        sync.Mutex
	users     map[string]*models.User
	accounts  map[string]*models.Account
	aliases   map[string]string
	cards     map[string]string
	merchants map[string]*models.Merchant
}

// creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		users:     make(map[string]*models.User),
		accounts:  make(map[string]*models.Account),
		aliases:   make(map[string]string),
		cards:     make(map[string]string),
		merchants: make(map[string]*models.Merchant),
	}
}

// RegisterUser adds a user keyed by email.
func (l *Ledger) RegisterUser(u *models.User) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[u.Email]; ok {
		return errs.New(errs.InvalidArgument, "user %s already registered", u.Email)
	}
	l.users[u.Email] = u
	return nil
}

// GetUser retrieves a user by email.
func (l *Ledger) GetUser(email string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[email]
	if !ok {
		return nil, errs.New(errs.NotFound, "user %s not found", email)
	}
	return u, nil
}

// CreateAccount allocates an account with a fresh IBAN and links it to
// the owner. The interest rate only applies to savings accounts.
func (l *Ledger) CreateAccount(ownerEmail, currency string, accType models.AccountType, interestRate float64) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, ok := l.users[ownerEmail]
	if !ok {
		return nil, errs.New(errs.NotFound, "user %s not found", ownerEmail)
	}
	switch accType {
	case models.Classic, models.Savings, models.Business:
	default:
		return nil, errs.New(errs.InvalidArgument, "unknown account type %q", accType)
	}

	account := &models.Account{
		IBAN:       newIBAN(),
		Currency:   currency,
		Type:       accType,
		OwnerEmail: ownerEmail,
		Cards:      make(map[string]*models.Card),
		CreatedAt:  time.Now(),
	}
	switch accType {
	case models.Savings:
		account.InterestRate = interestRate
	case models.Business:
		account.Roles = map[string]models.BusinessRole{ownerEmail: models.RoleOwner}
		account.SpendingLimit = defaultBusinessLimit
		account.DepositLimit = defaultBusinessLimit
	}

	l.accounts[account.IBAN] = account
	owner.Accounts = append(owner.Accounts, account.IBAN)
	return account, nil
}

// GetAccount retrieves an account by IBAN only.
func (l *Ledger) GetAccount(iban string) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[iban]
	if !ok {
		return nil, errs.New(errs.NotFound, "account %s not found", iban)
	}
	return a, nil
}

// ResolveAccount retrieves an account by IBAN or alias; both are
// authoritative for receiver fields.
func (l *Ledger) ResolveAccount(ibanOrAlias string) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.accounts[ibanOrAlias]; ok {
		return a, nil
	}
	if iban, ok := l.aliases[ibanOrAlias]; ok {
		if a, ok := l.accounts[iban]; ok {
			return a, nil
		}
	}
	return nil, errs.New(errs.NotFound, "account %s not found", ibanOrAlias)
}

// DeleteAccount removes an account; only the owner may delete it and
// only when the balance is exactly zero. Linked cards are unindexed.
func (l *Ledger) DeleteAccount(iban, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[iban]
	if !ok {
		return errs.New(errs.NotFound, "account %s not found", iban)
	}
	if account.OwnerEmail != email {
		return errs.New(errs.Unauthorized, "account %s is not owned by %s", iban, email)
	}
	if account.Balance != 0 {
		return errs.New(errs.InvalidOperation, "account %s still holds funds", iban)
	}

	for number := range account.Cards {
		delete(l.cards, number)
	}
	if account.Alias != "" {
		delete(l.aliases, account.Alias)
	}
	delete(l.accounts, iban)

	owner := l.users[email]
	for i, acc := range owner.Accounts {
		if acc == iban {
			owner.Accounts = append(owner.Accounts[:i], owner.Accounts[i+1:]...)
			break
		}
	}
	return nil
}

// AddFunds credits the account; negative amounts are rejected.
func (l *Ledger) AddFunds(iban string, amount float64) error {
	if amount < 0 {
		return errs.New(errs.InvalidArgument, "amount must not be negative, got %v", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[iban]
	if !ok {
		return errs.New(errs.NotFound, "account %s not found", iban)
	}
	account.Balance += amount
	return nil
}

// RemoveFunds debits the account, keeping balance >= minBalance.
func (l *Ledger) RemoveFunds(iban string, amount float64) error {
	if amount < 0 {
		return errs.New(errs.InvalidArgument, "amount must not be negative, got %v", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[iban]
	if !ok {
		return errs.New(errs.NotFound, "account %s not found", iban)
	}
	if account.Balance-amount < account.MinBalance {
		return errs.New(errs.InsufficientFunds, "account %s has insufficient funds", iban)
	}
	account.Balance -= amount
	return nil
}

// SetMinBalance sets the floor the balance may never drop below.
func (l *Ledger) SetMinBalance(iban string, amount float64) error {
	if amount < 0 {
		return errs.New(errs.InvalidArgument, "minimum balance must not be negative, got %v", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[iban]
	if !ok {
		return errs.New(errs.NotFound, "account %s not found", iban)
	}
	account.MinBalance = amount
	return nil
}

// RegisterAlias maps an alias to the account, overwriting any prior
// mapping for the same string.
func (l *Ledger) RegisterAlias(iban, alias string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[iban]
	if !ok {
		return errs.New(errs.NotFound, "account %s not found", iban)
	}
	if prev, ok := l.accounts[l.aliases[alias]]; ok && prev.Alias == alias {
		prev.Alias = ""
	}
	l.aliases[alias] = iban
	account.Alias = alias
	return nil
}

// ChangeInterestRate is valid only on savings accounts.
func (l *Ledger) ChangeInterestRate(iban string, rate float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[iban]
	if !ok {
		return errs.New(errs.NotFound, "account %s not found", iban)
	}
	if account.Type != models.Savings {
		return errs.New(errs.InvalidOperation, "account %s is not a savings account", iban)
	}
	account.InterestRate = rate
	return nil
}

// CollectInterest multiplies a savings balance by 1+rate and returns the
// credited interest amount.
func (l *Ledger) CollectInterest(iban string) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[iban]
	if !ok {
		return 0, errs.New(errs.NotFound, "account %s not found", iban)
	}
	if account.Type != models.Savings {
		return 0, errs.New(errs.InvalidOperation, "account %s is not a savings account", iban)
	}
	interest := account.Balance * account.InterestRate
	account.Balance += interest
	return interest, nil
}

// RegisterMerchant adds a merchant keyed by name.
func (l *Ledger) RegisterMerchant(m *models.Merchant) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.merchants[m.Name]; ok {
		return errs.New(errs.InvalidArgument, "merchant %s already registered", m.Name)
	}
	l.merchants[m.Name] = m
	return nil
}

// GetMerchant retrieves a merchant by name.
func (l *Ledger) GetMerchant(name string) (*models.Merchant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.merchants[name]
	if !ok {
		return nil, errs.New(errs.NotFound, "merchant %s not found", name)
	}
	return m, nil
}
