package ledger

import (
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/models"
)

// Permission names one guarded business-account capability.
type Permission string

const (
	PermSpend        Permission = "spend"
	PermDeposit      Permission = "deposit"
	PermManageCards  Permission = "manage_cards"
	PermChangeLimits Permission = "change_limits"
	PermAddAssociate Permission = "add_associate"
	PermCloseAccount Permission = "close_account"
)

// defaultBusinessLimit is the starting spending and deposit limit for
// employees, in the account currency.
const defaultBusinessLimit = 500.0

// rolePermissions is the static role matrix; checked at call time, no
// per-operation types involved.
var rolePermissions = map[models.BusinessRole]map[Permission]bool{
	models.RoleOwner: {
		PermSpend:        true,
		PermDeposit:      true,
		PermManageCards:  true,
		PermChangeLimits: true,
		PermAddAssociate: true,
		PermCloseAccount: true,
	},
	models.RoleManager: {
		PermSpend:        true,
		PermDeposit:      true,
		PermManageCards:  true,
		PermAddAssociate: true,
	},
	models.RoleEmployee: {
		PermSpend:       true,
		PermDeposit:     true,
		PermManageCards: true,
	},
}

// roleLimited marks the roles whose monetary operations are capped by
// the account's spending/deposit limits.
var roleLimited = map[models.BusinessRole]bool{
	models.RoleEmployee: true,
}

// ValidatePermission checks a user's role on a business account against
// the required permission. Monetary operations check the role's limit
// before the generic permission check. Non-business accounts only admit
// their owner.
func (l *Ledger) ValidatePermission(account *models.Account, email string, perm Permission, amount float64) error {
	if account.Type != models.Business {
		if account.OwnerEmail != email {
			return errs.New(errs.Unauthorized, "account %s is not owned by %s", account.IBAN, email)
		}
		return nil
	}

	role, ok := account.RoleOf(email)
	if !ok {
		return errs.New(errs.Unauthorized, "%s is not an associate of account %s", email, account.IBAN)
	}
	if roleLimited[role] && amount > 0 {
		switch perm {
		case PermSpend:
			if amount > account.SpendingLimit {
				return errs.New(errs.Unauthorized, "spending limit exceeded for %s on account %s", email, account.IBAN)
			}
		case PermDeposit:
			if amount > account.DepositLimit {
				return errs.New(errs.Unauthorized, "deposit limit exceeded for %s on account %s", email, account.IBAN)
			}
		}
	}
	if !rolePermissions[role][perm] {
		return errs.New(errs.Unauthorized, "%s role does not grant %s on account %s", role, perm, account.IBAN)
	}
	return nil
}

// AddAssociate grants a user a role on a business account.
func (l *Ledger) AddAssociate(iban, email string, role models.BusinessRole) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[iban]
	if !ok {
		return errs.New(errs.NotFound, "account %s not found", iban)
	}
	if account.Type != models.Business {
		return errs.New(errs.InvalidOperation, "account %s is not a business account", iban)
	}
	if _, ok := l.users[email]; !ok {
		return errs.New(errs.NotFound, "user %s not found", email)
	}
	if _, ok := account.Roles[email]; ok {
		return errs.New(errs.InvalidArgument, "%s is already an associate of account %s", email, iban)
	}
	switch role {
	case models.RoleManager, models.RoleEmployee:
	default:
		return errs.New(errs.InvalidArgument, "cannot grant role %q", role)
	}
	account.Roles[email] = role
	return nil
}

// ChangeBusinessLimit updates the employee spending or deposit cap;
// only the owner may change limits.
func (l *Ledger) ChangeBusinessLimit(iban, email string, perm Permission, limit float64) error {
	if limit < 0 {
		return errs.New(errs.InvalidArgument, "limit must not be negative, got %v", limit)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[iban]
	if !ok {
		return errs.New(errs.NotFound, "account %s not found", iban)
	}
	if account.Type != models.Business {
		return errs.New(errs.InvalidOperation, "account %s is not a business account", iban)
	}
	if role, ok := account.RoleOf(email); !ok || !rolePermissions[role][PermChangeLimits] {
		return errs.New(errs.Unauthorized, "%s must own account %s to change limits", email, iban)
	}
	switch perm {
	case PermSpend:
		account.SpendingLimit = limit
	case PermDeposit:
		account.DepositLimit = limit
	default:
		return errs.New(errs.InvalidArgument, "no limit attached to permission %q", perm)
	}
	return nil
}
