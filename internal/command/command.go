// Package command decodes JSON command objects into operations. It is
// the batch counterpart of the HTTP surface: a command file is an array
// of objects, each tagged with a "command" field.
package command

import (
	"encoding/json"
	"fmt"

	"github.com/abkawan/banking-core/internal/dispatch"
	"github.com/abkawan/banking-core/internal/models"
)

// Command is the flat union of every command's fields.
type Command struct {
	Command      string    `json:"command"`
	Email        string    `json:"email,omitempty"`
	Account      string    `json:"account,omitempty"`
	Target       string    `json:"target,omitempty"`
	Receiver     string    `json:"receiver,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	AccountType  string    `json:"account_type,omitempty"`
	InterestRate float64   `json:"interest_rate,omitempty"`
	Amount       float64   `json:"amount,omitempty"`
	Alias        string    `json:"alias,omitempty"`
	CardNumber   string    `json:"card_number,omitempty"`
	OneTime      bool      `json:"one_time,omitempty"`
	Merchant     string    `json:"merchant,omitempty"`
	Description  string    `json:"description,omitempty"`
	NewPlan      string    `json:"new_plan,omitempty"`
	SplitType    string    `json:"split_type,omitempty"`
	Accounts     []string  `json:"accounts,omitempty"`
	Amounts      []float64 `json:"amounts,omitempty"`
	Total        float64   `json:"total,omitempty"`
	Associate    string    `json:"associate,omitempty"`
	Role         string    `json:"role,omitempty"`
}

// Parse maps a decoded command onto its operation. Unknown command
// names are an error; the dispatcher's allow-list is the second line of
// defense.
func Parse(c Command) (dispatch.Operation, error) {
	switch c.Command {
	case "create_account":
		return dispatch.CreateAccount{
			OwnerEmail:   c.Email,
			Currency:     c.Currency,
			Type:         models.AccountType(c.AccountType),
			InterestRate: c.InterestRate,
		}, nil
	case "delete_account":
		return dispatch.DeleteAccount{IBAN: c.Account, Email: c.Email}, nil
	case "add_funds":
		return dispatch.AddFunds{IBAN: c.Account, Email: c.Email, Amount: c.Amount}, nil
	case "set_min_balance":
		return dispatch.SetMinBalance{IBAN: c.Account, Email: c.Email, Amount: c.Amount}, nil
	case "set_alias":
		return dispatch.SetAlias{IBAN: c.Account, Email: c.Email, Alias: c.Alias}, nil
	case "change_interest_rate":
		return dispatch.ChangeInterestRate{IBAN: c.Account, Email: c.Email, Rate: c.InterestRate}, nil
	case "collect_interest":
		return dispatch.CollectInterest{IBAN: c.Account, Email: c.Email}, nil
	case "withdraw_savings":
		return dispatch.WithdrawSavings{IBAN: c.Account, TargetIBAN: c.Target, Email: c.Email, Amount: c.Amount}, nil
	case "create_card":
		return dispatch.CreateCard{IBAN: c.Account, Email: c.Email, OneTime: c.OneTime}, nil
	case "delete_card":
		return dispatch.DeleteCard{Number: c.CardNumber, Email: c.Email}, nil
	case "pay_online":
		return dispatch.PayOnline{
			CardNumber: c.CardNumber,
			Email:      c.Email,
			Amount:     c.Amount,
			Currency:   c.Currency,
			Merchant:   c.Merchant,
		}, nil
	case "send_money":
		return dispatch.SendMoney{
			SenderIBAN:  c.Account,
			Receiver:    c.Receiver,
			Email:       c.Email,
			Amount:      c.Amount,
			Description: c.Description,
		}, nil
	case "cash_withdrawal":
		return dispatch.CashWithdrawal{CardNumber: c.CardNumber, Email: c.Email, Amount: c.Amount}, nil
	case "upgrade_plan":
		return dispatch.UpgradePlan{IBAN: c.Account, Email: c.Email, NewPlan: models.PlanType(c.NewPlan)}, nil
	case "request_split_payment":
		return dispatch.RequestSplitPayment{
			AccountIBANs: c.Accounts,
			Amounts:      c.Amounts,
			Total:        c.Total,
			Currency:     c.Currency,
			Type:         models.SplitType(c.SplitType),
		}, nil
	case "confirm_split_payment":
		return dispatch.ConfirmSplitPayment{Email: c.Email, Type: models.SplitType(c.SplitType)}, nil
	case "reject_split_payment":
		return dispatch.RejectSplitPayment{Email: c.Email, Type: models.SplitType(c.SplitType)}, nil
	case "add_business_associate":
		return dispatch.AddBusinessAssociate{
			IBAN:  c.Account,
			Email: c.Email,
			New:   c.Associate,
			Role:  models.BusinessRole(c.Role),
		}, nil
	case "change_spending_limit":
		return dispatch.ChangeSpendingLimit{IBAN: c.Account, Email: c.Email, Amount: c.Amount}, nil
	case "change_deposit_limit":
		return dispatch.ChangeDepositLimit{IBAN: c.Account, Email: c.Email, Amount: c.Amount}, nil
	}
	return nil, fmt.Errorf("unknown command %q", c.Command)
}

// Outcome is one line of batch output. Silent errors render as plain
// success: the command layer never surfaces them.
type Outcome struct {
	Command string      `json:"command"`
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Run executes a JSON array of commands in submission order.
func Run(data []byte, d *dispatch.Dispatcher, ctx *dispatch.Context) ([]Outcome, error) {
	var commands []Command
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("failed to decode command file: %w", err)
	}

	outcomes := make([]Outcome, 0, len(commands))
	for _, c := range commands {
		op, err := Parse(c)
		if err != nil {
			outcomes = append(outcomes, Outcome{Command: c.Command, Error: err.Error()})
			continue
		}
		res := d.Execute(op, ctx)
		out := Outcome{Command: c.Command, Success: true, Payload: res.Payload}
		if res.Err != nil && !res.Silent {
			out.Success = false
			out.Error = res.Err.Error()
			out.Payload = nil
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}
