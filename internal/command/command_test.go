package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abkawan/banking-core/internal/dispatch"
	"github.com/abkawan/banking-core/internal/models"
)

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse(Command{Command: "mint_money"})
	require.Error(t, err)
}

func TestRunExecutesInOrderAndHidesSilentErrors(t *testing.T) {
	ctx := dispatch.NewContext()
	require.NoError(t, ctx.Ledger.RegisterUser(&models.User{
		Email:     "ana@example.com",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Plan:      models.PlanStandard,
	}))
	account, err := ctx.Ledger.CreateAccount("ana@example.com", "RON", models.Classic, 0)
	require.NoError(t, err)
	require.NoError(t, ctx.Ledger.AddFunds(account.IBAN, 50))
	receiver, err := ctx.Ledger.CreateAccount("ana@example.com", "RON", models.Classic, 0)
	require.NoError(t, err)

	input := []byte(`[
		{"command": "add_funds", "account": "` + account.IBAN + `", "email": "ana@example.com", "amount": 10},
		{"command": "send_money", "account": "` + account.IBAN + `", "receiver": "` + receiver.IBAN + `", "email": "ana@example.com", "amount": 10000},
		{"command": "delete_account", "account": "` + account.IBAN + `", "email": "ana@example.com"},
		{"command": "teleport_funds"}
	]`)

	outcomes, err := Run(input, dispatch.NewDispatcher(), ctx)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	assert.True(t, outcomes[0].Success)

	// the oversized transfer soft-fails: reported as success, visible
	// only in the account's history
	assert.True(t, outcomes[1].Success)
	assert.Empty(t, outcomes[1].Error)
	assert.NotEmpty(t, ctx.Audit.QueryAll(account.IBAN))

	// hard error: funds remain on the account
	assert.False(t, outcomes[2].Success)
	assert.NotEmpty(t, outcomes[2].Error)

	assert.False(t, outcomes[3].Success)
	assert.Contains(t, outcomes[3].Error, "unknown command")
}
