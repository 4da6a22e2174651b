package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(ts time.Time, desc string) Entry {
	return Entry{
		Timestamp:   ts,
		Kind:        KindTransfer,
		Status:      StatusSuccess,
		Description: desc,
	}
}

func TestRecordAndQueryAll(t *testing.T) {
	l := NewLedger()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	l.Record("RO01", entryAt(base, "first"))
	l.Record("RO01", entryAt(base.Add(time.Minute), "second"))
	l.Record("RO02", entryAt(base, "other account"))

	got := l.QueryAll("RO01")
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Description)
	assert.Equal(t, "second", got[1].Description)
	assert.NotEmpty(t, got[0].ID, "missing IDs are filled in on record")
}

func TestQueryRangeInclusive(t *testing.T) {
	l := NewLedger()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		l.Record("RO01", entryAt(base.Add(time.Duration(i)*time.Hour), "e"))
	}

	got := l.Query("RO01", base.Add(time.Hour), base.Add(3*time.Hour))
	require.Len(t, got, 3)
	assert.Equal(t, base.Add(time.Hour), got[0].Timestamp)
	assert.Equal(t, base.Add(3*time.Hour), got[2].Timestamp)

	// repeated calls on unchanged state return identical results
	again := l.Query("RO01", base.Add(time.Hour), base.Add(3*time.Hour))
	assert.Equal(t, got, again)
}

func TestQueryUnknownAccount(t *testing.T) {
	l := NewLedger()
	assert.Empty(t, l.QueryAll("RO99"))
	assert.Empty(t, l.Query("RO99", time.Time{}, time.Now()))
}

func TestDetailsCapturedByValue(t *testing.T) {
	l := NewLedger()
	details := TransferDetails{SenderIBAN: "RO01", ReceiverIBAN: "RO02", Amount: 50, Currency: "RON", Direction: "sent"}
	l.Record("RO01", Entry{Kind: KindTransfer, Status: StatusSuccess, Details: details})

	// mutating the caller's copy must not show up in the log
	details.Amount = 999

	got := l.QueryAll("RO01")
	require.Len(t, got, 1)
	assert.Equal(t, 50.0, got[0].Details.(TransferDetails).Amount)
	assert.Equal(t, KindTransfer, got[0].Details.EntryKind())
}
