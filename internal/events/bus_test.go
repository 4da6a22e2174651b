package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name string
	seen *[]string
}

func (r *recorder) Handle(e Event) {
	*r.seen = append(*r.seen, r.name)
}

func TestPostRunsHandlersInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var seen []string
	b.Subscribe(KindTransaction, &recorder{name: "first", seen: &seen})
	b.Subscribe(KindTransaction, &recorder{name: "second", seen: &seen})
	b.Subscribe(KindSplitOutcome, &recorder{name: "other kind", seen: &seen})

	b.Post(Transaction{Amount: 10, Currency: "RON"})

	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	b := NewBus()
	var seen []string
	stay := &recorder{name: "stay", seen: &seen}
	leave := &recorder{name: "leave", seen: &seen}
	b.Subscribe(KindTransaction, stay)
	b.Subscribe(KindTransaction, leave)
	b.Subscribe(KindSplitOutcome, leave)

	b.Unsubscribe(leave)
	b.Post(Transaction{})
	b.Post(SplitOutcome{Accepted: true})

	assert.Equal(t, []string{"stay"}, seen)
}

type reposter struct {
	bus   *Bus
	depth int
	calls int
}

func (r *reposter) Handle(e Event) {
	r.calls++
	if r.depth > 0 {
		r.depth--
		r.bus.Post(Transaction{})
	}
}

func TestHandlersMayPostFurtherEvents(t *testing.T) {
	b := NewBus()
	h := &reposter{bus: b, depth: 2}
	b.Subscribe(KindTransaction, h)

	b.Post(Transaction{})

	// dispatch is synchronous: re-posts complete before Post returns
	require.Equal(t, 3, h.calls)
}

func TestPostWithNoSubscribersIsANoOp(t *testing.T) {
	b := NewBus()
	assert.NotPanics(t, func() { b.Post(Transaction{}) })
}
