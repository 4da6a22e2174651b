package events

// Handler receives events synchronously on the poster's call stack. A
// handler may mutate the ledger and post further events; the bus does
// no cycle detection.
type Handler interface {
	Handle(Event)
}

// Bus dispatches events to handlers in subscription order per kind.
// There is no queue: Post returns only after every handler ran.
type Bus struct {
	handlers map[Kind][]Handler
}

// creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe appends the handler to the kind's list.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.handlers[kind] = append(b.handlers[kind], h)
}

// Unsubscribe removes the handler, by interface identity, from every
// kind it was subscribed to.
func (b *Bus) Unsubscribe(h Handler) {
	for kind, list := range b.handlers {
		kept := list[:0]
		for _, existing := range list {
			if existing != h {
				kept = append(kept, existing)
			}
		}
		b.handlers[kind] = kept
	}
}

// Post invokes every handler registered for the event's kind, in
// subscription order, on the caller's stack.
func (b *Bus) Post(e Event) {
	for _, h := range b.handlers[e.EventKind()] {
		h.Handle(e)
	}
}
