package cashback

import (
	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/models"
)

type pairKey struct {
	merchant string
	account  string
}

// Engine tracks per-(merchant, account) transaction counters and
// spending totals, and holds each account's pending and applied
// discount sets. Amounts are registered in the reference currency.
type Engine struct {
	counts  map[pairKey]int
	totals  map[pairKey]float64
	pending map[string][]Discount
	applied map[string][]Discount
}

// creates an empty cashback engine
func NewEngine() *Engine {
	return &Engine{
		counts:  make(map[pairKey]int),
		totals:  make(map[pairKey]float64),
		pending: make(map[string][]Discount),
		applied: make(map[string][]Discount),
	}
}

// RegisterTransaction records one transaction and returns the total
// percentage discount applicable to it. Pending discounts matching the
// merchant's category are consumed first, then the merchant's strategy
// may produce a new candidate: an immediate one joins the result, a
// deferred one joins the pending set, and a one-time grant already held
// is ignored. Only one-time discounts are retained in the applied set;
// recurring ones need no memory.
func (e *Engine) RegisterTransaction(m *models.Merchant, iban string, plan models.PlanType, amountRON float64) (float64, error) {
	strat, ok := strategies[m.Cashback]
	if !ok {
		return 0, errs.New(errs.InvalidArgument, "merchant %s has unknown cashback plan %q", m.Name, m.Cashback)
	}

	total := 0.0

	kept := e.pending[iban][:0]
	for _, d := range e.pending[iban] {
		if d.matches(m.Category) {
			total += d.Percent
			if d.OneTime {
				e.applied[iban] = append(e.applied[iban], d)
			}
			continue
		}
		kept = append(kept, d)
	}
	e.pending[iban] = kept

	candidate, granted := strat.candidate(e, m, iban, plan, amountRON)
	if !granted {
		return total, nil
	}
	if candidate.OneTime && e.alreadyGranted(iban, candidate) {
		return total, nil
	}
	if candidate.ApplicableNow {
		total += candidate.Percent
		if candidate.OneTime {
			e.applied[iban] = append(e.applied[iban], candidate)
		}
	} else {
		e.pending[iban] = append(e.pending[iban], candidate)
	}
	return total, nil
}

// alreadyGranted reports whether an equal one-time discount is held in
// either set; such a grant must never repeat. The applied set holds
// one-time discounts only.
func (e *Engine) alreadyGranted(iban string, d Discount) bool {
	for _, held := range e.applied[iban] {
		if held.sameGrant(d) {
			return true
		}
	}
	for _, held := range e.pending[iban] {
		if held.OneTime && held.sameGrant(d) {
			return true
		}
	}
	return false
}

// Pending returns a copy of the account's deferred discounts.
func (e *Engine) Pending(iban string) []Discount {
	out := make([]Discount, len(e.pending[iban]))
	copy(out, e.pending[iban])
	return out
}
