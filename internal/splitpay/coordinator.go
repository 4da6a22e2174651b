package splitpay

import (
	"time"

	"github.com/google/uuid"

	"github.com/abkawan/banking-core/internal/errs"
	"github.com/abkawan/banking-core/internal/events"
	"github.com/abkawan/banking-core/internal/models"
)

// AccountDirectory resolves accounts for owner lookups.
type AccountDirectory interface {
	GetAccount(iban string) (*models.Account, error)
}

// Coordinator tracks pending split payments. Each payment is indexed
// under every distinct owner of every involved account, bucketed by
// payment type, first registered first resolved. A payment leaves every
// bucket the instant it is accepted or rejected.
type Coordinator struct {
	accounts AccountDirectory
	bus      *events.Bus
	buckets  map[string]map[models.SplitType][]*models.SplitPayment
}

// creates a coordinator posting outcomes on the given bus
func NewCoordinator(accounts AccountDirectory, bus *events.Bus) *Coordinator {
	return &Coordinator{
		accounts: accounts,
		bus:      bus,
		buckets:  make(map[string]map[models.SplitType][]*models.SplitPayment),
	}
}

// RegisterPayment validates and indexes a new split payment.
func (c *Coordinator) RegisterPayment(p *models.SplitPayment) error {
	if len(p.AccountIBANs) == 0 {
		return errs.New(errs.InvalidArgument, "split payment involves no accounts")
	}
	if len(p.AccountIBANs) != len(p.Amounts) {
		return errs.New(errs.InvalidArgument, "split payment has %d accounts but %d amounts",
			len(p.AccountIBANs), len(p.Amounts))
	}
	switch p.Type {
	case models.SplitEqual, models.SplitCustom:
	default:
		return errs.New(errs.InvalidArgument, "unknown split type %q", p.Type)
	}

	seen := make(map[string]bool)
	owners := make(map[string]bool)
	for _, iban := range p.AccountIBANs {
		if seen[iban] {
			return errs.New(errs.InvalidArgument, "account %s listed twice in the split payment", iban)
		}
		seen[iban] = true
		account, err := c.accounts.GetAccount(iban)
		if err != nil {
			return err
		}
		owners[account.OwnerEmail] = true
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	p.Confirmed = make(map[string]bool)
	p.Remaining = len(p.AccountIBANs)

	for owner := range owners {
		if c.buckets[owner] == nil {
			c.buckets[owner] = make(map[models.SplitType][]*models.SplitPayment)
		}
		c.buckets[owner][p.Type] = append(c.buckets[owner][p.Type], p)
	}
	return nil
}

// ConfirmPayment confirms the head of the user's FIFO bucket for the
// given type. Every involved account owned by the user is confirmed at
// once. Full confirmation posts an accepted outcome and drops the
// payment from every remaining bucket.
func (c *Coordinator) ConfirmPayment(email string, splitType models.SplitType) error {
	p, err := c.head(email, splitType)
	if err != nil {
		return err
	}

	for _, iban := range p.AccountIBANs {
		account, err := c.accounts.GetAccount(iban)
		if err != nil {
			return err
		}
		if account.OwnerEmail == email && !p.Confirmed[iban] {
			p.Confirmed[iban] = true
			p.Remaining--
		}
	}
	c.removeFromBucket(email, splitType, p)

	if p.Remaining == 0 {
		c.removeEverywhere(p)
		c.bus.Post(events.SplitOutcome{Payment: p, Accepted: true})
	}
	return nil
}

// RejectPayment rejects the head of the user's FIFO bucket for the
// given type, discarding any partial confirmations. No funds were ever
// moved, so there is nothing to undo.
func (c *Coordinator) RejectPayment(email string, splitType models.SplitType) error {
	p, err := c.head(email, splitType)
	if err != nil {
		return err
	}
	c.removeEverywhere(p)
	c.bus.Post(events.SplitOutcome{Payment: p, Accepted: false})
	return nil
}

// Pending returns the user's unresolved payments of the given type in
// registration order.
func (c *Coordinator) Pending(email string, splitType models.SplitType) []*models.SplitPayment {
	bucket := c.buckets[email][splitType]
	out := make([]*models.SplitPayment, len(bucket))
	copy(out, bucket)
	return out
}

func (c *Coordinator) head(email string, splitType models.SplitType) (*models.SplitPayment, error) {
	bucket := c.buckets[email][splitType]
	if len(bucket) == 0 {
		return nil, errs.New(errs.NotFound, "no %s split payment waiting for %s", splitType, email)
	}
	return bucket[0], nil
}

func (c *Coordinator) removeFromBucket(email string, splitType models.SplitType, p *models.SplitPayment) {
	bucket := c.buckets[email][splitType]
	for i, candidate := range bucket {
		if candidate == p {
			c.buckets[email][splitType] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

func (c *Coordinator) removeEverywhere(p *models.SplitPayment) {
	for email, byType := range c.buckets {
		for splitType := range byType {
			c.removeFromBucket(email, splitType, p)
		}
	}
}
