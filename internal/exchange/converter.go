package exchange

import (
	"github.com/abkawan/banking-core/internal/errs"
)

type edge struct {
	to   string
	rate float64
}

// Converter holds the registered currency pairs as an adjacency list.
type Converter struct {
	edges map[string][]edge
}

// creates an empty rate graph
func NewConverter() *Converter {
	return &Converter{edges: make(map[string][]edge)}
}

// UpdateRate registers a rate and its reciprocal. An existing edge for
// the same pair is overwritten in place.
func (c *Converter) UpdateRate(from, to string, rate float64) error {
	if rate <= 0 {
		return errs.New(errs.InvalidArgument, "exchange rate must be positive, got %v", rate)
	}
	c.setEdge(from, to, rate)
	c.setEdge(to, from, 1/rate)
	return nil
}

func (c *Converter) setEdge(from, to string, rate float64) {
	for i, e := range c.edges[from] {
		if e.to == to {
			c.edges[from][i].rate = rate
			return
		}
	}
	c.edges[from] = append(c.edges[from], edge{to: to, rate: rate})
}

// Convert resolves amount from one currency into another, walking the
// rate graph breadth-first and taking the first path that reaches the
// target. The accumulated rate is the product along that path.
func (c *Converter) Convert(from, to string, amount float64) (float64, error) {
	if amount < 0 {
		return 0, errs.New(errs.InvalidArgument, "amount must not be negative, got %v", amount)
	}
	if from == to {
		return amount, nil
	}
	if len(c.edges[from]) == 0 {
		return 0, errs.New(errs.NotFound, "unknown currency %s", from)
	}

	type node struct {
		currency string
		rate     float64
	}
	visited := map[string]bool{from: true}
	queue := []node{{currency: from, rate: 1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range c.edges[cur.currency] {
			if visited[e.to] {
				continue
			}
			accumulated := cur.rate * e.rate
			if e.to == to {
				return amount * accumulated, nil
			}
			visited[e.to] = true
			queue = append(queue, node{currency: e.to, rate: accumulated})
		}
	}

	return 0, errs.New(errs.NotFound, "no exchange rate from %s to %s", from, to)
}

// Knows reports whether the currency has at least one registered edge.
func (c *Converter) Knows(currency string) bool {
	return len(c.edges[currency]) > 0
}
