package history

import (
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
)

// chain is the ordered lifecycle of one reservation, starting at its root event.
type chain struct {
	events []domain.PaymentEvent
}

func (c chain) root() domain.PaymentEvent {
	return c.events[0]
}

// registry indexes events by GUID and remembers which chain owns each one.
type registry struct {
	owner  map[string]int
	chains []chain
}

func newRegistry(size int) *registry {
	return &registry{owner: make(map[string]int, size)}
}

// add places the event in the chain that owns its parent, or opens a new
// chain when the event is a root. Parents must appear earlier in the ledger.
func (r *registry) add(event domain.PaymentEvent) error {
	if _, seen := r.owner[event.GUID]; seen {
		return domain.NewIllegalSequenceError("payment event %s appears more than once", event.GUID)
	}

	if event.IsRoot() {
		r.chains = append(r.chains, chain{events: []domain.PaymentEvent{event}})
		r.owner[event.GUID] = len(r.chains) - 1
		return nil
	}

	idx, ok := r.owner[event.ParentGUID]
	if !ok {
		return domain.NewIllegalSequenceError(
			"payment event %s references parent %s which is not an earlier event",
			event.GUID, event.ParentGUID,
		)
	}

	r.chains[idx].events = append(r.chains[idx].events, event)
	r.owner[event.GUID] = idx
	return nil
}

// buildChains partitions a ledger into reservation chains. Chains keep the
// order of their roots in the ledger and events keep ledger order within a chain.
func buildChains(events []domain.PaymentEvent) ([]chain, error) {
	r := newRegistry(len(events))
	for _, event := range events {
		if err := r.add(event); err != nil {
			return nil, err
		}
	}
	return r.chains, nil
}
