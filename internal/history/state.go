package history

import (
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/domain"
)

// GroupState is the folded balance of one reservation chain.
// Handlers never modify a state in place; they return the next one.
type GroupState struct {
	CurrentEvent   domain.PaymentEvent
	Available      domain.Money
	Charged        domain.Money
	Refunded       domain.Money
	ReverseCharged domain.Money
}

// NewGroupState returns the zero state a chain is folded from.
func NewGroupState(currency string) GroupState {
	return GroupState{
		Available:      domain.Zero(currency),
		Charged:        domain.Zero(currency),
		Refunded:       domain.Zero(currency),
		ReverseCharged: domain.Zero(currency),
	}
}

func (s GroupState) currency() string {
	return s.Available.Currency
}

func (s GroupState) withEvent(event domain.PaymentEvent) GroupState {
	s.CurrentEvent = event
	return s
}

// NetCharged is charged minus reverse-charged, floored at zero.
func (s GroupState) NetCharged() (domain.Money, error) {
	net, err := s.Charged.Sub(s.ReverseCharged)
	if err != nil {
		return domain.Money{}, err
	}
	return net.Max(domain.Zero(s.currency()))
}

// Refundable is what may still be credited back on this chain.
func (s GroupState) Refundable() (domain.Money, error) {
	net, err := s.Charged.Sub(s.ReverseCharged)
	if err != nil {
		return domain.Money{}, err
	}
	return net.Sub(s.Refunded)
}

// Outstanding is the instrument usage of this chain: open reservation plus net capture.
func (s GroupState) Outstanding() (domain.Money, error) {
	net, err := s.NetCharged()
	if err != nil {
		return domain.Money{}, err
	}
	return s.Available.Add(net)
}
