package types

import (
	"sort"

	"votingfsm_demo/types"
)

// PayloadSet is the collection of payloads gathered for the active round,
// keyed by sender address: one live slot per participant. A sender
// resubmitting replaces its prior payload, so the set's size never exceeds
// the cohort size.
type PayloadSet struct {
	payloads map[string]types.Payload
}

func NewPayloadSet() *PayloadSet {
	return &PayloadSet{
		payloads: make(map[string]types.Payload),
	}
}

// AddPayload stores the payload under its sender, overwriting any earlier
// submission from the same sender. Returns true if the sender's slot was
// previously empty.
func (s *PayloadSet) AddPayload(p types.Payload) bool {
	key := p.Sender().String()
	_, resubmitted := s.payloads[key]
	s.payloads[key] = p
	return !resubmitted
}

// GetBySender returns the live payload for the sender, if any.
func (s *PayloadSet) GetBySender(sender types.Address) (types.Payload, bool) {
	p, ok := s.payloads[sender.String()]
	return p, ok
}

// Size returns the number of distinct senders with a live payload.
func (s *PayloadSet) Size() int {
	return len(s.payloads)
}

// Senders returns the sender keys in lexical order, so iteration is
// deterministic across replicas.
func (s *PayloadSet) Senders() []string {
	senders := make([]string, 0, len(s.payloads))
	for sender := range s.payloads {
		senders = append(senders, sender)
	}
	sort.Strings(senders)
	return senders
}

// Iterate runs fn over the live payloads in sender order.
func (s *PayloadSet) Iterate(fn func(sender string, p types.Payload) bool) {
	for _, sender := range s.Senders() {
		if stop := fn(sender, s.payloads[sender]); stop {
			break
		}
	}
}

// Snapshot returns a sender-keyed copy for committing under the round's
// collection key.
func (s *PayloadSet) Snapshot() map[string]types.Payload {
	out := make(map[string]types.Payload, len(s.payloads))
	for sender, p := range s.payloads {
		out[sender] = p
	}
	return out
}
