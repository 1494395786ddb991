package types

import (
	"fmt"

	"votingfsm_demo/types"
)

//-----------------------------------------------------------------------------
// OutcomeStatus enum type

// OutcomeStatus enumerates the result of evaluating a round's collection.
type OutcomeStatus uint8

const (
	// OutcomePending means the threshold has not been reached but is still
	// reachable with the remaining non-voters.
	OutcomePending = OutcomeStatus(0x01)
	// OutcomeSettled means some selection value gathered threshold-many
	// matching payloads.
	OutcomeSettled = OutcomeStatus(0x02)
	// OutcomeUnreachable means no value can reach the threshold anymore.
	OutcomeUnreachable = OutcomeStatus(0x03)
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomePending:
		return "Pending"
	case OutcomeSettled:
		return "Settled"
	case OutcomeUnreachable:
		return "Unreachable"
	default:
		return "UnknownOutcome"
	}
}

// Outcome is the terminal result of a round: the event to feed the
// transition graph and the store writes to commit alongside it.
type Outcome struct {
	Status OutcomeStatus

	// Event drives the transition graph lookup.
	Event types.Event

	// Values maps selection keys to the agreed values. Empty for
	// Unreachable outcomes and for rounds that settle on an event only.
	Values map[string]interface{}

	// CollectionKey/Collection hold the full payload set for audit.
	// CollectionKey is empty when there is nothing to record.
	CollectionKey string
	Collection    map[string]types.Payload
}

func (o *Outcome) String() string {
	if o == nil {
		return "nil-Outcome"
	}
	return fmt.Sprintf("Outcome{%v event=%v values=%d}", o.Status, o.Event, len(o.Values))
}
