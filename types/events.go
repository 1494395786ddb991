package types

import "fmt"

// Event is the signal a settled (or failed) round produces. The transition
// graph consumes (RoundID, Event) pairs to select the next round.
type Event string

const (
	EventDone               = Event("done")
	EventError              = Event("error")
	EventTransact           = Event("transact")
	EventNoMajority         = Event("no_majority")
	EventRoundTimeout       = Event("round_timeout")
	EventIPFSStored         = Event("ipfs_stored")
	EventIPFSRetrieved      = Event("ipfs_retrieved")
	EventMultisendDone      = Event("multisend_done")
	EventContractInteracted = Event("contract_interacted")
)

var knownEvents = map[Event]struct{}{
	EventDone:               {},
	EventError:              {},
	EventTransact:           {},
	EventNoMajority:         {},
	EventRoundTimeout:       {},
	EventIPFSStored:         {},
	EventIPFSRetrieved:      {},
	EventMultisendDone:      {},
	EventContractInteracted: {},
}

// EventFromString maps a raw agreed value onto the event enumeration.
// DecisionMakingRound settles on arbitrary strings, so the mapping can fail.
func EventFromString(s string) (Event, error) {
	e := Event(s)
	if _, ok := knownEvents[e]; !ok {
		return "", fmt.Errorf("unknown event %q", s)
	}
	return e, nil
}

func (e Event) Valid() bool {
	_, ok := knownEvents[e]
	return ok
}

func (e Event) String() string {
	return string(e)
}
