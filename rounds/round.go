package rounds

import (
	"fmt"

	rtypes "votingfsm_demo/rounds/types"
	"votingfsm_demo/state"
	"votingfsm_demo/store"
	"votingfsm_demo/types"
)

// Round owns one collection cycle: it accepts payloads for its variant and
// converts the accumulated collection into an outcome. The engine operates
// only on this capability, never on variant-specific fields.
type Round interface {
	ID() types.RoundID
	PayloadKind() types.PayloadKind

	// Accept validates and stores one payload. A sender resubmitting
	// replaces its prior payload. Fails with ErrWrongPayloadKind on a
	// schema mismatch and ErrRoundAlreadySettled after a terminal outcome.
	Accept(p types.Payload) error

	// TryResolve evaluates the current collection. It returns nil while
	// the round is still pending and the same terminal outcome on every
	// call after settlement.
	TryResolve(sd *state.SynchronizedData) *rtypes.Outcome
}

// roundSchema statically declares one variant: its payload schema, done
// event and the store keys it writes on settlement.
type roundSchema struct {
	kind          types.PayloadKind
	doneEvent     types.Event
	selectionKeys []string
	collectionKey string

	// decision marks the variant that maps its agreed value through the
	// event enumeration instead of writing store values.
	decision bool
	// finished marks terminal sinks that collect nothing.
	finished bool
}

var roundSchemas = map[types.RoundID]roundSchema{
	types.APICheckRoundID: {
		kind:          types.PricePayloadKind,
		doneEvent:     types.EventDone,
		selectionKeys: []string{store.KeyPrice},
		collectionKey: store.KeyParticipantToPriceRound,
	},
	types.DecisionMakingRoundID: {
		kind:     types.DecisionPayloadKind,
		decision: true,
	},
	types.TxPreparationRoundID: {
		kind:          types.TxPreparationPayloadKind,
		doneEvent:     types.EventDone,
		selectionKeys: []string{store.KeyTxSubmitter, store.KeyMostVotedTxHash},
		collectionKey: store.KeyParticipantToTxRound,
	},
	types.IPFSStoreRoundID: {
		kind:          types.IPFSPayloadKind,
		doneEvent:     types.EventIPFSStored,
		selectionKeys: []string{store.KeyIPFSHash},
		collectionKey: store.KeyParticipantToIPFSRound,
	},
	types.IPFSRetrieveRoundID: {
		kind:          types.IPFSPayloadKind,
		doneEvent:     types.EventIPFSRetrieved,
		selectionKeys: []string{store.KeyIPFSHash},
		collectionKey: store.KeyParticipantToIPFSRound,
	},
	types.MultisendTxRoundID: {
		kind:          types.MultisendPayloadKind,
		doneEvent:     types.EventMultisendDone,
		selectionKeys: []string{store.KeyMultisendTxHash},
		collectionKey: store.KeyParticipantToMultisend,
	},
	types.CustomContractRoundID: {
		kind:          types.ContractPayloadKind,
		doneEvent:     types.EventContractInteracted,
		selectionKeys: []string{store.KeyContractInteractionResult},
		collectionKey: store.KeyParticipantToContractRound,
	},
	types.FinishedDecisionMakingID: {finished: true},
	types.FinishedTxPreparationID:  {finished: true},
	types.FinishedIPFSID:           {finished: true},
	types.FinishedMultisendID:      {finished: true},
	types.FinishedContractID:       {finished: true},
}

// NewRound instantiates the variant's round logic with an empty collection.
func NewRound(id types.RoundID, nbParticipants, threshold int) (Round, error) {
	schema, ok := roundSchemas[id]
	if !ok {
		return nil, fmt.Errorf("unknown round variant %v", id)
	}

	if schema.finished {
		return &finishedRound{id: id}, nil
	}

	base := &collectRound{
		id:             id,
		schema:         schema,
		nbParticipants: nbParticipants,
		threshold:      threshold,
		collection:     rtypes.NewPayloadSet(),
	}
	if schema.decision {
		return &decisionRound{collectRound: base}, nil
	}
	return base, nil
}

// ----- collectRound -----

// collectRound implements the default collect-same-until-threshold logic.
type collectRound struct {
	id     types.RoundID
	schema roundSchema

	nbParticipants int
	threshold      int

	collection *rtypes.PayloadSet
	outcome    *rtypes.Outcome
}

func (r *collectRound) ID() types.RoundID {
	return r.id
}

func (r *collectRound) PayloadKind() types.PayloadKind {
	return r.schema.kind
}

func (r *collectRound) Accept(p types.Payload) error {
	if r.outcome != nil {
		return ErrRoundAlreadySettled
	}
	if p.Kind() != r.schema.kind {
		return fmt.Errorf("%w: got %v, want %v", ErrWrongPayloadKind, p.Kind(), r.schema.kind)
	}
	if err := p.ValidateBasic(); err != nil {
		return err
	}

	r.collection.AddPayload(p)
	return nil
}

func (r *collectRound) TryResolve(sd *state.SynchronizedData) *rtypes.Outcome {
	if r.outcome != nil {
		return r.outcome
	}

	res := Evaluate(r.collection, r.nbParticipants, r.threshold)
	switch res.Status {
	case rtypes.OutcomeSettled:
		r.outcome = r.settledOutcome(res.Winner)
	case rtypes.OutcomeUnreachable:
		r.outcome = noMajorityOutcome()
	}
	return r.outcome
}

func (r *collectRound) settledOutcome(winner types.Payload) *rtypes.Outcome {
	values := winner.SelectionValues()
	if len(values) != len(r.schema.selectionKeys) {
		// the variant schemas are static; a mismatch can not be recovered
		panic(fmt.Sprintf(
			"round %v: %d selection values for %d selection keys",
			r.id, len(values), len(r.schema.selectionKeys),
		))
	}

	selected := make(map[string]interface{}, len(values))
	for i, key := range r.schema.selectionKeys {
		selected[key] = values[i]
	}

	return &rtypes.Outcome{
		Status:        rtypes.OutcomeSettled,
		Event:         r.schema.doneEvent,
		Values:        selected,
		CollectionKey: r.schema.collectionKey,
		Collection:    r.collection.Snapshot(),
	}
}

func noMajorityOutcome() *rtypes.Outcome {
	return &rtypes.Outcome{
		Status: rtypes.OutcomeUnreachable,
		Event:  types.EventNoMajority,
	}
}

// ----- decisionRound -----

// decisionRound layers the event interpretation of DecisionMakingRound on
// top of the default majority check: the agreed value names the next event,
// and converging on a value outside the enumeration yields the error event
// rather than a failure.
type decisionRound struct {
	*collectRound
}

func (r *decisionRound) TryResolve(sd *state.SynchronizedData) *rtypes.Outcome {
	if r.outcome != nil {
		return r.outcome
	}

	res := Evaluate(r.collection, r.nbParticipants, r.threshold)
	switch res.Status {
	case rtypes.OutcomeSettled:
		event, err := types.EventFromString(res.Winner.SelectionKey())
		if err != nil {
			event = types.EventError
		}
		r.outcome = &rtypes.Outcome{
			Status: rtypes.OutcomeSettled,
			Event:  event,
		}
	case rtypes.OutcomeUnreachable:
		r.outcome = noMajorityOutcome()
	}
	return r.outcome
}

// ----- finishedRound -----

// finishedRound is a terminal sink: no payloads, no outgoing transitions.
type finishedRound struct {
	id types.RoundID
}

func (r *finishedRound) ID() types.RoundID              { return r.id }
func (r *finishedRound) PayloadKind() types.PayloadKind { return types.PayloadKind(0) }

func (r *finishedRound) Accept(p types.Payload) error {
	return ErrFinishedRound
}

func (r *finishedRound) TryResolve(sd *state.SynchronizedData) *rtypes.Outcome {
	return nil
}
