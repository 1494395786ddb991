package rounds

import (
	"fmt"

	"github.com/pkg/errors"

	"votingfsm_demo/store"
	"votingfsm_demo/types"
)

// Graph is the static transition table of the app: for every declared
// (round, event) pair the variant to enter next. Terminal rounds have empty
// outgoing edge sets and declared store post-conditions.
type Graph struct {
	initial types.RoundID
	table   map[types.RoundID]map[types.Event]types.RoundID

	// preConditions lists store keys that must already be committed before
	// a round may start; only the initial round's set is checked (and must
	// be empty, since the store starts empty).
	preConditions map[types.RoundID][]string
	// postConditions lists store keys that must be committed when a
	// terminal round is entered.
	postConditions map[types.RoundID][]string
}

// NewGraph builds a graph from an explicit table. Use NewVotingGraph for the
// app's production table; this constructor exists so tests can exercise
// validation failures.
func NewGraph(
	initial types.RoundID,
	table map[types.RoundID]map[types.Event]types.RoundID,
	preConditions map[types.RoundID][]string,
	postConditions map[types.RoundID][]string,
) *Graph {
	return &Graph{
		initial:        initial,
		table:          table,
		preConditions:  preConditions,
		postConditions: postConditions,
	}
}

// NewVotingGraph declares the app's transition table: price check, decision,
// then one of transaction preparation, IPFS store/retrieve, multisend or
// custom contract interaction. Every non-terminal round retries itself on
// no_majority and round_timeout.
func NewVotingGraph() *Graph {
	return NewGraph(
		types.APICheckRoundID,
		map[types.RoundID]map[types.Event]types.RoundID{
			types.APICheckRoundID: {
				types.EventNoMajority:   types.APICheckRoundID,
				types.EventRoundTimeout: types.APICheckRoundID,
				types.EventDone:         types.DecisionMakingRoundID,
			},
			types.DecisionMakingRoundID: {
				types.EventNoMajority:         types.DecisionMakingRoundID,
				types.EventRoundTimeout:       types.DecisionMakingRoundID,
				types.EventDone:               types.FinishedDecisionMakingID,
				types.EventError:              types.FinishedDecisionMakingID,
				types.EventTransact:           types.TxPreparationRoundID,
				types.EventIPFSStored:         types.IPFSRetrieveRoundID,
				types.EventMultisendDone:      types.MultisendTxRoundID,
				types.EventContractInteracted: types.CustomContractRoundID,
			},
			types.TxPreparationRoundID: {
				types.EventNoMajority:   types.TxPreparationRoundID,
				types.EventRoundTimeout: types.TxPreparationRoundID,
				types.EventDone:         types.FinishedTxPreparationID,
			},
			types.IPFSStoreRoundID: {
				types.EventNoMajority:   types.IPFSStoreRoundID,
				types.EventRoundTimeout: types.IPFSStoreRoundID,
				types.EventIPFSStored:   types.FinishedIPFSID,
			},
			types.IPFSRetrieveRoundID: {
				types.EventNoMajority:    types.IPFSRetrieveRoundID,
				types.EventRoundTimeout:  types.IPFSRetrieveRoundID,
				types.EventIPFSRetrieved: types.FinishedIPFSID,
			},
			types.MultisendTxRoundID: {
				types.EventNoMajority:    types.MultisendTxRoundID,
				types.EventRoundTimeout:  types.MultisendTxRoundID,
				types.EventMultisendDone: types.FinishedMultisendID,
			},
			types.CustomContractRoundID: {
				types.EventNoMajority:         types.CustomContractRoundID,
				types.EventRoundTimeout:       types.CustomContractRoundID,
				types.EventContractInteracted: types.FinishedContractID,
			},
			types.FinishedDecisionMakingID: {},
			types.FinishedTxPreparationID:  {},
			types.FinishedIPFSID:           {},
			types.FinishedMultisendID:      {},
			types.FinishedContractID:       {},
		},
		map[types.RoundID][]string{
			types.APICheckRoundID: {},
		},
		map[types.RoundID][]string{
			types.FinishedDecisionMakingID: {},
			types.FinishedTxPreparationID:  {store.KeyMostVotedTxHash},
			types.FinishedIPFSID:           {store.KeyIPFSHash},
			types.FinishedMultisendID:      {store.KeyMultisendTxHash},
			types.FinishedContractID:       {store.KeyContractInteractionResult},
		},
	)
}

// Initial returns the entry round.
func (g *Graph) Initial() types.RoundID {
	return g.initial
}

// Next looks up the successor round for (current, event). An undeclared pair
// is a configuration error; once Validate passed it can not occur for events
// the rounds actually emit.
func (g *Graph) Next(current types.RoundID, event types.Event) (types.RoundID, error) {
	edges, ok := g.table[current]
	if !ok {
		return "", ErrNoSuchTransition{From: current, Event: event}
	}
	next, ok := edges[event]
	if !ok {
		return "", ErrNoSuchTransition{From: current, Event: event}
	}
	return next, nil
}

// IsFinal reports whether the round has no outgoing transitions.
func (g *Graph) IsFinal(id types.RoundID) bool {
	return len(g.table[id]) == 0
}

// PostConditions returns the store keys required on entering a terminal
// round.
func (g *Graph) PostConditions(id types.RoundID) []string {
	return g.postConditions[id]
}

// Validate performs the startup consistency checks. Any failure is fatal:
// the engine refuses to start rather than run with an invalid graph.
func (g *Graph) Validate() error {
	if _, ok := g.table[g.initial]; !ok {
		return errors.Errorf("initial round %v is not declared in the transition table", g.initial)
	}
	if g.IsFinal(g.initial) {
		return errors.Errorf("initial round %v is terminal", g.initial)
	}
	if keys := g.preConditions[g.initial]; len(keys) != 0 {
		// the store is empty at startup
		return ErrUnmetCondition{Round: g.initial, Key: keys[0]}
	}

	for id, edges := range g.table {
		schema, ok := roundSchemas[id]
		if !ok {
			return errors.Errorf("round %v has no declared schema", id)
		}

		if schema.finished != g.IsFinal(id) {
			return errors.Errorf("round %v: schema and transition table disagree on terminality", id)
		}

		for event, next := range edges {
			if !event.Valid() {
				return errors.Errorf("round %v declares unknown event %q", id, event)
			}
			if _, ok := g.table[next]; !ok {
				return errors.Errorf("transition (%v, %v) targets undeclared round %v", id, event, next)
			}
		}

		if g.IsFinal(id) {
			continue
		}

		// retry policy: every open round must declare its self-loops
		for _, retry := range []types.Event{types.EventNoMajority, types.EventRoundTimeout} {
			if next, ok := edges[retry]; !ok {
				return ErrNoSuchTransition{From: id, Event: retry}
			} else if next != id {
				return errors.Errorf("transition (%v, %v) must be a self-loop, targets %v", id, retry, next)
			}
		}

		if err := validateSchemaKeys(id, schema); err != nil {
			return err
		}
	}

	return g.validatePostConditions()
}

// validateSchemaKeys checks the variant's declared keys against the store's
// enumerated schema.
func validateSchemaKeys(id types.RoundID, schema roundSchema) error {
	for _, key := range schema.selectionKeys {
		if !store.IsRegisteredKey(key) {
			return errors.Errorf("round %v: selection key %q is not part of the store schema", id, key)
		}
	}
	if schema.collectionKey != "" && !store.IsRegisteredKey(schema.collectionKey) {
		return errors.Errorf("round %v: collection key %q is not part of the store schema", id, schema.collectionKey)
	}
	return nil
}

// validatePostConditions checks that every terminal round's required keys
// are produced by at least one edge leading into it.
func (g *Graph) validatePostConditions() error {
	for final, required := range g.postConditions {
		if !g.IsFinal(final) {
			return errors.Errorf("post-conditions declared for non-terminal round %v", final)
		}

		for _, key := range required {
			if !g.keyProducedBeforeEntering(final, key) {
				return errors.Wrap(
					ErrUnmetCondition{Round: final, Key: key},
					"no edge into the terminal round produces the key",
				)
			}
		}
	}
	return nil
}

func (g *Graph) keyProducedBeforeEntering(final types.RoundID, key string) bool {
	for from, edges := range g.table {
		for _, to := range edges {
			if to != final {
				continue
			}
			for _, produced := range roundSchemas[from].selectionKeys {
				if produced == key {
					return true
				}
			}
		}
	}
	return false
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph{initial=%v rounds=%d}", g.initial, len(g.table))
}
