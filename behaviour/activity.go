package behaviour

import (
	"votingfsm_demo/state"
	"votingfsm_demo/types"
)

// Activity is the pluggable business logic paired with one round variant:
// it produces the value a participant submits as its payload. Activities
// read the synchronized store but never write it.
type Activity interface {
	MatchingRound() types.RoundID
	Produce(sd *state.SynchronizedData, sender types.Address) (types.Payload, error)
}

// The shipped activities are placeholders, to be replaced with real
// integrations (price API, transaction builder, IPFS client, multisend
// assembler) without changing the engine or round contracts.

// ----- APICheckRound -----

// PriceActivity reports a fixed token price.
type PriceActivity struct {
	Price float64
}

func (a *PriceActivity) MatchingRound() types.RoundID {
	return types.APICheckRoundID
}

func (a *PriceActivity) Produce(sd *state.SynchronizedData, sender types.Address) (types.Payload, error) {
	return types.NewPricePayload(sender, a.Price), nil
}

// ----- DecisionMakingRound -----

// DecisionActivity votes for a fixed next event.
type DecisionActivity struct {
	EventName string
}

func (a *DecisionActivity) MatchingRound() types.RoundID {
	return types.DecisionMakingRoundID
}

func (a *DecisionActivity) Produce(sd *state.SynchronizedData, sender types.Address) (types.Payload, error) {
	return types.NewDecisionPayload(sender, a.EventName), nil
}

// ----- TxPreparationRound -----

// TxPreparationActivity reports a fixed prepared transaction hash.
type TxPreparationActivity struct {
	TxHash string
}

func (a *TxPreparationActivity) MatchingRound() types.RoundID {
	return types.TxPreparationRoundID
}

func (a *TxPreparationActivity) Produce(sd *state.SynchronizedData, sender types.Address) (types.Payload, error) {
	return types.NewTxPreparationPayload(sender, types.TxPreparationRoundID.String(), a.TxHash), nil
}

// ----- IPFSStoreRound / IPFSRetrieveRound -----

// IPFSStoreActivity pretends to pin data and reports its content hash.
type IPFSStoreActivity struct {
	Hash string
	Data string
}

func (a *IPFSStoreActivity) MatchingRound() types.RoundID {
	return types.IPFSStoreRoundID
}

func (a *IPFSStoreActivity) Produce(sd *state.SynchronizedData, sender types.Address) (types.Payload, error) {
	return types.NewIPFSPayload(sender, a.Hash, a.Data), nil
}

// IPFSRetrieveActivity re-reports the hash agreed by the store round, or a
// fixed one when none was committed.
type IPFSRetrieveActivity struct {
	Hash string
}

func (a *IPFSRetrieveActivity) MatchingRound() types.RoundID {
	return types.IPFSRetrieveRoundID
}

func (a *IPFSRetrieveActivity) Produce(sd *state.SynchronizedData, sender types.Address) (types.Payload, error) {
	hash := a.Hash
	if agreed, ok := sd.IPFSHash(); ok {
		hash = agreed
	}
	return types.NewIPFSPayload(sender, hash, ""), nil
}

// ----- MultisendTxRound -----

// MultisendActivity reports a fixed assembled multisend transaction.
type MultisendActivity struct {
	TxHash       string
	Transactions string
}

func (a *MultisendActivity) MatchingRound() types.RoundID {
	return types.MultisendTxRoundID
}

func (a *MultisendActivity) Produce(sd *state.SynchronizedData, sender types.Address) (types.Payload, error) {
	return types.NewMultisendPayload(sender, types.MultisendTxRoundID.String(), a.TxHash, a.Transactions), nil
}

// ----- CustomContractRound -----

// ContractActivity proposes a fixed contract call descriptor.
type ContractActivity struct {
	ContractAddress string
	FunctionName    string
	FunctionArgs    string
}

func (a *ContractActivity) MatchingRound() types.RoundID {
	return types.CustomContractRoundID
}

func (a *ContractActivity) Produce(sd *state.SynchronizedData, sender types.Address) (types.Payload, error) {
	return types.NewContractPayload(sender, a.ContractAddress, a.FunctionName, a.FunctionArgs), nil
}

// DefaultActivities returns the placeholder activity per collecting round.
// decisionEvent selects the branch the decision round votes for.
func DefaultActivities(decisionEvent string) map[types.RoundID]Activity {
	activities := []Activity{
		&PriceActivity{Price: 1.0},
		&DecisionActivity{EventName: decisionEvent},
		&TxPreparationActivity{TxHash: "0x0000000000000000000000000000000000000000000000000000000000000000"},
		&IPFSStoreActivity{Hash: "QmPlaceholderHash", Data: "{}"},
		&IPFSRetrieveActivity{Hash: "QmPlaceholderHash"},
		&MultisendActivity{TxHash: "0xMultiSendTxHash", Transactions: "[]"},
		&ContractActivity{
			ContractAddress: "0x0000000000000000000000000000000000000000",
			FunctionName:    "noop",
			FunctionArgs:    "[]",
		},
	}

	byRound := make(map[types.RoundID]Activity, len(activities))
	for _, a := range activities {
		byRound[a.MatchingRound()] = a
	}
	return byRound
}
