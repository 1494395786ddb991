package types

// RoundID tags one round variant of the voting app.
type RoundID string

const (
	APICheckRoundID            = RoundID("api_check_round")
	DecisionMakingRoundID      = RoundID("decision_making_round")
	TxPreparationRoundID       = RoundID("tx_preparation_round")
	IPFSStoreRoundID           = RoundID("ipfs_store_round")
	IPFSRetrieveRoundID        = RoundID("ipfs_retrieve_round")
	MultisendTxRoundID         = RoundID("multisend_tx_round")
	CustomContractRoundID      = RoundID("custom_contract_round")
	FinishedDecisionMakingID   = RoundID("finished_decision_making_round")
	FinishedTxPreparationID    = RoundID("finished_tx_preparation_round")
	FinishedIPFSID             = RoundID("finished_ipfs_round")
	FinishedMultisendID        = RoundID("finished_multisend_round")
	FinishedContractID         = RoundID("finished_contract_interaction_round")
)

func (id RoundID) String() string {
	return string(id)
}
