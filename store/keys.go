package store

// The synchronized store schema is a closed, enumerated key registry.
// Every selection and collection key a round variant declares must name one
// of these constants; the transition graph checks that at startup.
const (
	KeyPrice                      = "price"
	KeyParticipantToPriceRound    = "participant_to_price_round"
	KeyMostVotedTxHash            = "most_voted_tx_hash"
	KeyParticipantToTxRound       = "participant_to_tx_round"
	KeyTxSubmitter                = "tx_submitter"
	KeyIPFSHash                   = "ipfs_hash"
	KeyParticipantToIPFSRound     = "participant_to_ipfs_round"
	KeyMultisendTxHash            = "multisend_tx_hash"
	KeyParticipantToMultisend     = "participant_to_multisend_round"
	KeyContractInteractionResult  = "contract_interaction_result"
	KeyParticipantToContractRound = "participant_to_contract_round"
)

var registeredKeys = map[string]struct{}{
	KeyPrice:                      {},
	KeyParticipantToPriceRound:    {},
	KeyMostVotedTxHash:            {},
	KeyParticipantToTxRound:       {},
	KeyTxSubmitter:                {},
	KeyIPFSHash:                   {},
	KeyParticipantToIPFSRound:     {},
	KeyMultisendTxHash:            {},
	KeyParticipantToMultisend:     {},
	KeyContractInteractionResult:  {},
	KeyParticipantToContractRound: {},
}

// IsRegisteredKey reports whether key belongs to the store schema.
func IsRegisteredKey(key string) bool {
	_, ok := registeredKeys[key]
	return ok
}

// RegisteredKeys returns the full schema, for diagnostics.
func RegisteredKeys() []string {
	keys := make([]string, 0, len(registeredKeys))
	for k := range registeredKeys {
		keys = append(keys, k)
	}
	return keys
}
