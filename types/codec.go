package types

import (
	tmjson "github.com/tendermint/tendermint/libs/json"
)

func init() {
	tmjson.RegisterType(&PricePayload{}, "votingfsm/PricePayload")
	tmjson.RegisterType(&DecisionPayload{}, "votingfsm/DecisionPayload")
	tmjson.RegisterType(&TxPreparationPayload{}, "votingfsm/TxPreparationPayload")
	tmjson.RegisterType(&IPFSPayload{}, "votingfsm/IPFSPayload")
	tmjson.RegisterType(&MultisendPayload{}, "votingfsm/MultisendPayload")
	tmjson.RegisterType(&ContractPayload{}, "votingfsm/ContractPayload")
}
