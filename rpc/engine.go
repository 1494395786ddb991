package rpc

import (
	tmjson "github.com/tendermint/tendermint/libs/json"
	rpctypes "github.com/tendermint/tendermint/rpc/jsonrpc/types"

	"votingfsm_demo/types"
)

// Status result
type ResultStatus struct {
	Moniker      string        `json:"moniker,omitempty"`
	CurrentRound types.RoundID `json:"current_round"`
	RoundIndex   int64         `json:"round_index"`
	Finished     bool          `json:"finished"`
	Threshold    int           `json:"threshold"`
	Participants []string      `json:"participants"`
	StoreVersion int64         `json:"store_version"`
}

func Status(ctx *rpctypes.Context) (*ResultStatus, error) {
	id, index := env.Engine.CurrentRound()

	participants := []string{}
	env.SyncData.Participants().Iterate(func(_ int, p *types.Participant) bool {
		participants = append(participants, p.Address.String())
		return false
	})

	return &ResultStatus{
		CurrentRound: id,
		RoundIndex:   index,
		Finished:     env.Engine.IsFinished(),
		Threshold:    env.Engine.Threshold(),
		Participants: participants,
		StoreVersion: env.SyncData.Version(),
	}, nil
}

// SubmitPayload result
type ResultSubmitPayload struct {
	Sender string        `json:"sender"`
	Round  types.RoundID `json:"round"`
}

// SubmitPayload feeds one externally produced payload into the engine. The
// payload is tmjson encoded so its concrete type rides along.
func SubmitPayload(ctx *rpctypes.Context, payload []byte) (*ResultSubmitPayload, error) {
	var p types.Payload
	if err := tmjson.Unmarshal(payload, &p); err != nil {
		return nil, err
	}

	if err := env.Engine.Submit(p); err != nil {
		return nil, err
	}

	id, _ := env.Engine.CurrentRound()
	return &ResultSubmitPayload{
		Sender: p.Sender().String(),
		Round:  id,
	}, nil
}
