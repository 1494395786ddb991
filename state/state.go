package state

import (
	"github.com/pkg/errors"
	tmjson "github.com/tendermint/tendermint/libs/json"

	"votingfsm_demo/store"
	"votingfsm_demo/types"
)

// SynchronizedData is the typed, read-only view every round and activity
// gets over the synchronized store. Writes happen only through the engine's
// outcome commits.
type SynchronizedData struct {
	store        *store.SyncStore
	participants *types.ParticipantSet
}

func NewSynchronizedData(ss *store.SyncStore, participants *types.ParticipantSet) *SynchronizedData {
	return &SynchronizedData{
		store:        ss,
		participants: participants,
	}
}

// Participants returns the fixed cohort of the run.
func (sd *SynchronizedData) Participants() *types.ParticipantSet {
	return sd.participants
}

func (sd *SynchronizedData) NbParticipants() int {
	return sd.participants.Size()
}

// Store exposes the underlying synchronized store.
func (sd *SynchronizedData) Store() *store.SyncStore {
	return sd.store
}

// Version is the round index of the last committed outcome.
func (sd *SynchronizedData) Version() int64 {
	return sd.store.Version()
}

// Price returns the agreed token price, if any round has committed one.
func (sd *SynchronizedData) Price() (float64, bool) {
	var price float64
	ok := sd.get(store.KeyPrice, &price)
	return price, ok
}

// MostVotedTxHash returns the agreed transaction hash, if committed.
func (sd *SynchronizedData) MostVotedTxHash() (string, bool) {
	var hash string
	ok := sd.get(store.KeyMostVotedTxHash, &hash)
	return hash, ok
}

// TxSubmitter returns the round that submitted the settled transaction.
// Unlike the other getters it is strict: the key must be present.
func (sd *SynchronizedData) TxSubmitter() (string, error) {
	var submitter string
	if !sd.get(store.KeyTxSubmitter, &submitter) {
		return "", errors.Errorf("store has no %q", store.KeyTxSubmitter)
	}
	return submitter, nil
}

// IPFSHash returns the agreed content hash, if committed.
func (sd *SynchronizedData) IPFSHash() (string, bool) {
	var hash string
	ok := sd.get(store.KeyIPFSHash, &hash)
	return hash, ok
}

// MultisendTxHash returns the agreed multisend transaction hash, if committed.
func (sd *SynchronizedData) MultisendTxHash() (string, bool) {
	var hash string
	ok := sd.get(store.KeyMultisendTxHash, &hash)
	return hash, ok
}

// ContractInteractionResult returns the agreed contract call descriptor, if
// committed.
func (sd *SynchronizedData) ContractInteractionResult() (string, bool) {
	var result string
	ok := sd.get(store.KeyContractInteractionResult, &result)
	return result, ok
}

// Collection returns the audit collection committed under key: the full
// sender-keyed payload set of the settling round.
func (sd *SynchronizedData) Collection(key string) (map[string]types.Payload, error) {
	raw, ok, err := sd.store.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("store has no collection %q", key)
	}

	collection := make(map[string]types.Payload)
	if err := tmjson.Unmarshal(raw, &collection); err != nil {
		return nil, errors.Wrapf(err, "unmarshal collection %q", key)
	}
	return collection, nil
}

func (sd *SynchronizedData) get(key string, out interface{}) bool {
	raw, ok, err := sd.store.Get(key)
	if err != nil || !ok {
		return false
	}
	return tmjson.Unmarshal(raw, out) == nil
}
