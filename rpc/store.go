package rpc

import (
	tmjson "github.com/tendermint/tendermint/libs/json"
	rpctypes "github.com/tendermint/tendermint/rpc/jsonrpc/types"
)

// StoreGet result
type ResultStoreGet struct {
	Key   string `json:"key"`
	Found bool   `json:"found"`
	Value string `json:"value"`
}

func StoreGet(ctx *rpctypes.Context, key string) (*ResultStoreGet, error) {
	raw, ok, err := env.SyncData.Store().Get(key)
	if err != nil {
		return nil, err
	}
	return &ResultStoreGet{
		Key:   key,
		Found: ok,
		Value: string(raw),
	}, nil
}

// Collection result
type ResultCollection struct {
	Key     string            `json:"key"`
	Size    int               `json:"size"`
	Senders map[string]string `json:"senders"`
}

// Collection lists a committed per-sender collection, payloads rendered as
// their tmjson encoding.
func Collection(ctx *rpctypes.Context, key string) (*ResultCollection, error) {
	collection, err := env.SyncData.Collection(key)
	if err != nil {
		return nil, err
	}

	senders := make(map[string]string, len(collection))
	for sender, p := range collection {
		raw, err := tmjson.Marshal(p)
		if err != nil {
			return nil, err
		}
		senders[sender] = string(raw)
	}

	return &ResultCollection{
		Key:     key,
		Size:    len(collection),
		Senders: senders,
	}, nil
}
