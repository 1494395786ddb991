package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmrand "github.com/tendermint/tendermint/libs/rand"
)

func randAddress() Address {
	return Address(tmrand.Bytes(20))
}

func TestPayloadValidateBasic(t *testing.T) {
	sender := randAddress()

	tests := []struct {
		name    string
		payload Payload
		wantErr bool
	}{
		{"price ok", NewPricePayload(sender, 1.0), false},
		{"price no sender", NewPricePayload(nil, 1.0), true},
		{"decision ok", NewDecisionPayload(sender, "transact"), false},
		{"decision empty event", NewDecisionPayload(sender, ""), true},
		{"tx preparation ok", NewTxPreparationPayload(sender, "submitter", ""), false},
		{"ipfs ok", NewIPFSPayload(sender, "QmX", "{}"), false},
		{"ipfs empty hash", NewIPFSPayload(sender, "", ""), true},
		{"multisend ok", NewMultisendPayload(sender, "s", "0xM", "[]"), false},
		{"multisend empty hash", NewMultisendPayload(sender, "s", "", "[]"), true},
		{"contract ok", NewContractPayload(sender, "0xC", "fn", "[]"), false},
		{"contract empty addr", NewContractPayload(sender, "", "fn", "[]"), true},
		{"contract empty fn", NewContractPayload(sender, "0xC", "", "[]"), true},
	}

	for _, test := range tests {
		err := test.payload.ValidateBasic()
		if test.wantErr {
			assert.Error(t, err, test.name)
		} else {
			assert.NoError(t, err, test.name)
		}
	}
}

func TestSelectionKeyAgreement(t *testing.T) {
	a, b := randAddress(), randAddress()

	// same value, different senders: one voting group
	assert.Equal(t,
		NewPricePayload(a, 1.0).SelectionKey(),
		NewPricePayload(b, 1.0).SelectionKey(),
	)
	assert.NotEqual(t,
		NewPricePayload(a, 1.0).SelectionKey(),
		NewPricePayload(a, 2.0).SelectionKey(),
	)

	// multi-field selections serialize canonically
	assert.Equal(t, "sub|0xabc", NewTxPreparationPayload(a, "sub", "0xabc").SelectionKey())
	assert.Equal(t, "0xC|fn|[]", NewContractPayload(a, "0xC", "fn", "[]").SelectionKey())

	// auxiliary data stays out of the agreement
	assert.Equal(t,
		NewIPFSPayload(a, "QmX", "some data").SelectionKey(),
		NewIPFSPayload(b, "QmX", "other data").SelectionKey(),
	)
}

func TestSelectionValuesMatchKeys(t *testing.T) {
	sender := randAddress()

	assert.Equal(t, []interface{}{1.5}, NewPricePayload(sender, 1.5).SelectionValues())
	assert.Nil(t, NewDecisionPayload(sender, "done").SelectionValues())
	assert.Equal(t,
		[]interface{}{"sub", "0xabc"},
		NewTxPreparationPayload(sender, "sub", "0xabc").SelectionValues(),
	)
	assert.Equal(t, []interface{}{"QmX"}, NewIPFSPayload(sender, "QmX", "").SelectionValues())
	assert.Equal(t, []interface{}{"0xM"}, NewMultisendPayload(sender, "s", "0xM", "").SelectionValues())
	assert.Equal(t,
		[]interface{}{"0xC|fn|[]"},
		NewContractPayload(sender, "0xC", "fn", "[]").SelectionValues(),
	)
}

func TestPayloadCodecRoundTrip(t *testing.T) {
	sender := randAddress()
	original := Payload(NewTxPreparationPayload(sender, "sub", "0xabc"))

	raw, err := tmjson.Marshal(original)
	require.NoError(t, err)
	// the registered wrapper names the concrete type
	assert.Contains(t, string(raw), "votingfsm/TxPreparationPayload")

	var decoded Payload
	require.NoError(t, tmjson.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
	assert.Equal(t, TxPreparationPayloadKind, decoded.Kind())
}
