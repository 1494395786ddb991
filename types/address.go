package types

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/tendermint/tendermint/crypto"
)

type Address crypto.Address

func GetAddress(key crypto.PubKey) Address {
	return Address(key.Address())
}

// AddressFromString parses a hex encoded address, e.g. from a config file.
func AddressFromString(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty address")
	}
	return Address(raw), nil
}

func (addr Address) Equal(other Address) bool {
	if addr == nil || other == nil {
		return false
	}
	return bytes.Equal(crypto.Address(addr), crypto.Address(other))
}

func (addr Address) String() string {
	return crypto.Address(addr).String()
}
