// adapted from github.com/tendermint/tendermint/types/validator.go
package types

import (
	"errors"
	"fmt"

	"github.com/tendermint/tendermint/crypto"
)

// Participant is one member of the fixed cohort driving the voting app.
// Identity is stable for the lifetime of a run.
type Participant struct {
	Address Address `json:"address"`
}

func NewParticipant(addr Address) *Participant {
	return &Participant{
		Address: addr,
	}
}

// ValidateBasic performs basic validation.
func (p *Participant) ValidateBasic() error {
	if p == nil {
		return errors.New("nil participant")
	}
	if len(p.Address) != crypto.AddressSize {
		return fmt.Errorf("participant address is the wrong size: %v", p.Address)
	}
	return nil
}

// Copy returns a new copy of the participant.
// Panics if the participant is nil.
func (p *Participant) Copy() *Participant {
	pCopy := *p
	return &pCopy
}

func (p *Participant) String() string {
	if p == nil {
		return "nil-Participant"
	}
	return fmt.Sprintf("Participant{%v}", p.Address)
}
