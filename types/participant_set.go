// adapted from github.com/tendermint/tendermint/types/validator_set.go
package types

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	tmrand "github.com/tendermint/tendermint/libs/rand"
)

// ParticipantSet represents the fixed cohort of a run.
//
// Participants can be fetched by address or index. The set is sorted by
// address (ascending) so every replica derives identical indices from the
// same configuration.
//
// NOTE: Not goroutine-safe.
// NOTE: All get/set to participants should copy the value for safety.
type ParticipantSet struct {
	Participants []*Participant `json:"participants"`
}

// NewParticipantSet initializes a ParticipantSet by copying over the values
// from `parts`. If parts is nil or empty, the new ParticipantSet will have an
// empty list of participants. The addresses in `parts` must be unique,
// otherwise the function panics.
func NewParticipantSet(parts []*Participant) *ParticipantSet {
	ps := &ParticipantSet{}
	ps.Participants = make([]*Participant, 0, len(parts))

	for _, part := range parts {
		if ps.HasAddress(part.Address) {
			panic(fmt.Sprintf("duplicate participant address %v", part.Address))
		}
		ps.Participants = append(ps.Participants, part.Copy())
	}

	sort.Slice(ps.Participants, func(i, j int) bool {
		return bytes.Compare(ps.Participants[i].Address, ps.Participants[j].Address) < 0
	})

	return ps
}

func (ps *ParticipantSet) ValidateBasic() error {
	if ps.IsNilOrEmpty() {
		return errors.New("participant set is nil or empty")
	}

	for idx, part := range ps.Participants {
		if err := part.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid participant #%d: %w", idx, err)
		}
	}

	return nil
}

// IsNilOrEmpty returns true if the participant set is nil or empty.
func (ps *ParticipantSet) IsNilOrEmpty() bool {
	return ps == nil || len(ps.Participants) == 0
}

func participantListCopy(parts []*Participant) []*Participant {
	if parts == nil {
		return nil
	}
	partsCopy := make([]*Participant, len(parts))
	for i, part := range parts {
		partsCopy[i] = part.Copy()
	}
	return partsCopy
}

// Copy each participant into a new ParticipantSet.
func (ps *ParticipantSet) Copy() *ParticipantSet {
	return &ParticipantSet{
		Participants: participantListCopy(ps.Participants),
	}
}

// HasAddress returns true if the address given is in the set.
func (ps *ParticipantSet) HasAddress(address Address) bool {
	for _, part := range ps.Participants {
		if bytes.Equal(part.Address, address) {
			return true
		}
	}
	return false
}

// GetByAddress returns an index of the participant with the address and the
// participant itself (copy) if found. Otherwise, -1 and nil are returned.
func (ps *ParticipantSet) GetByAddress(address Address) (index int32, part *Participant) {
	for idx, part := range ps.Participants {
		if bytes.Equal(part.Address, address) {
			return int32(idx), part.Copy()
		}
	}
	return -1, nil
}

// GetByIndex returns the participant's address and the participant itself
// (copy) by index. It returns nil values if the index is out of range.
func (ps *ParticipantSet) GetByIndex(index int32) (address Address, part *Participant) {
	if index < 0 || int(index) >= len(ps.Participants) {
		return nil, nil
	}
	part = ps.Participants[index]
	return part.Address, part.Copy()
}

// Size returns the length of the participant set.
func (ps *ParticipantSet) Size() int {
	return len(ps.Participants)
}

// Iterate will run the given function over the set.
func (ps *ParticipantSet) Iterate(fn func(index int, part *Participant) bool) {
	for i, part := range ps.Participants {
		stop := fn(i, part.Copy())
		if stop {
			break
		}
	}
}

// String returns a string representation of ParticipantSet.
//
// See StringIndented.
func (ps *ParticipantSet) String() string {
	return ps.StringIndented("")
}

// StringIndented returns an indented String.
func (ps *ParticipantSet) StringIndented(indent string) string {
	if ps == nil {
		return "nil-ParticipantSet"
	}
	var partStrings []string
	ps.Iterate(func(index int, part *Participant) bool {
		partStrings = append(partStrings, part.String())
		return false
	})
	return fmt.Sprintf(`ParticipantSet{
%s  Participants:
%s    %v
%s}`,
		indent,
		indent, strings.Join(partStrings, "\n"+indent+"    "),
		indent)
}

//----------------------------------------

// RandParticipantSet returns a randomized participant set of the given size.
//
// EXPOSED FOR TESTING.
func RandParticipantSet(numParticipants int) *ParticipantSet {
	parts := make([]*Participant, numParticipants)
	for i := 0; i < numParticipants; i++ {
		parts[i] = NewParticipant(Address(tmrand.Bytes(20)))
	}
	return NewParticipantSet(parts)
}
