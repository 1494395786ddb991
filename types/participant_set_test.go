package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantSetSortedByAddress(t *testing.T) {
	ps := RandParticipantSet(10)
	require.Equal(t, 10, ps.Size())

	for i := 1; i < ps.Size(); i++ {
		prev, _ := ps.GetByIndex(int32(i - 1))
		cur, _ := ps.GetByIndex(int32(i))
		assert.True(t, bytes.Compare(prev, cur) < 0, "set not sorted at %d", i)
	}
}

func TestParticipantSetLookups(t *testing.T) {
	ps := RandParticipantSet(4)

	addr, part := ps.GetByIndex(0)
	require.NotNil(t, part)
	assert.True(t, ps.HasAddress(addr))

	idx, found := ps.GetByAddress(addr)
	require.NotNil(t, found)
	assert.EqualValues(t, 0, idx)
	assert.True(t, addr.Equal(found.Address))

	assert.False(t, ps.HasAddress(Address([]byte("nobody-here-at-all"))))
	idx, found = ps.GetByAddress(Address([]byte("nobody-here-at-all")))
	assert.EqualValues(t, -1, idx)
	assert.Nil(t, found)

	addr, part = ps.GetByIndex(99)
	assert.Nil(t, addr)
	assert.Nil(t, part)
}

func TestParticipantSetRejectsDuplicates(t *testing.T) {
	part := NewParticipant(randAddress())

	assert.Panics(t, func() {
		NewParticipantSet([]*Participant{part, part.Copy()})
	})
}

func TestParticipantSetValidateBasic(t *testing.T) {
	assert.Error(t, (*ParticipantSet)(nil).ValidateBasic())
	assert.Error(t, NewParticipantSet(nil).ValidateBasic())

	// wrong address size
	bad := NewParticipantSet([]*Participant{NewParticipant(Address([]byte("short")))})
	assert.Error(t, bad.ValidateBasic())

	assert.NoError(t, RandParticipantSet(4).ValidateBasic())
}

func TestParticipantSetCopyIsIndependent(t *testing.T) {
	ps := RandParticipantSet(3)
	cp := ps.Copy()

	addr, _ := ps.GetByIndex(0)
	cp.Participants[0].Address = randAddress()

	// the original keeps its own participant values
	gotAddr, _ := ps.GetByIndex(0)
	assert.True(t, addr.Equal(gotAddr))
}

func TestIterateCopiesAndStops(t *testing.T) {
	ps := RandParticipantSet(5)

	count := 0
	ps.Iterate(func(index int, part *Participant) bool {
		count++
		part.Address = nil // mutating the copy must not touch the set
		return index == 2
	})
	assert.Equal(t, 3, count)
	assert.NoError(t, ps.ValidateBasic())
}
