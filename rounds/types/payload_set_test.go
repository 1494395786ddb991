package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"votingfsm_demo/types"
)

func testAddrs(count int) []types.Address {
	addrs := make([]types.Address, 0, count)
	types.RandParticipantSet(count).Iterate(func(_ int, p *types.Participant) bool {
		addrs = append(addrs, p.Address)
		return false
	})
	return addrs
}

func TestPayloadSetAddAndGet(t *testing.T) {
	addrs := testAddrs(2)
	set := NewPayloadSet()

	assert.True(t, set.AddPayload(types.NewPricePayload(addrs[0], 1.0)))
	assert.Equal(t, 1, set.Size())

	p, ok := set.GetBySender(addrs[0])
	require.True(t, ok)
	assert.Equal(t, addrs[0], p.Sender())

	_, ok = set.GetBySender(addrs[1])
	assert.False(t, ok)
}

func TestPayloadSetResubmission(t *testing.T) {
	addrs := testAddrs(1)
	set := NewPayloadSet()

	require.True(t, set.AddPayload(types.NewPricePayload(addrs[0], 1.0)))
	// second submission replaces the slot, size stays at one
	assert.False(t, set.AddPayload(types.NewPricePayload(addrs[0], 2.0)))
	assert.Equal(t, 1, set.Size())

	p, ok := set.GetBySender(addrs[0])
	require.True(t, ok)
	assert.Equal(t, types.NewPricePayload(addrs[0], 2.0).SelectionKey(), p.SelectionKey())
}

func TestPayloadSetDeterministicIteration(t *testing.T) {
	addrs := testAddrs(5)
	set := NewPayloadSet()
	for _, addr := range addrs {
		set.AddPayload(types.NewPricePayload(addr, 1.0))
	}

	senders := set.Senders()
	require.Len(t, senders, 5)
	for i := 1; i < len(senders); i++ {
		assert.Less(t, senders[i-1], senders[i])
	}

	var seen []string
	set.Iterate(func(sender string, _ types.Payload) bool {
		seen = append(seen, sender)
		return false
	})
	assert.Equal(t, senders, seen)
}

func TestPayloadSetSnapshotIsACopy(t *testing.T) {
	addrs := testAddrs(2)
	set := NewPayloadSet()
	set.AddPayload(types.NewPricePayload(addrs[0], 1.0))

	snapshot := set.Snapshot()
	require.Len(t, snapshot, 1)

	set.AddPayload(types.NewPricePayload(addrs[1], 2.0))
	assert.Len(t, snapshot, 1)
}
