package rounds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func newTestClock(t *testing.T) RoundClock {
	clock := NewRoundClock()
	clock.SetLogger(log.TestingLogger())
	require.NoError(t, clock.Start())
	t.Cleanup(func() {
		if clock.IsRunning() {
			_ = clock.Stop()
		}
	})
	return clock
}

func TestClockFires(t *testing.T) {
	clock := newTestClock(t)

	clock.Reset(20*time.Millisecond, 1)

	select {
	case ti := <-clock.Chan():
		assert.EqualValues(t, 1, ti.Index)
	case <-time.After(time.Second):
		t.Fatal("clock never fired")
	}
}

func TestClockResetReplacesPendingTimeout(t *testing.T) {
	clock := newTestClock(t)

	clock.Reset(time.Hour, 1)
	clock.Reset(20*time.Millisecond, 2)

	select {
	case ti := <-clock.Chan():
		// only the rearmed tick may be delivered
		assert.EqualValues(t, 2, ti.Index)
	case <-time.After(time.Second):
		t.Fatal("rearmed clock never fired")
	}
}

func TestClockResetDrainsFiredTick(t *testing.T) {
	clock := newTestClock(t)

	clock.Reset(time.Millisecond, 1)
	time.Sleep(50 * time.Millisecond) // let the first tick land in the channel

	clock.Reset(20*time.Millisecond, 2)

	select {
	case ti := <-clock.Chan():
		assert.EqualValues(t, 2, ti.Index)
	case <-time.After(time.Second):
		t.Fatal("rearmed clock never fired")
	}
}

func TestClockStopsCleanly(t *testing.T) {
	clock := newTestClock(t)

	clock.Reset(time.Hour, 1)
	require.NoError(t, clock.Stop())

	select {
	case ti := <-clock.Chan():
		t.Fatalf("unexpected tick after stop: %v", ti)
	case <-time.After(50 * time.Millisecond):
	}
}
