package rounds

import (
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/go-kit/kit/log/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/events"
	"github.com/tendermint/tendermint/libs/log"

	"votingfsm_demo/store"
	"votingfsm_demo/types"
)

const testWait = 5 * time.Second

// ----- utility func -----

// engineLogger is a TestingLogger which uses a different color per engine
// ("engine" key must exist).
func engineLogger() log.Logger {
	return log.TestingLoggerWithColorFn(func(keyvals ...interface{}) term.FgBgColor {
		for i := 0; i < len(keyvals)-1; i += 2 {
			if keyvals[i] == "engine" {
				return term.FgBgColor{Fg: term.Color(uint8(keyvals[i+1].(int) + 1))}
			}
		}
		return term.FgBgColor{}
	})
}

type engineFixture struct {
	engine *Engine
	addrs  []types.Address

	newRound chan RoundInfo
	settled  chan SettleInfo
	finished chan RoundInfo
}

func newEngineFixture(t *testing.T, config *Config, nbParticipants int) *engineFixture {
	participants := types.RandParticipantSet(nbParticipants)
	addrs := make([]types.Address, 0, nbParticipants)
	participants.Iterate(func(_ int, p *types.Participant) bool {
		addrs = append(addrs, p.Address)
		return false
	})

	engine := NewEngine(config, NewVotingGraph(), participants, store.NewMemSyncStore())
	engine.SetLogger(engineLogger().With("engine", 0))

	f := &engineFixture{
		engine:   engine,
		addrs:    addrs,
		newRound: make(chan RoundInfo, 64),
		settled:  make(chan SettleInfo, 64),
		finished: make(chan RoundInfo, 1),
	}

	// listeners run on the engine's control thread: forward, never call back
	require.NoError(t, engine.AddListenerForEvent("test", EventNewRound, func(data events.EventData) {
		f.newRound <- data.(RoundInfo)
	}))
	require.NoError(t, engine.AddListenerForEvent("test", EventRoundSettled, func(data events.EventData) {
		f.settled <- data.(SettleInfo)
	}))
	require.NoError(t, engine.AddListenerForEvent("test", EventEngineFinished, func(data events.EventData) {
		f.finished <- data.(RoundInfo)
	}))

	require.NoError(t, engine.Start())
	t.Cleanup(func() {
		if engine.IsRunning() {
			_ = engine.Stop()
		}
	})
	return f
}

func (f *engineFixture) waitNewRound(t *testing.T) RoundInfo {
	select {
	case info := <-f.newRound:
		return info
	case <-time.After(testWait):
		t.Fatal("timed out waiting for a new round")
		return RoundInfo{}
	}
}

func (f *engineFixture) waitSettle(t *testing.T) SettleInfo {
	select {
	case info := <-f.settled:
		return info
	case <-time.After(testWait):
		t.Fatal("timed out waiting for a settlement")
		return SettleInfo{}
	}
}

func (f *engineFixture) submitPrices(t *testing.T, prices ...float64) {
	for i, price := range prices {
		require.NoError(t, f.engine.Submit(types.NewPricePayload(f.addrs[i], price)))
	}
}

// ----- tests -----

func TestEngineStartsInInitialRound(t *testing.T) {
	f := newEngineFixture(t, TestConfig(), 4)

	info := f.waitNewRound(t)
	assert.Equal(t, types.APICheckRoundID, info.ID)
	assert.EqualValues(t, 1, info.Index)
	assert.Equal(t, 3, f.engine.Threshold())
	assert.False(t, f.engine.IsFinished())
}

func TestEngineRejectsInvalidGraph(t *testing.T) {
	participants := types.RandParticipantSet(4)
	broken := dropEdge(types.TxPreparationRoundID, types.EventNoMajority)

	engine := NewEngine(TestConfig(), broken, participants, store.NewMemSyncStore())
	engine.SetLogger(log.TestingLogger())

	err := engine.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(types.TxPreparationRoundID))
	assert.Contains(t, err.Error(), string(types.EventNoMajority))
}

func TestEngineSettlesAndAdvances(t *testing.T) {
	f := newEngineFixture(t, TestConfig(), 4)
	f.waitNewRound(t) // api_check_round

	f.submitPrices(t, 1.0, 1.0, 2.0, 1.0)

	settle := f.waitSettle(t)
	assert.Equal(t, types.APICheckRoundID, settle.Round)
	assert.Equal(t, types.EventDone, settle.Event)

	info := f.waitNewRound(t)
	assert.Equal(t, types.DecisionMakingRoundID, info.ID)
	assert.EqualValues(t, 2, info.Index)

	sd := f.engine.SyncData()
	price, ok := sd.Price()
	require.True(t, ok)
	assert.Equal(t, 1.0, price)
	assert.EqualValues(t, 1, sd.Version())

	collection, err := sd.Collection(store.KeyParticipantToPriceRound)
	require.NoError(t, err)
	assert.Len(t, collection, 4)
}

func TestEngineFullRunToTerminal(t *testing.T) {
	f := newEngineFixture(t, TestConfig(), 4)
	f.waitNewRound(t) // api_check_round

	f.submitPrices(t, 1.0, 1.0, 1.0)
	require.Equal(t, types.EventDone, f.waitSettle(t).Event)
	require.Equal(t, types.DecisionMakingRoundID, f.waitNewRound(t).ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.engine.Submit(types.NewDecisionPayload(f.addrs[i], "transact")))
	}
	require.Equal(t, types.EventTransact, f.waitSettle(t).Event)
	require.Equal(t, types.TxPreparationRoundID, f.waitNewRound(t).ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.engine.Submit(
			types.NewTxPreparationPayload(f.addrs[i], "submitter", "0xabc"),
		))
	}

	select {
	case info := <-f.finished:
		assert.Equal(t, types.FinishedTxPreparationID, info.ID)
	case <-time.After(testWait):
		t.Fatal("engine never finished")
	}
	assert.True(t, f.engine.IsFinished())

	sd := f.engine.SyncData()
	hash, ok := sd.MostVotedTxHash()
	require.True(t, ok)
	assert.Equal(t, "0xabc", hash)
	submitter, err := sd.TxSubmitter()
	require.NoError(t, err)
	assert.Equal(t, "submitter", submitter)

	// terminal round accepts nothing
	err = f.engine.Submit(types.NewTxPreparationPayload(f.addrs[3], "submitter", "0xabc"))
	assert.ErrorIs(t, err, ErrEngineFinished)
}

func TestEngineNoMajoritySelfLoop(t *testing.T) {
	f := newEngineFixture(t, TestConfig(), 4)
	first := f.waitNewRound(t)

	// full disagreement forces an unreachable verdict
	f.submitPrices(t, 1.0, 2.0, 3.0, 4.0)

	settle := f.waitSettle(t)
	assert.Equal(t, types.EventNoMajority, settle.Event)

	again := f.waitNewRound(t)
	assert.Equal(t, first.ID, again.ID)
	assert.EqualValues(t, first.Index+1, again.Index)

	// the store saw no commit, the fresh collection settles normally
	_, ok := f.engine.SyncData().Price()
	assert.False(t, ok)

	f.submitPrices(t, 7.0, 7.0, 7.0)
	settle = f.waitSettle(t)
	assert.Equal(t, types.EventDone, settle.Event)

	price, ok := f.engine.SyncData().Price()
	require.True(t, ok)
	assert.Equal(t, 7.0, price)
}

func TestEngineTimeoutRetriesRound(t *testing.T) {
	config := TestConfig()
	config.RoundTimeout = 50 * time.Millisecond

	f := newEngineFixture(t, config, 4)
	first := f.waitNewRound(t)

	// submit nothing and let the clock fire
	again := f.waitNewRound(t)
	assert.Equal(t, first.ID, again.ID)
	assert.EqualValues(t, first.Index+1, again.Index)
}

func TestEngineSubmitValidation(t *testing.T) {
	f := newEngineFixture(t, TestConfig(), 4)
	f.waitNewRound(t)

	// sender outside of the cohort
	stranger := types.RandParticipantSet(1)
	var strangerAddr types.Address
	stranger.Iterate(func(_ int, p *types.Participant) bool {
		strangerAddr = p.Address
		return true
	})
	err := f.engine.Submit(types.NewPricePayload(strangerAddr, 1.0))
	assert.ErrorIs(t, err, ErrUnknownSender)

	// payload schema of another variant
	err = f.engine.Submit(types.NewDecisionPayload(f.addrs[0], "done"))
	assert.ErrorIs(t, err, ErrWrongPayloadKind)

	require.NoError(t, f.engine.Stop())
	err = f.engine.Submit(types.NewPricePayload(f.addrs[0], 1.0))
	assert.ErrorIs(t, err, ErrEngineNotRunning)
}

func TestEngineStopsWithoutLeaks(t *testing.T) {
	// the shared go-metrics arbiter goroutine lives for the whole process,
	// warm it before the leak snapshot
	_ = newEngineMetric()

	defer leaktest.CheckTimeout(t, 10*time.Second)()

	f := newEngineFixture(t, TestConfig(), 4)
	f.waitNewRound(t)
	f.submitPrices(t, 1.0, 1.0, 1.0)
	f.waitSettle(t)

	require.NoError(t, f.engine.Stop())
}

func TestEngineMetricJSON(t *testing.T) {
	f := newEngineFixture(t, TestConfig(), 4)
	f.waitNewRound(t)

	f.submitPrices(t, 1.0, 1.0, 1.0)
	f.waitSettle(t)
	f.waitNewRound(t)

	raw := f.engine.MetricJSON()
	assert.Contains(t, raw, string(types.DecisionMakingRoundID))
	assert.Contains(t, raw, `"settled_rounds":1`)
}
