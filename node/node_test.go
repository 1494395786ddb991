package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"

	"votingfsm_demo/types"
)

func newTestNode(t *testing.T, config *Config) *Node {
	n, err := NewNode(config, log.TestingLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		if n.IsRunning() {
			_ = n.Stop()
		}
	})
	return n
}

func TestConfigValidateBasic(t *testing.T) {
	assert.NoError(t, DefaultConfig().ValidateBasic())
	assert.NoError(t, TestConfig().ValidateBasic())

	cfg := TestConfig()
	cfg.DBBackend = "rocksdb"
	assert.Error(t, cfg.ValidateBasic())

	cfg = TestConfig()
	cfg.NbParticipants = 0
	assert.Error(t, cfg.ValidateBasic())

	cfg = TestConfig()
	cfg.DecisionEvent = "not_a_real_event"
	assert.Error(t, cfg.ValidateBasic())

	cfg = TestConfig()
	cfg.Rounds = nil
	assert.Error(t, cfg.ValidateBasic())
}

func TestNewNodeGeneratesCohort(t *testing.T) {
	cfg := TestConfig()
	cfg.NbParticipants = 5

	n := newTestNode(t, cfg)
	assert.Equal(t, 5, n.Participants().Size())
	assert.True(t, n.MetricSet().HasMetrics("engine"))
}

func TestNewNodeParsesConfiguredParticipants(t *testing.T) {
	cfg := TestConfig()
	addrs := []string{}
	types.RandParticipantSet(3).Iterate(func(_ int, p *types.Participant) bool {
		addrs = append(addrs, p.Address.String())
		return false
	})
	cfg.Participants = addrs

	n := newTestNode(t, cfg)
	require.Equal(t, 3, n.Participants().Size())
	for _, raw := range addrs {
		addr, err := types.AddressFromString(raw)
		require.NoError(t, err)
		assert.True(t, n.Participants().HasAddress(addr))
	}
}

func TestNewNodeRejectsBadAddress(t *testing.T) {
	cfg := TestConfig()
	cfg.Participants = []string{"not-hex"}

	_, err := NewNode(cfg, log.TestingLogger())
	assert.Error(t, err)
}

func TestNodeRunsToTerminalRound(t *testing.T) {
	n := newTestNode(t, TestConfig())
	require.NoError(t, n.Start())

	select {
	case <-n.Runner().Done():
	case <-time.After(10 * time.Second):
		t.Fatal("node never reached a terminal round")
	}

	assert.True(t, n.Engine().IsFinished())
	id, _ := n.Engine().CurrentRound()
	assert.Equal(t, types.FinishedTxPreparationID, id)

	require.NoError(t, n.Stop())
}
