package node

import (
	"fmt"
	"net/http"

	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"
	rpcserver "github.com/tendermint/tendermint/rpc/jsonrpc/server"

	"votingfsm_demo/behaviour"
	"votingfsm_demo/libs/metric"
	"votingfsm_demo/rounds"
	"votingfsm_demo/rpc"
	"votingfsm_demo/store"
	"votingfsm_demo/types"
)

type Provider func(*Config, log.Logger) (*Node, error)

// Node assembles a full in-process deployment: the synchronized store, the
// round engine, the behaviour runner simulating the cohort and the RPC
// server exposing them.
type Node struct {
	service.BaseService

	config *Config

	participants *types.ParticipantSet
	store        *store.SyncStore
	engine       *rounds.Engine
	runner       *behaviour.Runner

	metricSet   *metric.MetricSet
	rpcListener interface{ Close() error }
}

type Option func(*Node)

func DefaultNewNode(config *Config, logger log.Logger) (*Node, error) {
	return NewNode(config, logger)
}

func makeParticipantSet(config *Config) (*types.ParticipantSet, error) {
	if len(config.Participants) == 0 {
		return types.RandParticipantSet(config.NbParticipants), nil
	}

	parts := make([]*types.Participant, 0, len(config.Participants))
	for _, raw := range config.Participants {
		addr, err := types.AddressFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("bad participant address %q: %w", raw, err)
		}
		parts = append(parts, types.NewParticipant(addr))
	}
	return types.NewParticipantSet(parts), nil
}

func makeSyncStore(config *Config, logger log.Logger) (*store.SyncStore, error) {
	if config.DBBackend == DBBackendMemDB {
		return store.NewMemSyncStore(), nil
	}
	return store.NewLevelDBSyncStore(defaultDBName, config.DBDir(), logger)
}

func NewNode(config *Config, logger log.Logger, options ...Option) (*Node, error) {
	if err := config.ValidateBasic(); err != nil {
		return nil, err
	}

	participants, err := makeParticipantSet(config)
	if err != nil {
		return nil, err
	}

	ss, err := makeSyncStore(config, logger.With("module", "store"))
	if err != nil {
		return nil, err
	}

	engine := rounds.NewEngine(config.Rounds, rounds.NewVotingGraph(), participants, ss)
	engine.SetLogger(logger.With("module", "rounds"))

	senders := make([]types.Address, 0, participants.Size())
	participants.Iterate(func(_ int, p *types.Participant) bool {
		senders = append(senders, p.Address)
		return false
	})

	runner := behaviour.NewRunner(engine, behaviour.DefaultActivities(config.DecisionEvent), senders)
	runner.SetLogger(logger.With("module", "behaviour"))

	metricSet := metric.NewMetricSet()
	if err := metricSet.SetMetrics("engine", engineMetricItem{engine}); err != nil {
		return nil, err
	}

	node := &Node{
		config:       config,
		participants: participants,
		store:        ss,
		engine:       engine,
		runner:       runner,
		metricSet:    metricSet,
	}
	node.BaseService = *service.NewBaseService(logger, "Node", node)

	for _, option := range options {
		option(node)
	}
	return node, nil
}

func (n *Node) OnStart() error {
	if err := n.engine.Start(); err != nil {
		return err
	}
	if err := n.runner.Start(); err != nil {
		return err
	}

	if n.config.RPCListenAddress != "" {
		if err := n.startRPC(); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) OnStop() {
	if n.rpcListener != nil {
		if err := n.rpcListener.Close(); err != nil {
			n.Logger.Error("failed trying to close rpc listener", "error", err)
		}
	}
	if err := n.runner.Stop(); err != nil {
		n.Logger.Error("failed trying to stop runner", "error", err)
	}
	if err := n.engine.Stop(); err != nil {
		n.Logger.Error("failed trying to stop engine", "error", err)
	}
	if err := n.store.Close(); err != nil {
		n.Logger.Error("failed trying to close store", "error", err)
	}
}

func (n *Node) startRPC() error {
	rpc.SetEnvironment(&rpc.Environment{
		Engine:    n.engine,
		SyncData:  n.engine.SyncData(),
		MetricSet: n.metricSet,
	})

	rpcLogger := n.Logger.With("module", "rpc")

	wm := rpcserver.NewWebsocketManager(rpc.Routes)
	wm.SetLogger(rpcLogger.With("protocol", "websocket"))

	mux := http.NewServeMux()
	mux.HandleFunc("/websocket", wm.WebsocketHandler)
	rpcserver.RegisterRPCFuncs(mux, rpc.Routes, rpcLogger)

	serverConfig := rpcserver.DefaultConfig()
	listener, err := rpcserver.Listen(n.config.RPCListenAddress, serverConfig)
	if err != nil {
		return err
	}
	n.rpcListener = listener

	go func() {
		if err := rpcserver.Serve(listener, mux, rpcLogger, serverConfig); err != nil {
			rpcLogger.Error("rpc server terminated", "error", err)
		}
	}()
	return nil
}

// Engine exposes the round engine, mainly for tests.
func (n *Node) Engine() *rounds.Engine {
	return n.engine
}

func (n *Node) Runner() *behaviour.Runner {
	return n.runner
}

func (n *Node) Participants() *types.ParticipantSet {
	return n.participants
}

func (n *Node) MetricSet() *metric.MetricSet {
	return n.metricSet
}

// engineMetricItem adapts the engine's metric snapshot to the metric set.
type engineMetricItem struct {
	engine *rounds.Engine
}

func (m engineMetricItem) JSONString() string {
	return m.engine.MetricJSON()
}
