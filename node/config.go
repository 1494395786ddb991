package node

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"

	"votingfsm_demo/rounds"
	"votingfsm_demo/types"
)

const (
	DBBackendMemDB   = "memdb"
	DBBackendLevelDB = "goleveldb"

	defaultDBName = "votingfsm"
)

// Config collects everything a node needs: where to keep its database, where
// to serve RPC, which participants form the cohort and how the rounds behave.
type Config struct {
	RootDir string `mapstructure:"home"`
	Moniker string `mapstructure:"moniker"`

	// DBBackend selects "goleveldb" or "memdb". DBPath is relative to
	// RootDir unless absolute.
	DBBackend string `mapstructure:"db_backend"`
	DBPath    string `mapstructure:"db_dir"`

	// RPCListenAddress is empty to disable the RPC server.
	RPCListenAddress string `mapstructure:"rpc_laddr"`

	// Participants holds hex addresses. When empty, NbParticipants random
	// addresses are generated at startup.
	Participants   []string `mapstructure:"participants"`
	NbParticipants int      `mapstructure:"nb_participants"`

	// DecisionEvent is the branch the decision activity votes for.
	DecisionEvent string `mapstructure:"decision_event"`

	Rounds *rounds.Config `mapstructure:"rounds"`
}

func DefaultConfig() *Config {
	return &Config{
		Moniker:          "votingfsm-node",
		DBBackend:        DBBackendLevelDB,
		DBPath:           "data",
		RPCListenAddress: "tcp://127.0.0.1:26657",
		NbParticipants:   4,
		DecisionEvent:    types.EventTransact.String(),
		Rounds:           rounds.DefaultConfig(),
	}
}

// TestConfig keeps everything in memory with short timeouts.
func TestConfig() *Config {
	cfg := DefaultConfig()
	cfg.DBBackend = DBBackendMemDB
	cfg.RPCListenAddress = ""
	cfg.Rounds = rounds.TestConfig()
	return cfg
}

func (cfg *Config) DBDir() string {
	if filepath.IsAbs(cfg.DBPath) {
		return cfg.DBPath
	}
	return filepath.Join(cfg.RootDir, cfg.DBPath)
}

func (cfg *Config) ValidateBasic() error {
	switch cfg.DBBackend {
	case DBBackendMemDB, DBBackendLevelDB:
	default:
		return fmt.Errorf("unknown db backend: %q", cfg.DBBackend)
	}
	if len(cfg.Participants) == 0 && cfg.NbParticipants <= 0 {
		return errors.New("either participants or nb_participants must be set")
	}
	if !types.Event(cfg.DecisionEvent).Valid() {
		return fmt.Errorf("unknown decision event: %q", cfg.DecisionEvent)
	}
	if cfg.Rounds == nil {
		return errors.New("rounds config missing")
	}
	return cfg.Rounds.ValidateBasic()
}
