package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tmos "github.com/tendermint/tendermint/libs/os"

	"votingfsm_demo/node"
	"votingfsm_demo/types"
)

// InitFilesCmd initialises a fresh node home: a generated cohort and a
// config file the run command will pick up.
var InitFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a node home directory",
	RunE:  initFiles,
}

var initNbParticipants int

func init() {
	InitFilesCmd.Flags().IntVar(&initNbParticipants, "nb-participants", 4, "cohort size to generate")
}

func initFiles(cmd *cobra.Command, args []string) error {
	return initFilesWithConfig(config)
}

func initFilesWithConfig(config *node.Config) error {
	if err := tmos.EnsureDir(config.RootDir, 0700); err != nil {
		return err
	}

	configFile := filepath.Join(config.RootDir, "config.toml")
	if tmos.FileExists(configFile) {
		logger.Info("Found config file", "path", configFile)
		return nil
	}

	participants := types.RandParticipantSet(initNbParticipants)
	addrs := make([]string, 0, participants.Size())
	participants.Iterate(func(_ int, p *types.Participant) bool {
		addrs = append(addrs, p.Address.String())
		return false
	})

	v := viper.New()
	v.Set("moniker", config.Moniker)
	v.Set("db_backend", config.DBBackend)
	v.Set("db_dir", config.DBPath)
	v.Set("rpc_laddr", config.RPCListenAddress)
	v.Set("participants", addrs)
	v.Set("decision_event", config.DecisionEvent)
	v.Set("rounds.round_timeout", config.Rounds.RoundTimeout.String())
	v.Set("rounds.threshold", config.Rounds.Threshold)

	if err := v.WriteConfigAs(configFile); err != nil {
		return err
	}
	logger.Info("Generated config file", "path", configFile, "participants", len(addrs))
	return nil
}
