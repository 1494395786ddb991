package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/cli"
	"github.com/tendermint/tendermint/libs/log"

	"votingfsm_demo/node"
)

var (
	config = node.DefaultConfig()
	logger = log.NewTMLogger(log.NewSyncWriter(os.Stdout))
)

// ParseConfig rebuilds the node config from defaults, the config file loaded
// by the cli layer and any bound flags.
func ParseConfig() (*node.Config, error) {
	conf := node.DefaultConfig()
	if err := viper.Unmarshal(conf); err != nil {
		return nil, err
	}
	conf.RootDir = viper.GetString(cli.HomeFlag)
	return conf, nil
}

var RootCmd = &cobra.Command{
	Use:   "votingfsm",
	Short: "threshold voting round engine demo node",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		config, err = ParseConfig()
		if err != nil {
			return err
		}
		if viper.GetBool(cli.TraceFlag) {
			logger = log.NewTracingLogger(logger)
		}
		logger = logger.With("module", "main")
		return nil
	},
}
