package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"

	nm "votingfsm_demo/node"
)

// AddNodeFlags exposes the config fields most runs want to override.
func AddNodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("moniker", config.Moniker, "node name")
	cmd.Flags().String("rpc_laddr", config.RPCListenAddress, "RPC listen address, empty to disable")
	cmd.Flags().String("db_backend", config.DBBackend, "database backend: goleveldb | memdb")
	cmd.Flags().Int("nb_participants", config.NbParticipants, "cohort size when no participants are configured")
	cmd.Flags().String("decision_event", config.DecisionEvent, "event the decision activity votes for")
	cmd.Flags().Duration("rounds.round_timeout", config.Rounds.RoundTimeout, "per round collection deadline")
	cmd.Flags().Int("rounds.threshold", config.Rounds.Threshold, "settlement threshold, 0 for 2/3 supermajority")
}

// NewRunNodeCmd returns the command allowing the caller to supply a custom
// node provider.
func NewRunNodeCmd(nodeProvider nm.Provider) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"node", "start"},
		Short:   "Run the voting node",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateBasic(); err != nil {
				return err
			}

			n, err := nodeProvider(config, logger)
			if err != nil {
				return fmt.Errorf("failed to create node: %w", err)
			}

			if err := n.Start(); err != nil {
				return fmt.Errorf("failed to start node: %w", err)
			}
			logger.Info("Started node", "moniker", config.Moniker)

			// Run forever, the engine keeps serving introspection RPC
			// after it reaches a terminal round.
			tmos.TrapSignal(logger, func() {
				if n.IsRunning() {
					if err := n.Stop(); err != nil {
						logger.Error("unable to stop the node", "error", err)
					}
				}
			})
			select {}
		},
	}

	AddNodeFlags(cmd)
	return cmd
}
