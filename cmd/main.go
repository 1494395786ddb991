package main

import (
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/cli"

	cmd "votingfsm_demo/cmd/commands"
	nm "votingfsm_demo/node"
)

const defaultHomeDir = ".votingfsm"

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.InitFilesCmd,
		cli.NewCompletionCmd(rootCmd, true),
	)

	// Users wishing to supply their own activities, store backend or
	// participant source can copy this file and swap DefaultNewNode for
	// their own provider.
	nodeFunc := nm.DefaultNewNode

	rootCmd.AddCommand(
		cmd.NewRunNodeCmd(nodeFunc),
	)

	baseCmd := cli.PrepareBaseCmd(rootCmd, "VF", os.ExpandEnv(filepath.Join("$HOME", defaultHomeDir)))

	if err := baseCmd.Execute(); err != nil {
		panic(err)
	}
}
