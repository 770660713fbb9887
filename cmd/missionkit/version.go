package main

import (
	"fmt"

	"github.com/aretw0/missionkit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of missionkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "missionkit version %s\n", missionkit.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
