package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/missionkit/internal/cli"
	"github.com/aretw0/missionkit/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "missionkit",
	Short: "missionkit edits mission graphs",
	Long: `missionkit is the core of a visual mission editor: typed steps (actions,
conditions, rewards, verifications) wired into a graph, built from templates,
and edited through persistent sessions over HTTP, MCP or the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoader()
		v := loader.Viper()
		flags := cmd.Flags()
		for key, flag := range map[string]string{
			"log.level":     "log-level",
			"log.format":    "log-format",
			"store.backend": "store",
			"catalog.dir":   "templates-dir",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}

		var err error
		if path, _ := flags.GetString("config"); path != "" {
			cfg, err = loader.LoadFromFile(path)
		} else {
			cfg, err = loader.Load()
		}
		if err != nil {
			return err
		}
		logger = cli.NewLogger(cfg.Log, os.Stderr)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./missionkit.yaml or ~/.config/missionkit/missionkit.yaml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.String("store", "", "Session store backend: memory, file, redis, postgres")
	pf.String("templates-dir", "", "Directory of template documents added to the catalog")
}
