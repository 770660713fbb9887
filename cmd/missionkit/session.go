package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/missionkit"
	"github.com/aretw0/missionkit/internal/cli"
	"github.com/aretw0/missionkit/internal/config"
	"github.com/aretw0/missionkit/pkg/editor"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent editing sessions",
	Long: `Create, edit, list, inspect, and remove sessions in the configured store.
The memory backend is replaced by the file backend (store.path) here, since
each invocation is a separate process.`,
}

// openStudio builds a Studio over a store that outlives the process.
func openStudio(cmd *cobra.Command) (*missionkit.Studio, error) {
	local := *cfg
	if local.Store.Backend == config.BackendMemory {
		logger.Debug("memory store swapped for file store", "path", local.Store.Path)
		local.Store.Backend = config.BackendFile
	}
	return cli.NewStudio(cmd.Context(), &local, logger)
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		studio, err := openStudio(cmd)
		if err != nil {
			return err
		}
		defer studio.Close()

		sessions, err := studio.Sessions().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(out, "- "+s)
		}
		return nil
	},
}

var sessionNewCmd = &cobra.Command{
	Use:   "new [session-id]",
	Short: "Create a session, optionally from a template",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studio, err := openStudio(cmd)
		if err != nil {
			return err
		}
		defer studio.Close()

		var id string
		if len(args) > 0 {
			id = args[0]
		}
		templateID, _ := cmd.Flags().GetString("template")
		snap, err := studio.Sessions().Create(cmd.Context(), id, templateID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created session '%s' with %d steps\n", snap.SessionID, len(snap.Steps))
		return nil
	},
}

var sessionApplyCmd = &cobra.Command{
	Use:   "apply <session-id> <command-json>",
	Short: "Apply an editor command to a session",
	Example: `  missionkit session apply demo '{"op":"add_step","kind":"reward"}'
  missionkit session apply demo '{"op":"connect","step_id":"gate","target_id":"payout"}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var c editor.Command
		if err := json.Unmarshal([]byte(args[1]), &c); err != nil {
			return fmt.Errorf("invalid command: %w", err)
		}

		studio, err := openStudio(cmd)
		if err != nil {
			return err
		}
		defer studio.Close()

		outcome, err := studio.Sessions().Apply(cmd.Context(), args[0], c)
		if err != nil {
			return err
		}
		return writeEncoded(cmd.OutOrStdout(), "json", outcome.Result)
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the snapshot of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studio, err := openStudio(cmd)
		if err != nil {
			return err
		}
		defer studio.Close()

		snap, err := studio.Sessions().Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", args[0], err)
		}

		format := "json"
		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			format = "yaml"
		}
		return writeEncoded(cmd.OutOrStdout(), format, snap)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [session-id]...",
	Short: "Remove one or more sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("requires at least 1 session id or --all")
		}

		studio, err := openStudio(cmd)
		if err != nil {
			return err
		}
		defer studio.Close()

		if all {
			args, err = studio.Sessions().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
		}

		var errs []error
		for _, sessionID := range args {
			if err := studio.Sessions().Delete(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionNewCmd, sessionApplyCmd, sessionInspectCmd, sessionRmCmd)

	sessionNewCmd.Flags().StringP("template", "t", "", "Template to load into the session")
	sessionInspectCmd.Flags().Bool("yaml", false, "Print as YAML instead of JSON")
	sessionRmCmd.Flags().Bool("all", false, "Remove every session")
}
