package main

import (
	"fmt"

	"github.com/aretw0/missionkit/pkg/editor"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [template-id]",
	Short: "Export a mission graph",
	Long: `Outputs a template, or with --session a stored session, as a Mermaid
flowchart (graph LR) or as JSON/YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		sessionID, _ := cmd.Flags().GetString("session")
		out := cmd.OutOrStdout()

		if sessionID != "" {
			studio, err := openStudio(cmd)
			if err != nil {
				return err
			}
			defer studio.Close()

			if format == "mermaid" {
				sess, err := studio.Sessions().Open(cmd.Context(), sessionID)
				if err != nil {
					return err
				}
				fmt.Fprint(out, sess.Mermaid())
				return nil
			}
			snap, err := studio.Sessions().Load(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			return writeEncoded(out, format, snap)
		}

		if len(args) == 0 {
			return fmt.Errorf("a template id or --session is required")
		}
		studio, err := catalogStudio(cmd.Context())
		if err != nil {
			return err
		}
		defer studio.Close()

		tpl, err := studio.Catalog().Get(args[0])
		if err != nil {
			return err
		}
		if format != "mermaid" {
			return writeEncoded(out, format, tpl)
		}

		ed := studio.NewEditor()
		if _, err := ed.Apply(editor.Command{Op: editor.OpLoadTemplate, TemplateID: tpl.ID}); err != nil {
			return err
		}
		fmt.Fprint(out, ed.Mermaid())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid, json or yaml")
	graphCmd.Flags().String("session", "", "Export a stored session instead of a template")
}
