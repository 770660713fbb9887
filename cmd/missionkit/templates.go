package main

import (
	"fmt"

	"github.com/aretw0/missionkit/internal/presentation/tui"
	"github.com/aretw0/missionkit/internal/validator"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "Browse the template catalog",
}

var templatesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		studio, err := catalogStudio(cmd.Context())
		if err != nil {
			return err
		}
		defer studio.Close()

		if format, _ := cmd.Flags().GetString("format"); format != "" {
			return writeEncoded(cmd.OutOrStdout(), format, studio.Catalog().List())
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.TemplateTable(studio.Catalog().List(), styled(cmd)))
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Describe a template and its steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studio, err := catalogStudio(cmd.Context())
		if err != nil {
			return err
		}
		defer studio.Close()

		tpl, err := studio.Catalog().Get(args[0])
		if err != nil {
			return err
		}

		md := tui.TemplateMarkdown(tpl, studio.Registry())
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		out, err := tui.NewRenderer(styled(cmd))(md)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate [template-id...]",
	Short: "Lint templates for broken connections and unreachable steps",
	Long: `Checks the given templates (all when none are named).
Warnings are printed; any error makes the command fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		studio, err := catalogStudio(cmd.Context())
		if err != nil {
			return err
		}
		defer studio.Close()

		var templates []domain.Template
		if len(args) == 0 {
			templates = studio.Catalog().List()
		}
		for _, id := range args {
			tpl, err := studio.Catalog().Get(id)
			if err != nil {
				return err
			}
			templates = append(templates, tpl)
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, tpl := range templates {
			report := validator.ValidateTemplate(tpl, studio.Registry())
			if len(report) == 0 {
				fmt.Fprintf(out, "%s: ok\n", tpl.ID)
				continue
			}
			if report.HasErrors() {
				failed++
			}
			for _, issue := range report {
				fmt.Fprintf(out, "%s: %s\n", tpl.ID, issue)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d templates failed validation", failed, len(templates))
		}
		return nil
	},
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the step kinds",
	RunE: func(cmd *cobra.Command, args []string) error {
		studio, err := catalogStudio(cmd.Context())
		if err != nil {
			return err
		}
		defer studio.Close()
		fmt.Fprint(cmd.OutOrStdout(), tui.KindTable(studio.Registry().Kinds(), styled(cmd)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd, kindsCmd)
	templatesCmd.AddCommand(templatesLsCmd, templatesShowCmd, templatesValidateCmd)

	templatesLsCmd.Flags().String("format", "", "Print as json or yaml instead of a table")
	templatesShowCmd.Flags().Bool("raw", false, "Print the markdown source")
}
