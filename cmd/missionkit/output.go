package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/missionkit"
	"github.com/aretw0/missionkit/internal/cli"
	"github.com/aretw0/missionkit/internal/config"
	"github.com/aretw0/missionkit/internal/presentation/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// styled reports whether the command writes to a terminal.
func styled(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && tui.IsTerminal(f)
}

// catalogStudio builds a Studio for read-only catalog commands; sessions stay in memory.
func catalogStudio(ctx context.Context) (*missionkit.Studio, error) {
	local := *cfg
	local.Store.Backend = config.BackendMemory
	return cli.NewStudio(ctx, &local, logger)
}

func writeEncoded(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unsupported format %q", format)
}
