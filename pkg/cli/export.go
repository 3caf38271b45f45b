package cli

import (
	"github.com/spf13/cobra"
)

func cmdExport() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "export",
		SilenceErrors: true,
		Short:         "Export advisory data and audit results in interchange formats",
	}

	cmd.AddCommand(
		cmdExportOSV(),
		cmdExportVEX(),
	)

	return cmd
}
