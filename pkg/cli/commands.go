package cli

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "lockaudit",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Audit resolved dependency sets against security advisory data",
	}

	cmd.AddCommand(
		cmdAdvisory(),
		cmdAudit(),
		cmdExport(),
		version.Version(),
	)

	return cmd
}
