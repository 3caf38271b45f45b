package cli

import (
	"os"

	"github.com/spf13/cobra"
)

const envVarNameForAdvisoryDB = "LOCKAUDIT_ADVISORY_DB"

func cmdAdvisory() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "advisory",
		Aliases:       []string{"adv"},
		SilenceErrors: true,
		Short:         "Commands for inspecting and validating advisory data",
	}

	cmd.AddCommand(
		cmdAdvisoryList(),
		cmdAdvisoryValidate(),
	)

	return cmd
}

// resolveAdvisoryDB resolves the advisory database directory from the CLI
// flag, falling back to $LOCKAUDIT_ADVISORY_DB.
func resolveAdvisoryDB(cliFlagValue string) string {
	if v := cliFlagValue; v != "" {
		return v
	}

	return os.Getenv(envVarNameForAdvisoryDB)
}

const (
	flagNameAdvisoryDB = "db"
	flagNameLockfile   = "lockfile"
	flagNamePackage    = "package"
	flagNameVuln       = "vuln"
	flagNameOutput     = "output"
)

func addAdvisoryDBFlag(val *string, cmd *cobra.Command) {
	cmd.Flags().StringVarP(val, flagNameAdvisoryDB, "d", "", "directory containing the advisory database")
}

func addLockfileFlag(val *string, cmd *cobra.Command) {
	cmd.Flags().StringVarP(val, flagNameLockfile, "l", "", "path to the lockfile to audit")
}

func addPackageFlag(val *string, cmd *cobra.Command) {
	cmd.Flags().StringVarP(val, flagNamePackage, "p", "", "package name")
}

func addVulnFlag(val *string, cmd *cobra.Command) {
	cmd.Flags().StringVarP(val, flagNameVuln, "V", "", "vulnerability ID for advisory")
}
