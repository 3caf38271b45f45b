package cli

import (
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/semver"
)

func cmdAdvisoryList() *cobra.Command {
	p := &listParams{}
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List advisories for specific packages or across the whole database",
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := clog.NewLogger(newLogger(p.verbosity))
			ctx := clog.WithLogger(cmd.Context(), logger)

			dbDir := resolveAdvisoryDB(p.advisoryDBDir)
			if dbDir == "" {
				return fmt.Errorf("need --%s (or $%s)", flagNameAdvisoryDB, envVarNameForAdvisoryDB)
			}

			store, err := advisory.OpenDatabase(ctx, afero.NewOsFs(), dbDir)
			if err != nil {
				return err
			}

			var output string

			for _, adv := range store.Advisories() {
				if pkg := p.packageName; pkg != "" && adv.Package.Name != pkg && adv.Package.String() != pkg {
					continue
				}

				if p.vuln != "" && !adv.DescribesVulnerability(p.vuln) {
					// user specified a particular different vulnerability
					continue
				}

				if p.unfixed && len(adv.Patched) > 0 {
					// user only wants to see advisories without a fix
					continue
				}

				output += fmt.Sprintf("%s: %s: %s\n", adv.Package, adv.ID, renderListItem(adv))
			}

			fmt.Print(output)
			return nil
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

type listParams struct {
	advisoryDBDir string

	packageName string
	vuln        string
	unfixed     bool
	verbosity   int
}

func (p *listParams) addFlagsTo(cmd *cobra.Command) {
	addAdvisoryDBFlag(&p.advisoryDBDir, cmd)
	addPackageFlag(&p.packageName, cmd)
	addVulnFlag(&p.vuln, cmd)
	addVerboseFlag(&p.verbosity, cmd)

	cmd.Flags().BoolVar(&p.unfixed, "unfixed", false, "only show advisories without any patched version")
}

func renderListItem(adv advisory.Advisory) string {
	switch {
	case adv.IsWithdrawn():
		return fmt.Sprintf("withdrawn @ %s", adv.Withdrawn.Format("2006-01-02"))

	case adv.Informational != "":
		return string(adv.Informational)

	case len(adv.Patched) > 0:
		return fmt.Sprintf("fixed (%s)", renderRanges(adv.Patched))

	case len(adv.Unaffected) > 0:
		return fmt.Sprintf("unaffected (%s)", renderRanges(adv.Unaffected))
	}

	return "no known safe version"
}

func renderRanges(ranges []semver.Range) string {
	return strings.Join(lo.Map(ranges, func(r semver.Range, _ int) string {
		return r.String()
	}), " or ")
}
