package cli

import (
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/report"
)

func cmdExportOSV() *cobra.Command {
	p := &exportOSVParams{}
	cmd := &cobra.Command{
		Use:   "osv",
		Short: "Build an OSV dataset from advisory data",
		Long: `Build an OSV dataset from advisory data.

This command reads advisory documents from the database directory and writes
an OSV dataset to a local directory: one "{ID}.json" file per advisory, plus
an "all.json" index with each advisory's ID and modified time.

The dataset is written with deterministic ordering, so re-exporting unchanged
advisory data produces identical files.
`,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := clog.NewLogger(newLogger(p.verbosity))
			ctx := clog.WithLogger(cmd.Context(), logger)

			dbDir := resolveAdvisoryDB(p.advisoryDBDir)
			if dbDir == "" {
				return fmt.Errorf("need --%s (or $%s)", flagNameAdvisoryDB, envVarNameForAdvisoryDB)
			}
			if p.outputDirectory == "" {
				return fmt.Errorf("need --%s", flagNameOutput)
			}

			fsys := afero.NewOsFs()

			store, err := advisory.OpenDatabase(ctx, fsys, dbDir)
			if err != nil {
				return fmt.Errorf("loading advisory database: %w", err)
			}

			err = report.BuildOSVDataset(ctx, fsys, report.OSVOptions{
				Store:           store,
				OutputDirectory: p.outputDirectory,
			})
			if err != nil {
				return fmt.Errorf("building OSV dataset: %w", err)
			}

			return nil
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

type exportOSVParams struct {
	advisoryDBDir   string
	outputDirectory string
	verbosity       int
}

func (p *exportOSVParams) addFlagsTo(cmd *cobra.Command) {
	addAdvisoryDBFlag(&p.advisoryDBDir, cmd)
	addVerboseFlag(&p.verbosity, cmd)
	cmd.Flags().StringVarP(&p.outputDirectory, flagNameOutput, "o", "", "path to a local directory in which the OSV dataset will be written")
}
