package cli

import (
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/audit"
	"github.com/lockaudit/lockaudit/pkg/depgraph"
	"github.com/lockaudit/lockaudit/pkg/lockfile"
	"github.com/lockaudit/lockaudit/pkg/vex"
)

func cmdExportVEX() *cobra.Command {
	p := &exportVEXParams{}
	cmd := &cobra.Command{
		Use:     "vex",
		Example: "lockaudit export vex --author=joe@doe.com --db ./advisories --lockfile ./app.lock.yaml",
		Short:   "Generate an OpenVEX document for an audited lockfile",
		Long: `Generate an OpenVEX document for an audited lockfile.

This command audits the lockfile against the advisory database and emits a
Vulnerability Exploitability eXchange (VEX) document describing the outcome:
which advisories affect the locked package versions, which are already fixed
by the installed version, and which don't apply to it.

The document is written to stdout unless --output names a file. To know more
about the VEX tooling see: https://openvex.dev/
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
			if p.lockfilePath == "" {
				return fmt.Errorf("need --%s", flagNameLockfile)
			}

			fsys := afero.NewOsFs()

			store, err := advisory.OpenDatabase(ctx, fsys, dbDir)
			if err != nil {
				return fmt.Errorf("loading advisory database: %w", err)
			}

			deps, err := lockfile.Load(fsys, p.lockfilePath)
			if err != nil {
				return err
			}

			graph, err := depgraph.Resolve(deps)
			if err != nil {
				return err
			}

			rep, err := audit.Audit(ctx, store, graph, audit.Options{})
			if err != nil {
				return err
			}

			doc, err := vex.FromReport(store, graph, rep, vex.Config{
				Author:     p.author,
				AuthorRole: p.authorRole,
				Tooling:    "lockaudit",
			})
			if err != nil {
				return fmt.Errorf("creating VEX document: %w", err)
			}

			out := os.Stdout
			if p.outputFile != "" {
				out, err = os.Create(p.outputFile)
				if err != nil {
					return fmt.Errorf("unable to create output file: %w", err)
				}
				defer out.Close()
			}

			if err := doc.ToJSON(out); err != nil {
				return fmt.Errorf("marshaling VEX document: %w", err)
			}

			return nil
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

type exportVEXParams struct {
	advisoryDBDir string
	lockfilePath  string
	outputFile    string
	author        string
	authorRole    string
	verbosity     int
}

func (p *exportVEXParams) addFlagsTo(cmd *cobra.Command) {
	addAdvisoryDBFlag(&p.advisoryDBDir, cmd)
	addLockfileFlag(&p.lockfilePath, cmd)
	addVerboseFlag(&p.verbosity, cmd)
	cmd.Flags().StringVarP(&p.outputFile, flagNameOutput, "o", "", "output file (defaults to stdout)")
	cmd.Flags().StringVar(&p.author, "author", "", "author of the VEX document")
	cmd.Flags().StringVar(&p.authorRole, "role", "", "role of the author of the VEX document")
}
