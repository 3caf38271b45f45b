package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/internal/errorhelpers"
)

func cmdAdvisoryValidate() *cobra.Command {
	p := &validateParams{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the state of advisory data",
		Long: `Validate the state of the advisory data.

This command examines all advisory documents in the database directory to
check the validity of the data.

It looks for issues like:

* Missing required fields
* Extra fields
* Enum fields with an unrecognized value
* Malformed version ranges and vulnerability IDs
* Duplicate advisory IDs

Validation is all-or-nothing: the database is either usable for auditing in
its entirety, or it isn't. If any issues are found, the command will exit 1
and print an error message that specifies where and how the data is invalid.`,
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
				fmt.Fprintf(
					os.Stderr,
					"❌ advisory data is not valid.\n\n%s\n",
					renderValidationError(err, 0),
				)
				os.Exit(1)
			}

			fmt.Fprintf(os.Stderr, "✅ advisory data is valid. (%d advisories)\n", store.Len())

			return nil
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

type validateParams struct {
	advisoryDBDir string
	verbosity     int
}

func (p *validateParams) addFlagsTo(cmd *cobra.Command) {
	addAdvisoryDBFlag(&p.advisoryDBDir, cmd)
	addVerboseFlag(&p.verbosity, cmd)
}

func renderValidationError(err error, depth int) string {
	if err == nil {
		return ""
	}

	var loadErr *advisory.LoadError
	if errors.As(err, &loadErr) {
		// Document validation errors are already labeled with the advisory
		// ID; don't repeat it.
		if labeled, ok := loadErr.Err.(errorhelpers.Labeled); ok && labeled.Label() == loadErr.ID {
			return renderValidationError(loadErr.Err, depth)
		}
		return fmt.Sprintf("%s%s:\n%s", indent(depth), loadErr.ID, renderValidationError(loadErr.Err, depth+1))
	}

	switch e := err.(type) {
	case errorhelpers.Labeled:
		return fmt.Sprintf("%s%s:\n%s", indent(depth), e.Label(), renderValidationError(e.Unwrap(), depth+1))

	case interface{ Unwrap() []error }:
		errs := e.Unwrap()

		// Add an extra newline for the top-level errors
		sep := "\n"
		if depth == 0 {
			sep = "\n\n"
		}

		return strings.Join(
			lo.Map(errs, func(err error, _ int) string {
				return renderValidationError(err, depth)
			}),
			sep,
		)
	}

	return fmt.Sprintf("%s%s", indent(depth), err)
}

func indent(depth int) string {
	return strings.Repeat("    ", depth)
}
