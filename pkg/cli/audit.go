package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/audit"
	"github.com/lockaudit/lockaudit/pkg/cvss"
	"github.com/lockaudit/lockaudit/pkg/depgraph"
	"github.com/lockaudit/lockaudit/pkg/lockfile"
	"github.com/lockaudit/lockaudit/pkg/report"
)

const (
	outputFormatOutline = "outline"
	outputFormatJSON    = "json"
)

var validOutputFormats = []string{outputFormatOutline, outputFormatJSON}

// ErrVulnerabilitiesFound is returned by the audit command when findings are
// present and the invocation asked for a failing exit. Callers can map it to
// a distinct exit code to tell "vulnerable" apart from "the audit itself
// failed".
var ErrVulnerabilitiesFound = errors.New("vulnerabilities found")

func cmdAudit() *cobra.Command {
	p := &auditParams{}
	cmd := &cobra.Command{
		Use:   "audit --db <dir> --lockfile <path>",
		Short: "Audit a lockfile against an advisory database",
		Long: `This command matches every package in a resolved lockfile against a local
advisory database and reports the vulnerable packages it finds.

## AUDITING

The advisory database is a directory of YAML advisory documents, specified
with --db (or $` + envVarNameForAdvisoryDB + `). The database is validated as
it loads, and an invalid document fails the audit rather than producing a
report from partial data.

The lockfile is a YAML file describing the resolved dependency set: the
ecosystem, and every package with its exact version and the packages that
depend on it. A package's installed version is compared against each
advisory's patched and unaffected ranges; a version covered by neither is
reported as vulnerable. Withdrawn advisories are skipped. Advisories marked
informational (unmaintained, unsound, notice) are reported as warnings, not
findings.

## FILTERING

Advisories can be excluded by ID or by any of their aliases using --ignore,
either on the command line or via the "ignore" list in the configuration
file.

## OUTPUT

There are two modes of output that can be specified with the --output (or
"-o") flag:

- "outline": This is the default output mode. It prints the results in a
  human-readable outline format.

- "json": This mode prints the results in JSON format. This mode is useful
  for machine processing of the results.

With --include-cvss, each finding whose advisory carries a CVSS vector also
gets a computed numeric score, and the finding's severity comes from that
score instead of the advisory's qualitative label.

With --trace-paths, each finding is annotated with dependency paths showing
how the vulnerable package is reached from the audited application's direct
dependencies.

## EXIT CODES

The command exits 0 when the audit ran and nothing failed the run, even if
findings were reported. With --require-zero, any finding makes the command
exit with a distinct non-zero code. With --fail-on, only findings at or above
the given severity do; findings without a known severity always count, since
they can't be proven to sit below the floor. Errors loading the database or
resolving the dependency graph exit 1.
`,
		Example: `
# Audit a lockfile and print the findings
lockaudit audit --db ./advisories --lockfile ./app.lock.yaml

# Fail CI on any finding, with scores and dependency paths
lockaudit audit --db ./advisories --lockfile ./app.lock.yaml \
    --require-zero --include-cvss --trace-paths shortest

# Machine-readable output, ignoring an accepted advisory
lockaudit audit --db ./advisories --lockfile ./app.lock.yaml \
    -o json --ignore RUSTSEC-2023-0001
`,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := clog.NewLogger(newLogger(p.verbosity))
			ctx := clog.WithLogger(cmd.Context(), logger)

			fsys := afero.NewOsFs()

			cfg, err := loadConfig(fsys, p.configPath)
			if err != nil {
				return err
			}
			cfg.apply(p, cmd.Flags())

			if p.outputFormat == "" {
				p.outputFormat = outputFormatOutline
			}

			// Validate inputs

			if !slices.Contains(validOutputFormats, p.outputFormat) {
				return fmt.Errorf(
					"invalid output format %q, must be one of [%s]",
					p.outputFormat,
					strings.Join(validOutputFormats, ", "),
				)
			}

			pathMode, err := audit.ParsePathMode(p.tracePaths)
			if err != nil {
				return err
			}

			var failOn cvss.Severity
			if p.failOn != "" {
				failOn, err = cvss.ParseSeverity(p.failOn)
				if err != nil {
					return fmt.Errorf("invalid --%s value: %w", flagNameFailOn, err)
				}
			}

			dbDir := resolveAdvisoryDB(p.advisoryDBDir)
			if dbDir == "" {
				return fmt.Errorf("need --%s (or $%s)", flagNameAdvisoryDB, envVarNameForAdvisoryDB)
			}
			if p.lockfilePath == "" {
				return fmt.Errorf("need --%s", flagNameLockfile)
			}

			store, err := advisory.OpenDatabase(ctx, fsys, dbDir)
			if err != nil {
				return fmt.Errorf("loading advisory database: %w", err)
			}
			logger.Info("loaded advisory database", "dir", dbDir, "advisories", store.Len())

			deps, err := lockfile.Load(fsys, p.lockfilePath)
			if err != nil {
				return err
			}

			graph, err := depgraph.Resolve(deps)
			if err != nil {
				return err
			}
			logger.Info("resolved dependency graph", "nodes", graph.Len(), "roots", len(graph.Roots()))

			rep, err := audit.Audit(ctx, store, graph, audit.Options{
				IncludeCVSS: p.includeCVSS,
				TracePaths:  pathMode,
				Ignore:      p.ignore,
				Workers:     p.workers,
			})
			if err != nil {
				return err
			}

			switch p.outputFormat {
			case outputFormatJSON:
				if err := rep.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("failed to marshal report to JSON: %w", err)
				}

			case outputFormatOutline:
				if rep.Count() == 0 {
					fmt.Println("✅ No known vulnerabilities")
				} else {
					tree := newFindingsTree(rep.Findings)
					fmt.Println(tree.render())
					fmt.Println(renderSummary(rep))
				}

				if len(rep.Warnings) > 0 {
					fmt.Println(renderWarnings(rep.Warnings))
				}
			}

			return p.checkFindings(rep, failOn)
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

// checkFindings decides whether findings should fail the invocation, per the
// --require-zero and --fail-on settings.
func (p *auditParams) checkFindings(rep *report.Report, failOn cvss.Severity) error {
	count := rep.Count()
	if count == 0 {
		return nil
	}

	if p.requireZero {
		return fmt.Errorf("%w: %d finding(s)", ErrVulnerabilitiesFound, count)
	}

	if failOn != "" {
		n := 0
		for _, f := range rep.Findings {
			// A finding with no known severity can't be proven to sit below
			// the floor, so it counts.
			if rank := f.Severity.Rank(); rank < 0 || rank >= failOn.Rank() {
				n++
			}
		}
		if n > 0 {
			return fmt.Errorf("%w: %d finding(s) at or above %s severity", ErrVulnerabilitiesFound, n, failOn)
		}
	}

	return nil
}

type auditParams struct {
	advisoryDBDir string
	lockfilePath  string
	configPath    string
	outputFormat  string
	includeCVSS   bool
	tracePaths    string
	ignore        []string
	workers       int
	requireZero   bool
	failOn        string
	verbosity     int
}

const (
	flagNameIncludeCVSS = "include-cvss"
	flagNameFailOn      = "fail-on"
)

func (p *auditParams) addFlagsTo(cmd *cobra.Command) {
	addAdvisoryDBFlag(&p.advisoryDBDir, cmd)
	addLockfileFlag(&p.lockfilePath, cmd)
	cmd.Flags().StringVar(&p.configPath, "config", "", fmt.Sprintf("configuration file (default %s)", defaultConfigPath))
	cmd.Flags().StringVarP(&p.outputFormat, flagNameOutput, "o", "", fmt.Sprintf("output format (%s), defaults to %s", strings.Join(validOutputFormats, "|"), outputFormatOutline))
	cmd.Flags().BoolVar(&p.includeCVSS, flagNameIncludeCVSS, false, "compute numeric CVSS scores for findings")
	cmd.Flags().StringVar(&p.tracePaths, "trace-paths", string(audit.PathsNone), fmt.Sprintf("annotate findings with dependency paths (%s|%s|%s)", audit.PathsNone, audit.PathsShortest, audit.PathsAll))
	cmd.Flags().StringSliceVar(&p.ignore, "ignore", nil, "advisory IDs (or aliases) to exclude from the report")
	cmd.Flags().IntVar(&p.workers, "workers", runtime.GOMAXPROCS(0), "maximum number of concurrent package evaluations")
	cmd.Flags().BoolVar(&p.requireZero, "require-zero", false, "exit non-zero if any findings are reported")
	cmd.Flags().StringVar(&p.failOn, flagNameFailOn, "", "exit non-zero if a finding at or above this severity is reported (none|low|medium|high|critical)")
	addVerboseFlag(&p.verbosity, cmd)
}
