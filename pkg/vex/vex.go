package vex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/openvex/go-vex/pkg/vex"
	"github.com/samber/lo"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/depgraph"
	"github.com/lockaudit/lockaudit/pkg/report"
	"github.com/lockaudit/lockaudit/pkg/semver"
)

type Config struct {
	Author, AuthorRole, Tooling string
}

// FromReport generates a new VEX document describing the audit outcome for the
// given dependency graph: an "affected" statement for each finding, plus
// "fixed" and "not_affected" statements for installed versions that an
// advisory's patched or unaffected ranges place out of danger. Withdrawn and
// informational advisories produce no statements.
func FromReport(store *advisory.Store, graph *depgraph.Graph, rep *report.Report, vexCfg Config) (vex.VEX, error) {
	doc := vex.New()

	doc.ID = generateDocumentID()
	doc.Author = vexCfg.Author
	doc.AuthorRole = vexCfg.AuthorRole
	doc.Tooling = vexCfg.Tooling

	statements := statementsFromFindings(rep.Findings)
	statements = append(statements, statementsFromSafeVersions(store, graph)...)

	// Not using the upstream statement sort here: it orders by timestamp, and
	// these statements all share the document timestamp.
	sortStatements(statements)
	doc.Statements = statements

	return doc, nil
}

func statementsFromFindings(findings report.Findings) []vex.Statement {
	return lo.Map(findings, func(f report.Finding, _ int) vex.Statement {
		return vex.Statement{
			Vulnerability:   vulnerability(f.Advisory),
			Products:        []vex.Product{product(f.Package, f.Version.String())},
			Status:          vex.StatusAffected,
			ActionStatement: actionStatement(f.Advisory),
		}
	})
}

func statementsFromSafeVersions(store *advisory.Store, graph *depgraph.Graph) []vex.Statement {
	var stmts []vex.Statement

	for _, node := range graph.Nodes() {
		for _, adv := range store.Lookup(node.Package) {
			if adv.IsWithdrawn() || adv.Informational != "" {
				continue
			}

			switch {
			case semver.MatchesAny(adv.Patched, node.Version):
				stmts = append(stmts, vex.Statement{
					Vulnerability: vulnerability(adv),
					Products:      []vex.Product{product(node.Package, node.Version.String())},
					Status:        vex.StatusFixed,
				})

			case semver.MatchesAny(adv.Unaffected, node.Version):
				stmts = append(stmts, vex.Statement{
					Vulnerability: vulnerability(adv),
					Products:      []vex.Product{product(node.Package, node.Version.String())},
					Status:        vex.StatusNotAffected,
					Justification: vex.VulnerableCodeNotPresent,
				})
			}
		}
	}

	return stmts
}

func vulnerability(adv advisory.Advisory) vex.Vulnerability {
	v := vex.Vulnerability{
		Name:        vex.VulnerabilityID(adv.ID),
		Description: adv.Title,
	}

	if len(adv.Aliases) > 0 {
		v.Aliases = lo.Map(adv.Aliases, func(alias string, _ int) vex.VulnerabilityID {
			return vex.VulnerabilityID(alias)
		})
	}

	return v
}

func product(pkg advisory.PackageID, version string) vex.Product {
	purl := report.PackageURL(pkg, version)

	return vex.Product{
		Component: vex.Component{
			ID: purl,
			Identifiers: map[vex.IdentifierType]string{
				vex.PURL: purl,
			},
		},
	}
}

// actionStatement describes the remediation for an affected product, which
// OpenVEX requires alongside every "affected" status.
func actionStatement(adv advisory.Advisory) string {
	if len(adv.Patched) == 0 {
		return "No patched version is available; remove the dependency or apply a mitigation."
	}

	exprs := lo.Map(adv.Patched, func(r semver.Range, _ int) string {
		return r.String()
	})
	return fmt.Sprintf("Upgrade to a version matching %s.", strings.Join(exprs, " or "))
}

// sortStatements orders statements by product, then vulnerability, then
// status, so that a given audit always yields the same document.
func sortStatements(statements []vex.Statement) {
	sort.SliceStable(statements, func(i, j int) bool {
		si, sj := statements[i], statements[j]

		if pi, pj := si.Products[0].ID, sj.Products[0].ID; pi != pj {
			return pi < pj
		}
		if si.Vulnerability.Name != sj.Vulnerability.Name {
			return si.Vulnerability.Name < sj.Vulnerability.Name
		}
		return si.Status < sj.Status
	})
}

func generateDocumentID() string {
	return fmt.Sprintf("https://openvex.dev/docs/lockaudit-%s", uuid.New())
}
