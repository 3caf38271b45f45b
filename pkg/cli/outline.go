package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/savioxavier/termlink"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/cli/styles"
	"github.com/lockaudit/lockaudit/pkg/cvss"
	"github.com/lockaudit/lockaudit/pkg/report"
	"github.com/lockaudit/lockaudit/pkg/vuln"
)

type findingsTree struct {
	findingsByNode map[string]report.Findings
	nodes          []string
}

// newFindingsTree groups findings by the package occurrence they were
// reported against. Findings arrive already sorted, and the grouping keeps
// that order.
func newFindingsTree(findings report.Findings) *findingsTree {
	tree := make(map[string]report.Findings)
	var nodes []string

	for i := range findings {
		f := findings[i]
		node := fmt.Sprintf("%s %s", f.Package, f.Version)
		if f.ID != "" {
			node += " #" + f.ID
		}

		if _, ok := tree[node]; !ok {
			nodes = append(nodes, node)
		}
		tree[node] = append(tree[node], f)
	}

	return &findingsTree{
		findingsByNode: tree,
		nodes:          nodes,
	}
}

func (t findingsTree) render() string {
	var lines []string
	for i, node := range t.nodes {
		var treeStem, verticalLine string
		if i == len(t.nodes)-1 {
			treeStem = "└── "
			verticalLine = " "
		} else {
			treeStem = "├── "
			verticalLine = "│"
		}

		lines = append(lines, treeStem+fmt.Sprintf("📦 %s", styles.Accented().Render(node)))

		for _, f := range t.findingsByNode[node] {
			line := fmt.Sprintf(
				"%s       %s %s%s%s",
				verticalLine,
				renderSeverity(f.Severity),
				renderVulnerabilityID(f.Advisory),
				renderFixedIn(f.Advisory),
				renderScore(f.Score),
			)
			lines = append(lines, line)

			for _, path := range f.Paths {
				lines = append(lines, fmt.Sprintf(
					"%s           %s",
					verticalLine,
					styles.Secondary().Render("via "+strings.Join(path, " > ")),
				))
			}
		}

		lines = append(lines, verticalLine)
	}

	return strings.Join(lines, "\n")
}

func renderSeverity(severity cvss.Severity) string {
	if severity == "" {
		severity = cvss.SeverityUnknown
	}

	return styles.Severity(severity).Render(severity.String())
}

func renderVulnerabilityID(adv advisory.Advisory) string {
	var cveID string

	for _, alias := range adv.Aliases {
		if strings.HasPrefix(alias, "CVE-") {
			cveID = alias
			break
		}
	}

	if cveID == "" {
		return hyperlinkVulnerabilityID(adv.ID)
	}

	return fmt.Sprintf(
		"%s %s",
		hyperlinkVulnerabilityID(cveID),

		styles.Faint().Render(hyperlinkVulnerabilityID(adv.ID)),
	)
}

var termSupportsHyperlinks = termlink.SupportsHyperlinks()

func hyperlinkVulnerabilityID(id string) string {
	if !termSupportsHyperlinks {
		return id
	}

	if url := vuln.URL(id); url != "" {
		return termlink.Link(id, url)
	}

	return id
}

func renderFixedIn(adv advisory.Advisory) string {
	if len(adv.Patched) == 0 {
		return ""
	}

	return fmt.Sprintf(" fixed in %s", renderRanges(adv.Patched))
}

func renderScore(score *cvss.Score) string {
	if score == nil {
		return ""
	}

	return " " + styles.Faint().Render(fmt.Sprintf("(%.1f)", score.Base))
}

// renderSummary tallies the findings by severity, most severe first.
func renderSummary(rep *report.Report) string {
	counts := rep.SeverityCounts()
	counts[cvss.SeverityUnknown] += counts[""]

	parts := []string{}
	for _, severity := range []cvss.Severity{
		cvss.SeverityCritical,
		cvss.SeverityHigh,
		cvss.SeverityMedium,
		cvss.SeverityLow,
		cvss.SeverityNone,
		cvss.SeverityUnknown,
	} {
		if n := counts[severity]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, renderSeverity(severity)))
		}
	}

	count := rep.Count()
	noun := "findings"
	if count == 1 {
		noun = "finding"
	}

	return fmt.Sprintf("%s (%s)", styles.Bold().Render(fmt.Sprintf("%d %s", count, noun)), strings.Join(parts, ", "))
}

func renderWarnings(warnings report.Warnings) string {
	return strings.Join(lo.Map(warnings, func(w report.Warning, _ int) string {
		return fmt.Sprintf(
			"⚠️  %s %s: %s (%s)",
			w.Package,
			w.Version,
			w.Kind,
			hyperlinkVulnerabilityID(w.Advisory.ID),
		)
	}), "\n")
}
