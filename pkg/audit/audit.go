package audit

import (
	"context"
	"fmt"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/depgraph"
	"github.com/lockaudit/lockaudit/pkg/report"
)

// PathMode selects how much dependency path context findings carry.
type PathMode string

const (
	// PathsNone disables path tracing.
	PathsNone PathMode = "none"

	// PathsShortest annotates each finding with a single shortest path from
	// a root, ties broken by root order.
	PathsShortest PathMode = "shortest"

	// PathsAll annotates each finding with the shortest path from every root
	// that reaches it.
	PathsAll PathMode = "all"
)

// ParsePathMode maps a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "", string(PathsNone):
		return PathsNone, nil
	case string(PathsShortest):
		return PathsShortest, nil
	case string(PathsAll):
		return PathsAll, nil
	}

	return "", fmt.Errorf("invalid path mode %q (want %q, %q, or %q)", s, PathsNone, PathsShortest, PathsAll)
}

// Options configures a single audit run.
type Options struct {
	// IncludeCVSS computes numeric CVSS scores for findings whose advisory
	// carries a vector. Advisories without one keep their qualitative
	// severity.
	IncludeCVSS bool

	// TracePaths selects dependency path tracing.
	TracePaths PathMode

	// Ignore lists advisory IDs, or any of their aliases, to exclude from
	// the report.
	Ignore []string

	// Workers caps concurrent node evaluation. Values below 2 evaluate
	// serially. Results are identical either way; the store and graph are
	// read-only during the run and the report is re-sorted at the end.
	Workers int
}

// Audit matches every node of the dependency graph against the advisory
// store and returns the resulting report, deterministically ordered.
func Audit(ctx context.Context, store *advisory.Store, graph *depgraph.Graph, opts Options) (*report.Report, error) {
	a := &auditor{store: store, graph: graph, opts: opts}

	nodes := graph.Nodes()
	r := &report.Report{}

	if opts.Workers > 1 {
		mu := new(sync.Mutex) // guards the report during collection
		eg, ctx := errgroup.WithContext(ctx)
		eg.SetLimit(opts.Workers)

		for _, node := range nodes {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				findings, warnings := a.evaluate(node)

				mu.Lock()
				r.Findings = append(r.Findings, findings...)
				r.Warnings = append(r.Warnings, warnings...)
				mu.Unlock()

				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, node := range nodes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			findings, warnings := a.evaluate(node)
			r.Findings = append(r.Findings, findings...)
			r.Warnings = append(r.Warnings, warnings...)
		}
	}

	// Collection order depends on scheduling when workers are in play; the
	// sort keeps that from ever reaching the caller.
	r.Sort()

	clog.FromContext(ctx).Debugf("audited %d nodes against %d advisories: %d findings, %d warnings",
		len(nodes), store.Len(), len(r.Findings), len(r.Warnings))

	return r, nil
}

type auditor struct {
	store *advisory.Store
	graph *depgraph.Graph
	opts  Options
}

func (a *auditor) evaluate(node depgraph.Node) ([]report.Finding, []report.Warning) {
	candidates := a.store.Lookup(node.Package)
	if len(candidates) == 0 {
		return nil, nil
	}

	var findings []report.Finding
	var warnings []report.Warning

	for _, adv := range candidates {
		if adv.IsWithdrawn() {
			continue
		}
		if a.ignored(adv) {
			continue
		}
		if !adv.Vulnerable(node.Version) {
			continue
		}

		if adv.Informational != "" {
			warnings = append(warnings, report.Warning{
				Advisory: adv,
				Package:  node.Package,
				Version:  node.Version,
				ID:       node.ID,
				Kind:     adv.Informational,
			})
			continue
		}

		finding := report.Finding{
			Advisory: adv,
			Package:  node.Package,
			Version:  node.Version,
			ID:       node.ID,
			Severity: adv.Severity,
			Paths:    a.trace(node),
		}

		if a.opts.IncludeCVSS && adv.CVSS != nil {
			score := adv.CVSS.Score()
			finding.Score = &score
			finding.Severity = score.Severity
		}

		findings = append(findings, finding)
	}

	return findings, warnings
}

func (a *auditor) ignored(adv advisory.Advisory) bool {
	for _, id := range a.opts.Ignore {
		if adv.DescribesVulnerability(id) {
			return true
		}
	}
	return false
}

func (a *auditor) trace(node depgraph.Node) [][]string {
	switch a.opts.TracePaths {
	case PathsShortest:
		if path := shortest(a.graph.AllShortestPaths(node.Key())); path != nil {
			return [][]string{pathStrings(path)}
		}
	case PathsAll:
		paths := a.graph.AllShortestPaths(node.Key())
		if len(paths) == 0 {
			return nil
		}
		return lo.Map(paths, func(path []depgraph.Node, _ int) []string {
			return pathStrings(path)
		})
	}

	return nil
}

// shortest picks the overall shortest of the per-root paths. Earlier roots
// win ties, which is what makes the traced path reproducible.
func shortest(paths [][]depgraph.Node) []depgraph.Node {
	var best []depgraph.Node
	for _, path := range paths {
		if best == nil || len(path) < len(best) {
			best = path
		}
	}
	return best
}

func pathStrings(path []depgraph.Node) []string {
	return lo.Map(path, func(n depgraph.Node, _ int) string {
		return n.String()
	})
}
