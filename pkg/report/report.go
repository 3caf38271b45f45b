package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/cvss"
	"github.com/lockaudit/lockaudit/pkg/semver"
)

// Finding records one advisory matched against one dependency graph node.
// Findings are computed output and never mutated once produced.
type Finding struct {
	Advisory advisory.Advisory
	Package  advisory.PackageID
	Version  semver.Version

	// ID distinguishes multiple occurrences of the same package and version
	// in the dependency graph. Empty when the occurrence is unique.
	ID string `json:",omitempty"`

	// Score is set when CVSS scoring was requested and the advisory carried
	// a parsable vector.
	Score *cvss.Score `json:",omitempty"`

	// Severity is the effective severity: the scored band when Score is set,
	// otherwise the advisory's qualitative severity.
	Severity cvss.Severity

	// Paths holds dependency paths from a root to the matched node, present
	// only when path tracing was requested.
	Paths [][]string `json:",omitempty"`
}

type Findings []Finding

func (f Findings) Len() int {
	return len(f)
}

func (f Findings) Less(i, j int) bool {
	fi := f[i]
	fj := f[j]

	if fi.Package != fj.Package {
		return fi.Package.String() < fj.Package.String()
	}

	// Newest advisories first within a package.
	if !fi.Advisory.Published.Equal(fj.Advisory.Published) {
		return fi.Advisory.Published.After(fj.Advisory.Published)
	}

	if fi.Advisory.ID != fj.Advisory.ID {
		return fi.Advisory.ID < fj.Advisory.ID
	}

	if !fi.Version.Equal(fj.Version) {
		return fi.Version.LessThan(fj.Version)
	}

	// Duplicate occurrences of a package@version tie on everything above.
	return fi.ID < fj.ID
}

func (f Findings) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
}

// Warning records a match against an informational advisory: the package
// isn't known to be vulnerable, but it is unmaintained, unsound, or the
// subject of a notice.
type Warning struct {
	Advisory advisory.Advisory
	Package  advisory.PackageID
	Version  semver.Version
	ID       string `json:",omitempty"`
	Kind     advisory.Informational
}

type Warnings []Warning

func (w Warnings) Len() int {
	return len(w)
}

func (w Warnings) Less(i, j int) bool {
	wi := w[i]
	wj := w[j]

	if wi.Package != wj.Package {
		return wi.Package.String() < wj.Package.String()
	}

	if wi.Advisory.ID != wj.Advisory.ID {
		return wi.Advisory.ID < wj.Advisory.ID
	}

	if !wi.Version.Equal(wj.Version) {
		return wi.Version.LessThan(wj.Version)
	}

	return wi.ID < wj.ID
}

func (w Warnings) Swap(i, j int) {
	w[i], w[j] = w[j], w[i]
}

// A Report is the complete result of one audit.
type Report struct {
	Findings Findings
	Warnings Warnings `json:",omitempty"`
}

// Count returns the number of vulnerability findings. Warnings don't count.
func (r *Report) Count() int {
	return len(r.Findings)
}

// SeverityCounts tallies findings by effective severity.
func (r *Report) SeverityCounts() map[cvss.Severity]int {
	counts := make(map[cvss.Severity]int)
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// Sort restores the deterministic output order: package, then publication
// date descending, then advisory ID. Matching collects findings in whatever
// order evaluation finishes, so it always sorts before handing the report
// out.
func (r *Report) Sort() {
	sort.Sort(r.Findings)
	sort.Sort(r.Warnings)
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
