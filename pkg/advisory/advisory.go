package advisory

import (
	"slices"
	"time"

	"github.com/lockaudit/lockaudit/pkg/cvss"
	"github.com/lockaudit/lockaudit/pkg/semver"
)

// PackageID identifies a package within an ecosystem. It is the key by which
// advisories and dependency graph nodes are correlated, and it is
// case-sensitive.
type PackageID struct {
	Ecosystem string `json:"ecosystem" yaml:"ecosystem"`
	Name      string `json:"name" yaml:"name"`
}

func (p PackageID) String() string {
	return p.Ecosystem + "/" + p.Name
}

// Informational marks an advisory that carries a warning about a package
// rather than a vulnerability in it.
type Informational string

const (
	InformationalUnmaintained Informational = "unmaintained"
	InformationalUnsound      Informational = "unsound"
	InformationalNotice       Informational = "notice"
)

// Advisory is one validated vulnerability record, compiled from a Document.
// Advisories are immutable once loaded.
type Advisory struct {
	ID          string    `json:"id"`
	Package     PackageID `json:"package"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Aliases     []string  `json:"aliases,omitempty"`

	Published time.Time  `json:"published"`
	Withdrawn *time.Time `json:"withdrawn,omitempty"`

	// Patched and Unaffected are the version ranges excluded from
	// vulnerability. When both are empty, no safe version is known and every
	// version matches.
	Patched    []semver.Range `json:"patched,omitempty"`
	Unaffected []semver.Range `json:"unaffected,omitempty"`

	// CVSS is nil when the document had no vector or its vector failed to
	// parse; Severity then stands in as the qualitative fallback.
	CVSS     *cvss.Vector  `json:"cvss,omitempty"`
	Severity cvss.Severity `json:"severity,omitempty"`

	References []string `json:"references,omitempty"`

	// Informational is empty for vulnerability advisories. A non-empty value
	// turns matches into warnings instead of findings.
	Informational Informational `json:"informational,omitempty"`
}

// IsWithdrawn reports whether the advisory has been withdrawn. Withdrawn
// advisories never produce findings.
func (adv Advisory) IsWithdrawn() bool {
	return adv.Withdrawn != nil
}

// DescribesVulnerability returns true if the advisory cites the given
// vulnerability ID in either its ID or its aliases.
func (adv Advisory) DescribesVulnerability(vulnID string) bool {
	return adv.ID == vulnID || slices.Contains(adv.Aliases, vulnID)
}

// Vulnerable reports whether the given version is affected: a version is
// vulnerable iff no patched range and no unaffected range covers it. An
// advisory without ranges therefore matches every version.
func (adv Advisory) Vulnerable(v semver.Version) bool {
	return !semver.MatchesAny(adv.Patched, v) && !semver.MatchesAny(adv.Unaffected, v)
}
