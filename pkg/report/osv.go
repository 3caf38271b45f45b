package report

import (
	"slices"
	"sort"

	"github.com/google/osv-scanner/pkg/models"
	"github.com/package-url/packageurl-go"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/cvss"
	"github.com/lockaudit/lockaudit/pkg/semver"
	"github.com/lockaudit/lockaudit/pkg/vuln"
)

// OSV converts an advisory into an OSV vulnerability record. The advisory ID,
// version ranges, and CVSS vector survive the conversion unchanged.
func OSV(adv advisory.Advisory) models.Vulnerability {
	entry := models.Vulnerability{
		ID:        adv.ID,
		Modified:  adv.Published,
		Published: adv.Published,
		Aliases:   slices.Clone(adv.Aliases),
		Summary:   adv.Title,
		Details:   adv.Description,
		Affected: []models.Affected{
			{
				Package: models.Package{
					Ecosystem: osvEcosystem(adv.Package.Ecosystem),
					Name:      adv.Package.Name,
					Purl:      purl(adv.Package),
				},
				Ranges: []models.Range{
					{
						Type:   models.RangeSemVer,
						Events: osvEvents(adv),
					},
				},
			},
		},
	}

	if adv.Withdrawn != nil {
		entry.Withdrawn = *adv.Withdrawn
		if adv.Withdrawn.After(entry.Modified) {
			entry.Modified = *adv.Withdrawn
		}
	}

	if adv.CVSS != nil {
		entry.Severity = []models.Severity{
			{
				Type:  severityType(adv.CVSS.Standard()),
				Score: adv.CVSS.String(),
			},
		}
	}

	if url := vuln.URL(adv.ID); url != "" {
		entry.References = append(entry.References, models.Reference{
			Type: models.ReferenceAdvisory,
			URL:  url,
		})
	}
	for _, ref := range adv.References {
		entry.References = append(entry.References, models.Reference{
			Type: models.ReferenceWeb,
			URL:  ref,
		})
	}

	return entry
}

const (
	rankIntroduced = iota
	rankLastAffected
	rankFixed
)

type osvBound struct {
	version semver.Version
	rank    int
}

// osvEvents reconstructs the advisory's vulnerable extent as sorted OSV
// events. Patched and unaffected ranges both carve safe intervals out of the
// version line: a safe interval's lower bound ends vulnerability (fixed) and
// its upper bound resumes it (introduced). An inclusive upper bound has no
// exact OSV event, so its introduced event lands on the bound itself, which
// errs toward flagging the boundary version.
func osvEvents(adv advisory.Advisory) []models.Event {
	var bounds []osvBound
	for _, r := range adv.Patched {
		bounds = append(bounds, boundsOf(r)...)
	}
	for _, r := range adv.Unaffected {
		bounds = append(bounds, boundsOf(r)...)
	}

	sort.Slice(bounds, func(i, j int) bool {
		if cmp := bounds[i].version.Compare(bounds[j].version); cmp != 0 {
			return cmp < 0
		}
		return bounds[i].rank < bounds[j].rank
	})

	var events []models.Event
	if adv.Vulnerable(semver.Version{}) {
		events = append(events, models.Event{Introduced: "0"})
	}

	for _, b := range bounds {
		v := b.version.String()
		switch b.rank {
		case rankIntroduced:
			events = append(events, models.Event{Introduced: v})
		case rankLastAffected:
			events = append(events, models.Event{LastAffected: v})
		case rankFixed:
			events = append(events, models.Event{Fixed: v})
		}
	}

	return events
}

// boundsOf reduces one safe range to its effective lower and upper bounds.
func boundsOf(r semver.Range) []osvBound {
	var lower, upper *semver.Comparator

	for _, c := range r.Comparators() {
		switch c.Op {
		case semver.OpGreaterEqual, semver.OpGreater, semver.OpEqual:
			if lower == nil || lower.Version.LessThan(c.Version) {
				lower = &c
			}
		}
		switch c.Op {
		case semver.OpLess, semver.OpLessEqual, semver.OpEqual:
			if upper == nil || c.Version.LessThan(upper.Version) {
				upper = &c
			}
		}
	}

	var bounds []osvBound
	if lower != nil {
		rank := rankFixed
		if lower.Op == semver.OpGreater {
			// Safe only above the bound, so the bound itself is the last
			// affected version.
			rank = rankLastAffected
		}
		bounds = append(bounds, osvBound{version: lower.Version, rank: rank})
	}
	if upper != nil {
		bounds = append(bounds, osvBound{version: upper.Version, rank: rankIntroduced})
	}

	return bounds
}

func purl(pkg advisory.PackageID) string {
	return PackageURL(pkg, "")
}

// PackageURL renders pkg as a package URL, including version when non-empty.
func PackageURL(pkg advisory.PackageID, version string) string {
	return packageurl.NewPackageURL(purlType(pkg.Ecosystem), "", pkg.Name, version, nil, "").ToString()
}

func purlType(ecosystem string) string {
	switch ecosystem {
	case "crates":
		return packageurl.TypeCargo
	case "go":
		return packageurl.TypeGolang
	case "npm":
		return packageurl.TypeNPM
	case "pypi":
		return packageurl.TypePyPi
	case "gems":
		return packageurl.TypeGem
	}
	return ecosystem
}

func osvEcosystem(ecosystem string) models.Ecosystem {
	switch ecosystem {
	case "crates":
		return models.EcosystemCratesIO
	case "go":
		return models.EcosystemGo
	case "npm":
		return models.EcosystemNPM
	case "pypi":
		return models.EcosystemPyPI
	case "gems":
		return models.EcosystemRubyGems
	}
	return models.Ecosystem(ecosystem)
}

func severityType(std cvss.Standard) models.SeverityType {
	switch std {
	case cvss.V20:
		return models.SeverityCVSSV2
	case cvss.V40:
		return models.SeverityCVSSV4
	}
	return models.SeverityCVSSV3
}
