package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockaudit/lockaudit/pkg/advisory"
	"github.com/lockaudit/lockaudit/pkg/cvss"
	"github.com/lockaudit/lockaudit/pkg/semver"
)

func finding(id, pkg, version string, published time.Time, severity cvss.Severity) Finding {
	packageID := advisory.PackageID{Ecosystem: "crates", Name: pkg}
	return Finding{
		Advisory: advisory.Advisory{
			ID:        id,
			Package:   packageID,
			Published: published,
		},
		Package:  packageID,
		Version:  semver.MustParse(version),
		Severity: severity,
	}
}

func TestReport_Sort(t *testing.T) {
	older := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)

	r := &Report{
		Findings: Findings{
			finding("RUSTSEC-2022-0002", "tokio", "1.0.0", older, cvss.SeverityLow),
			finding("RUSTSEC-2022-0001", "smallvec", "1.2.0", older, cvss.SeverityHigh),
			finding("RUSTSEC-2023-0001", "smallvec", "1.2.0", newer, cvss.SeverityHigh),
			finding("RUSTSEC-2023-0009", "smallvec", "1.2.0", newer, cvss.SeverityMedium),
		},
	}
	r.Sort()

	var got []string
	for _, f := range r.Findings {
		got = append(got, f.Advisory.ID)
	}

	// Package first, then newest advisories, then ID.
	assert.Equal(t, []string{
		"RUSTSEC-2023-0001",
		"RUSTSEC-2023-0009",
		"RUSTSEC-2022-0001",
		"RUSTSEC-2022-0002",
	}, got)
}

func TestReport_Counts(t *testing.T) {
	published := time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)

	r := &Report{
		Findings: Findings{
			finding("RUSTSEC-2023-0001", "smallvec", "1.2.0", published, cvss.SeverityHigh),
			finding("RUSTSEC-2023-0002", "tokio", "1.0.0", published, cvss.SeverityHigh),
			finding("RUSTSEC-2023-0003", "hyper", "0.14.0", published, cvss.SeverityLow),
		},
		Warnings: Warnings{
			{
				Advisory: advisory.Advisory{ID: "RUSTSEC-2023-0004"},
				Kind:     advisory.InformationalUnmaintained,
			},
		},
	}

	assert.Equal(t, 3, r.Count())
	assert.Equal(t, map[cvss.Severity]int{
		cvss.SeverityHigh: 2,
		cvss.SeverityLow:  1,
	}, r.SeverityCounts())
}

func TestReport_WriteJSON(t *testing.T) {
	published := time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)

	r := &Report{
		Findings: Findings{
			finding("RUSTSEC-2023-0001", "smallvec", "1.2.0", published, cvss.SeverityHigh),
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, r.WriteJSON(buf))

	out := buf.String()
	assert.Contains(t, out, `"id": "RUSTSEC-2023-0001"`)
	assert.Contains(t, out, `"Version": "1.2.0"`)
	assert.Contains(t, out, `"Severity": "high"`)
	assert.NotContains(t, out, `"Score"`)
}
