package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockaudit/lockaudit/pkg/cvss"
	"github.com/lockaudit/lockaudit/pkg/report"
)

func TestCheckFindings(t *testing.T) {
	repWith := func(severities ...cvss.Severity) *report.Report {
		rep := &report.Report{}
		for _, severity := range severities {
			rep.Findings = append(rep.Findings, report.Finding{Severity: severity})
		}
		return rep
	}

	cases := []struct {
		name        string
		rep         *report.Report
		requireZero bool
		failOn      cvss.Severity
		wantErr     bool
	}{
		{
			name: "clean report never fails",
			rep:  repWith(),
		},
		{
			name: "findings alone don't fail",
			rep:  repWith(cvss.SeverityCritical),
		},
		{
			name:        "require-zero fails on any finding",
			rep:         repWith(cvss.SeverityLow),
			requireZero: true,
			wantErr:     true,
		},
		{
			name:        "require-zero passes on clean report",
			rep:         repWith(),
			requireZero: true,
		},
		{
			name:    "fail-on passes below the floor",
			rep:     repWith(cvss.SeverityLow, cvss.SeverityMedium),
			failOn:  cvss.SeverityHigh,
			wantErr: false,
		},
		{
			name:    "fail-on fails at the floor",
			rep:     repWith(cvss.SeverityHigh),
			failOn:  cvss.SeverityHigh,
			wantErr: true,
		},
		{
			name:    "fail-on fails above the floor",
			rep:     repWith(cvss.SeverityCritical),
			failOn:  cvss.SeverityHigh,
			wantErr: true,
		},
		{
			name:    "unknown severity counts against the floor",
			rep:     repWith(cvss.SeverityUnknown),
			failOn:  cvss.SeverityCritical,
			wantErr: true,
		},
		{
			name:    "missing severity counts against the floor",
			rep:     repWith(""),
			failOn:  cvss.SeverityCritical,
			wantErr: true,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			p := &auditParams{requireZero: tt.requireZero}

			err := p.checkFindings(tt.rep, tt.failOn)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrVulnerabilitiesFound)
				return
			}
			require.NoError(t, err)
		})
	}
}
