package cvss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Vector {
	t.Helper()
	v, err := Parse(s)
	require.NoError(t, err)
	return v
}

func TestScore_V2(t *testing.T) {
	tests := []struct {
		vector   string
		base     float64
		severity Severity
	}{
		{vector: "AV:N/AC:L/Au:N/C:C/I:C/A:C", base: 10.0, severity: SeverityHigh},
		{vector: "AV:L/AC:L/Au:N/C:C/I:C/A:C", base: 7.2, severity: SeverityHigh},
		{vector: "AV:N/AC:M/Au:N/C:P/I:P/A:P", base: 6.8, severity: SeverityMedium},
		{vector: "AV:A/AC:L/Au:N/C:P/I:P/A:P", base: 5.8, severity: SeverityMedium},
		{vector: "AV:L/AC:H/Au:M/C:N/I:P/A:C", base: 4.4, severity: SeverityMedium},
		{vector: "AV:N/AC:L/Au:N/C:N/I:N/A:N", base: 0.0, severity: SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.vector, func(t *testing.T) {
			score := mustParse(t, tt.vector).Score()
			assert.InDelta(t, tt.base, score.Base, 0.001)
			assert.Equal(t, tt.severity, score.Severity)
			assert.Nil(t, score.Temporal)
			assert.Nil(t, score.Environmental)
		})
	}
}

func TestScore_V2_OptionalGroups(t *testing.T) {
	t.Run("temporal", func(t *testing.T) {
		score := mustParse(t, "AV:N/AC:L/Au:N/C:C/I:C/A:C/E:F/RL:OF/RC:C").Score()
		assert.InDelta(t, 10.0, score.Base, 0.001)
		require.NotNil(t, score.Temporal)
		assert.InDelta(t, 8.3, *score.Temporal, 0.001)
		assert.Nil(t, score.Environmental)
	})

	t.Run("partial temporal", func(t *testing.T) {
		score := mustParse(t, "AV:N/AC:L/Au:N/C:C/I:C/A:C/E:U").Score()
		require.NotNil(t, score.Temporal)
		assert.InDelta(t, 8.5, *score.Temporal, 0.001)
	})

	t.Run("environmental", func(t *testing.T) {
		score := mustParse(t, "AV:N/AC:L/Au:N/C:C/I:C/A:C/CDP:H/TD:M").Score()
		assert.Nil(t, score.Temporal)
		require.NotNil(t, score.Environmental)
		assert.InDelta(t, 7.5, *score.Environmental, 0.001)
	})

	t.Run("zero target distribution", func(t *testing.T) {
		score := mustParse(t, "AV:N/AC:L/Au:N/C:C/I:C/A:C/TD:N").Score()
		require.NotNil(t, score.Environmental)
		assert.InDelta(t, 0.0, *score.Environmental, 0.001)
	})
}

func TestScore_V3(t *testing.T) {
	tests := []struct {
		vector   string
		base     float64
		severity Severity
	}{
		{vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", base: 9.8, severity: SeverityCritical},
		{vector: "CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", base: 9.8, severity: SeverityCritical},
		{vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H", base: 10.0, severity: SeverityCritical},
		{vector: "CVSS:3.1/AV:N/AC:L/PR:L/UI:N/S:U/C:H/I:H/A:H", base: 8.8, severity: SeverityHigh},
		{vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:U/C:H/I:H/A:H", base: 8.8, severity: SeverityHigh},
		{vector: "CVSS:3.1/AV:N/AC:L/PR:L/UI:R/S:C/C:L/I:L/A:N", base: 5.4, severity: SeverityMedium},
		{vector: "CVSS:3.1/AV:L/AC:H/PR:H/UI:R/S:U/C:L/I:L/A:N", base: 2.9, severity: SeverityLow},
		{vector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:N", base: 0.0, severity: SeverityNone},
	}

	for _, tt := range tests {
		t.Run(tt.vector, func(t *testing.T) {
			score := mustParse(t, tt.vector).Score()
			assert.InDelta(t, tt.base, score.Base, 0.001)
			assert.Equal(t, tt.severity, score.Severity)
			assert.Nil(t, score.Temporal)
			assert.Nil(t, score.Environmental)
		})
	}
}

func TestScore_V3_OptionalGroups(t *testing.T) {
	t.Run("temporal", func(t *testing.T) {
		score := mustParse(t, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/E:F/RL:O/RC:C").Score()
		assert.InDelta(t, 9.8, score.Base, 0.001)
		require.NotNil(t, score.Temporal)
		assert.InDelta(t, 9.1, *score.Temporal, 0.001)
		assert.Nil(t, score.Environmental)
	})

	t.Run("environmental requirements", func(t *testing.T) {
		score := mustParse(t, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/CR:L/IR:L/AR:L").Score()
		assert.Nil(t, score.Temporal)
		require.NotNil(t, score.Environmental)
		assert.InDelta(t, 8.0, *score.Environmental, 0.001)
	})

	t.Run("temporal and environmental", func(t *testing.T) {
		score := mustParse(t, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/E:F/RL:O/RC:C/CR:L/IR:L/AR:L").Score()
		require.NotNil(t, score.Temporal)
		assert.InDelta(t, 9.1, *score.Temporal, 0.001)
		require.NotNil(t, score.Environmental)
		assert.InDelta(t, 7.4, *score.Environmental, 0.001)
	})

	t.Run("modified metrics", func(t *testing.T) {
		score := mustParse(t, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/MAV:P/MC:N").Score()
		require.NotNil(t, score.Environmental)
		assert.InDelta(t, 6.1, *score.Environmental, 0.001)
	})
}

func TestScore_V4(t *testing.T) {
	tests := []struct {
		vector   string
		base     float64
		severity Severity
	}{
		{
			vector:   "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
			base:     9.3,
			severity: SeverityCritical,
		},
		{
			vector:   "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:H/SI:H/SA:H",
			base:     10.0,
			severity: SeverityCritical,
		},
		{
			vector:   "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N/MSI:S",
			base:     10.0,
			severity: SeverityCritical,
		},
		{
			vector:   "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N/E:U",
			base:     8.1,
			severity: SeverityHigh,
		},
		{
			vector:   "CVSS:4.0/AV:L/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
			base:     8.6,
			severity: SeverityHigh,
		},
		{
			vector:   "CVSS:4.0/AV:N/AC:L/AT:N/PR:L/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
			base:     8.7,
			severity: SeverityHigh,
		},
		{
			vector:   "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:P/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
			base:     8.7,
			severity: SeverityHigh,
		},
		{
			vector:   "CVSS:4.0/AV:N/AC:H/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
			base:     9.2,
			severity: SeverityCritical,
		},
		{
			vector:   "CVSS:4.0/AV:N/AC:L/AT:P/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
			base:     9.2,
			severity: SeverityCritical,
		},
		{
			vector:   "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:N/VI:N/VA:N/SC:N/SI:N/SA:N",
			base:     0.0,
			severity: SeverityNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.vector, func(t *testing.T) {
			score := mustParse(t, tt.vector).Score()
			assert.InDelta(t, tt.base, score.Base, 0.001)
			assert.Equal(t, tt.severity, score.Severity)

			// Threat and environmental metrics fold into the base score.
			assert.Nil(t, score.Temporal)
			assert.Nil(t, score.Environmental)
		})
	}
}

func TestV4MacroVector(t *testing.T) {
	tests := []struct {
		vector string
		eq     [6]int
	}{
		{
			vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
			eq:     [6]int{0, 0, 0, 2, 0, 0},
		},
		{
			vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N/E:P",
			eq:     [6]int{0, 0, 0, 2, 1, 0},
		},
		{
			vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N/CR:L/IR:L/AR:L",
			eq:     [6]int{0, 0, 0, 2, 0, 1},
		},
		{
			vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N/MAV:P",
			eq:     [6]int{2, 0, 0, 2, 0, 0},
		},
		{
			vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:H/SI:H/SA:H/MSI:S",
			eq:     [6]int{0, 0, 0, 0, 0, 0},
		},
		{
			vector: "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:N/VI:N/VA:H/SC:N/SI:N/SA:N",
			eq:     [6]int{0, 0, 1, 2, 0, 0},
		},
		{
			vector: "CVSS:4.0/AV:P/AC:H/AT:P/PR:H/UI:A/VC:L/VI:L/VA:L/SC:L/SI:L/SA:L/E:U/CR:L/IR:L/AR:L",
			eq:     [6]int{2, 1, 2, 2, 2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.vector, func(t *testing.T) {
			assert.Equal(t, tt.eq, mustParse(t, tt.vector).v4MacroVector())
		})
	}
}
