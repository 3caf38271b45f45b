package cvss

import (
	"testing"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests pin our scoring to go-cvss, which implements the same
// published formulas independently.

func TestScore_V2_AgainstGoCVSS(t *testing.T) {
	vectors := []string{
		"AV:N/AC:L/Au:N/C:C/I:C/A:C",
		"AV:L/AC:L/Au:N/C:C/I:C/A:C",
		"AV:N/AC:M/Au:N/C:P/I:P/A:P",
		"AV:A/AC:L/Au:N/C:P/I:P/A:P",
		"AV:L/AC:H/Au:M/C:N/I:P/A:C",
		"AV:N/AC:L/Au:N/C:N/I:N/A:N",
		"AV:N/AC:L/Au:N/C:C/I:C/A:C/E:F/RL:OF/RC:C",
		"AV:N/AC:L/Au:N/C:C/I:C/A:C/CDP:H/TD:M",
	}

	for _, vector := range vectors {
		t.Run(vector, func(t *testing.T) {
			score := mustParse(t, vector).Score()

			ref, err := gocvss20.ParseVector(vector)
			require.NoError(t, err)

			assert.InDelta(t, ref.BaseScore(), score.Base, 0.001)
			if score.Temporal != nil {
				assert.InDelta(t, ref.TemporalScore(), *score.Temporal, 0.001)
			}
			if score.Environmental != nil {
				assert.InDelta(t, ref.EnvironmentalScore(), *score.Environmental, 0.001)
			}
		})
	}
}

func TestScore_V3_AgainstGoCVSS(t *testing.T) {
	vectors := []string{
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H",
		"CVSS:3.1/AV:N/AC:L/PR:L/UI:N/S:U/C:H/I:H/A:H",
		"CVSS:3.1/AV:N/AC:L/PR:L/UI:R/S:C/C:L/I:L/A:N",
		"CVSS:3.1/AV:L/AC:H/PR:H/UI:R/S:U/C:L/I:L/A:N",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:N",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/E:F/RL:O/RC:C",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/CR:L/IR:L/AR:L",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/E:F/RL:O/RC:C/CR:L/IR:L/AR:L",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H/MAV:P/MC:N",
	}

	for _, vector := range vectors {
		t.Run(vector, func(t *testing.T) {
			score := mustParse(t, vector).Score()

			ref, err := gocvss31.ParseVector(vector)
			require.NoError(t, err)

			assert.InDelta(t, ref.BaseScore(), score.Base, 0.001)
			if score.Temporal != nil {
				assert.InDelta(t, ref.TemporalScore(), *score.Temporal, 0.001)
			}
			if score.Environmental != nil {
				assert.InDelta(t, ref.EnvironmentalScore(), *score.Environmental, 0.001)
			}
		})
	}

	t.Run("CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", func(t *testing.T) {
		vector := "CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"
		score := mustParse(t, vector).Score()

		ref, err := gocvss30.ParseVector(vector)
		require.NoError(t, err)
		assert.InDelta(t, ref.BaseScore(), score.Base, 0.001)
	})
}

func TestScore_V4_AgainstGoCVSS(t *testing.T) {
	vectors := []string{
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:H/SI:H/SA:H",
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N/MSI:S",
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N/E:U",
		"CVSS:4.0/AV:L/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:L/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:P/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
		"CVSS:4.0/AV:N/AC:H/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
		"CVSS:4.0/AV:N/AC:L/AT:P/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
		"CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:N/VI:N/VA:N/SC:N/SI:N/SA:N",
	}

	for _, vector := range vectors {
		t.Run(vector, func(t *testing.T) {
			score := mustParse(t, vector).Score()

			ref, err := gocvss40.ParseVector(vector)
			require.NoError(t, err)
			assert.InDelta(t, ref.Score(), score.Base, 0.001)
		})
	}
}
