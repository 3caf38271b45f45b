package cvss

import "math"

// v2Metrics is the v2.0 metric table: the base group (mandatory), then the
// temporal and environmental groups, in the guide's serialization order.
var v2Metrics = []metricDef{
	{abbr: "AV", values: []string{"L", "A", "N"}, group: groupBase},
	{abbr: "AC", values: []string{"H", "M", "L"}, group: groupBase},
	{abbr: "Au", values: []string{"M", "S", "N"}, group: groupBase},
	{abbr: "C", values: []string{"N", "P", "C"}, group: groupBase},
	{abbr: "I", values: []string{"N", "P", "C"}, group: groupBase},
	{abbr: "A", values: []string{"N", "P", "C"}, group: groupBase},

	{abbr: "E", values: []string{"U", "POC", "F", "H", "ND"}, group: groupTemporal},
	{abbr: "RL", values: []string{"OF", "TF", "W", "U", "ND"}, group: groupTemporal},
	{abbr: "RC", values: []string{"UC", "UR", "C", "ND"}, group: groupTemporal},

	{abbr: "CDP", values: []string{"N", "L", "LM", "MH", "H", "ND"}, group: groupEnvironmental},
	{abbr: "TD", values: []string{"N", "L", "M", "H", "ND"}, group: groupEnvironmental},
	{abbr: "CR", values: []string{"L", "M", "H", "ND"}, group: groupEnvironmental},
	{abbr: "IR", values: []string{"L", "M", "H", "ND"}, group: groupEnvironmental},
	{abbr: "AR", values: []string{"L", "M", "H", "ND"}, group: groupEnvironmental},
}

var (
	v2AccessVector     = map[string]float64{"L": 0.395, "A": 0.646, "N": 1.0}
	v2AccessComplexity = map[string]float64{"H": 0.35, "M": 0.61, "L": 0.71}
	v2Authentication   = map[string]float64{"M": 0.45, "S": 0.56, "N": 0.704}
	v2Impact           = map[string]float64{"N": 0.0, "P": 0.275, "C": 0.660}

	v2Exploitability   = map[string]float64{"U": 0.85, "POC": 0.9, "F": 0.95, "H": 1.0, "ND": 1.0}
	v2RemediationLevel = map[string]float64{"OF": 0.87, "TF": 0.90, "W": 0.95, "U": 1.0, "ND": 1.0}
	v2ReportConfidence = map[string]float64{"UC": 0.90, "UR": 0.95, "C": 1.0, "ND": 1.0}

	v2CollateralDamage = map[string]float64{"N": 0.0, "L": 0.1, "LM": 0.3, "MH": 0.4, "H": 0.5, "ND": 0.0}
	v2TargetDist       = map[string]float64{"N": 0.0, "L": 0.25, "M": 0.75, "H": 1.0, "ND": 1.0}
	v2Requirement      = map[string]float64{"L": 0.5, "M": 1.0, "H": 1.51, "ND": 1.0}
)

// scoreV2 implements the v2.0 guide's equations. Optional-group scores are
// reported only when the group appears in the vector.
func (v *Vector) scoreV2() Score {
	c := v2Impact[v.value("C", "N")]
	i := v2Impact[v.value("I", "N")]
	a := v2Impact[v.value("A", "N")]

	impact := 10.41 * (1 - (1-c)*(1-i)*(1-a))
	exploitability := 20 *
		v2AccessVector[v.value("AV", "L")] *
		v2AccessComplexity[v.value("AC", "H")] *
		v2Authentication[v.value("Au", "M")]

	base := roundTo1(((0.6*impact)+(0.4*exploitability)-1.5)*v2ImpactFactor(impact))

	score := Score{Base: base, Severity: severityFor(V20, base)}

	temporalMultiplier := v2Exploitability[v.value("E", "ND")] *
		v2RemediationLevel[v.value("RL", "ND")] *
		v2ReportConfidence[v.value("RC", "ND")]

	if v.hasGroup(groupTemporal) {
		temporal := roundTo1(base * temporalMultiplier)
		score.Temporal = &temporal
	}

	if v.hasGroup(groupEnvironmental) {
		adjustedImpact := math.Min(10, 10.41*(1-(1-c*v2Requirement[v.value("CR", "ND")])*
			(1-i*v2Requirement[v.value("IR", "ND")])*
			(1-a*v2Requirement[v.value("AR", "ND")])))
		adjustedBase := roundTo1(((0.6*adjustedImpact)+(0.4*exploitability)-1.5)*v2ImpactFactor(adjustedImpact))
		adjustedTemporal := roundTo1(adjustedBase * temporalMultiplier)

		environmental := roundTo1((adjustedTemporal +
			(10-adjustedTemporal)*v2CollateralDamage[v.value("CDP", "ND")]) *
			v2TargetDist[v.value("TD", "ND")])
		score.Environmental = &environmental
	}

	return score
}

// v2ImpactFactor is f(Impact) from the v2.0 base equation.
func v2ImpactFactor(impact float64) float64 {
	if impact == 0 {
		return 0
	}
	return 1.176
}

// roundTo1 rounds to one decimal place, the rounding v2.0 and v4.0 use.
func roundTo1(x float64) float64 {
	return math.Round(x*10) / 10
}
