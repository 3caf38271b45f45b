package cvss

import "math"

// v3Metrics is the metric table shared by v3.0 and v3.1; the two revisions
// differ only in rounding and in the modified-impact equation.
var v3Metrics = []metricDef{
	{abbr: "AV", values: []string{"N", "A", "L", "P"}, group: groupBase},
	{abbr: "AC", values: []string{"L", "H"}, group: groupBase},
	{abbr: "PR", values: []string{"N", "L", "H"}, group: groupBase},
	{abbr: "UI", values: []string{"N", "R"}, group: groupBase},
	{abbr: "S", values: []string{"U", "C"}, group: groupBase},
	{abbr: "C", values: []string{"H", "L", "N"}, group: groupBase},
	{abbr: "I", values: []string{"H", "L", "N"}, group: groupBase},
	{abbr: "A", values: []string{"H", "L", "N"}, group: groupBase},

	{abbr: "E", values: []string{"X", "H", "F", "P", "U"}, group: groupTemporal},
	{abbr: "RL", values: []string{"X", "U", "W", "T", "O"}, group: groupTemporal},
	{abbr: "RC", values: []string{"X", "C", "R", "U"}, group: groupTemporal},

	{abbr: "CR", values: []string{"X", "H", "M", "L"}, group: groupEnvironmental},
	{abbr: "IR", values: []string{"X", "H", "M", "L"}, group: groupEnvironmental},
	{abbr: "AR", values: []string{"X", "H", "M", "L"}, group: groupEnvironmental},
	{abbr: "MAV", values: []string{"X", "N", "A", "L", "P"}, group: groupEnvironmental},
	{abbr: "MAC", values: []string{"X", "L", "H"}, group: groupEnvironmental},
	{abbr: "MPR", values: []string{"X", "N", "L", "H"}, group: groupEnvironmental},
	{abbr: "MUI", values: []string{"X", "N", "R"}, group: groupEnvironmental},
	{abbr: "MS", values: []string{"X", "U", "C"}, group: groupEnvironmental},
	{abbr: "MC", values: []string{"X", "H", "L", "N"}, group: groupEnvironmental},
	{abbr: "MI", values: []string{"X", "H", "L", "N"}, group: groupEnvironmental},
	{abbr: "MA", values: []string{"X", "H", "L", "N"}, group: groupEnvironmental},
}

var (
	v3AttackVector     = map[string]float64{"N": 0.85, "A": 0.62, "L": 0.55, "P": 0.2}
	v3AttackComplexity = map[string]float64{"L": 0.77, "H": 0.44}
	v3UserInteraction  = map[string]float64{"N": 0.85, "R": 0.62}
	v3ImpactValue      = map[string]float64{"H": 0.56, "L": 0.22, "N": 0.0}

	v3ExploitMaturity  = map[string]float64{"X": 1.0, "H": 1.0, "F": 0.97, "P": 0.94, "U": 0.91}
	v3RemediationLevel = map[string]float64{"X": 1.0, "U": 1.0, "W": 0.97, "T": 0.96, "O": 0.95}
	v3ReportConfidence = map[string]float64{"X": 1.0, "C": 1.0, "R": 0.96, "U": 0.92}

	v3Requirement = map[string]float64{"X": 1.0, "H": 1.5, "M": 1.0, "L": 0.5}
)

// v3PrivilegesRequired returns the PR weight, which is raised when the scope
// is changed.
func v3PrivilegesRequired(value string, scopeChanged bool) float64 {
	switch value {
	case "N":
		return 0.85
	case "L":
		if scopeChanged {
			return 0.68
		}
		return 0.62
	case "H":
		if scopeChanged {
			return 0.50
		}
		return 0.27
	}
	return 0
}

// scoreV3 implements the v3.0 and v3.1 equations. The revision selects the
// rounding function and the changed-scope modified-impact formula.
func (v *Vector) scoreV3() Score {
	roundup := roundupV30
	if v.std == V31 {
		roundup = roundupV31
	}

	scopeChanged := v.value("S", "U") == "C"

	iss := 1 - (1-v3ImpactValue[v.value("C", "N")])*
		(1-v3ImpactValue[v.value("I", "N")])*
		(1-v3ImpactValue[v.value("A", "N")])

	var impact float64
	if scopeChanged {
		impact = 7.52*(iss-0.029) - 3.25*math.Pow(iss-0.02, 15)
	} else {
		impact = 6.42 * iss
	}

	exploitability := 8.22 *
		v3AttackVector[v.value("AV", "N")] *
		v3AttackComplexity[v.value("AC", "L")] *
		v3PrivilegesRequired(v.value("PR", "N"), scopeChanged) *
		v3UserInteraction[v.value("UI", "N")]

	var base float64
	switch {
	case impact <= 0:
		base = 0
	case scopeChanged:
		base = roundup(math.Min(1.08*(impact+exploitability), 10))
	default:
		base = roundup(math.Min(impact+exploitability, 10))
	}

	score := Score{Base: base, Severity: severityFor(v.std, base)}

	temporalMultiplier := v3ExploitMaturity[v.value("E", "X")] *
		v3RemediationLevel[v.value("RL", "X")] *
		v3ReportConfidence[v.value("RC", "X")]

	if v.hasGroup(groupTemporal) {
		temporal := roundup(base * temporalMultiplier)
		score.Temporal = &temporal
	}

	if v.hasGroup(groupEnvironmental) {
		environmental := v.environmentalV3(roundup, temporalMultiplier)
		score.Environmental = &environmental
	}

	return score
}

// environmentalV3 recomputes the base equation with the modified metrics,
// each falling back to its base counterpart when absent or X, then applies
// the temporal multiplier.
func (v *Vector) environmentalV3(roundup func(float64) float64, temporalMultiplier float64) float64 {
	modified := func(base, mod, fallback string) string {
		if val := v.value(mod, "X"); val != "X" {
			return val
		}
		return v.value(base, fallback)
	}

	scopeChanged := modified("S", "MS", "U") == "C"

	miss := math.Min(
		1-(1-v3Requirement[v.value("CR", "X")]*v3ImpactValue[modified("C", "MC", "N")])*
			(1-v3Requirement[v.value("IR", "X")]*v3ImpactValue[modified("I", "MI", "N")])*
			(1-v3Requirement[v.value("AR", "X")]*v3ImpactValue[modified("A", "MA", "N")]),
		0.915)

	var impact float64
	switch {
	case !scopeChanged:
		impact = 6.42 * miss
	case v.std == V31:
		impact = 7.52*(miss-0.029) - 3.25*math.Pow(miss*0.9731-0.02, 13)
	default:
		impact = 7.52*(miss-0.029) - 3.25*math.Pow(miss-0.02, 15)
	}

	if impact <= 0 {
		return 0
	}

	exploitability := 8.22 *
		v3AttackVector[modified("AV", "MAV", "N")] *
		v3AttackComplexity[modified("AC", "MAC", "L")] *
		v3PrivilegesRequired(modified("PR", "MPR", "N"), scopeChanged) *
		v3UserInteraction[modified("UI", "MUI", "N")]

	combined := math.Min(impact+exploitability, 10)
	if scopeChanged {
		combined = math.Min(1.08*(impact+exploitability), 10)
	}
	return roundup(roundup(combined) * temporalMultiplier)
}

// roundupV30 is Roundup from the v3.0 spec: ceiling to one decimal.
func roundupV30(x float64) float64 {
	return math.Ceil(x*10) / 10
}

// roundupV31 is Roundup from v3.1 appendix A, which works on the first five
// decimal digits to dodge the floating-point artifacts v3.0 suffered from.
func roundupV31(x float64) float64 {
	i := int(math.Round(x * 100000))
	if i%10000 == 0 {
		return float64(i) / 100000
	}
	return (math.Floor(float64(i)/10000) + 1) / 10
}
