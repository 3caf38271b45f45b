package cvss

import "math"

// v4Metrics is the v4.0 metric table: eleven mandatory base metrics, then
// the threat, environmental, and supplemental groups in serialization order.
var v4Metrics = []metricDef{
	{abbr: "AV", values: []string{"N", "A", "L", "P"}, group: groupBase},
	{abbr: "AC", values: []string{"L", "H"}, group: groupBase},
	{abbr: "AT", values: []string{"N", "P"}, group: groupBase},
	{abbr: "PR", values: []string{"N", "L", "H"}, group: groupBase},
	{abbr: "UI", values: []string{"N", "P", "A"}, group: groupBase},
	{abbr: "VC", values: []string{"H", "L", "N"}, group: groupBase},
	{abbr: "VI", values: []string{"H", "L", "N"}, group: groupBase},
	{abbr: "VA", values: []string{"H", "L", "N"}, group: groupBase},
	{abbr: "SC", values: []string{"H", "L", "N"}, group: groupBase},
	{abbr: "SI", values: []string{"H", "L", "N"}, group: groupBase},
	{abbr: "SA", values: []string{"H", "L", "N"}, group: groupBase},

	{abbr: "E", values: []string{"X", "A", "P", "U"}, group: groupThreat},

	{abbr: "CR", values: []string{"X", "H", "M", "L"}, group: groupEnvironmental},
	{abbr: "IR", values: []string{"X", "H", "M", "L"}, group: groupEnvironmental},
	{abbr: "AR", values: []string{"X", "H", "M", "L"}, group: groupEnvironmental},
	{abbr: "MAV", values: []string{"X", "N", "A", "L", "P"}, group: groupEnvironmental},
	{abbr: "MAC", values: []string{"X", "L", "H"}, group: groupEnvironmental},
	{abbr: "MAT", values: []string{"X", "N", "P"}, group: groupEnvironmental},
	{abbr: "MPR", values: []string{"X", "N", "L", "H"}, group: groupEnvironmental},
	{abbr: "MUI", values: []string{"X", "N", "P", "A"}, group: groupEnvironmental},
	{abbr: "MVC", values: []string{"X", "H", "L", "N"}, group: groupEnvironmental},
	{abbr: "MVI", values: []string{"X", "H", "L", "N"}, group: groupEnvironmental},
	{abbr: "MVA", values: []string{"X", "H", "L", "N"}, group: groupEnvironmental},
	{abbr: "MSC", values: []string{"X", "H", "L", "N"}, group: groupEnvironmental},
	{abbr: "MSI", values: []string{"X", "S", "H", "L", "N"}, group: groupEnvironmental},
	{abbr: "MSA", values: []string{"X", "S", "H", "L", "N"}, group: groupEnvironmental},

	{abbr: "S", values: []string{"X", "N", "P"}, group: groupSupplemental},
	{abbr: "AU", values: []string{"X", "N", "Y"}, group: groupSupplemental},
	{abbr: "R", values: []string{"X", "A", "U", "I"}, group: groupSupplemental},
	{abbr: "V", values: []string{"X", "D", "C"}, group: groupSupplemental},
	{abbr: "RE", values: []string{"X", "L", "M", "H"}, group: groupSupplemental},
	{abbr: "U", values: []string{"X", "Clear", "Green", "Amber", "Red"}, group: groupSupplemental},
}

// v4Effective resolves a metric to the value scoring uses: environmental
// overrides replace their base counterparts, an undefined E reads as
// Attacked, and undefined requirements read as High.
func (v *Vector) v4Effective(abbr string) string {
	switch abbr {
	case "E":
		if val := v.value("E", "X"); val != "X" {
			return val
		}
		return "A"
	case "CR", "IR", "AR":
		if val := v.value(abbr, "X"); val != "X" {
			return val
		}
		return "H"
	default:
		if val := v.value("M"+abbr, "X"); val != "X" {
			return val
		}
		return v.value(abbr, "")
	}
}

// v4MacroVector buckets the effective metrics into the six equivalence
// classes whose digits key the macrovector score table.
func (v *Vector) v4MacroVector() [6]int {
	m := v.v4Effective
	var eq [6]int

	switch {
	case m("AV") == "N" && m("PR") == "N" && m("UI") == "N":
		eq[0] = 0
	case (m("AV") == "N" || m("PR") == "N" || m("UI") == "N") && m("AV") != "P":
		eq[0] = 1
	default:
		eq[0] = 2
	}

	if m("AC") == "L" && m("AT") == "N" {
		eq[1] = 0
	} else {
		eq[1] = 1
	}

	switch {
	case m("VC") == "H" && m("VI") == "H":
		eq[2] = 0
	case m("VC") == "H" || m("VI") == "H" || m("VA") == "H":
		eq[2] = 1
	default:
		eq[2] = 2
	}

	switch {
	case m("SI") == "S" || m("SA") == "S":
		eq[3] = 0
	case m("SC") == "H" || m("SI") == "H" || m("SA") == "H":
		eq[3] = 1
	default:
		eq[3] = 2
	}

	switch m("E") {
	case "A":
		eq[4] = 0
	case "P":
		eq[4] = 1
	default:
		eq[4] = 2
	}

	if (m("CR") == "H" && m("VC") == "H") ||
		(m("IR") == "H" && m("VI") == "H") ||
		(m("AR") == "H" && m("VA") == "H") {
		eq[5] = 0
	} else {
		eq[5] = 1
	}

	return eq
}

func v4Key(eq [6]int) string {
	b := make([]byte, 6)
	for i, d := range eq {
		b[i] = byte('0' + d)
	}
	return string(b)
}

// v4Levels orders each metric's values by severity for the distance
// calculation; lower is more severe.
var v4Levels = map[string]map[string]float64{
	"AV": {"N": 0.0, "A": 0.1, "L": 0.2, "P": 0.3},
	"PR": {"N": 0.0, "L": 0.1, "H": 0.2},
	"UI": {"N": 0.0, "P": 0.1, "A": 0.2},
	"AC": {"L": 0.0, "H": 0.1},
	"AT": {"N": 0.0, "P": 0.1},
	"VC": {"H": 0.0, "L": 0.1, "N": 0.2},
	"VI": {"H": 0.0, "L": 0.1, "N": 0.2},
	"VA": {"H": 0.0, "L": 0.1, "N": 0.2},
	"SC": {"H": 0.1, "L": 0.2, "N": 0.3},
	"SI": {"S": 0.05, "H": 0.1, "L": 0.2, "N": 0.3},
	"SA": {"S": 0.05, "H": 0.1, "L": 0.2, "N": 0.3},
	"CR": {"H": 0.0, "M": 0.1, "L": 0.2},
	"IR": {"H": 0.0, "M": 0.1, "L": 0.2},
	"AR": {"H": 0.0, "M": 0.1, "L": 0.2},
}

// fragment is a highest-severity metric assignment for one equivalence-class
// level; distances are measured against the first fragment every metric sits
// at or below.
type v4Fragment map[string]string

var v4MaxFragmentsEQ1 = map[int][]v4Fragment{
	0: {{"AV": "N", "PR": "N", "UI": "N"}},
	1: {
		{"AV": "A", "PR": "N", "UI": "N"},
		{"AV": "N", "PR": "L", "UI": "N"},
		{"AV": "N", "PR": "N", "UI": "P"},
	},
	2: {
		{"AV": "P", "PR": "N", "UI": "N"},
		{"AV": "A", "PR": "L", "UI": "P"},
	},
}

var v4MaxFragmentsEQ2 = map[int][]v4Fragment{
	0: {{"AC": "L", "AT": "N"}},
	1: {
		{"AC": "H", "AT": "N"},
		{"AC": "L", "AT": "P"},
	},
}

var v4MaxFragmentsEQ3EQ6 = map[[2]int][]v4Fragment{
	{0, 0}: {{"VC": "H", "VI": "H", "VA": "H", "CR": "H", "IR": "H", "AR": "H"}},
	{0, 1}: {
		{"VC": "H", "VI": "H", "VA": "L", "CR": "M", "IR": "M", "AR": "H"},
		{"VC": "H", "VI": "H", "VA": "H", "CR": "M", "IR": "M", "AR": "M"},
	},
	{1, 0}: {
		{"VC": "L", "VI": "H", "VA": "H", "CR": "H", "IR": "H", "AR": "H"},
		{"VC": "H", "VI": "L", "VA": "H", "CR": "H", "IR": "H", "AR": "H"},
	},
	{1, 1}: {
		{"VC": "L", "VI": "H", "VA": "L", "CR": "H", "IR": "M", "AR": "H"},
		{"VC": "L", "VI": "H", "VA": "H", "CR": "H", "IR": "M", "AR": "M"},
		{"VC": "H", "VI": "L", "VA": "H", "CR": "M", "IR": "H", "AR": "M"},
		{"VC": "H", "VI": "L", "VA": "L", "CR": "M", "IR": "H", "AR": "H"},
		{"VC": "L", "VI": "L", "VA": "H", "CR": "H", "IR": "H", "AR": "M"},
	},
	{2, 1}: {{"VC": "L", "VI": "L", "VA": "L", "CR": "H", "IR": "H", "AR": "H"}},
}

var v4MaxFragmentsEQ4 = map[int][]v4Fragment{
	0: {{"SC": "H", "SI": "S", "SA": "S"}},
	1: {{"SC": "H", "SI": "H", "SA": "H"}},
	2: {{"SC": "L", "SI": "L", "SA": "L"}},
}

// v4MaxSeverity gives the depth of each equivalence-class level in 0.1
// units; distances are normalized against it.
var (
	v4MaxSeverityEQ1    = map[int]float64{0: 1, 1: 4, 2: 5}
	v4MaxSeverityEQ2    = map[int]float64{0: 1, 1: 2}
	v4MaxSeverityEQ3EQ6 = map[[2]int]float64{{0, 0}: 7, {0, 1}: 6, {1, 0}: 8, {1, 1}: 8, {2, 1}: 10}
	v4MaxSeverityEQ4    = map[int]float64{0: 6, 1: 5, 2: 4}
)

// v4Distance sums the per-metric severity distances from the first fragment
// the vector sits at or below. The fragment lists are ordered, so the first
// fit is the governing one.
func (v *Vector) v4Distance(fragments []v4Fragment) float64 {
	for _, frag := range fragments {
		total := 0.0
		fits := true
		for abbr, max := range frag {
			d := v4Levels[abbr][v.v4Effective(abbr)] - v4Levels[abbr][max]
			if d < 0 {
				fits = false
				break
			}
			total += d
		}
		if fits {
			return total
		}
	}
	return 0
}

// scoreV4 implements v4.0 macrovector scoring: bucket the vector, look up
// the macrovector score, then interpolate toward the next lower macrovector
// in proportion to how deep the vector sits inside its own bucket. Threat
// and environmental metrics fold into the single score, so Temporal and
// Environmental stay nil.
func (v *Vector) scoreV4() Score {
	impact := false
	for _, abbr := range [...]string{"VC", "VI", "VA", "SC", "SI", "SA"} {
		if v.v4Effective(abbr) != "N" {
			impact = true
			break
		}
	}
	if !impact {
		return Score{Severity: severityFor(V40, 0)}
	}

	eq := v.v4MacroVector()
	lookup := v4MacroScores[v4Key(eq)]

	at := func(e1, e2, e3, e4, e5, e6 int) (float64, bool) {
		s, ok := v4MacroScores[v4Key([6]int{e1, e2, e3, e4, e5, e6})]
		return s, ok
	}

	lower1, ok1 := at(eq[0]+1, eq[1], eq[2], eq[3], eq[4], eq[5])
	lower2, ok2 := at(eq[0], eq[1]+1, eq[2], eq[3], eq[4], eq[5])
	lower4, ok4 := at(eq[0], eq[1], eq[2], eq[3]+1, eq[4], eq[5])
	lower5, ok5 := at(eq[0], eq[1], eq[2], eq[3], eq[4]+1, eq[5])

	// eq3 and eq6 interpolate jointly: both measure impact, and their lower
	// neighbors overlap.
	var lower36 float64
	var ok36 bool
	switch {
	case eq[2] == 0 && eq[5] == 0:
		left, lok := at(eq[0], eq[1], 0, eq[3], eq[4], 1)
		right, rok := at(eq[0], eq[1], 1, eq[3], eq[4], 0)
		lower36, ok36 = math.Max(left, right), lok && rok
	case eq[2] == 2:
	case eq[5] == 0:
		lower36, ok36 = at(eq[0], eq[1], eq[2], eq[3], eq[4], 1)
	default:
		lower36, ok36 = at(eq[0], eq[1], eq[2]+1, eq[3], eq[4], eq[5])
	}

	var sum float64
	var lowers int
	contribute := func(lowerScore float64, exists bool, distance, depth float64) {
		if !exists {
			return
		}
		lowers++
		sum += (lookup - lowerScore) * (distance / (depth * 0.1))
	}

	contribute(lower1, ok1, v.v4Distance(v4MaxFragmentsEQ1[eq[0]]), v4MaxSeverityEQ1[eq[0]])
	contribute(lower2, ok2, v.v4Distance(v4MaxFragmentsEQ2[eq[1]]), v4MaxSeverityEQ2[eq[1]])
	contribute(lower36, ok36, v.v4Distance(v4MaxFragmentsEQ3EQ6[[2]int{eq[2], eq[5]}]), v4MaxSeverityEQ3EQ6[[2]int{eq[2], eq[5]}])
	contribute(lower4, ok4, v.v4Distance(v4MaxFragmentsEQ4[eq[3]]), v4MaxSeverityEQ4[eq[3]])
	contribute(lower5, ok5, 0, 1)

	mean := 0.0
	if lowers > 0 {
		mean = sum / float64(lowers)
	}

	base := roundTo1(math.Max(0, math.Min(10, lookup-mean)))
	return Score{Base: base, Severity: severityFor(V40, base)}
}
