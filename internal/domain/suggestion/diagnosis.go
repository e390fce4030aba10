package suggestion

// DiagnosisOutros is the catch-all bucket. Patients filed under it get
// no suggestions; the probe surfaces them as a data-quality gap.
const DiagnosisOutros = "Outros"

// diagnosisEquivalents maps a macro diagnosis to broader or related
// diagnoses it also satisfies. Catalog rules are often written against
// the broader name, so a patient with the specific one must still
// match.
var diagnosisEquivalents = map[string][]string{
	"Esclerose Lateral Amiotrófica": {"Doenças Neuromusculares"},
	"Distrofia Muscular":            {"Doenças Neuromusculares"},
	"Miastenia Gravis":              {"Doenças Neuromusculares"},
	"AVC Isquêmico":                 {"AVC"},
	"AVC Hemorrágico":               {"AVC"},
	"Parkinsonismo Atípico":         {"Parkinson"},
	"Traumatismo Cranioencefálico":  {"Lesão Encefálica Adquirida"},
}

// DiagnosisSet is the expanded diagnosis of one patient: the original
// literal plus every equivalent it maps to.
type DiagnosisSet struct {
	Original string
	Values   map[string]bool
}

// None distinguishes "patient has no diagnosis" from "diagnosis
// matched nothing"; callers must not treat the two alike.
func (d DiagnosisSet) None() bool { return d.Original == "" }

// CatchAll reports whether the diagnosis is the generic bucket.
func (d DiagnosisSet) CatchAll() bool { return d.Original == DiagnosisOutros }

// ExpandDiagnosis builds the equivalence set for a macro diagnosis.
func ExpandDiagnosis(macro string) DiagnosisSet {
	if macro == "" {
		return DiagnosisSet{}
	}

	values := map[string]bool{macro: true}
	for _, equiv := range diagnosisEquivalents[macro] {
		values[equiv] = true
	}
	return DiagnosisSet{Original: macro, Values: values}
}
