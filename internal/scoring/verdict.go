package scoring

import "ventureshield/internal/model"

// verdictBands are half-open [floor, next floor) ranges in ascending order
var verdictBands = []struct {
	floor   float64
	verdict model.Verdict
}{
	{0, model.VerdictCriticalRisk},
	{30, model.VerdictHighRisk},
	{50, model.VerdictModerateRisk},
	{70, model.VerdictInvestmentReady},
	{85, model.VerdictExemplary},
}

// VerdictFor classifies a composite score. Exact band boundaries belong to
// the higher band, so 30.0 is High Risk and 85.0 is Exemplary.
func VerdictFor(composite float64) model.Verdict {
	v := verdictBands[0].verdict
	for _, b := range verdictBands {
		if composite >= b.floor {
			v = b.verdict
		}
	}
	return v
}
