package output

import (
	"encoding/json"
	"math"

	"github.com/sparsim/sparsim/internal/domain"
)

// JSONFormatter marshals the reports. NaN statistics (failed IRR, empty
// Monte Carlo batch) become null, since JSON has no NaN literal.
type JSONFormatter struct {
	Pretty bool
}

func (JSONFormatter) Name() string { return "json" }

type jsonMonteCarlo struct {
	FinalValues []float64 `json:"finalValues"`
	Mean        *float64  `json:"mean"`
	Median      *float64  `json:"median"`
	CILower     *float64  `json:"ciLower"`
	CIUpper     *float64  `json:"ciUpper"`
}

type jsonPlanReport struct {
	Plan       domain.PlanParameters    `json:"plan"`
	Result     *domain.SimulationResult `json:"result"`
	IRR        *float64                 `json:"irr"`
	MonteCarlo *jsonMonteCarlo          `json:"monteCarlo,omitempty"`
}

func (jf JSONFormatter) Format(reports []PlanReport) ([]byte, error) {
	out := make([]jsonPlanReport, 0, len(reports))
	for _, r := range reports {
		jr := jsonPlanReport{
			Plan:   r.Plan,
			Result: r.Result,
			IRR:    finite(r.IRR),
		}
		if mc := r.MonteCarlo; mc != nil {
			jr.MonteCarlo = &jsonMonteCarlo{
				FinalValues: mc.FinalValues,
				Mean:        finite(mc.Mean),
				Median:      finite(mc.Median),
				CILower:     finite(mc.CILower),
				CIUpper:     finite(mc.CIUpper),
			}
		}
		out = append(out, jr)
	}

	if jf.Pretty {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
