package output

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sparsim/sparsim/internal/domain"
)

// PlanReport bundles everything the formatters render for one plan: the
// parameters, the deterministic run, the annualized IRR of its cashflows
// (NaN when the solver did not converge) and, when requested, the Monte
// Carlo batch.
type PlanReport struct {
	Plan       domain.PlanParameters
	Result     *domain.SimulationResult
	IRR        float64
	MonteCarlo *domain.MonteCarloResult
}

// Formatter renders a set of plan reports into one output document.
type Formatter interface {
	Name() string
	Format(reports []PlanReport) ([]byte, error)
}

// GetFormatterByName returns the formatter registered under name, or nil.
func GetFormatterByName(name string) Formatter {
	switch name {
	case "console":
		return ConsoleFormatter{}
	case "csv":
		return CSVFormatter{}
	case "json":
		return JSONFormatter{Pretty: true}
	default:
		return nil
	}
}

// FormatEUR renders a float64 amount as a currency string with two decimals.
func FormatEUR(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(2) + " EUR"
}

// FormatPercent renders a fraction as a percentage with two decimals, or
// "n/a" for NaN (the IRR failure value).
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return decimal.NewFromFloat(v * 100).StringFixed(2) + " %"
}
