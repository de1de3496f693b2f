package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter emits the full monthly ledger, one row per entry per plan.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(reports []PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{
		"Plan", "Date", "PortfolioValue",
		"FrontLoadFees", "RedemptionFees", "PerUnitFees", "FundExpenses",
		"ServiceFees", "AcquisitionCosts", "AdminFees", "TaxesPaid", "Withdrawals",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range reports {
		for _, e := range r.Result.Entries {
			row := []string{
				r.Plan.Label,
				e.Date.Format("2006-01-02"),
				formatFloat(e.PortfolioValue),
				formatFloat(e.FrontLoadFees),
				formatFloat(e.RedemptionFees),
				formatFloat(e.PerUnitFees),
				formatFloat(e.FundExpenses),
				formatFloat(e.ServiceFees),
				formatFloat(e.AcquisitionCosts),
				formatFloat(e.AdminFees),
				formatFloat(e.TaxesPaid),
				formatFloat(e.Withdrawals),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
