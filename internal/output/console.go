package output

import (
	"bytes"
	"fmt"
	"strings"
)

// ConsoleFormatter renders a detailed text report per plan plus a comparison
// table when more than one plan is present.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(reports []PlanReport) ([]byte, error) {
	buf := &bytes.Buffer{}

	for i, r := range reports {
		final := r.Result.FinalEntry()

		fmt.Fprintf(buf, "PLAN %d: %s\n", i+1, r.Plan.Label)
		fmt.Fprintln(buf, strings.Repeat("=", 50))
		fmt.Fprintf(buf, "Mode:                 %s\n", modeName(r.Plan.InsuranceMode))
		fmt.Fprintf(buf, "Horizon:              %d years (%d contribution years)\n", r.Plan.DurationYears, r.Plan.ContributionYears)
		fmt.Fprintf(buf, "Expected return:      %s p.a.\n", FormatPercent(r.Plan.AnnualReturn))
		fmt.Fprintln(buf)

		if n := len(r.Result.Entries); n >= 2 {
			beforeLiquidation := r.Result.Entries[n-2]
			fmt.Fprintf(buf, "Final portfolio value: %s\n", FormatEUR(beforeLiquidation.PortfolioValue))
		}
		fmt.Fprintf(buf, "Net payout (cum.):     %s\n", FormatEUR(final.Withdrawals))
		fmt.Fprintf(buf, "Total costs:           %s\n", FormatEUR(final.TotalCosts()))
		fmt.Fprintf(buf, "  Front-load fees:     %s\n", FormatEUR(final.FrontLoadFees))
		fmt.Fprintf(buf, "  Redemption fees:     %s\n", FormatEUR(final.RedemptionFees))
		fmt.Fprintf(buf, "  Fund expenses:       %s\n", FormatEUR(final.FundExpenses))
		fmt.Fprintf(buf, "  Service fees:        %s\n", FormatEUR(final.ServiceFees))
		fmt.Fprintf(buf, "  Per-unit fees:       %s\n", FormatEUR(final.PerUnitFees))
		fmt.Fprintf(buf, "  Acquisition costs:   %s\n", FormatEUR(final.AcquisitionCosts))
		fmt.Fprintf(buf, "  Administration fees: %s\n", FormatEUR(final.AdminFees))
		fmt.Fprintf(buf, "Taxes paid:            %s\n", FormatEUR(final.TaxesPaid))
		fmt.Fprintf(buf, "Rebalancing events:    %d\n", len(r.Result.Rebalancings))
		fmt.Fprintf(buf, "IRR (annualized):      %s\n", FormatPercent(r.IRR))

		if mc := r.MonteCarlo; mc != nil {
			fmt.Fprintln(buf)
			fmt.Fprintf(buf, "Monte Carlo (%d runs, value at end of contribution period):\n", len(mc.FinalValues))
			fmt.Fprintf(buf, "  Mean:   %s\n", FormatEUR(mc.Mean))
			fmt.Fprintf(buf, "  Median: %s\n", FormatEUR(mc.Median))
			fmt.Fprintf(buf, "  95%% interval: %s .. %s\n", FormatEUR(mc.CILower), FormatEUR(mc.CIUpper))
		}
		fmt.Fprintln(buf)
	}

	if len(reports) > 1 {
		writeComparisonTable(buf, reports)
	}

	return buf.Bytes(), nil
}

func writeComparisonTable(buf *bytes.Buffer, reports []PlanReport) {
	fmt.Fprintln(buf, "COMPARISON")
	fmt.Fprintln(buf, strings.Repeat("=", 50))
	fmt.Fprintf(buf, "%-28s %18s %18s %18s %12s\n", "Plan", "Net Payout", "Total Costs", "Taxes", "IRR")
	for _, r := range reports {
		final := r.Result.FinalEntry()
		fmt.Fprintf(buf, "%-28s %18s %18s %18s %12s\n",
			truncate(r.Plan.Label, 28),
			FormatEUR(final.Withdrawals),
			FormatEUR(final.TotalCosts()),
			FormatEUR(final.TaxesPaid),
			FormatPercent(r.IRR))
	}
	fmt.Fprintln(buf)
}

func modeName(insurance bool) string {
	if insurance {
		return "insurance"
	}
	return "fund"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
