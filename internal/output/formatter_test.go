package output

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparsim/sparsim/internal/domain"
)

func sampleReport() PlanReport {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	return PlanReport{
		Plan: domain.PlanParameters{
			Label:             "etf-plan",
			DurationYears:     1,
			ContributionYears: 1,
			AnnualReturn:      0.05,
		},
		Result: &domain.SimulationResult{
			Entries: []domain.LedgerEntry{
				{Date: start, PortfolioValue: 100, FrontLoadFees: 2.5},
				{Date: start.AddDate(0, 1, 0), PortfolioValue: 0, FrontLoadFees: 2.5, TaxesPaid: 1.25, Withdrawals: 98.75},
			},
			Cashflows: []float64{-100, 98.75},
		},
		IRR: 0.0423,
	}
}

func TestGetFormatterByName(t *testing.T) {
	assert.Equal(t, "console", GetFormatterByName("console").Name())
	assert.Equal(t, "csv", GetFormatterByName("csv").Name())
	assert.Equal(t, "json", GetFormatterByName("json").Name())
	assert.Nil(t, GetFormatterByName("xml"))
}

func TestFormatEUR(t *testing.T) {
	assert.Equal(t, "1234.50 EUR", FormatEUR(1234.5))
	assert.Equal(t, "0.00 EUR", FormatEUR(0))
	assert.Equal(t, "-12.35 EUR", FormatEUR(-12.345))
	assert.Equal(t, "n/a", FormatEUR(math.NaN()))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "5.00 %", FormatPercent(0.05))
	assert.Equal(t, "n/a", FormatPercent(math.NaN()))
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format([]PlanReport{sampleReport()})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "etf-plan")
	assert.Contains(t, s, "Mode:                 fund")
	assert.Contains(t, s, "100.00 EUR")
	assert.NotContains(t, s, "COMPARISON", "single plan gets no comparison table")
}

func TestConsoleFormatterComparisonTable(t *testing.T) {
	a := sampleReport()
	b := sampleReport()
	b.Plan.Label = "insurance-plan"
	b.Plan.InsuranceMode = true

	out, err := ConsoleFormatter{}.Format([]PlanReport{a, b})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "COMPARISON")
	assert.Contains(t, s, "insurance-plan")
	assert.Contains(t, s, "Mode:                 insurance")
}

func TestCSVFormatter(t *testing.T) {
	out, err := CSVFormatter{}.Format([]PlanReport{sampleReport()})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3, "header plus one row per ledger entry")
	assert.Equal(t, "Plan,Date,PortfolioValue,FrontLoadFees,RedemptionFees,PerUnitFees,FundExpenses,ServiceFees,AcquisitionCosts,AdminFees,TaxesPaid,Withdrawals", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "etf-plan,2025-01-01,100.00"))
}

func TestJSONFormatterNaNBecomesNull(t *testing.T) {
	report := sampleReport()
	report.IRR = math.NaN()
	report.MonteCarlo = &domain.MonteCarloResult{
		FinalValues: []float64{},
		Mean:        math.NaN(),
		Median:      math.NaN(),
		CILower:     math.NaN(),
		CIUpper:     math.NaN(),
	}

	out, err := JSONFormatter{}.Format([]PlanReport{report})
	require.NoError(t, err)

	var decoded []struct {
		Plan struct {
			Label string `json:"label"`
		} `json:"plan"`
		IRR        *float64 `json:"irr"`
		MonteCarlo *struct {
			Mean   *float64 `json:"mean"`
			Median *float64 `json:"median"`
		} `json:"monteCarlo"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "etf-plan", decoded[0].Plan.Label)
	assert.Nil(t, decoded[0].IRR)
	require.NotNil(t, decoded[0].MonteCarlo)
	assert.Nil(t, decoded[0].MonteCarlo.Mean)
	assert.Nil(t, decoded[0].MonteCarlo.Median)
}

func TestJSONFormatterValues(t *testing.T) {
	out, err := JSONFormatter{Pretty: true}.Format([]PlanReport{sampleReport()})
	require.NoError(t, err)

	var decoded []struct {
		IRR    *float64 `json:"irr"`
		Result struct {
			Cashflows []float64 `json:"cashflows"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	require.NotNil(t, decoded[0].IRR)
	assert.Equal(t, 0.0423, *decoded[0].IRR)
	assert.Equal(t, []float64{-100, 98.75}, decoded[0].Result.Cashflows)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
