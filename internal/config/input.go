package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sparsim/sparsim/internal/domain"
)

// DefaultMonteCarloRuns is used when a plan file does not set montecarlo.runs.
const DefaultMonteCarloRuns = 1000

// Configuration is the top-level shape of a plan file: one or more plans plus
// optional Monte Carlo settings shared by all of them.
type Configuration struct {
	Plans      []domain.PlanParameters `yaml:"plans"`
	MonteCarlo MonteCarloSettings      `yaml:"montecarlo"`
}

// MonteCarloSettings configures the randomized batch. A zero seed means
// non-deterministic seeding.
type MonteCarloSettings struct {
	Runs int    `yaml:"runs"`
	Seed uint64 `yaml:"seed"`
}

// InputParser handles parsing of plan configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a plan file.
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration and fills in
// defaults.
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if len(config.Plans) == 0 {
		return fmt.Errorf("no plans provided")
	}
	for i := range config.Plans {
		if err := ip.validatePlan(&config.Plans[i]); err != nil {
			return fmt.Errorf("plan %d (%s) validation failed: %w", i, config.Plans[i].Label, err)
		}
	}
	if config.MonteCarlo.Runs < 0 {
		return fmt.Errorf("montecarlo runs cannot be negative")
	}
	if config.MonteCarlo.Runs == 0 {
		config.MonteCarlo.Runs = DefaultMonteCarloRuns
	}
	return nil
}

// validatePlan validates a single plan. A contribution period longer than the
// plan duration is deliberately not rejected; the engine and the Monte Carlo
// driver clamp the index into range.
func (ip *InputParser) validatePlan(plan *domain.PlanParameters) error {
	if plan.Label == "" {
		return fmt.Errorf("label is required")
	}
	if plan.DurationYears <= 0 {
		return fmt.Errorf("duration must be at least one year")
	}
	if plan.ContributionYears < 0 {
		return fmt.Errorf("contribution duration cannot be negative")
	}
	if plan.EntryAge < 0 {
		return fmt.Errorf("entry age cannot be negative")
	}

	if plan.InitialInvestment < 0 {
		return fmt.Errorf("initial investment cannot be negative")
	}
	if plan.MonthlyInvestment < 0 {
		return fmt.Errorf("monthly investment cannot be negative")
	}
	if plan.SpecialPaymentAmount < 0 {
		return fmt.Errorf("special payment amount cannot be negative")
	}
	if plan.RecurringSpecialAmount < 0 {
		return fmt.Errorf("recurring special payment amount cannot be negative")
	}
	if plan.RecurringSpecialCadenceYears < 0 {
		return fmt.Errorf("recurring special payment cadence cannot be negative")
	}
	if plan.StepUpCadenceMonths < 0 {
		return fmt.Errorf("step-up cadence cannot be negative")
	}
	if plan.AnnualWithdrawal < 0 {
		return fmt.Errorf("annual withdrawal cannot be negative")
	}
	if plan.AnnualStdDev < 0 {
		return fmt.Errorf("annual standard deviation cannot be negative")
	}
	if plan.AmortizationMonths < 0 {
		return fmt.Errorf("amortization duration cannot be negative")
	}
	if plan.PerUnitFee < 0 {
		return fmt.Errorf("per-unit fee cannot be negative")
	}
	if plan.AnnualAllowance < 0 {
		return fmt.Errorf("annual allowance cannot be negative")
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"stepUpRate", plan.StepUpRate},
		{"frontLoadRate", plan.FrontLoadRate},
		{"redemptionRate", plan.RedemptionRate},
		{"expenseRatio", plan.ExpenseRatio},
		{"serviceFeeRate", plan.ServiceFeeRate},
		{"acquisitionOneTimeRate", plan.AcquisitionOneTimeRate},
		{"acquisitionRecurringRate", plan.AcquisitionRecurringRate},
		{"adminFeeMonthlyRate", plan.AdminFeeMonthlyRate},
		{"capitalGainsTaxRate", plan.CapitalGainsTaxRate},
		{"solidaritySurcharge", plan.SolidaritySurcharge},
		{"churchTaxSurcharge", plan.ChurchTaxSurcharge},
		{"personalTaxRate", plan.PersonalTaxRate},
		{"partialExemption", plan.PartialExemption},
		{"rebalancingRate", plan.RebalancingRate},
	}
	for _, r := range rates {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", r.name)
		}
	}

	switch plan.WithdrawalMode {
	case "":
		plan.WithdrawalMode = domain.WithdrawalNone
	case domain.WithdrawalNone, domain.WithdrawalMonthly, domain.WithdrawalYearly:
	default:
		return fmt.Errorf("withdrawal mode must be 'none', 'monthly' or 'yearly'")
	}

	return nil
}
