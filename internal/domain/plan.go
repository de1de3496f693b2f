package domain

// WithdrawalMode controls when the annual withdrawal target is taken out of
// the portfolio once the contribution period has ended.
type WithdrawalMode string

const (
	WithdrawalNone    WithdrawalMode = "none"
	WithdrawalMonthly WithdrawalMode = "monthly"
	WithdrawalYearly  WithdrawalMode = "yearly"
)

// PlanParameters is the immutable per-run configuration of a savings plan.
// InsuranceMode selects which fee and tax regime applies: insurance plans
// carry acquisition and administration charges and are taxed at the personal
// rate on liquidation, fund plans carry load/redemption/unit fees, the annual
// advance lump-sum tax and capital-gains tax on sales. All rate fields are
// fractions in [0, 1].
type PlanParameters struct {
	Label         string `yaml:"label" json:"label"`
	InsuranceMode bool   `yaml:"insuranceMode" json:"insuranceMode"`
	EntryAge      int    `yaml:"entryAge" json:"entryAge"`

	InitialInvestment float64 `yaml:"initialInvestment" json:"initialInvestment"`
	MonthlyInvestment float64 `yaml:"monthlyInvestment" json:"monthlyInvestment"`
	DurationYears     int     `yaml:"durationYears" json:"durationYears"`
	ContributionYears int     `yaml:"contributionYears" json:"contributionYears"`

	// Contribution step-up: every StepUpCadenceMonths the running monthly
	// contribution is scaled by (1 + StepUpRate).
	StepUpRate          float64 `yaml:"stepUpRate" json:"stepUpRate"`
	StepUpCadenceMonths int     `yaml:"stepUpCadenceMonths" json:"stepUpCadenceMonths"`

	SpecialPaymentYear           int     `yaml:"specialPaymentYear" json:"specialPaymentYear"`
	SpecialPaymentAmount         float64 `yaml:"specialPaymentAmount" json:"specialPaymentAmount"`
	RecurringSpecialAmount       float64 `yaml:"recurringSpecialAmount" json:"recurringSpecialAmount"`
	RecurringSpecialCadenceYears int     `yaml:"recurringSpecialCadenceYears" json:"recurringSpecialCadenceYears"`

	AnnualWithdrawal float64        `yaml:"annualWithdrawal" json:"annualWithdrawal"`
	WithdrawalMode   WithdrawalMode `yaml:"withdrawalMode" json:"withdrawalMode"`

	AnnualReturn float64 `yaml:"annualReturn" json:"annualReturn"`
	AnnualStdDev float64 `yaml:"annualStdDev" json:"annualStdDev"`

	// Fund-mode cost channel.
	FrontLoadRate  float64 `yaml:"frontLoadRate" json:"frontLoadRate"`
	RedemptionRate float64 `yaml:"redemptionRate" json:"redemptionRate"`
	ExpenseRatio   float64 `yaml:"expenseRatio" json:"expenseRatio"`
	PerUnitFee     float64 `yaml:"perUnitFee" json:"perUnitFee"`
	ServiceFeeRate float64 `yaml:"serviceFeeRate" json:"serviceFeeRate"`

	// Insurance-mode cost channel. Acquisition costs are amortized evenly
	// over AmortizationMonths.
	AcquisitionOneTimeRate   float64 `yaml:"acquisitionOneTimeRate" json:"acquisitionOneTimeRate"`
	AcquisitionRecurringRate float64 `yaml:"acquisitionRecurringRate" json:"acquisitionRecurringRate"`
	AmortizationMonths       int     `yaml:"amortizationMonths" json:"amortizationMonths"`
	AdminFeeMonthlyRate      float64 `yaml:"adminFeeMonthlyRate" json:"adminFeeMonthlyRate"`

	CapitalGainsTaxRate float64 `yaml:"capitalGainsTaxRate" json:"capitalGainsTaxRate"`
	SolidaritySurcharge float64 `yaml:"solidaritySurcharge" json:"solidaritySurcharge"`
	ChurchTaxSurcharge  float64 `yaml:"churchTaxSurcharge" json:"churchTaxSurcharge"`
	PersonalTaxRate     float64 `yaml:"personalTaxRate" json:"personalTaxRate"`

	AnnualAllowance  float64 `yaml:"annualAllowance" json:"annualAllowance"`
	PartialExemption float64 `yaml:"partialExemption" json:"partialExemption"`
	BaseRate         float64 `yaml:"baseRate" json:"baseRate"`

	RebalancingRate float64 `yaml:"rebalancingRate" json:"rebalancingRate"`
}

// TotalMonths returns the simulated horizon in months.
func (p PlanParameters) TotalMonths() int {
	return p.DurationYears * 12
}

// ContributionMonths returns the length of the contribution period in months.
func (p PlanParameters) ContributionMonths() int {
	return p.ContributionYears * 12
}

// EffectiveCapitalGainsRate is the fund-mode tax rate including the
// solidarity and church-tax surcharges.
func (p PlanParameters) EffectiveCapitalGainsRate() float64 {
	return p.CapitalGainsTaxRate * (1 + p.SolidaritySurcharge + p.ChurchTaxSurcharge)
}

// WithAnnualReturn returns a copy of the parameters with only the expected
// annual return replaced. Monte Carlo runs use this so that every run owns a
// private parameter value.
func (p PlanParameters) WithAnnualReturn(annualReturn float64) PlanParameters {
	p.AnnualReturn = annualReturn
	return p
}
