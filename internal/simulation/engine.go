package simulation

import (
	"math"
	"time"

	"github.com/sparsim/sparsim/internal/domain"
)

// PlanStart anchors month zero of every simulation. Dates only label ledger
// entries; the model always uses twelve months per year regardless of
// calendar day counts.
var PlanStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// dust is the zero floor for tranche values. A tranche at or below it after
// a sale is dropped so residual rounding noise never accumulates.
const dust = 1e-9

// tranche is one discrete investment lot, tracked separately for cost-basis
// and tax purposes. prevYearValue is the value snapshot taken each December
// that next January's advance lump-sum tax is computed against; advanceTaxed
// accumulates amounts already taxed via the advance lump-sum that have not
// yet been consumed as an offset against a realized gain.
type tranche struct {
	date          time.Time
	costBasis     float64
	value         float64
	prevYearValue float64
	advanceTaxed  float64
}

func newTranche(date time.Time, amount float64) *tranche {
	return &tranche{date: date, costBasis: amount, value: amount, prevYearValue: amount}
}

// totals carries the running cost and tax sums reported on every ledger entry.
type totals struct {
	frontLoad   float64
	redemption  float64
	perUnit     float64
	fundExpense float64
	service     float64
	acquisition float64
	admin       float64
	taxes       float64
	withdrawals float64
}

// Engine simulates a single savings plan month by month over a fixed horizon
// of DurationYears*12 months. The ledger is an ordered sequence of tranches
// in FIFO acquisition order: withdrawals and rebalancing sales always consume
// from the front, a partially consumed tranche keeps its slot. An Engine is
// single-use; Run must be called exactly once.
type Engine struct {
	params domain.PlanParameters

	monthlyReturn float64
	fullTaxRate   float64

	ledger       []*tranche
	totals       totals
	allowance    float64
	contribution float64

	// Per-month acquisition-cost amortization schedule (insurance mode).
	acqOneTime   []float64
	acqRecurring []float64

	entries      []domain.LedgerEntry
	rebalancings []domain.RebalancingEvent
	cashflows    []float64

	logger Logger
}

// NewEngine creates an engine for one plan. The parameters are copied; the
// engine never mutates the caller's value.
func NewEngine(params domain.PlanParameters) *Engine {
	return &Engine{params: params, logger: NopLogger{}}
}

// SetLogger installs a custom logger. A nil logger restores the no-op default.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.logger = l
}

// Run executes the full horizon and returns the finalized result.
func (e *Engine) Run() *domain.SimulationResult {
	e.initialize()
	for month := 0; month < e.params.TotalMonths(); month++ {
		e.simulateMonth(month)
	}
	e.finalize()
	return &domain.SimulationResult{
		Entries:      e.entries,
		Rebalancings: e.rebalancings,
		Cashflows:    e.cashflows,
	}
}

func (e *Engine) initialize() {
	p := &e.params
	e.monthlyReturn = math.Pow(1+p.AnnualReturn, 1.0/12) - 1
	e.fullTaxRate = p.EffectiveCapitalGainsRate()
	e.allowance = p.AnnualAllowance
	e.contribution = p.MonthlyInvestment

	// Exactly one cost channel per regime.
	if p.InsuranceMode {
		p.FrontLoadRate = 0
		p.RedemptionRate = 0
		p.PerUnitFee = 0
	} else {
		p.AcquisitionOneTimeRate = 0
		p.AcquisitionRecurringRate = 0
		p.AdminFeeMonthlyRate = 0
	}

	e.acqOneTime = make([]float64, p.TotalMonths())
	e.acqRecurring = make([]float64, p.TotalMonths())
	if p.AmortizationMonths > 0 {
		window := p.AmortizationMonths
		if window > p.TotalMonths() {
			window = p.TotalMonths()
		}
		oneTime := p.InitialInvestment * p.AcquisitionOneTimeRate / float64(p.AmortizationMonths)
		recurring := p.MonthlyInvestment * float64(p.ContributionMonths()) * p.AcquisitionRecurringRate / float64(p.AmortizationMonths)
		for m := 0; m < window; m++ {
			e.acqOneTime[m] = oneTime
			e.acqRecurring[m] = recurring
		}
	}

	load := p.InitialInvestment * p.FrontLoadRate
	net := p.InitialInvestment - load
	e.totals.frontLoad += load
	e.cashflows = append(e.cashflows, -p.InitialInvestment)
	if net > 0 {
		e.ledger = append(e.ledger, newTranche(PlanStart, net))
	}
}

// simulateMonth applies the fixed per-month transition order: calendar reset,
// contributions, costs, advance tax, rebalancing, growth, withdrawal,
// snapshot. Later steps read values produced by earlier ones.
func (e *Engine) simulateMonth(month int) {
	date := PlanStart.AddDate(0, month, 0)
	if date.Month() == time.January {
		e.allowance = e.params.AnnualAllowance
	}
	e.applyContributions(month, date)
	e.applyCosts(month, date)
	e.applyAdvanceTax(date)
	e.applyRebalancing(date)
	for _, tr := range e.ledger {
		tr.value *= 1 + e.monthlyReturn
	}
	e.applyWithdrawal(month, date)
	e.snapshot(date)
}

func (e *Engine) applyContributions(month int, date time.Time) {
	p := &e.params
	if month > 0 && p.StepUpCadenceMonths > 0 && month%p.StepUpCadenceMonths == 0 {
		e.contribution *= 1 + p.StepUpRate
	}

	oneTime := month == p.SpecialPaymentYear*12
	recurring := p.RecurringSpecialCadenceYears > 0 && month > 0 && month%(p.RecurringSpecialCadenceYears*12) == 0
	if oneTime || recurring {
		amount := p.RecurringSpecialAmount
		if oneTime {
			amount = p.SpecialPaymentAmount
		}
		if amount > 0 {
			e.cashflows = append(e.cashflows, -amount)
			net := amount
			if !p.InsuranceMode {
				load := amount * p.FrontLoadRate
				net = amount - load
				e.totals.frontLoad += load
			}
			e.ledger = append(e.ledger, newTranche(date, net))
		}
	}

	// The regular contribution always opens its own tranche, even when a
	// special payment fired in the same month.
	if month < p.ContributionMonths() {
		load := e.contribution * p.FrontLoadRate
		net := e.contribution - load
		e.totals.frontLoad += load
		e.cashflows = append(e.cashflows, -e.contribution)
		e.ledger = append(e.ledger, newTranche(date, net))
	}
}

func (e *Engine) applyCosts(month int, date time.Time) {
	p := &e.params
	value := e.portfolioValue()

	if p.InsuranceMode && month < p.ContributionMonths() {
		admin := e.contribution * p.AdminFeeMonthlyRate
		e.applyProRata(value, admin)
		e.totals.admin += admin
		if month < p.AmortizationMonths {
			charge := e.acqOneTime[month] + e.acqRecurring[month]
			e.applyProRata(value, charge)
			e.totals.acquisition += charge
		}
	}

	// Annual charges fire every January regardless of mode.
	if date.Month() == time.January && value > 0 {
		fund := value * p.ExpenseRatio
		service := value * p.ServiceFeeRate
		unit := p.PerUnitFee
		e.applyProRata(value, fund+service+unit)
		e.totals.fundExpense += fund
		e.totals.service += service
		e.totals.perUnit += unit
	}
}

// applyAdvanceTax charges the advance lump-sum tax each January in fund mode.
// The taxable base per tranche is the lesser of the notional yield (base rate
// on last year's starting value) and the realized yield, reduced by the
// partial exemption, then by the remaining annual allowance.
func (e *Engine) applyAdvanceTax(date time.Time) {
	p := &e.params
	if p.InsuranceMode || date.Month() != time.January {
		return
	}
	for _, tr := range e.ledger {
		notional := tr.prevYearValue * p.BaseRate
		realized := tr.value - tr.prevYearValue
		taxableBase := math.Min(notional, realized) * (1 - p.PartialExemption)
		offset := math.Min(e.allowance, taxableBase)
		taxed := math.Max(0, taxableBase-offset)
		tax := math.Max(0, taxed*e.fullTaxRate)
		if tax > 0 {
			tr.value -= tax
			tr.advanceTaxed += taxed
			e.totals.taxes += tax
			e.allowance -= offset
		}
	}
}

// applyRebalancing sells RebalancingRate of the portfolio every December in
// fund mode and reinvests the after-tax, after-fee proceeds as a fresh
// tranche. Sales consume tranches oldest-first; gains are reduced by the
// partial exemption and by the proportional share of advance-taxed amounts
// before the allowance and the tax rate apply.
func (e *Engine) applyRebalancing(date time.Time) {
	p := &e.params
	if p.InsuranceMode || date.Month() != time.December || p.RebalancingRate <= 0 {
		return
	}
	target := e.portfolioValue() * p.RebalancingRate
	if target <= 0 {
		return
	}

	taxRate := math.Min(e.fullTaxRate, p.PersonalTaxRate)
	remaining := target
	var gross, taxPaid, reinvested float64
	for remaining > dust && len(e.ledger) > 0 {
		tr := e.ledger[0]
		if tr.value <= 0 {
			e.ledger = e.ledger[1:]
			continue
		}
		sale := math.Min(tr.value, remaining)
		prop := sale / tr.value
		basis := tr.costBasis * prop
		gain := sale - basis
		taxable := gain * (1 - p.PartialExemption)
		advanceUsed := math.Min(tr.advanceTaxed*prop, taxable)
		taxable = math.Max(0, taxable-advanceUsed)
		offset := math.Min(e.allowance, taxable)
		e.allowance -= offset
		tax := math.Max(0, (taxable-offset)*taxRate)
		redemption := sale * p.RedemptionRate

		e.totals.taxes += tax
		e.totals.redemption += redemption
		gross += sale
		taxPaid += tax
		reinvested += sale - tax - redemption

		tr.value -= sale
		tr.costBasis -= basis
		tr.advanceTaxed = math.Max(0, tr.advanceTaxed-advanceUsed)
		if tr.value <= dust {
			e.ledger = e.ledger[1:]
		}
		remaining -= sale
	}
	if reinvested > dust {
		e.ledger = append(e.ledger, newTranche(date, reinvested))
	}
	e.logger.Debugf("rebalanced %s: sold %.2f, tax %.2f, reinvested %.2f",
		date.Format("2006-01"), gross, taxPaid, reinvested)
	e.rebalancings = append(e.rebalancings, domain.RebalancingEvent{
		Date:          date,
		GrossSale:     gross,
		TaxPaid:       taxPaid,
		NetReinvested: reinvested,
	})
}

func (e *Engine) applyWithdrawal(month int, date time.Time) {
	p := &e.params
	if month < p.ContributionMonths() {
		return
	}
	value := e.portfolioValue()
	var amount float64
	switch {
	case p.WithdrawalMode == domain.WithdrawalYearly && date.Month() == time.January:
		amount = math.Min(p.AnnualWithdrawal, value)
	case p.WithdrawalMode == domain.WithdrawalMonthly:
		amount = math.Min(p.AnnualWithdrawal/12, value)
	}
	if amount <= 0 {
		return
	}
	e.cashflows = append(e.cashflows, amount)
	remaining := amount
	for remaining > dust && len(e.ledger) > 0 {
		tr := e.ledger[0]
		if tr.value >= remaining {
			tr.value -= remaining
			e.totals.withdrawals += remaining
			remaining = 0
			if tr.value <= dust {
				e.ledger = e.ledger[1:]
			}
		} else {
			e.totals.withdrawals += tr.value
			remaining -= tr.value
			e.ledger = e.ledger[1:]
		}
	}
}

func (e *Engine) snapshot(date time.Time) {
	e.entries = append(e.entries, e.entry(date, e.portfolioValue()))
	if date.Month() == time.December {
		for _, tr := range e.ledger {
			tr.prevYearValue = tr.value
		}
	}
}

// finalize liquidates the remaining portfolio after the last month, taxes the
// gain under the mode's liquidation rules, charges the redemption fee and
// appends the terminal ledger entry.
func (e *Engine) finalize() {
	p := &e.params
	var value, basis, advanceTaxed float64
	for _, tr := range e.ledger {
		value += tr.value
		basis += tr.costBasis
		advanceTaxed += tr.advanceTaxed
	}
	end := PlanStart.AddDate(0, p.TotalMonths(), 0)

	if value > dust {
		gain := math.Max(0, value-basis)
		var tax float64
		if p.InsuranceMode {
			// Half-income rule: the taxable share halves when the plan ends
			// at age 62 or later after at least 12 years.
			factor := 0.85
			if p.EntryAge+p.DurationYears >= 62 && p.DurationYears >= 12 {
				factor = 0.5
			}
			tax = gain * factor * p.PersonalTaxRate
		} else {
			taxable := math.Max(0, gain*(1-p.PartialExemption)-advanceTaxed)
			tax = taxable * math.Min(e.fullTaxRate, p.PersonalTaxRate)
		}
		redemption := value * p.RedemptionRate
		e.totals.taxes += tax
		e.totals.redemption += redemption
		net := value - tax - redemption
		e.cashflows = append(e.cashflows, net)
		e.totals.withdrawals += net
		e.logger.Debugf("liquidated %.2f (tax %.2f, redemption %.2f)", value, tax, redemption)
	}

	e.entries = append(e.entries, e.entry(end, 0))
}

func (e *Engine) portfolioValue() float64 {
	var sum float64
	for _, tr := range e.ledger {
		sum += tr.value
	}
	return sum
}

// applyProRata spreads a cost across all tranches proportional to each
// tranche's share of the total value.
func (e *Engine) applyProRata(total, cost float64) {
	if total <= 0 {
		return
	}
	for _, tr := range e.ledger {
		tr.value -= cost * (tr.value / total)
	}
}

func (e *Engine) entry(date time.Time, value float64) domain.LedgerEntry {
	return domain.LedgerEntry{
		Date:             date,
		PortfolioValue:   value,
		FrontLoadFees:    e.totals.frontLoad,
		RedemptionFees:   e.totals.redemption,
		PerUnitFees:      e.totals.perUnit,
		FundExpenses:     e.totals.fundExpense,
		ServiceFees:      e.totals.service,
		AcquisitionCosts: e.totals.acquisition,
		AdminFees:        e.totals.admin,
		TaxesPaid:        e.totals.taxes,
		Withdrawals:      e.totals.withdrawals,
	}
}
