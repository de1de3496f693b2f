package domain

import "time"

// LedgerEntry is one dated snapshot of the portfolio: its total value plus
// the cumulative running totals of every cost and tax category up to that
// month. One entry is appended per simulated month, plus a terminal entry
// after liquidation with PortfolioValue forced to zero.
type LedgerEntry struct {
	Date             time.Time `json:"date"`
	PortfolioValue   float64   `json:"portfolioValue"`
	FrontLoadFees    float64   `json:"frontLoadFees"`
	RedemptionFees   float64   `json:"redemptionFees"`
	PerUnitFees      float64   `json:"perUnitFees"`
	FundExpenses     float64   `json:"fundExpenses"`
	ServiceFees      float64   `json:"serviceFees"`
	AcquisitionCosts float64   `json:"acquisitionCosts"`
	AdminFees        float64   `json:"adminFees"`
	TaxesPaid        float64   `json:"taxesPaid"`
	Withdrawals      float64   `json:"withdrawals"`
}

// TotalCosts sums every fee category of the entry, taxes excluded.
func (e LedgerEntry) TotalCosts() float64 {
	return e.FrontLoadFees + e.RedemptionFees + e.PerUnitFees + e.FundExpenses +
		e.ServiceFees + e.AcquisitionCosts + e.AdminFees
}

// RebalancingEvent records one December rebalancing action.
type RebalancingEvent struct {
	Date          time.Time `json:"date"`
	GrossSale     float64   `json:"grossSale"`
	TaxPaid       float64   `json:"taxPaid"`
	NetReinvested float64   `json:"netReinvested"`
}

// SimulationResult is the immutable outcome of one engine run. Cashflows are
// signed: negative values are money paid into the plan, positive values are
// money taken out.
type SimulationResult struct {
	Entries      []LedgerEntry      `json:"entries"`
	Rebalancings []RebalancingEvent `json:"rebalancings"`
	Cashflows    []float64          `json:"cashflows"`
}

// FinalEntry returns the terminal ledger entry (zero value when the run
// produced no entries).
func (r *SimulationResult) FinalEntry() LedgerEntry {
	if len(r.Entries) == 0 {
		return LedgerEntry{}
	}
	return r.Entries[len(r.Entries)-1]
}

// MonteCarloResult aggregates the terminal portfolio values of a batch of
// randomized runs. Statistics are NaN when the batch is empty.
type MonteCarloResult struct {
	FinalValues []float64 `json:"finalValues"`
	Mean        float64   `json:"mean"`
	Median      float64   `json:"median"`
	CILower     float64   `json:"ciLower"`
	CIUpper     float64   `json:"ciUpper"`
}
