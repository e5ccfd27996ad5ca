package model

import "github.com/shopspring/decimal"

// RiskTolerance is the investor's self-reported risk tier.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Score maps a risk tier to a 1-10 risk score used by the allocation engine.
func (r RiskTolerance) Score() int {
	switch r {
	case RiskLow:
		return 3
	case RiskMedium:
		return 5
	case RiskHigh:
		return 8
	}
	return 0
}

// InvestmentType distinguishes a lump sum from a recurring contribution.
type InvestmentType string

const (
	InvestOnceOff InvestmentType = "once-off"
	InvestMonthly InvestmentType = "monthly"
)

// UserProfile accumulates one answer per conversation turn. Fields are filled
// in a fixed order; a field is never set before every field preceding it.
type UserProfile struct {
	InvestmentGoal   string          `json:"investment_goal"`
	TimeHorizonYears int             `json:"time_horizon_years"`
	RiskTolerance    RiskTolerance   `json:"risk_tolerance"`
	IncomeNeeds      *bool           `json:"income_needs"`
	InvestmentAmount decimal.Decimal `json:"investment_amount"`
	InvestmentType   InvestmentType  `json:"investment_type"`
	MonthlyAmount    decimal.Decimal `json:"monthly_amount"`
}

// Complete reports whether every field required by the resolved investment
// type branch is set.
func (p *UserProfile) Complete() bool {
	if p.InvestmentGoal == "" ||
		p.TimeHorizonYears == 0 ||
		p.RiskTolerance == "" ||
		p.IncomeNeeds == nil ||
		!p.InvestmentAmount.IsPositive() ||
		p.InvestmentType == "" {
		return false
	}
	if p.InvestmentType == InvestMonthly && !p.MonthlyAmount.IsPositive() {
		return false
	}
	return true
}
