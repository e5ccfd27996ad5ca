package advisor

import (
	"fmt"
	"math"

	"PortfolioPilot/internal/model"

	"github.com/shopspring/decimal"
)

const (
	minEquity = 0.10
	maxEquity = 0.90

	// volatility index level above which equity is dampened
	volatilityThreshold = 25.0
	volatilityDampening = 0.9

	// bond cap applied by the income override
	incomeBondCap   = 0.4
	incomeBondBoost = 0.1

	// assumed annual return when none is configured
	defaultGrowthRate = 0.07
)

// Input is the completed profile translated into engine terms.
type Input struct {
	Age           int
	RiskScore     int
	HorizonYears  int
	IncomeNeeds   bool
	Type          model.InvestmentType
	Amount        decimal.Decimal
	MonthlyAmount decimal.Decimal
	// AnnualGrowthRate drives the monthly projection; 0.07 when unset.
	AnnualGrowthRate float64
}

// FromProfile translates a completed user profile. Age is never asked during
// intake, so defaultAge stands in (30 when zero).
func FromProfile(p *model.UserProfile, defaultAge int) Input {
	if defaultAge <= 0 {
		defaultAge = 30
	}
	in := Input{
		Age:           defaultAge,
		RiskScore:     p.RiskTolerance.Score(),
		HorizonYears:  p.TimeHorizonYears,
		Type:          p.InvestmentType,
		Amount:        p.InvestmentAmount,
		MonthlyAmount: p.MonthlyAmount,
	}
	if p.IncomeNeeds != nil {
		in.IncomeNeeds = *p.IncomeNeeds
	}
	return in
}

func clampEquity(e float64) float64 {
	return math.Min(maxEquity, math.Max(minEquity, e))
}

// BaseEquityAllocation is the age-based starting point: (110 - age) / 100,
// clamped to [0.10, 0.90].
func BaseEquityAllocation(age int) float64 {
	return clampEquity(float64(110-age) / 100)
}

// Allocate maps a completed profile plus market context to instrument
// weights, a market analysis and an optional growth projection.
//
// An unknown risk tier or outlook reaching this point is an upstream
// validation bug and is returned as an error, never shown to the user.
func Allocate(in Input, mc *model.MarketContext) (*model.AllocationPlan, *model.MarketAnalysis, error) {
	if in.RiskScore == 0 {
		return nil, nil, fmt.Errorf("allocate: unknown risk tier (score 0)")
	}
	if mc == nil {
		mc = model.DefaultContext()
	}
	outlook := mc.Conditions.Outlook
	basket, ok := baskets[basketKey{Outlook: outlook, Income: in.IncomeNeeds}]
	if !ok {
		return nil, nil, fmt.Errorf("allocate: unrecognized market outlook %q", outlook)
	}

	var rationale []string

	// Step 1: age-based base equity allocation.
	equity := BaseEquityAllocation(in.Age)
	rationale = append(rationale, fmt.Sprintf(
		"Started from a %.0f%% equity allocation based on age %d.", equity*100, in.Age))

	// Step 2: risk adjustment, 2% of equity per risk point away from neutral.
	riskAdj := float64(in.RiskScore-5) / 10 * 0.2
	equity += riskAdj
	if riskAdj != 0 {
		direction := "Increased"
		if riskAdj < 0 {
			direction = "Reduced"
		}
		rationale = append(rationale, fmt.Sprintf(
			"%s equity by %.0f%% for your %s appetite (risk score %d/10).",
			direction, math.Abs(riskAdj)*100, riskWord(in.RiskScore), in.RiskScore))
	} else {
		rationale = append(rationale, fmt.Sprintf(
			"Kept equity unchanged for a balanced risk score of %d/10.", in.RiskScore))
	}

	// Step 3: volatility dampening.
	vol := mc.Conditions.VolatilityIndex
	if vol != nil && *vol > volatilityThreshold {
		equity *= volatilityDampening
		rationale = append(rationale, fmt.Sprintf(
			"Scaled equity back by 10%% as the volatility index is elevated at %.1f.", *vol))
	}

	bond := 1 - equity

	// Step 4: income override. A raise, never a reduction: conservative
	// profiles can already sit above the income bond cap.
	if in.IncomeNeeds {
		boosted := math.Min(incomeBondCap, bond+incomeBondBoost)
		if boosted > bond {
			bond = boosted
			rationale = append(rationale, fmt.Sprintf(
				"Raised the bond allocation to %.0f%% to support your income needs.", bond*100))
		} else {
			rationale = append(rationale, fmt.Sprintf(
				"Kept the bond allocation at %.0f%%, already enough to support your income needs.", bond*100))
		}
		equity = 1 - bond
	}

	// Step 5: reapply the clamp after adjustments, before basket selection.
	if clamped := clampEquity(equity); clamped != equity {
		equity = clamped
		rationale = append(rationale, fmt.Sprintf(
			"Limited equity to %.0f%% to keep the split within policy bounds.", equity*100))
	}

	// Step 6: equity basket from the outlook x income table, plus bond leg.
	raw := make(map[string]float64, len(basket)+1)
	for _, e := range basket {
		raw[e.Ticker] = equity * e.SubWeight
	}
	raw[BondTicker] += bond
	rationale = append(rationale, fmt.Sprintf(
		"Selected a %d-instrument equity basket suited to a %s market outlook.",
		len(basket), outlook))
	rationale = append(rationale, fmt.Sprintf(
		"Anchored %.0f%% in government bonds for stability.", bond*100))

	// Step 7: normalize so the final weights sum to exactly 1.
	var sum float64
	for _, w := range raw {
		sum += w
	}
	plan := &model.AllocationPlan{Holdings: make(map[string]model.Holding, len(raw))}
	for ticker, w := range raw {
		h := model.Holding{
			Weight:      w / sum,
			Description: Catalog[ticker].Description,
		}
		if q, ok := mc.Quotes[ticker]; ok {
			h.Price = q.Price
			h.ChangePct = q.ChangePct
			h.Volume = q.Volume
			h.ThreeMonthReturn = q.ThreeMonthReturn
		}
		plan.Holdings[ticker] = h
	}

	analysis := &model.MarketAnalysis{
		Narrative: narrative(in, outlook, equity),
		Factors:   factors(mc),
		Rationale: rationale,
	}

	// Step 8: compounding projection for monthly contributions.
	if in.Type == model.InvestMonthly && in.MonthlyAmount.IsPositive() && in.HorizonYears > 0 {
		rate := in.AnnualGrowthRate
		if rate <= 0 {
			rate = defaultGrowthRate
		}
		fv := ProjectFutureValue(in.MonthlyAmount, rate, in.HorizonYears)
		analysis.ProjectedValue = model.Float(fv)
		analysis.Narrative += fmt.Sprintf(
			" Contributing R%s monthly could grow to roughly R%.0f over %d years at a %.4g%% assumed annual return.",
			in.MonthlyAmount.StringFixed(0), fv, in.HorizonYears, rate*100)
	}

	return plan, analysis, nil
}

// ProjectFutureValue computes the future value of an ordinary annuity with a
// monthly contribution: P * ((1+r)^n - 1) / r * (1+r), with r the monthly
// rate and n the number of months.
func ProjectFutureValue(monthly decimal.Decimal, annualRate float64, years int) float64 {
	if annualRate <= 0 {
		annualRate = defaultGrowthRate
	}
	r := annualRate / 12
	n := float64(years * 12)
	p := monthly.InexactFloat64()
	return p * (math.Pow(1+r, n) - 1) / r * (1 + r)
}

func riskWord(score int) string {
	switch {
	case score < 5:
		return "cautious"
	case score > 5:
		return "adventurous"
	}
	return "balanced"
}

func narrative(in Input, outlook model.Outlook, equity float64) string {
	mood := "favourable"
	if outlook == model.OutlookNegative {
		mood = "defensive"
	}
	s := fmt.Sprintf(
		"Based on a %d-year horizon and a %s market, the portfolio holds %.0f%% in equities and %.0f%% in bonds.",
		in.HorizonYears, mood, equity*100, (1-equity)*100)
	if in.Amount.IsPositive() {
		s = fmt.Sprintf("For your %s investment of R%s: ", in.Type, in.Amount.StringFixed(0)) + s
	}
	return s
}

func factors(mc *model.MarketContext) []model.FactorImpact {
	out := []model.FactorImpact{
		{Factor: "Market outlook", Impact: string(mc.Conditions.Outlook)},
	}
	if v := mc.Conditions.VolatilityIndex; v != nil {
		impact := "normal"
		if *v > volatilityThreshold {
			impact = "elevated, equity dampened"
		}
		out = append(out, model.FactorImpact{
			Factor: fmt.Sprintf("Volatility index %.1f", *v),
			Impact: impact,
		})
	} else {
		out = append(out, model.FactorImpact{
			Factor: "Volatility index",
			Impact: "unavailable, no dampening applied",
		})
	}
	return out
}
