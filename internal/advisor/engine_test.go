package advisor

import (
	"math"
	"strings"
	"testing"

	"PortfolioPilot/internal/model"

	"github.com/shopspring/decimal"
)

const weightTolerance = 1e-9

func contextWith(outlook model.Outlook, vol *float64) *model.MarketContext {
	mc := model.DefaultContext()
	mc.Conditions.Outlook = outlook
	mc.Conditions.VolatilityIndex = vol
	return mc
}

func weightSum(plan *model.AllocationPlan) float64 {
	var sum float64
	for _, h := range plan.Holdings {
		sum += h.Weight
	}
	return sum
}

func TestAllocate_ReferenceScenario(t *testing.T) {
	// Age 30, medium risk, 10y horizon, no income need, positive outlook:
	// base equity 0.8, no adjustments, basket 60/40 of equity plus 20% bonds.
	in := Input{Age: 30, RiskScore: 5, HorizonYears: 10, Type: model.InvestOnceOff}
	plan, analysis, err := Allocate(in, contextWith(model.OutlookPositive, nil))
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	want := map[string]float64{
		"STXWDM": 0.48,
		"STXEMG": 0.32,
		"STXGOV": 0.20,
	}
	if len(plan.Holdings) != len(want) {
		t.Fatalf("expected %d holdings, got %d: %v", len(want), len(plan.Holdings), plan.Holdings)
	}
	for ticker, w := range want {
		h, ok := plan.Holdings[ticker]
		if !ok {
			t.Fatalf("missing holding %s", ticker)
		}
		if math.Abs(h.Weight-w) > weightTolerance {
			t.Errorf("%s weight = %.12f, want %.2f", ticker, h.Weight, w)
		}
	}
	if len(analysis.Rationale) == 0 {
		t.Error("expected rationale lines")
	}
	if analysis.ProjectedValue != nil {
		t.Error("once-off investment should not carry a projection")
	}
}

func TestAllocate_WeightsSumToOne(t *testing.T) {
	vols := []*float64{nil, model.Float(10), model.Float(30)}
	for _, age := range []int{18, 30, 45, 70, 95} {
		for _, score := range []int{3, 5, 8} {
			for _, income := range []bool{false, true} {
				for _, outlook := range []model.Outlook{model.OutlookPositive, model.OutlookNegative} {
					for _, vol := range vols {
						in := Input{Age: age, RiskScore: score, HorizonYears: 10, IncomeNeeds: income, Type: model.InvestOnceOff}
						plan, _, err := Allocate(in, contextWith(outlook, vol))
						if err != nil {
							t.Fatalf("Allocate(age=%d score=%d income=%v outlook=%s): %v", age, score, income, outlook, err)
						}
						if sum := weightSum(plan); math.Abs(sum-1) > weightTolerance {
							t.Errorf("weights sum = %.12f for age=%d score=%d income=%v outlook=%s", sum, age, score, income, outlook)
						}
					}
				}
			}
		}
	}
}

func TestBaseEquityAllocation_ClampedForAllAges(t *testing.T) {
	for age := 0; age <= 120; age++ {
		e := BaseEquityAllocation(age)
		if e < 0.10-weightTolerance || e > 0.90+weightTolerance {
			t.Errorf("age %d: base equity %.4f outside [0.10, 0.90]", age, e)
		}
	}
	if e := BaseEquityAllocation(30); math.Abs(e-0.8) > weightTolerance {
		t.Errorf("age 30: base equity = %.4f, want 0.80", e)
	}
}

func TestAllocate_VolatilityDampening(t *testing.T) {
	in := Input{Age: 30, RiskScore: 5, HorizonYears: 10, Type: model.InvestOnceOff}

	calm, _, err := Allocate(in, contextWith(model.OutlookPositive, model.Float(10)))
	if err != nil {
		t.Fatal(err)
	}
	stormy, _, err := Allocate(in, contextWith(model.OutlookPositive, model.Float(30)))
	if err != nil {
		t.Fatal(err)
	}

	calmEquity := 1 - calm.Holdings["STXGOV"].Weight
	stormyEquity := 1 - stormy.Holdings["STXGOV"].Weight
	if stormyEquity >= calmEquity {
		t.Errorf("high-volatility equity %.4f should be strictly below low-volatility %.4f", stormyEquity, calmEquity)
	}
}

func TestAllocate_IncomeOverrideRaisesBonds(t *testing.T) {
	// Older conservative profiles already hold more than the income bond
	// cap; the override must never pull them back down to it.
	for _, age := range []int{30, 45, 62, 70, 95} {
		for _, outlook := range []model.Outlook{model.OutlookPositive, model.OutlookNegative} {
			for _, score := range []int{3, 5, 8} {
				base := Input{Age: age, RiskScore: score, HorizonYears: 10, Type: model.InvestOnceOff}
				withIncome := base
				withIncome.IncomeNeeds = true

				noPlan, _, err := Allocate(base, contextWith(outlook, nil))
				if err != nil {
					t.Fatal(err)
				}
				incomePlan, _, err := Allocate(withIncome, contextWith(outlook, nil))
				if err != nil {
					t.Fatal(err)
				}

				noBond := noPlan.Holdings["STXGOV"].Weight
				incomeBond := incomePlan.Holdings["STXGOV"].Weight
				if incomeBond < noBond-weightTolerance {
					t.Errorf("age=%d outlook=%s score=%d: income bond %.4f < no-income bond %.4f",
						age, outlook, score, incomeBond, noBond)
				}
			}
		}
	}
}

func TestAllocate_IncomeOverrideKeepsHighBondFloor(t *testing.T) {
	// Age 70, risk score 3: equity 0.36, bond 0.64 before the override.
	// The 0.40 cap must not shrink an allocation already above it.
	in := Input{Age: 70, RiskScore: 3, HorizonYears: 10, IncomeNeeds: true, Type: model.InvestOnceOff}
	plan, _, err := Allocate(in, contextWith(model.OutlookPositive, nil))
	if err != nil {
		t.Fatal(err)
	}
	if bond := plan.Holdings["STXGOV"].Weight; math.Abs(bond-0.64) > weightTolerance {
		t.Errorf("bond weight = %.4f, want 0.64", bond)
	}
}

func TestAllocate_BasketSelection(t *testing.T) {
	tests := []struct {
		outlook model.Outlook
		income  bool
		tickers []string
	}{
		{model.OutlookPositive, true, []string{"GLODIV", "STXWDM", "STXDIV", "STXGOV"}},
		{model.OutlookPositive, false, []string{"STXWDM", "STXEMG", "STXGOV"}},
		{model.OutlookNegative, true, []string{"STXDIV", "STXPRO", "STX40", "STXGOV"}},
		{model.OutlookNegative, false, []string{"STX40", "STXDIV", "STXGOV"}},
	}
	for _, tt := range tests {
		in := Input{Age: 30, RiskScore: 5, HorizonYears: 10, IncomeNeeds: tt.income, Type: model.InvestOnceOff}
		plan, _, err := Allocate(in, contextWith(tt.outlook, nil))
		if err != nil {
			t.Fatalf("Allocate(%s, income=%v): %v", tt.outlook, tt.income, err)
		}
		if len(plan.Holdings) != len(tt.tickers) {
			t.Errorf("%s income=%v: got %d holdings, want %d", tt.outlook, tt.income, len(plan.Holdings), len(tt.tickers))
		}
		for _, ticker := range tt.tickers {
			if _, ok := plan.Holdings[ticker]; !ok {
				t.Errorf("%s income=%v: missing %s", tt.outlook, tt.income, ticker)
			}
		}
	}
}

func TestAllocate_MonthlyProjection(t *testing.T) {
	in := Input{
		Age: 30, RiskScore: 5, HorizonYears: 5,
		Type:          model.InvestMonthly,
		MonthlyAmount: decimal.NewFromInt(1000),
	}
	_, analysis, err := Allocate(in, contextWith(model.OutlookPositive, nil))
	if err != nil {
		t.Fatal(err)
	}
	if analysis.ProjectedValue == nil {
		t.Fatal("expected a projection for monthly investments")
	}
	// FV = 1000 * ((1+0.07/12)^60 - 1) / (0.07/12) * (1+0.07/12)
	want := 72010.53
	if math.Abs(*analysis.ProjectedValue-want) > 1 {
		t.Errorf("projected value = %.2f, want ~%.2f", *analysis.ProjectedValue, want)
	}
}

func TestAllocate_ProjectionUsesConfiguredRate(t *testing.T) {
	in := Input{
		Age: 30, RiskScore: 5, HorizonYears: 5,
		Type:             model.InvestMonthly,
		MonthlyAmount:    decimal.NewFromInt(1000),
		AnnualGrowthRate: 0.05,
	}
	_, analysis, err := Allocate(in, contextWith(model.OutlookPositive, nil))
	if err != nil {
		t.Fatal(err)
	}
	if analysis.ProjectedValue == nil {
		t.Fatal("expected a projection")
	}
	if math.Abs(*analysis.ProjectedValue-68289.44) > 1 {
		t.Errorf("projected value at 5%% = %.2f, want ~68289.44", *analysis.ProjectedValue)
	}
	if !strings.Contains(analysis.Narrative, "5% assumed annual return") {
		t.Errorf("narrative should quote the configured rate, got: %s", analysis.Narrative)
	}
}

func TestProjectFutureValue(t *testing.T) {
	got := ProjectFutureValue(decimal.NewFromInt(1000), 0.07, 5)
	if math.Abs(got-72010.53) > 0.01 {
		t.Errorf("ProjectFutureValue = %.4f, want 72010.53", got)
	}
}

func TestAllocate_ContractErrors(t *testing.T) {
	if _, _, err := Allocate(Input{Age: 30, RiskScore: 0}, contextWith(model.OutlookPositive, nil)); err == nil {
		t.Error("expected error for unknown risk tier")
	}
	if _, _, err := Allocate(Input{Age: 30, RiskScore: 5}, contextWith("sideways", nil)); err == nil {
		t.Error("expected error for unrecognized outlook")
	}
}

func TestAllocate_MissingQuotesDegradeGracefully(t *testing.T) {
	in := Input{Age: 30, RiskScore: 5, HorizonYears: 10, Type: model.InvestOnceOff}
	mc := contextWith(model.OutlookPositive, nil) // empty quotes map
	plan, _, err := Allocate(in, mc)
	if err != nil {
		t.Fatalf("missing quotes must not abort allocation: %v", err)
	}
	for ticker, h := range plan.Holdings {
		if h.Price != nil {
			t.Errorf("%s: expected nil price with no market data", ticker)
		}
		if h.Weight <= 0 {
			t.Errorf("%s: non-positive weight %.4f", ticker, h.Weight)
		}
	}
}

func TestBaskets_SubWeightsSumToOne(t *testing.T) {
	for key, basket := range baskets {
		var sum float64
		for _, e := range basket {
			sum += e.SubWeight
		}
		if math.Abs(sum-1) > weightTolerance {
			t.Errorf("basket %v sub-weights sum to %.4f", key, sum)
		}
		if n := len(basket); n < 2 || n > 3 {
			t.Errorf("basket %v has %d instruments, want 2-3", key, n)
		}
	}
}
