package model

// Holding is one instrument's share of an allocation plan, with whatever
// market metadata was available echoed alongside.
type Holding struct {
	Weight           float64  `json:"weight"`
	Description      string   `json:"description"`
	Price            *float64 `json:"price,omitempty"`
	ChangePct        *float64 `json:"change_pct,omitempty"`
	Volume           *float64 `json:"volume,omitempty"`
	ThreeMonthReturn *float64 `json:"three_month_return,omitempty"`
}

// AllocationPlan maps ticker to holding. Weights sum to 1.0 within
// floating-point tolerance. Produced fresh per request, never mutated after.
type AllocationPlan struct {
	Holdings map[string]Holding `json:"holdings"`
}

// FactorImpact is one market factor and its effect on the allocation.
type FactorImpact struct {
	Factor string `json:"factor"`
	Impact string `json:"impact"`
}

// MarketAnalysis accompanies an AllocationPlan: a narrative, the factors
// considered, and one rationale line per adjustment the engine applied.
type MarketAnalysis struct {
	Narrative      string         `json:"narrative"`
	Factors        []FactorImpact `json:"factors"`
	Rationale      []string       `json:"rationale"`
	ProjectedValue *float64       `json:"projected_value,omitempty"`
}
