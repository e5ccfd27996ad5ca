package model

import "time"

// Outlook is the binary market sentiment classification.
type Outlook string

const (
	OutlookPositive Outlook = "positive"
	OutlookNegative Outlook = "negative"
)

// Quote holds optional live market metadata for one instrument. Nil means the
// figure was unavailable at fetch time; absence is not zero.
type Quote struct {
	Price            *float64 `json:"price,omitempty"`
	ChangePct        *float64 `json:"change_pct,omitempty"`
	Volume           *float64 `json:"volume,omitempty"`
	ThreeMonthReturn *float64 `json:"three_month_return,omitempty"`
}

// MarketConditions is the broad-market classification for one request.
type MarketConditions struct {
	Outlook         Outlook  `json:"outlook"`
	VolatilityIndex *float64 `json:"volatility_index,omitempty"`
}

// MarketContext is an immutable snapshot of market state per allocation
// request: conditions plus per-instrument quotes keyed by ticker.
type MarketContext struct {
	Conditions MarketConditions `json:"conditions"`
	Quotes     map[string]Quote `json:"quotes"`
	FetchedAt  time.Time        `json:"fetched_at"`
}

// DefaultConditions is the fallback when the market-data provider is down:
// positive outlook, no volatility reading.
func DefaultConditions() MarketConditions {
	return MarketConditions{Outlook: OutlookPositive}
}

// DefaultContext returns an all-defaults snapshot with empty quotes.
func DefaultContext() *MarketContext {
	return &MarketContext{
		Conditions: DefaultConditions(),
		Quotes:     map[string]Quote{},
		FetchedAt:  time.Now(),
	}
}

// Float returns a pointer to v, for filling optional quote fields.
func Float(v float64) *float64 { return &v }
