package market

import (
	"context"

	"PortfolioPilot/internal/model"
)

// StaticFetcher returns controllable fixed data for development and testing.
type StaticFetcher struct {
	Conditions model.MarketConditions
	Quotes     map[string]model.Quote
}

// NewStaticFetcher creates a fetcher with a plausible offline data set.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		Conditions: model.MarketConditions{
			Outlook:         model.OutlookPositive,
			VolatilityIndex: model.Float(18.5),
		},
		Quotes: map[string]model.Quote{
			"STX40":  {Price: model.Float(82.40), ChangePct: model.Float(0.4), Volume: model.Float(210000), ThreeMonthReturn: model.Float(3.1)},
			"STXDIV": {Price: model.Float(28.15), ChangePct: model.Float(-0.2), Volume: model.Float(95000), ThreeMonthReturn: model.Float(1.8)},
			"STXPRO": {Price: model.Float(39.90), ChangePct: model.Float(0.1), Volume: model.Float(41000), ThreeMonthReturn: model.Float(-0.6)},
			"STXWDM": {Price: model.Float(118.30), ChangePct: model.Float(0.7), Volume: model.Float(330000), ThreeMonthReturn: model.Float(5.4)},
			"STXEMG": {Price: model.Float(64.75), ChangePct: model.Float(0.3), Volume: model.Float(120000), ThreeMonthReturn: model.Float(2.2)},
			"STXGOV": {Price: model.Float(10.95), ChangePct: model.Float(0.0), Volume: model.Float(76000), ThreeMonthReturn: model.Float(1.1)},
			"GLODIV": {Price: model.Float(52.60), ChangePct: model.Float(0.5), Volume: model.Float(58000), ThreeMonthReturn: model.Float(4.0)},
		},
	}
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) FetchMarketConditions(_ context.Context) (model.MarketConditions, error) {
	return s.Conditions, nil
}

func (s *StaticFetcher) FetchInstrumentData(_ context.Context, ticker string) (model.Quote, error) {
	return s.Quotes[ticker], nil
}
