package market

import (
	"context"

	"PortfolioPilot/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchMarketConditions classifies the broad market and reads the
	// volatility index.
	FetchMarketConditions(ctx context.Context) (model.MarketConditions, error)
	// FetchInstrumentData returns whatever quote fields are available for
	// one instrument. Missing fields are nil, not zero.
	FetchInstrumentData(ctx context.Context, ticker string) (model.Quote, error)
	Name() string
}
