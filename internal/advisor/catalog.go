package advisor

import "PortfolioPilot/internal/model"

// Instrument is one catalog entry: a JSE-listed ETF the engine can allocate to.
type Instrument struct {
	Ticker      string
	Description string
}

// Catalog is the full instrument universe.
var Catalog = map[string]Instrument{
	"STX40":  {Ticker: "STX40", Description: "Top 40 ETF tracking the largest JSE-listed companies"},
	"STXDIV": {Ticker: "STXDIV", Description: "Dividend Plus ETF focused on high dividend payers"},
	"STXPRO": {Ticker: "STXPRO", Description: "Listed Property ETF with rental income exposure"},
	"STXWDM": {Ticker: "STXWDM", Description: "MSCI World feeder ETF for developed-market equity"},
	"STXEMG": {Ticker: "STXEMG", Description: "MSCI Emerging Markets feeder ETF"},
	"STXGOV": {Ticker: "STXGOV", Description: "SA Government Bond ETF for the fixed-income leg"},
	"GLODIV": {Ticker: "GLODIV", Description: "Global Dividend Aristocrats ETF of consistent dividend growers"},
}

// BondTicker is the single fixed-income instrument every plan carries.
const BondTicker = "STXGOV"

// basketEntry assigns one instrument a fraction of the equity leg.
type basketEntry struct {
	Ticker    string
	SubWeight float64
}

// basketKey selects an equity basket by market outlook and income need.
type basketKey struct {
	Outlook model.Outlook
	Income  bool
}

// baskets is the declarative outlook x income decision table. Sub-weights
// within each cell sum to 1.0 of the equity allocation.
var baskets = map[basketKey][]basketEntry{
	{model.OutlookPositive, true}: {
		{"GLODIV", 0.4},
		{"STXWDM", 0.3},
		{"STXDIV", 0.3},
	},
	{model.OutlookPositive, false}: {
		{"STXWDM", 0.6},
		{"STXEMG", 0.4},
	},
	{model.OutlookNegative, true}: {
		{"STXDIV", 0.5},
		{"STXPRO", 0.3},
		{"STX40", 0.2},
	},
	{model.OutlookNegative, false}: {
		{"STX40", 0.7},
		{"STXDIV", 0.3},
	},
}

// Tickers returns every catalog ticker, for quote prefetching.
func Tickers() []string {
	out := make([]string, 0, len(Catalog))
	for t := range Catalog {
		out = append(out, t)
	}
	return out
}
