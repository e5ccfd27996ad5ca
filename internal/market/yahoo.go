package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PortfolioPilot/internal/model"
)

// bar is one daily close used for return and outlook calculations.
type bar struct {
	Time   time.Time
	Close  float64
	Volume float64
}

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
type YahooFetcher struct {
	Client           *http.Client
	MarketSymbol     string            // broad index driving the outlook
	VolatilitySymbol string            // volatility index, e.g. ^VIX
	SymbolMap        map[string]string // maps catalog ticker to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy
// support. Catalog tickers are JSE listings, so the default mapping appends
// the .JO suffix.
func NewYahooFetcher(marketSymbol, volatilitySymbol, proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		MarketSymbol:     marketSymbol,
		VolatilitySymbol: volatilitySymbol,
		SymbolMap: map[string]string{
			"STX40":  "STX40.JO",
			"STXDIV": "STXDIV.JO",
			"STXPRO": "STXPRO.JO",
			"STXWDM": "STXWDM.JO",
			"STXEMG": "STXEMG.JO",
			"STXGOV": "STXGOV.JO",
			"GLODIV": "GLODIV.JO",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(ticker string) string {
	if mapped, ok := f.SymbolMap[ticker]; ok {
		return mapped
	}
	return ticker
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]bar, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data")
	}
	quote := result.Indicators.Quote[0]
	bars := make([]bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c := toFloat(quote.Close[i])
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		var vol float64
		if i < len(quote.Volume) {
			vol = toFloat(quote.Volume[i])
		}
		bars = append(bars, bar{Time: time.Unix(ts, 0), Close: c, Volume: vol})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// FetchMarketConditions derives the outlook from the broad index's 3-month
// performance and reads the volatility index's latest level. A missing
// volatility reading degrades to nil rather than failing the call.
func (f *YahooFetcher) FetchMarketConditions(ctx context.Context) (model.MarketConditions, error) {
	bars, err := f.fetchChart(ctx, f.MarketSymbol, "1d", "3mo")
	if err != nil {
		return model.MarketConditions{}, fmt.Errorf("market conditions: %w", err)
	}
	if len(bars) < 2 {
		return model.MarketConditions{}, fmt.Errorf("market conditions: not enough bars for %s", f.MarketSymbol)
	}

	cond := model.MarketConditions{Outlook: model.OutlookNegative}
	if bars[len(bars)-1].Close >= bars[0].Close {
		cond.Outlook = model.OutlookPositive
	}

	if f.VolatilitySymbol != "" {
		if vb, err := f.fetchChart(ctx, f.VolatilitySymbol, "1d", "5d"); err == nil && len(vb) > 0 {
			cond.VolatilityIndex = model.Float(vb[len(vb)-1].Close)
		}
	}
	return cond, nil
}

// FetchInstrumentData returns the latest price, day change, volume and
// 3-month return for one instrument, derived from its daily chart.
func (f *YahooFetcher) FetchInstrumentData(ctx context.Context, ticker string) (model.Quote, error) {
	bars, err := f.fetchChart(ctx, f.yahooSymbol(ticker), "1d", "3mo")
	if err != nil {
		return model.Quote{}, fmt.Errorf("instrument %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return model.Quote{}, fmt.Errorf("instrument %s: no usable bars", ticker)
	}

	q := model.Quote{}
	last := bars[len(bars)-1]
	q.Price = model.Float(last.Close)
	if last.Volume > 0 {
		q.Volume = model.Float(last.Volume)
	}
	if len(bars) >= 2 {
		prev := bars[len(bars)-2].Close
		if prev > 0 {
			q.ChangePct = model.Float((last.Close - prev) / prev * 100)
		}
		first := bars[0].Close
		if first > 0 {
			q.ThreeMonthReturn = model.Float((last.Close - first) / first * 100)
		}
	}
	return q, nil
}
