package market

import (
	"context"
	"log"
	"sync"
	"time"

	"PortfolioPilot/internal/model"
)

// Collector builds market context snapshots from a Fetcher, degrading to
// defaults on provider failure rather than surfacing errors.
type Collector struct {
	Fetcher Fetcher
	Timeout time.Duration
}

// NewCollector creates a new Collector with an aggregate fetch timeout.
func NewCollector(fetcher Fetcher, timeout time.Duration) *Collector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Collector{Fetcher: fetcher, Timeout: timeout}
}

// BuildContext fetches market conditions plus one quote per ticker, issuing
// the quote fetches concurrently. A conditions failure degrades to the
// default positive/zero-volatility context; a single instrument's failure
// degrades only that instrument's optional fields. Never returns an error.
func (c *Collector) BuildContext(ctx context.Context, tickers []string) *model.MarketContext {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	mc := &model.MarketContext{
		Quotes:    make(map[string]model.Quote, len(tickers)),
		FetchedAt: time.Now(),
	}

	cond, err := c.Fetcher.FetchMarketConditions(ctx)
	if err != nil {
		log.Printf("[WARN] fetch market conditions failed, using defaults: %v", err)
		cond = model.DefaultConditions()
	}
	mc.Conditions = cond

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			q, err := c.Fetcher.FetchInstrumentData(ctx, ticker)
			if err != nil {
				log.Printf("[WARN] fetch quote for %s failed, fields omitted: %v", ticker, err)
				q = model.Quote{}
			}
			mu.Lock()
			mc.Quotes[ticker] = q
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return mc
}

// Cache holds the most recent market context snapshot so a slow upstream
// never blocks a conversation turn.
type Cache struct {
	mu      sync.Mutex
	context *model.MarketContext
}

// Set stores a fresh snapshot.
func (c *Cache) Set(mc *model.MarketContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.context = mc
}

// Get returns the cached snapshot if it is younger than maxAge.
func (c *Cache) Get(maxAge time.Duration) (*model.MarketContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.context == nil || time.Since(c.context.FetchedAt) > maxAge {
		return nil, false
	}
	return c.context, true
}
