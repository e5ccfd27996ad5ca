package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"PortfolioPilot/internal/model"
)

// flakyFetcher fails market conditions and a chosen subset of instruments.
type flakyFetcher struct {
	failConditions bool
	failTickers    map[string]bool
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchMarketConditions(_ context.Context) (model.MarketConditions, error) {
	if f.failConditions {
		return model.MarketConditions{}, errors.New("provider down")
	}
	return model.MarketConditions{Outlook: model.OutlookNegative, VolatilityIndex: model.Float(28)}, nil
}

func (f *flakyFetcher) FetchInstrumentData(_ context.Context, ticker string) (model.Quote, error) {
	if f.failTickers[ticker] {
		return model.Quote{}, errors.New("quote unavailable")
	}
	return model.Quote{Price: model.Float(42)}, nil
}

func TestBuildContext_ConditionsFailureDegradesToDefaults(t *testing.T) {
	col := NewCollector(&flakyFetcher{failConditions: true}, time.Second)
	mc := col.BuildContext(context.Background(), []string{"STX40"})

	if mc.Conditions.Outlook != model.OutlookPositive {
		t.Errorf("expected default positive outlook, got %s", mc.Conditions.Outlook)
	}
	if mc.Conditions.VolatilityIndex != nil {
		t.Error("default conditions should carry no volatility reading")
	}
}

func TestBuildContext_PerInstrumentFailureIsolated(t *testing.T) {
	col := NewCollector(&flakyFetcher{failTickers: map[string]bool{"STXDIV": true}}, time.Second)
	mc := col.BuildContext(context.Background(), []string{"STX40", "STXDIV", "STXGOV"})

	if len(mc.Quotes) != 3 {
		t.Fatalf("expected 3 quote entries, got %d", len(mc.Quotes))
	}
	if q := mc.Quotes["STX40"]; q.Price == nil || *q.Price != 42 {
		t.Errorf("healthy instrument lost its quote: %+v", q)
	}
	if q := mc.Quotes["STXDIV"]; q.Price != nil {
		t.Errorf("failed instrument should have empty quote, got %+v", q)
	}
	if mc.Conditions.Outlook != model.OutlookNegative {
		t.Errorf("conditions should survive instrument failures, got %s", mc.Conditions.Outlook)
	}
}

func TestBuildContext_StaticFetcherCoversCatalog(t *testing.T) {
	col := NewCollector(NewStaticFetcher(), time.Second)
	mc := col.BuildContext(context.Background(), []string{"STX40", "STXWDM", "STXGOV"})

	for _, ticker := range []string{"STX40", "STXWDM", "STXGOV"} {
		q, ok := mc.Quotes[ticker]
		if !ok || q.Price == nil {
			t.Errorf("static fetcher missing quote for %s", ticker)
		}
	}
	if mc.Conditions.Outlook != model.OutlookPositive {
		t.Errorf("static outlook = %s, want positive", mc.Conditions.Outlook)
	}
}

func TestCache_Expiry(t *testing.T) {
	cache := &Cache{}
	if _, ok := cache.Get(time.Minute); ok {
		t.Error("empty cache should miss")
	}

	mc := model.DefaultContext()
	cache.Set(mc)
	if got, ok := cache.Get(time.Minute); !ok || got != mc {
		t.Error("fresh snapshot should hit")
	}

	mc.FetchedAt = time.Now().Add(-2 * time.Minute)
	if _, ok := cache.Get(time.Minute); ok {
		t.Error("stale snapshot should miss")
	}
}
