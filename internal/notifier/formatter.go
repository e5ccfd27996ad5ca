package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"PortfolioPilot/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatAdvice renders an allocation plan and its analysis into a chat
// message.
func FormatAdvice(p *model.UserProfile, plan *model.AllocationPlan, analysis *model.MarketAnalysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Your Investment Recommendation</b> | %s\n\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Goal: %s\n", p.InvestmentGoal))
	b.WriteString(fmt.Sprintf("Amount: %s (%s)\n", FormatRand(p.InvestmentAmount), p.InvestmentType))
	if p.InvestmentType == model.InvestMonthly {
		b.WriteString(fmt.Sprintf("Monthly contribution: %s\n", FormatRand(p.MonthlyAmount)))
	}
	b.WriteString(fmt.Sprintf("Horizon: %d years | Risk: %s\n\n", p.TimeHorizonYears, p.RiskTolerance))

	b.WriteString(fmt.Sprintf("%s\n\n", analysis.Narrative))

	b.WriteString("💼 <b>Suggested portfolio:</b>\n")
	for _, ticker := range sortedByWeight(plan) {
		h := plan.Holdings[ticker]
		b.WriteString(fmt.Sprintf("  %s: %.1f%% — %s\n", ticker, h.Weight*100, h.Description))
		if h.Price != nil {
			line := fmt.Sprintf("      R%.2f", *h.Price)
			if h.ChangePct != nil {
				line += fmt.Sprintf(" (%+.1f%% today)", *h.ChangePct)
			}
			if h.ThreeMonthReturn != nil {
				line += fmt.Sprintf(", %+.1f%% over 3 months", *h.ThreeMonthReturn)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n🔍 <b>Market factors:</b>\n")
	for _, f := range analysis.Factors {
		b.WriteString(fmt.Sprintf("  %s: %s\n", f.Factor, f.Impact))
	}

	b.WriteString("\n📝 <b>Why this mix:</b>\n")
	for _, line := range analysis.Rationale {
		b.WriteString(fmt.Sprintf("  • %s\n", line))
	}

	if analysis.ProjectedValue != nil {
		b.WriteString(fmt.Sprintf("\n📈 Projected value after %d years: <b>R%s</b>\n",
			p.TimeHorizonYears, humanize.Commaf(float64(int64(*analysis.ProjectedValue)))))
	}

	b.WriteString("\nSend /restart for a fresh recommendation, or /feedback to tell us how we did.")
	return b.String()
}

// FormatMarketSummary renders the current market context for the /market
// command.
func FormatMarketSummary(mc *model.MarketContext) string {
	var b strings.Builder
	b.WriteString("🌍 <b>Market snapshot</b>\n\n")
	b.WriteString(fmt.Sprintf("Outlook: %s\n", mc.Conditions.Outlook))
	if mc.Conditions.VolatilityIndex != nil {
		b.WriteString(fmt.Sprintf("Volatility index: %.1f\n", *mc.Conditions.VolatilityIndex))
	} else {
		b.WriteString("Volatility index: unavailable\n")
	}

	tickers := make([]string, 0, len(mc.Quotes))
	for t := range mc.Quotes {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	for _, t := range tickers {
		q := mc.Quotes[t]
		if q.Price == nil {
			b.WriteString(fmt.Sprintf("%s: no data\n", t))
			continue
		}
		line := fmt.Sprintf("%s: R%.2f", t, *q.Price)
		if q.ChangePct != nil {
			line += fmt.Sprintf(" (%+.1f%%)", *q.ChangePct)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(fmt.Sprintf("\nAs of %s", mc.FetchedAt.Format("2006-01-02 15:04")))
	return b.String()
}

// FormatRand renders a decimal amount as rand with thousands grouping.
func FormatRand(d decimal.Decimal) string {
	return "R" + humanize.Commaf(d.InexactFloat64())
}

func sortedByWeight(plan *model.AllocationPlan) []string {
	tickers := make([]string, 0, len(plan.Holdings))
	for t := range plan.Holdings {
		tickers = append(tickers, t)
	}
	sort.Slice(tickers, func(i, j int) bool {
		wi, wj := plan.Holdings[tickers[i]].Weight, plan.Holdings[tickers[j]].Weight
		if wi != wj {
			return wi > wj
		}
		return tickers[i] < tickers[j]
	})
	return tickers
}
