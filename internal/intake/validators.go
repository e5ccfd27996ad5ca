package intake

import (
	"strconv"
	"strings"

	"PortfolioPilot/internal/model"

	"github.com/shopspring/decimal"
)

// Validators are pure and total: they never return an error, only a value and
// whether the raw text parsed into that field's constraints.

// ParseGoal accepts any non-blank free text as the investment goal anchor.
func ParseGoal(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ParseAmount strips currency symbols and thousands separators, then parses a
// positive decimal. "R10,000.50" and "10000" are both valid.
func ParseAmount(s string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseHorizon strips non-digits and parses an integer number of years,
// valid in the range 1-50.
func ParseHorizon(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n < 1 || n > 50 {
		return 0, false
	}
	return n, true
}

// ParseRiskTolerance matches low/medium/high, case-insensitively.
func ParseRiskTolerance(s string) (model.RiskTolerance, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return model.RiskLow, true
	case "medium":
		return model.RiskMedium, true
	case "high":
		return model.RiskHigh, true
	}
	return "", false
}

// ParseYesNo matches yes/no, case-insensitively.
func ParseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return true, true
	case "no":
		return false, true
	}
	return false, false
}

// ParseInvestmentType matches once-off/monthly, case-insensitively.
func ParseInvestmentType(s string) (model.InvestmentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "once-off":
		return model.InvestOnceOff, true
	case "monthly":
		return model.InvestMonthly, true
	}
	return "", false
}
