package intake

import "PortfolioPilot/internal/model"

// Field identifies one slot of the user profile, in canonical fill order.
type Field int

const (
	FieldGoal Field = iota
	FieldHorizon
	FieldRisk
	FieldIncome
	FieldAmount
	FieldType
	FieldMonthly
	fieldDone
)

// ReplyAlreadyDone is returned for any input after the profile is complete.
const ReplyAlreadyDone = "Your recommendation is already complete. Send /restart to begin a new one."

var prompts = map[Field]string{
	FieldGoal:    "What is your investment goal? (e.g. retirement, saving for a house)",
	FieldHorizon: "How many years do you plan to stay invested? (1-50)",
	FieldRisk:    "What is your risk tolerance? (low, medium or high)",
	FieldIncome:  "Do you need your investment to pay out an income? (yes or no)",
	FieldAmount:  "How much would you like to invest? (e.g. R10,000)",
	FieldType:    "Is this a once-off or monthly investment? (once-off or monthly)",
	FieldMonthly: "How much will you contribute each month? (e.g. R1,000)",
}

var reprompts = map[Field]string{
	FieldGoal:    "Please tell me a little about your investment goal.",
	FieldHorizon: "Please give a whole number of years between 1 and 50, e.g. \"10\".",
	FieldRisk:    "Please answer low, medium or high.",
	FieldIncome:  "Please answer yes or no.",
	FieldAmount:  "Please give a positive amount, e.g. \"R10,000\" or \"10000\".",
	FieldType:    "Please answer once-off or monthly.",
	FieldMonthly: "Please give a positive monthly amount, e.g. \"R1,000\".",
}

// Prompt returns the question asked for a field.
func Prompt(f Field) string { return prompts[f] }

// PendingField returns the first unset required field in canonical order, or
// fieldDone when the profile is complete.
func PendingField(p *model.UserProfile) Field {
	switch {
	case p.InvestmentGoal == "":
		return FieldGoal
	case p.TimeHorizonYears == 0:
		return FieldHorizon
	case p.RiskTolerance == "":
		return FieldRisk
	case p.IncomeNeeds == nil:
		return FieldIncome
	case !p.InvestmentAmount.IsPositive():
		return FieldAmount
	case p.InvestmentType == "":
		return FieldType
	case p.InvestmentType == model.InvestMonthly && !p.MonthlyAmount.IsPositive():
		return FieldMonthly
	}
	return fieldDone
}

// Advance dispatches one raw input to the pending field's validator.
//
// Invalid input returns the profile unchanged with a re-prompt. Valid input
// returns the profile with the field set and the prompt for the next field.
// When the profile becomes complete, terminal is true and prompt is empty:
// the caller renders the allocation advice as the terminal message. Further
// input on a complete profile yields a fixed reply and changes nothing.
// Advance is idempotent given the same (profile, input) pair.
func Advance(p model.UserProfile, input string) (model.UserProfile, string, bool) {
	field := PendingField(&p)
	if field == fieldDone {
		return p, ReplyAlreadyDone, true
	}

	switch field {
	case FieldGoal:
		goal, ok := ParseGoal(input)
		if !ok {
			return p, reprompts[field], false
		}
		p.InvestmentGoal = goal
	case FieldHorizon:
		years, ok := ParseHorizon(input)
		if !ok {
			return p, reprompts[field], false
		}
		p.TimeHorizonYears = years
	case FieldRisk:
		risk, ok := ParseRiskTolerance(input)
		if !ok {
			return p, reprompts[field], false
		}
		p.RiskTolerance = risk
	case FieldIncome:
		needs, ok := ParseYesNo(input)
		if !ok {
			return p, reprompts[field], false
		}
		p.IncomeNeeds = &needs
	case FieldAmount:
		amount, ok := ParseAmount(input)
		if !ok {
			return p, reprompts[field], false
		}
		p.InvestmentAmount = amount
	case FieldType:
		typ, ok := ParseInvestmentType(input)
		if !ok {
			return p, reprompts[field], false
		}
		p.InvestmentType = typ
	case FieldMonthly:
		amount, ok := ParseAmount(input)
		if !ok {
			return p, reprompts[field], false
		}
		p.MonthlyAmount = amount
	}

	next := PendingField(&p)
	if next == fieldDone {
		return p, "", true
	}
	return p, prompts[next], false
}
