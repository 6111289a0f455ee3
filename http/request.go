package http

import (
	"math"
	"strconv"
	"strings"

	"sip-calculator/domain"
	"sip-calculator/service"
)

// numberField accepts a JSON number or a numeric string. It remembers
// whether the key was present and whether the value parsed.
type numberField struct {
	set   bool
	valid bool
	value float64
}

func (n *numberField) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			n.set = true
			return nil
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			// campo vacío del formulario
			return nil
		}
	}

	n.set = true
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.valid = true
	n.value = f
	return nil
}

// calculationPayload accepts every field spelling the calculator front ends
// have used.
type calculationPayload struct {
	MonthlyInvestment      numberField `json:"monthlyInvestment"`
	ContributionAmount     numberField `json:"contributionAmount"`
	MonthlyInvestmentSnake numberField `json:"monthly_investment"`

	AnnualRate        numberField `json:"annualRate"`
	AnnualReturn      numberField `json:"annualReturn"`
	AnnualReturnSnake numberField `json:"annual_return"`
	AnnualRatePercent numberField `json:"annualRatePercent"`

	Years         numberField `json:"years"`
	Duration      numberField `json:"duration"`
	DurationYears numberField `json:"durationYears"`

	CompoundingFrequency string `json:"compoundingFrequency"`
	InflationAdjust      bool   `json:"inflationAdjust"`
	IncludeSchedule      bool   `json:"includeSchedule"`
}

func pick(field string, candidates ...numberField) (float64, error) {
	for _, c := range candidates {
		if !c.set {
			continue
		}
		if !c.valid {
			return 0, domain.NewValidationError(field, domain.ReasonNotNumber)
		}
		return c.value, nil
	}
	return 0, domain.NewValidationError(field, domain.ReasonMissing)
}

func (p calculationPayload) toRequest() (domain.CalculationRequest, error) {
	amount, err := pick(service.FieldContributionAmount,
		p.ContributionAmount, p.MonthlyInvestment, p.MonthlyInvestmentSnake)
	if err != nil {
		return domain.CalculationRequest{}, err
	}
	rate, err := pick(service.FieldAnnualRatePercent,
		p.AnnualRatePercent, p.AnnualRate, p.AnnualReturn, p.AnnualReturnSnake)
	if err != nil {
		return domain.CalculationRequest{}, err
	}
	years, err := pick(service.FieldDurationYears,
		p.DurationYears, p.Years, p.Duration)
	if err != nil {
		return domain.CalculationRequest{}, err
	}

	return domain.CalculationRequest{
		Input: domain.ProjectionInput{
			ContributionAmount:   amount,
			AnnualRatePercent:    rate,
			DurationYears:        years,
			CompoundingFrequency: domain.Frequency(strings.ToLower(strings.TrimSpace(p.CompoundingFrequency))),
		},
		InflationAdjust: p.InflationAdjust,
		IncludeSchedule: p.IncludeSchedule,
	}, nil
}
