package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"sip-calculator/domain"
)

// contributionsPerYear is the SIP cadence. It does not depend on the
// compounding frequency.
const contributionsPerYear = 12

// plan is a validated input resolved to per-period terms. The monthly
// contributions falling in one compounding period are deposited together at
// its start, so deposit is contribution * 12 / periodsPerYear.
type plan struct {
	contribution   float64
	deposit        float64
	ratePerPeriod  float64
	periodsPerYear float64
}

func periodsPerYear(f domain.Frequency) (float64, error) {
	switch f {
	case "", domain.FrequencyMonthly:
		return 12, nil
	case domain.FrequencyQuarterly:
		return 4, nil
	case domain.FrequencyAnnually:
		return 1, nil
	}
	return 0, domain.NewValidationError(FieldCompoundingFrequency, domain.ReasonUnsupported)
}

func checkPositive(field string, v float64) error {
	if math.IsNaN(v) {
		return domain.NewValidationError(field, domain.ReasonNotNumber)
	}
	if v <= 0 {
		return domain.NewValidationError(field, domain.ReasonNotPositive)
	}
	return nil
}

func resolve(input domain.ProjectionInput) (plan, error) {
	if err := checkPositive(FieldContributionAmount, input.ContributionAmount); err != nil {
		return plan{}, err
	}
	if err := checkPositive(FieldAnnualRatePercent, input.AnnualRatePercent); err != nil {
		return plan{}, err
	}
	if err := checkPositive(FieldDurationYears, input.DurationYears); err != nil {
		return plan{}, err
	}
	ppy, err := periodsPerYear(input.CompoundingFrequency)
	if err != nil {
		return plan{}, err
	}
	return plan{
		contribution:   input.ContributionAmount,
		deposit:        input.ContributionAmount * contributionsPerYear / ppy,
		ratePerPeriod:  input.AnnualRatePercent / ppy / 100,
		periodsPerYear: ppy,
	}, nil
}

// at returns the unrounded invested amount and future value after the given
// number of years.
func (p plan) at(years float64) (invested, value float64, err error) {
	if !(p.ratePerPeriod > 0) {
		return 0, 0, domain.NewValidationError(FieldAnnualRatePercent, domain.ReasonNotPositive)
	}
	r := p.ratePerPeriod
	n := years * p.periodsPerYear

	// (1+r)^n - 1, accurate for r close to zero.
	growth := math.Expm1(n * math.Log1p(r))
	value = p.deposit * growth / r * (1 + r)
	invested = p.contribution * contributionsPerYear * years

	if !finite(value) || !finite(invested) {
		return 0, 0, fmt.Errorf("project %g years: %w", years, domain.ErrUnrepresentable)
	}
	return invested, value, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundUnits rounds half away from zero to a whole currency unit.
func roundUnits(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// Project computes the future value of a monthly SIP as an annuity-due.
//
//	FV = P * ((1+r)^n - 1) / r * (1+r)
//
// where r is the rate per compounding period, n the number of periods and P
// the contributions made during one period (the monthly amount when
// compounding monthly).
// It is a pure function and safe for concurrent use.
func Project(input domain.ProjectionInput) (domain.ProjectionResult, error) {
	p, err := resolve(input)
	if err != nil {
		return domain.ProjectionResult{}, err
	}

	invested, value, err := p.at(input.DurationYears)
	if err != nil {
		return domain.ProjectionResult{}, err
	}

	totalInvested := roundUnits(invested)
	totalValue := roundUnits(value)

	return domain.ProjectionResult{
		TotalInvested:    totalInvested,
		EstimatedReturns: totalValue - totalInvested,
		TotalValue:       totalValue,
	}, nil
}

// Schedule returns one entry per elapsed year. A fractional duration gets a
// final entry at the exact duration, so the last entry always agrees with
// Project.
func Schedule(input domain.ProjectionInput) ([]domain.YearlyBreakdown, error) {
	p, err := resolve(input)
	if err != nil {
		return nil, err
	}
	if input.DurationYears > MaxScheduleYears {
		return nil, domain.NewValidationError(FieldDurationYears, domain.ReasonTooLarge)
	}

	years := int(math.Ceil(input.DurationYears))
	out := make([]domain.YearlyBreakdown, 0, years)

	for year := 1; year <= years; year++ {
		elapsed := math.Min(float64(year), input.DurationYears)

		invested, value, err := p.at(elapsed)
		if err != nil {
			return nil, err
		}

		out = append(out, domain.YearlyBreakdown{
			Year:               year,
			ElapsedYears:       elapsed,
			CumulativeInvested: roundUnits(invested),
			ProjectedValue:     roundUnits(value),
		})
	}

	return out, nil
}
