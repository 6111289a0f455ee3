package service

const (
	MaxContributionAmount = 1_000_000_000.0 // 1 billón por aporte
	MaxAnnualRatePercent  = 100.0           // 100% anual
	MaxDurationYears      = 100.0           // 100 años
	MaxScheduleYears      = 1000            // entradas máximas de un cronograma

	DefaultInflationPoints = 6.0 // puntos restados a la tasa anual al ajustar por inflación

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Field names used in validation errors.
const (
	FieldContributionAmount   = "contributionAmount"
	FieldAnnualRatePercent    = "annualRatePercent"
	FieldDurationYears        = "durationYears"
	FieldCompoundingFrequency = "compoundingFrequency"
)
