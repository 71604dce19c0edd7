package loans

import (
	"fmt"

	"github.com/creditcore/loan-advisor/pkg/constants"
	"github.com/creditcore/loan-advisor/pkg/mathutil"
	"go.uber.org/zap"
)

// ScheduleRow holds the displayed values for a single period of an
// amortization schedule. All monetary fields are rounded to two decimals.
type ScheduleRow struct {
	Period           int     `json:"period"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// Schedule is the full period-by-period breakdown of a loan, ordered by
// ascending period starting at 1.
type Schedule []ScheduleRow

// TotalPaid sums the payment column.
func (s Schedule) TotalPaid() float64 {
	total := 0.0
	for _, row := range s {
		total += row.Payment
	}
	return total
}

// TotalInterest sums the interest column.
func (s Schedule) TotalInterest() float64 {
	total := 0.0
	for _, row := range s {
		total += row.Interest
	}
	return total
}

// ScheduleGenerator produces amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance.
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule simulates the month-by-month balance reduction of a loan
// under the annuity payment and returns one row per period. Schedules are
// always generated for the annuity method; flat loans have no meaningful
// declining-balance breakdown in this model.
//
// The remaining balance carries full float64 precision between periods;
// rounding happens only when a row is built, so rounding error does not
// compound across the term. The displayed balance is floored at zero to
// absorb residual floating-point drift in the final periods.
func (g *ScheduleGenerator) GenerateSchedule(principal, annualRatePercent float64, termMonths int) (Schedule, error) {
	if termMonths < 1 {
		return nil, fmt.Errorf("cannot generate schedule for term of %d months (must be >= 1)", termMonths)
	}
	if termMonths > constants.MaxTermMonths {
		return nil, fmt.Errorf("cannot generate schedule for term of %d months (max %d)", termMonths, constants.MaxTermMonths)
	}

	payment, err := CalculateMonthlyPayment(principal, annualRatePercent, termMonths, MethodAnnuity)
	if err != nil {
		return nil, err
	}

	g.logger.Debug(fmt.Sprintf("generating %d-period schedule with payment %.2f", termMonths, payment),
		zap.String("op", "loans.GenerateSchedule"),
	)

	schedule := make(Schedule, 0, termMonths)
	remaining := principal
	for period := 1; period <= termMonths; period++ {
		interest := CalculateInterestPayment(remaining, annualRatePercent)
		principalPaid := payment - interest
		remaining -= principalPaid
		schedule = append(schedule, ScheduleRow{
			Period:           period,
			Payment:          mathutil.Round(payment),
			Interest:         mathutil.Round(interest),
			Principal:        mathutil.Round(principalPaid),
			RemainingBalance: mathutil.Round(mathutil.Max(0, remaining)),
		})
	}

	return schedule, nil
}
