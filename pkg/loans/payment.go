package loans

import (
	"fmt"
	"math"

	"github.com/creditcore/loan-advisor/pkg/constants"
	"github.com/creditcore/loan-advisor/pkg/mathutil"
)

// CalculateMonthlyPayment calculates the constant monthly payment for a loan.
//
// For MethodAnnuity the standard amortization formula is used; a zero
// interest rate degenerates to a linear division of the principal. For
// MethodFlat the interest portion is charged on the original principal every
// month. A non-positive term yields a zero payment rather than an error,
// while an unknown method fails fast.
func CalculateMonthlyPayment(principal, annualRatePercent float64, termMonths int, method Method) (float64, error) {
	if termMonths <= 0 {
		return 0, nil
	}

	monthlyRate := annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)

	switch method {
	case MethodAnnuity:
		if monthlyRate == 0 {
			return principal / float64(termMonths), nil
		}
		return principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(termMonths))), nil
	case MethodFlat:
		return principal/float64(termMonths) + principal*monthlyRate, nil
	default:
		return 0, fmt.Errorf("unknown repayment method %d", int(method))
	}
}

// CalculateInterestPayment calculates the interest portion of a payment
// against the given remaining balance.
func CalculateInterestPayment(remainingBalance, annualRatePercent float64) float64 {
	return remainingBalance * annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// Summary holds the headline figures for a loan quote.
type Summary struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPaid      float64 `json:"totalPaid"`
	TotalInterest  float64 `json:"totalInterest"`
}

// Summarize computes the monthly payment plus the total paid and total
// interest over the full term, rounded to currency precision for display.
func Summarize(principal, annualRatePercent float64, termMonths int, method Method) (Summary, error) {
	payment, err := CalculateMonthlyPayment(principal, annualRatePercent, termMonths, method)
	if err != nil {
		return Summary{}, err
	}
	if termMonths <= 0 {
		return Summary{}, nil
	}

	totalPaid := payment * float64(termMonths)
	return Summary{
		MonthlyPayment: mathutil.Round(payment),
		TotalPaid:      mathutil.Round(totalPaid),
		TotalInterest:  mathutil.Round(totalPaid - principal),
	}, nil
}
