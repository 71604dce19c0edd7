package loans

// Verdict holds the outcome of the basic affordability screen. The two pass
// flags are reported independently so callers can explain each criterion
// separately.
type Verdict struct {
	DebtToIncomeRatio   float64 `json:"debtToIncomeRatio"`
	PassesDTIThreshold  bool    `json:"passesDtiThreshold"`
	PassesMinimumIncome bool    `json:"passesMinimumIncome"`
}

// Eligible reports whether both criteria passed.
func (v Verdict) Eligible() bool {
	return v.PassesDTIThreshold && v.PassesMinimumIncome
}

// EvaluateEligibility screens a monthly payment against income figures.
//
// The debt-to-income ratio is payment/income. A non-positive income makes
// the ratio undefined; it is treated as a worst-case full burden with a
// saturating ratio of exactly 1.0 rather than an error. The DTI threshold
// is an inclusive upper bound.
func EvaluateEligibility(monthlyIncome, monthlyPayment, minimumIncome, dtiThreshold float64) Verdict {
	dti := 1.0
	if monthlyIncome > 0 {
		dti = monthlyPayment / monthlyIncome
	}

	return Verdict{
		DebtToIncomeRatio:   dti,
		PassesDTIThreshold:  dti <= dtiThreshold,
		PassesMinimumIncome: monthlyIncome >= minimumIncome,
	}
}
