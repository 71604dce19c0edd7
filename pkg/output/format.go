// Package output provides utilities for formatting and displaying quotes and
// amortization schedules.
package output

import (
	"fmt"
	"io"

	"github.com/creditcore/loan-advisor/internal/advisor"
	"github.com/creditcore/loan-advisor/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable quote.
func PrettyFormat(w io.Writer, quote advisor.Quote, schedule loans.Schedule) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "--- Quote for product %s (%s) ---\n", quote.Product, quote.Method)
	_, _ = p.Fprintf(w, "Monthly payment:  %.2f\n", quote.Summary.MonthlyPayment)
	_, _ = p.Fprintf(w, "Total paid:       %.2f\n", quote.Summary.TotalPaid)
	_, _ = p.Fprintf(w, "Total interest:   %.2f\n", quote.Summary.TotalInterest)
	fmt.Fprintf(w, "DTI:              %.1f%%\n", quote.Verdict.DebtToIncomeRatio*100)
	fmt.Fprintf(w, "Passes DTI:       %t\n", quote.Verdict.PassesDTIThreshold)
	fmt.Fprintf(w, "Passes income:    %t\n", quote.Verdict.PassesMinimumIncome)
	fmt.Fprintf(w, "Eligible:         %t\n", quote.Eligible)

	for _, warning := range quote.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	if len(quote.Advice) > 0 {
		fmt.Fprintf(w, "\n")
		for _, line := range quote.Advice {
			fmt.Fprintf(w, "%s\n", line)
		}
	}

	if len(schedule) > 0 {
		fmt.Fprintf(w, "\nPeriod | Payment       | Interest      | Principal     | Remaining\n")
		fmt.Fprintf(w, "______ | _____________ | _____________ | _____________ | _____________\n")
		for _, row := range schedule {
			_, _ = p.Fprintf(w, "%6d | %13.2f | %13.2f | %13.2f | %13.2f\n",
				row.Period, row.Payment, row.Interest, row.Principal, row.RemainingBalance)
		}
	}
}

// CsvFormat outputs the schedule in comma-separated value format.
func CsvFormat(w io.Writer, schedule loans.Schedule) {
	fmt.Fprintf(w, `"period","payment","interest","principal","remaining"`)
	fmt.Fprintf(w, "\n")
	for _, row := range schedule {
		fmt.Fprintf(w, `"%d","%.2f","%.2f","%.2f","%.2f"`,
			row.Period, row.Payment, row.Interest, row.Principal, row.RemainingBalance)
		fmt.Fprintf(w, "\n")
	}
}
