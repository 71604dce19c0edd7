// Package advisor assembles loan quotes: payment figures, an eligibility
// verdict, product-bounds warnings, and the rule-based advisory text.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/creditcore/loan-advisor/internal/cache"
	"github.com/creditcore/loan-advisor/pkg/constants"
	"github.com/creditcore/loan-advisor/pkg/loans"
	"github.com/creditcore/loan-advisor/pkg/products"
	"go.uber.org/zap"
)

// QuoteRequest holds the caller-supplied parameters for a quote.
type QuoteRequest struct {
	Product       string       `json:"product"`
	Principal     float64      `json:"principal"`
	TermMonths    int          `json:"termMonths"`
	Method        loans.Method `json:"method"`
	MonthlyIncome float64      `json:"monthlyIncome"`
	DTIThreshold  float64      `json:"dtiThreshold,omitempty"`
}

// Quote is the full advisory response for a request.
type Quote struct {
	Product           string        `json:"product"`
	Method            loans.Method  `json:"method"`
	Summary           loans.Summary `json:"summary"`
	Verdict           loans.Verdict `json:"verdict"`
	Eligible          bool          `json:"eligible"`
	Warnings          []string      `json:"warnings,omitempty"`
	Advice            []string      `json:"advice"`
	RequiredDocuments []string      `json:"requiredDocuments,omitempty"`
}

// Advisor computes quotes against a product catalog, optionally caching the
// results.
type Advisor struct {
	logger    *zap.Logger
	catalog   *products.Catalog
	cache     cache.Cache
	generator *loans.ScheduleGenerator
}

// NewAdvisor creates an Advisor. The cache may be nil to disable caching.
func NewAdvisor(logger *zap.Logger, catalog *products.Catalog, quoteCache cache.Cache) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{
		logger:    logger,
		catalog:   catalog,
		cache:     quoteCache,
		generator: loans.NewScheduleGenerator(logger),
	}
}

// Catalog exposes the underlying product catalog.
func (a *Advisor) Catalog() *products.Catalog {
	return a.catalog
}

// Quote computes the full advisory response for a request. Identical
// requests are served from the cache when one is configured.
func (a *Advisor) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	product, err := a.catalog.Find(req.Product)
	if err != nil {
		return Quote{}, err
	}
	if !req.Method.Valid() {
		return Quote{}, fmt.Errorf("unknown repayment method %d", int(req.Method))
	}

	threshold := req.DTIThreshold
	if threshold == 0 {
		threshold = constants.DefaultDTIThreshold
	}

	key := quoteKey(req, threshold)
	if a.cache != nil {
		if cached, ok := a.cache.Get(ctx, key); ok {
			var quote Quote
			if err := json.Unmarshal([]byte(cached), &quote); err == nil {
				a.logger.Debug("serving quote from cache",
					zap.String("op", "advisor.Quote"),
					zap.String("key", key),
				)
				return quote, nil
			}
			a.logger.Warn("discarding undecodable cached quote",
				zap.String("op", "advisor.Quote"),
				zap.String("key", key),
			)
		}
	}

	summary, err := loans.Summarize(req.Principal, product.AnnualRatePercent, req.TermMonths, req.Method)
	if err != nil {
		return Quote{}, err
	}

	verdict := loans.EvaluateEligibility(req.MonthlyIncome, summary.MonthlyPayment, product.MinMonthlyIncome, threshold)
	warnings := products.ValidateRequest(product, req.Principal, req.TermMonths, req.MonthlyIncome)

	quote := Quote{
		Product:           product.Name,
		Method:            req.Method,
		Summary:           summary,
		Verdict:           verdict,
		Eligible:          verdict.Eligible(),
		Warnings:          warnings,
		Advice:            buildAdvice(product, req, summary, verdict, threshold),
		RequiredDocuments: product.RequiredDocuments,
	}

	if a.cache != nil {
		if encoded, err := json.Marshal(quote); err == nil {
			if err := a.cache.Set(ctx, key, string(encoded)); err != nil {
				a.logger.Warn("failed to cache quote",
					zap.String("op", "advisor.Quote"),
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}

	return quote, nil
}

// Schedule expands the amortization table for a request. The table always
// follows the annuity payment regardless of the quote's repayment method.
func (a *Advisor) Schedule(_ context.Context, req QuoteRequest) (loans.Schedule, error) {
	product, err := a.catalog.Find(req.Product)
	if err != nil {
		return nil, err
	}
	return a.generator.GenerateSchedule(req.Principal, product.AnnualRatePercent, req.TermMonths)
}

// quoteKey fingerprints a request so identical inputs hit the same cache
// entry.
func quoteKey(req QuoteRequest, threshold float64) string {
	return fmt.Sprintf("quote:%s:%.2f:%d:%s:%.2f:%.4f",
		req.Product, req.Principal, req.TermMonths, req.Method, req.MonthlyIncome, threshold)
}

func buildAdvice(product products.Product, req QuoteRequest, summary loans.Summary, verdict loans.Verdict, threshold float64) []string {
	lines := []string{
		"Quick simulation results:",
		fmt.Sprintf("- Product: %s", product.Name),
		fmt.Sprintf("- Amount: %.0f; Term: %d months; Rate: %.2f%%/year",
			req.Principal, req.TermMonths, product.AnnualRatePercent),
		fmt.Sprintf("- Estimated monthly payment: %.0f (%s)", summary.MonthlyPayment, req.Method),
		fmt.Sprintf("- Total paid over the term: %.0f; total interest: %.0f",
			summary.TotalPaid, summary.TotalInterest),
		fmt.Sprintf("- Debt-to-income ratio (DTI): %.1f%% (threshold: %.0f%%)",
			verdict.DebtToIncomeRatio*100, threshold*100),
	}

	if verdict.Eligible() {
		lines = append(lines, "- Based on this simulation you may meet the basic income and DTI requirements.")
	} else {
		lines = append(lines, "- Based on this simulation you do not meet the basic requirements. Consider a smaller amount, a longer term, or documenting additional income.")
	}

	if len(product.RequiredDocuments) > 0 {
		lines = append(lines, fmt.Sprintf("- Documents to prepare: %s", strings.Join(product.RequiredDocuments, ", ")))
	}
	lines = append(lines, "- Next steps: visit a branch for detailed advice, submit your documents and income statements, and wait for the credit assessment.")

	return lines
}
