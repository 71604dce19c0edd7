package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creditcore/loan-advisor/internal/advisor"
	"github.com/creditcore/loan-advisor/pkg/constants"
	"github.com/creditcore/loan-advisor/pkg/loans"
	"github.com/creditcore/loan-advisor/pkg/products"
	"go.uber.org/zap"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	catalog, err := products.NewCatalog([]products.Product{
		{
			Name:              "Consumer Loan",
			AnnualRatePercent: 10.0,
			MinAmount:         10_000_000,
			MaxAmount:         500_000_000,
			MinTermMonths:     6,
			MaxTermMonths:     84,
			MinMonthlyIncome:  5_000_000,
		},
	})
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}

	adv := advisor.NewAdvisor(zap.NewNop(), catalog, nil)
	return NewHandler(zap.NewNop(), adv, nil, constants.DefaultMaxRequestBytes, "test")
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandlePaymentWithProduct(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/payment",
		`{"product":"Consumer Loan","principal":100000000,"termMonths":60,"method":"annuity"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var summary loans.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.MonthlyPayment < 2_124_000 || summary.MonthlyPayment > 2_125_500 {
		t.Errorf("MonthlyPayment = %.2f, expected around 2124700", summary.MonthlyPayment)
	}
}

func TestHandlePaymentFlatWithExplicitRate(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/payment",
		`{"principal":100000000,"annualRatePercent":10,"termMonths":60,"method":"flat"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var summary loans.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.MonthlyPayment != 2_500_000 {
		t.Errorf("MonthlyPayment = %.2f, expected exactly 2500000", summary.MonthlyPayment)
	}
}

func TestHandlePaymentBadMethod(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/payment",
		`{"principal":100000000,"annualRatePercent":10,"termMonths":60,"method":"bullet"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandlePaymentRejectsGet(t *testing.T) {
	handler := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/payment", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleSchedule(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/schedule",
		`{"product":"Consumer Loan","principal":100000000,"termMonths":60}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp scheduleResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rows) != 60 {
		t.Fatalf("len(rows) = %d, expected 60", len(resp.Rows))
	}
	if resp.Rows[0].Period != 1 {
		t.Errorf("first period = %d, expected 1", resp.Rows[0].Period)
	}
	if resp.Rows[59].RemainingBalance > 5.0 {
		t.Errorf("final balance = %.2f, expected ~0", resp.Rows[59].RemainingBalance)
	}
}

func TestHandleScheduleDegenerateTerm(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/schedule",
		`{"principal":100000000,"annualRatePercent":10,"termMonths":0}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleEligibility(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/eligibility",
		`{"monthlyIncome":20000000,"monthlyPayment":2124700,"minimumIncome":5000000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp eligibilityResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Eligible {
		t.Error("expected eligible verdict")
	}
	if resp.DebtToIncomeRatio < 0.105 || resp.DebtToIncomeRatio > 0.107 {
		t.Errorf("DebtToIncomeRatio = %f, expected about 0.1062", resp.DebtToIncomeRatio)
	}
}

func TestHandleEligibilityZeroIncome(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/eligibility",
		`{"monthlyIncome":0,"monthlyPayment":2124700,"minimumIncome":5000000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp eligibilityResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.DebtToIncomeRatio != 1.0 {
		t.Errorf("DebtToIncomeRatio = %f, expected sentinel 1.0", resp.DebtToIncomeRatio)
	}
	if resp.Eligible {
		t.Error("expected ineligible verdict for zero income")
	}
}

func TestHandleQuote(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/quote",
		`{"product":"Consumer Loan","principal":100000000,"termMonths":60,"method":"annuity","monthlyIncome":20000000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var quote advisor.Quote
	if err := json.Unmarshal(rr.Body.Bytes(), &quote); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !quote.Eligible {
		t.Error("expected eligible quote")
	}
	if len(quote.Advice) == 0 {
		t.Error("expected advice lines in quote")
	}
}

func TestHandleQuoteUnknownProduct(t *testing.T) {
	handler := testHandler(t)

	rr := postJSON(t, handler, "/api/quote",
		`{"product":"Yacht Loan","principal":100000000,"termMonths":60,"method":"annuity","monthlyIncome":20000000}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleProducts(t *testing.T) {
	handler := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp productsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].Name != "Consumer Loan" {
		t.Errorf("Products = %+v, expected the catalog entry", resp.Products)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test" {
		t.Errorf("version = %q, expected test", resp["version"])
	}
}

func TestHandlePaymentOversizedBody(t *testing.T) {
	catalog, err := products.NewCatalog([]products.Product{{Name: "Consumer Loan", AnnualRatePercent: 10}})
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	adv := advisor.NewAdvisor(zap.NewNop(), catalog, nil)
	handler := NewHandler(zap.NewNop(), adv, nil, 16, "test")

	rr := postJSON(t, handler, "/api/payment",
		`{"principal":100000000,"annualRatePercent":10,"termMonths":60}`)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}
