// Package server exposes the loan engine over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/creditcore/loan-advisor/internal/advisor"
	"github.com/creditcore/loan-advisor/pkg/constants"
	"github.com/creditcore/loan-advisor/pkg/loans"
	"github.com/creditcore/loan-advisor/pkg/products"
	"go.uber.org/zap"
)

type handler struct {
	logger          *zap.Logger
	advisor         *advisor.Advisor
	maxRequestBytes int64
	version         string
}

// NewHandler constructs the HTTP handler that serves the loan API.
func NewHandler(logger *zap.Logger, adv *advisor.Advisor, limiter *RateLimiter, maxRequestBytes int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestBytes <= 0 {
		maxRequestBytes = constants.DefaultMaxRequestBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, advisor: adv, maxRequestBytes: maxRequestBytes, version: trimmedVersion}

	mux := http.NewServeMux()

	// Single-operation endpoints
	mux.HandleFunc("/api/payment", h.handlePayment)
	mux.HandleFunc("/api/schedule", h.handleSchedule)
	mux.HandleFunc("/api/eligibility", h.handleEligibility)

	// Full advisory quote
	mux.HandleFunc("/api/quote", h.handleQuote)

	// Catalog and metadata
	mux.HandleFunc("/api/products", h.handleProducts)
	mux.HandleFunc("/api/version", h.handleVersion)

	return RateLimitMiddleware(limiter, mux)
}

type paymentRequest struct {
	Product           string  `json:"product,omitempty"`
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent,omitempty"`
	TermMonths        int     `json:"termMonths"`
	Method            string  `json:"method,omitempty"`
}

type eligibilityRequest struct {
	MonthlyIncome  float64 `json:"monthlyIncome"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	MinimumIncome  float64 `json:"minimumIncome"`
	DTIThreshold   float64 `json:"dtiThreshold,omitempty"`
}

type eligibilityResponse struct {
	loans.Verdict
	Eligible bool `json:"eligible"`
}

type scheduleResponse struct {
	Rows loans.Schedule `json:"rows"`
}

type productsResponse struct {
	Products []products.Product `json:"products"`
}

// resolveRate substitutes the catalog rate when a product name is supplied.
func (h *handler) resolveRate(req paymentRequest) (float64, error) {
	if req.Product == "" {
		return req.AnnualRatePercent, nil
	}
	product, err := h.advisor.Catalog().Find(req.Product)
	if err != nil {
		return 0, err
	}
	return product.AnnualRatePercent, nil
}

func (h *handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	method := loans.MethodAnnuity
	if req.Method != "" {
		var err error
		method, err = loans.ParseMethod(req.Method)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rate, err := h.resolveRate(req)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := loans.Summarize(req.Principal, rate, req.TermMonths, method)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	rate, err := h.resolveRate(req)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	generator := loans.NewScheduleGenerator(h.logger)
	schedule, err := generator.GenerateSchedule(req.Principal, rate, req.TermMonths)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, scheduleResponse{Rows: schedule})
}

func (h *handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	var req eligibilityRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	threshold := req.DTIThreshold
	if threshold == 0 {
		threshold = constants.DefaultDTIThreshold
	}

	verdict := loans.EvaluateEligibility(req.MonthlyIncome, req.MonthlyPayment, req.MinimumIncome, threshold)
	h.respondJSON(w, http.StatusOK, eligibilityResponse{Verdict: verdict, Eligible: verdict.Eligible()})
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req advisor.QuoteRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	quote, err := h.advisor.Quote(r.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, products.ErrUnknownProduct) {
			status = http.StatusNotFound
		}
		h.respondError(w, status, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, quote)
}

func (h *handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}

	h.respondJSON(w, http.StatusOK, productsResponse{Products: h.advisor.Catalog().Products()})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// decodeRequest enforces POST, bounds the body size, and decodes JSON into
// dst. It writes the error response itself and reports success.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		h.respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestBytes))
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse request: %v", err))
		return false
	}

	return true
}

func (h *handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.respondJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
