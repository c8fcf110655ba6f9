package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/logger"

	"github.com/promokit/lucky-wheel/internal/domain"
)

// SpinService is the slice of the usecase layer the HTTP surface needs.
type SpinService interface {
	Spin(ctx context.Context, userID string) (*domain.DrawOutcome, error)
	ListPrizes(ctx context.Context) ([]domain.Prize, error)
}

type SpinRequest struct {
	UserID string `json:"userId"`
}

type SpinResponse struct {
	OK         bool    `json:"ok"`
	PrizeValue string  `json:"prizeValue"`
	PrizeName  string  `json:"prizeName"`
	CouponCode *string `json:"couponCode"`
}

type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type PrizeResponse struct {
	ID    int32  `json:"id"`
	Value string `json:"value"`
	Name  string `json:"name"`
	Stock *int32 `json:"stock"`
}

type Handler struct {
	service SpinService
	limiter func(http.Handler) http.Handler
}

func NewHandler(service SpinService, limiter func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, limiter: limiter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/prizes", h.ListPrizes)
	r.With(h.limiter).Post("/spin", h.Spin)
}

func (h *Handler) ListPrizes(w http.ResponseWriter, r *http.Request) {
	prizes, err := h.service.ListPrizes(r.Context())
	if err != nil {
		logger.Errorf("list prizes: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PrizeResponse, 0, len(prizes))
	for _, p := range prizes {
		resp = append(resp, PrizeResponse{ID: p.ID, Value: p.Value, Name: p.Name, Stock: p.Stock})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	var req SpinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.service.Spin(r.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingUserID):
			writeError(w, http.StatusBadRequest, "userId is required")
		case errors.Is(err, domain.ErrAlreadyPlayed):
			writeError(w, http.StatusBadRequest, "you have already played today")
		default:
			logger.Errorf("spin for user %s: %v", req.UserID, err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	resp := SpinResponse{
		OK:         true,
		PrizeValue: outcome.PrizeValue,
		PrizeName:  outcome.PrizeName,
	}
	if outcome.CouponCode != "" {
		code := outcome.CouponCode
		resp.CouponCode = &code
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{OK: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("encode response: %v", err)
	}
}
