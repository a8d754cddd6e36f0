package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/storefront-checkout/internal/checkout"
	"go.uber.org/zap"
)

type Handler struct {
	svc    CheckoutService
	logger *zap.Logger
}

func NewHandler(svc CheckoutService, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

type selectShippingRequest struct {
	MethodID string `json:"methodId"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Session(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionToResponse(sess))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ProductID <= 0 {
		h.writeError(w, r, fmt.Errorf("productId must be positive: %w", errInvalidRequest))
		return
	}

	h.mutate(w, r, func(sess *checkout.Session) error {
		_, err := sess.AddItem(r.Context(), req.ProductID, req.Quantity)
		return err
	})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req updateItemRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.mutate(w, r, func(sess *checkout.Session) error {
		_, err := sess.UpdateQuantity(r.Context(), productID, req.Quantity)
		return err
	})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := productIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.mutate(w, r, func(sess *checkout.Session) error {
		_, err := sess.RemoveItem(r.Context(), productID)
		return err
	})
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.mutate(w, r, func(sess *checkout.Session) error {
		_, err := sess.ApplyCoupon(r.Context(), req.Code)
		return err
	})
}

func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	h.mutate(w, r, func(sess *checkout.Session) error {
		_, err := sess.RemoveCoupon(r.Context(), code)
		return err
	})
}

func (h *Handler) SelectShipping(w http.ResponseWriter, r *http.Request) {
	var req selectShippingRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.mutate(w, r, func(sess *checkout.Session) error {
		_, err := sess.SelectShipping(req.MethodID)
		return err
	})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Checkout(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapCheckoutResultToResponse(result))
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("orderID is not a number: %w", errInvalidRequest))
		return
	}

	order, err := h.svc.ConfirmPayment(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(sess *checkout.Session) error) {
	sess, err := h.svc.Mutate(r.Context(), chi.URLParam(r, "ownerID"), fn)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSessionToResponse(sess))
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", errInvalidRequest)
	}
	return nil
}

func productIDParam(r *http.Request) (int64, error) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		return 0, fmt.Errorf("productID is not a positive number: %w", errInvalidRequest)
	}
	return productID, nil
}
