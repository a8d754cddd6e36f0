package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/nikolayk812/storefront-checkout/internal/checkout"
	"github.com/nikolayk812/storefront-checkout/internal/port"
	"go.uber.org/zap"
)

var errInvalidRequest = errors.New("invalid request")

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{errInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{checkout.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{checkout.ErrCurrencyMismatch, http.StatusBadRequest, "currency_mismatch"},
	{checkout.ErrUnknownShippingMethod, http.StatusBadRequest, "unknown_shipping_method"},
	{checkout.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
	{checkout.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{checkout.ErrCouponNotFound, http.StatusNotFound, "coupon_not_found"},
	{checkout.ErrCouponNotApplied, http.StatusNotFound, "coupon_not_applied"},
	{checkout.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{checkout.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
	{checkout.ErrNoPaymentMethod, http.StatusUnprocessableEntity, "no_payment_method"},
	{checkout.ErrSessionClosed, http.StatusConflict, "cart_checked_out"},
	{port.ErrUnavailable, http.StatusBadGateway, "store_unavailable"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			if c.status >= http.StatusInternalServerError {
				h.logger.Warn("request failed", zap.String("path", r.URL.Path), zap.Error(err))
			}
			msg := c.err.Error()
			if c.status < http.StatusInternalServerError {
				msg = err.Error()
			}
			writeJSON(w, c.status, errorResponse{Error: msg, Code: c.code})
			return
		}
	}

	h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal"})
}
