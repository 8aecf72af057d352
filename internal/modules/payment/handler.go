package payment

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/response"
	"courtbook/internal/pkg/validator"
	"courtbook/internal/repository"
)

type bookingPaymentWriter interface {
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=unpaid paid refunded"`
}

// Handler lets administrators settle payments recorded outside the app.
type Handler struct {
	bookings bookingPaymentWriter
	log      *zap.Logger
}

func NewHandler(bookings bookingPaymentWriter, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{bookings: bookings, log: log}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/bookings/:id/payment", h.SetStatus)
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
		return
	}

	if err := h.bookings.UpdatePaymentStatus(c.Request.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", ErrNotFound.Error())
			return
		}
		response.Internal(c, err, "Failed to update payment status")
		return
	}

	h.log.Info("payment status updated", zap.Int64("booking_id", id), zap.String("status", string(status)))
	response.OK(c, gin.H{"id": id, "payment_status": status})
}
