package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courtbook/internal/config"
	"courtbook/internal/domain"
	"courtbook/internal/middleware"
	"courtbook/internal/modules/payment"
	"courtbook/internal/pkg/response"
	"courtbook/internal/pkg/validator"
)

type Handler struct {
	engine   *Engine
	service  *Service
	verifier payment.Verifier
	pricing  config.Pricing
}

func NewHandler(engine *Engine, service *Service, verifier payment.Verifier, pricing config.Pricing) *Handler {
	if verifier == nil {
		verifier = payment.ReferenceVerifier{}
	}
	return &Handler{engine: engine, service: service, verifier: verifier, pricing: pricing}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/pricing", h.Pricing)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/recurring", h.BookRecurring)
	rg.GET("/users/me/bookings", h.ListMine)
}

// RegisterStaffRoutes expects a group gated to coaches and admins.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/cancel", h.Cancel)
}

func (h *Handler) Pricing(c *gin.Context) {
	response.OK(c, h.pricing)
}

func (h *Handler) BookRecurring(c *gin.Context) {
	var req RecurringBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}

	id := middleware.CurrentIdentity(c)
	name, email := req.Name, req.Email
	if name == "" {
		name = id.Name
	}
	if email == "" {
		email = id.Email
	}
	var userID *int64
	if id.UserID > 0 {
		uid := id.UserID
		userID = &uid
	}

	paid, err := h.verifier.Verify(c.Request.Context(), payment.Proof{Reference: req.PaymentReference})
	if err != nil {
		response.Error(c, http.StatusPaymentRequired, "PAYMENT_NOT_VERIFIED", "Payment could not be verified")
		return
	}

	res, err := h.engine.BookRecurring(c.Request.Context(), Request{
		LessonType:       domain.LessonType(req.LessonType),
		StartDate:        req.StartDate,
		TimeRange:        req.TimeRange,
		WeekCount:        req.WeekCount,
		Name:             name,
		Email:            email,
		UserID:           userID,
		PaymentStatus:    paid.Status,
		PaymentReference: paid.Reference,
	})
	if err != nil {
		h.fail(c, err, "Failed to book")
		return
	}

	if res.Failed() {
		response.ErrorWithDetails(c, http.StatusConflict, "BOOKING_FAILED", "No occurrence could be booked", res)
		return
	}
	response.Created(c, res)
}

func (h *Handler) ListMine(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	var userID *int64
	if id.UserID > 0 {
		uid := id.UserID
		userID = &uid
	}

	list, err := h.service.ListMine(c.Request.Context(), userID, id.Email)
	if err != nil {
		h.fail(c, err, "Failed to load bookings")
		return
	}
	response.OK(c, gin.H{"bookings": list})
}

func (h *Handler) Cancel(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindFailed(c, validator.Fields(err))
			return
		}
	}

	id := middleware.CurrentIdentity(c)
	b, err := h.service.Cancel(c.Request.Context(), bookingID, Actor{Role: domain.UserRole(id.Role), CoachID: id.CoachID}, req.Reason)
	if err != nil {
		h.fail(c, err, "Failed to cancel booking")
		return
	}
	response.OK(c, b)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidLessonType):
		response.Error(c, http.StatusBadRequest, "INVALID_LESSON_TYPE", "Lesson type must be private or group")
	case errors.Is(err, domain.ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Date must be YYYY-MM-DD")
	case errors.Is(err, ErrInvalidTimeRange):
		response.Error(c, http.StatusBadRequest, "INVALID_TIME_RANGE", "Unrecognised time range")
	case errors.Is(err, ErrInvalidBooker):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", err.Error())
	default:
		response.Internal(c, err, message)
	}
}
