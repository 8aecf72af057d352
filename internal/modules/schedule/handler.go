package schedule

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"courtbook/internal/domain"
	"courtbook/internal/pkg/response"
	"courtbook/internal/pkg/validator"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/schedule")
	{
		g.GET("/month", h.Month)
		g.GET("/day", h.Day)
		if h.hub != nil {
			g.GET("/live", h.Live)
		}
	}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/overrides/:date", h.GetOverride)
	rg.PUT("/overrides/:date", h.SetOverride)
}

func (h *Handler) Month(c *gin.Context) {
	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}

	days, err := h.service.MonthView(c.Request.Context(), q.Year, time.Month(q.Month))
	if err != nil {
		h.fail(c, err, "Failed to load schedule")
		return
	}
	response.OK(c, MonthResponse{Year: q.Year, Month: q.Month, Days: days})
}

func (h *Handler) Day(c *gin.Context) {
	var q DayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}

	day, err := h.service.DayView(c.Request.Context(), q.Date)
	if err != nil {
		h.fail(c, err, "Failed to load day")
		return
	}
	response.OK(c, day)
}

func (h *Handler) Live(c *gin.Context) {
	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}
	month := fmt.Sprintf("%04d-%02d", q.Year, q.Month)
	if err := h.hub.Serve(c.Writer, c.Request, month); err != nil {
		// Upgrade has already written the HTTP error.
		_ = c.Error(err)
	}
}

func (h *Handler) GetOverride(c *gin.Context) {
	o, err := h.service.GetOverride(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.fail(c, err, "Failed to load override")
		return
	}
	response.OK(c, o)
}

func (h *Handler) SetOverride(c *gin.Context) {
	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}

	o, err := h.service.SetOverride(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		h.fail(c, err, "Failed to save override")
		return
	}
	response.OK(c, o)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	var rangeErr *RangeError
	switch {
	case errors.As(err, &rangeErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_TIME_RANGE", "Unrecognised time range", gin.H{"invalid": rangeErr.Invalid})
	case errors.Is(err, domain.ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Date must be YYYY-MM-DD")
	case errors.Is(err, ErrInvalidMonth):
		response.Error(c, http.StatusBadRequest, "INVALID_MONTH", "Month must be 1-12")
	default:
		response.Internal(c, err, message)
	}
}
