package coach

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courtbook/internal/domain"
	"courtbook/internal/middleware"
	"courtbook/internal/pkg/response"
	"courtbook/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/schedule/coach", h.Assignment)
}

// RegisterCoachRoutes expects a group already gated to coaches and admins.
func (h *Handler) RegisterCoachRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/coach/availability")
	{
		g.GET("/weekly", h.GetWeekly)
		g.PUT("/weekly", h.SetWeekly)
		g.PUT("/dates/:date", h.SetDate)
	}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/coaches", h.List)
	rg.POST("/coaches", h.Create)
}

func (h *Handler) Assignment(c *gin.Context) {
	var q AssignmentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}

	a, err := h.service.AssignCoachForDate(c.Request.Context(), q.Date)
	if err != nil {
		h.fail(c, err, "Failed to resolve coach")
		return
	}
	response.OK(c, gin.H{"date": q.Date, "coach": a})
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.ListWeekly(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list coaches")
		return
	}
	response.OK(c, list)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}
	coach, err := h.service.CreateCoach(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create coach")
		return
	}
	response.Created(c, coach)
}

func (h *Handler) GetWeekly(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	coachID, err := targetCoach(id, 0)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	a, err := h.service.GetWeekly(c.Request.Context(), coachID)
	if err != nil {
		h.fail(c, err, "Failed to load availability")
		return
	}
	response.OK(c, a)
}

func (h *Handler) SetWeekly(c *gin.Context) {
	var req SetWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}
	coachID, err := targetCoach(middleware.CurrentIdentity(c), req.CoachID)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	a, err := h.service.SetWeeklyAvailability(c.Request.Context(), coachID, req.Weekdays)
	if err != nil {
		h.fail(c, err, "Failed to save availability")
		return
	}
	response.OK(c, a)
}

func (h *Handler) SetDate(c *gin.Context) {
	var req SetDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindFailed(c, validator.Fields(err))
		return
	}
	id := middleware.CurrentIdentity(c)
	if domain.UserRole(id.Role) == domain.RoleCoach {
		// Coaches can only put themselves on a date.
		self := id.CoachID
		if self == 0 {
			h.fail(c, ErrForbidden, "")
			return
		}
		req.CoachID = &self
	}

	a, err := h.service.SetDateAvailability(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		h.fail(c, err, "Failed to save date availability")
		return
	}
	response.OK(c, a)
}

// targetCoach picks the coach being managed: admins name one, coaches act on
// themselves.
func targetCoach(id middleware.Identity, requested int64) (int64, error) {
	switch domain.UserRole(id.Role) {
	case domain.RoleAdmin:
		if requested > 0 {
			return requested, nil
		}
		if id.CoachID > 0 {
			return id.CoachID, nil
		}
		return 0, ErrCoachNotFound
	case domain.RoleCoach:
		if id.CoachID == 0 || (requested != 0 && requested != id.CoachID) {
			return 0, ErrForbidden
		}
		return id.CoachID, nil
	default:
		return 0, ErrForbidden
	}
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	var claimErr *ClaimError
	switch {
	case errors.As(err, &claimErr):
		response.ErrorWithDetails(c, http.StatusConflict, "WEEKDAY_CLAIMED", "Weekday already assigned to another coach", gin.H{"conflicts": claimErr.Conflicts})
	case errors.Is(err, ErrWeekdayClaimed):
		response.Error(c, http.StatusConflict, "WEEKDAY_CLAIMED", "Weekday already assigned to another coach")
	case errors.Is(err, ErrInvalidWeekday):
		response.Error(c, http.StatusBadRequest, "INVALID_WEEKDAY", err.Error())
	case errors.Is(err, domain.ErrInvalidDate):
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Date must be YYYY-MM-DD")
	case errors.Is(err, ErrCoachNotFound):
		response.Error(c, http.StatusNotFound, "COACH_NOT_FOUND", "Coach not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		response.Internal(c, err, message)
	}
}
