package notification

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"courtbook/internal/domain"
	"courtbook/internal/middleware"
	"courtbook/internal/pkg/response"
)

type InboxRepository interface {
	ListByRecipient(ctx context.Context, recipient string, limit int) ([]domain.Notification, error)
}

// Handler exposes the outbox rows addressed to the caller.
type Handler struct {
	repo InboxRepository
}

func NewHandler(repo InboxRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me/notifications", h.GetNotifications)
}

func (h *Handler) GetNotifications(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(middleware.CurrentIdentity(c).Email))
	if email == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	limit := 20
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
			if limit > 100 {
				limit = 100
			}
		}
	}

	list, err := h.repo.ListByRecipient(c.Request.Context(), email, limit)
	if err != nil {
		response.Internal(c, err, "Failed to get notifications")
		return
	}
	response.OK(c, gin.H{"notifications": list})
}
