package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/database"
	"courtbook/internal/domain"
	"courtbook/internal/repository"
)

func TestGetNotificationsReturnsOwnRows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.Connect(fmt.Sprintf("file:notif_%s?mode=memory&cache=shared", t.Name()), nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	repo := repository.NewNotificationRepository(db)

	ctx := context.Background()
	for _, to := range []string{"pat@example.com", "pat@example.com", "sam@example.com"} {
		require.NoError(t, repo.Create(ctx, &domain.Notification{Type: domain.NotifBookingConfirmed, Recipient: to, Subject: "s"}))
	}

	r := gin.New()
	g := r.Group("/api/v1", func(c *gin.Context) {
		c.Set("email", "Pat@Example.com")
		c.Next()
	})
	NewHandler(repo).RegisterRoutes(g)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me/notifications?limit=500", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Notifications []domain.Notification `json:"notifications"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Notifications, 2)
}

func TestGetNotificationsRequiresEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
