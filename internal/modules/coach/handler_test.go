package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/pkg/validator"
)

// withIdentity stands in for JWTAuth.
func withIdentity(role string, coachID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("role", role)
		c.Set("coach_id", coachID)
		c.Next()
	}
}

func putJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSetWeeklyEndpointConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	svc, _, _ := setupService(t)
	ann := newCoach(t, svc, "Ann")
	bob := newCoach(t, svc, "Bob")
	_, err := svc.SetWeeklyAvailability(context.Background(), ann.ID, []int{4})
	require.NoError(t, err)

	h := NewHandler(svc)
	r := gin.New()
	g := r.Group("/api/v1", withIdentity("coach", bob.ID))
	h.RegisterCoachRoutes(g)

	w := putJSON(r, "/api/v1/coach/availability/weekly", map[string]any{"weekdays": []int{4, 5}})
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Conflicts []WeekdayConflict `json:"conflicts"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "WEEKDAY_CLAIMED", body.Error.Code)
	assert.Equal(t, []WeekdayConflict{{Weekday: 4, CoachID: ann.ID, CoachName: "Ann"}}, body.Error.Details.Conflicts)

	w = putJSON(r, "/api/v1/coach/availability/weekly", map[string]any{"weekdays": []int{5}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = putJSON(r, "/api/v1/coach/availability/weekly", map[string]any{"weekdays": []int{9}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = putJSON(r, "/api/v1/coach/availability/weekly", map[string]any{"coach_id": ann.ID, "weekdays": []int{1}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAssignmentEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	svc, _, _ := setupService(t)
	ann := newCoach(t, svc, "Ann")
	_, err := svc.SetWeeklyAvailability(context.Background(), ann.ID, []int{0})
	require.NoError(t, err)

	r := gin.New()
	NewHandler(svc).RegisterPublicRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedule/coach?date=2025-06-09", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"coach_name":"Ann"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedule/coach?date=bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
