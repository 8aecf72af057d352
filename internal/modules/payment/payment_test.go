package payment

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/domain"
	"courtbook/internal/repository"
)

func TestReferenceVerifier(t *testing.T) {
	v := ReferenceVerifier{}

	got, err := v.Verify(context.Background(), Proof{Reference: "  pi_123 "})
	require.NoError(t, err)
	assert.Equal(t, Verification{Status: domain.PaymentPaid, Reference: "pi_123"}, got)

	got, err = v.Verify(context.Background(), Proof{})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentUnpaid, got.Status)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Refunded")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, s)

	_, err = ParseStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

type fakeWriter struct {
	known map[int64]domain.PaymentStatus
}

func (f *fakeWriter) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	if _, ok := f.known[id]; !ok {
		return repository.ErrNotFound
	}
	f.known[id] = status
	return nil
}

func TestSetStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := &fakeWriter{known: map[int64]domain.PaymentStatus{7: domain.PaymentUnpaid}}
	r := gin.New()
	NewHandler(w, nil).RegisterAdminRoutes(r.Group("/admin"))

	do := func(path, body string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/admin/bookings/7/payment", `{"status":"paid"}`))
	assert.Equal(t, domain.PaymentPaid, w.known[7])
	assert.Equal(t, http.StatusNotFound, do("/admin/bookings/8/payment", `{"status":"paid"}`))
	assert.Equal(t, http.StatusBadRequest, do("/admin/bookings/7/payment", `{"status":"maybe"}`))
	assert.Equal(t, http.StatusBadRequest, do("/admin/bookings/x/payment", `{"status":"paid"}`))
}
