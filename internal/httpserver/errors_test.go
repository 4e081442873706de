package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"dmchat/internal/domain"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"NotFound", domain.ErrNotFound, http.StatusNotFound},
		{"WrappedNotFound", fmt.Errorf("get user: %w", domain.ErrNotFound), http.StatusNotFound},
		{"Duplicate", domain.ErrDuplicate, http.StatusConflict},
		{"Conflict", domain.ErrConflict, http.StatusConflict},
		{"InvalidCredentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"InvalidCode", domain.ErrInvalidCode, http.StatusBadRequest},
		{"InvalidInput", fmt.Errorf("%w: bad", domain.ErrInvalidInput), http.StatusBadRequest},
		{"RateLimit", &domain.RateLimitError{DaysLeft: 2}, http.StatusTooManyRequests},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused at 10.0.0.5"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
