package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	t.Run("counts by route pattern and status", func(t *testing.T) {
		before := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/items/{id}", "200"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
		require.Equal(t, http.StatusOK, w.Code)

		after := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/items/{id}", "200"))
		assert.Equal(t, before+1, after)
	})

	t.Run("captures non-200 status", func(t *testing.T) {
		before := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/broken", "500"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)

		after := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/broken", "500"))
		assert.Equal(t, before+1, after)
	})

	t.Run("in-flight gauge returns to zero", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))

		assert.Equal(t, float64(0), testutil.ToFloat64(requestsInFlight))
	})
}
