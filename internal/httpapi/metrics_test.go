package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestRoutePatternOrPath(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	var got string
	r.Get("/implementors/{component}", func(w http.ResponseWriter, req *http.Request) {
		got = routePatternOrPath(req)
		w.WriteHeader(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/implementors/libA", nil))
	if got != "/implementors/{component}" {
		t.Fatalf("pattern=%q, want chi route pattern", got)
	}
}

func TestRoutePatternFallsBackToPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/raw/path", nil)
	if got := routePatternOrPath(req); got != "/raw/path" {
		t.Fatalf("fallback=%q", got)
	}
}

func TestStatusRecorderCapturesCode(t *testing.T) {
	w := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: w, status: 200}
	sr.WriteHeader(http.StatusTeapot)
	if sr.status != http.StatusTeapot || w.Code != http.StatusTeapot {
		t.Fatalf("status=%d recorder=%d", sr.status, w.Code)
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 200: "200", 404: "404", 5: "5"}
	for n, want := range cases {
		if got := itoa(n); got != want {
			t.Fatalf("itoa(%d)=%s, want %s", n, got, want)
		}
	}
}
