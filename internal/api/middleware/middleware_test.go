package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testSessions() *Sessions {
	return NewSessions(SessionConfig{
		CookieName: "salon_session",
		HashKey:    []byte(strings.Repeat("h", 32)),
		BlockKey:   []byte(strings.Repeat("b", 16)),
		MaxAge:     3600,
	}, nopLogger{})
}

func TestSessions_IssuesAndReusesID(t *testing.T) {
	s := testSessions()

	var seen []string
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, SessionID(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "salon_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.Equal(t, seen[0], seen[1])
	assert.Empty(t, rec.Result().Cookies())
}

func TestSessions_TamperedCookieReplaced(t *testing.T) {
	s := testSessions()

	var id string
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "salon_session", Value: "forged"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, id)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	l := NewRateLimiter(1, 2, false, nopLogger{})
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	var lastBody string
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		lastBody = rec.Body.String()
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
	assert.JSONEq(t, `{"code":429,"message":"`+msgTooManyRequests+`"}`, lastBody)

	// Другой IP не затронут
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiter_EvictsIdleEntries(t *testing.T) {
	l := NewRateLimiter(10, 1, false, nopLogger{})
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.getLimiter("10.0.0.1")
	now = now.Add(time.Hour)
	l.getLimiter("10.0.0.2")

	// запрос не сканирует таблицу, чистит только janitor
	assert.Len(t, l.limiters, 2)

	assert.Equal(t, 1, l.evictIdle())
	assert.Len(t, l.limiters, 1)
	assert.Contains(t, l.limiters, "10.0.0.2")
}

func TestRateLimiter_JanitorEvictsIdle(t *testing.T) {
	l := NewRateLimiter(10, 1, false, nopLogger{})
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	l.getLimiter("10.0.0.1")
	l.mu.Lock()
	l.now = func() time.Time { return now.Add(time.Hour) }
	l.limiters["10.0.0.1"].lastSeen = now
	l.mu.Unlock()

	stop := make(chan struct{})
	l.StartJanitor(time.Millisecond, stop)
	defer close(stop)

	assert.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.limiters) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	direct := NewRateLimiter(10, 1, false, nopLogger{})
	assert.Equal(t, "192.168.1.5", direct.clientIP(req))

	proxied := NewRateLimiter(10, 1, true, nopLogger{})
	assert.Equal(t, "10.0.0.1", proxied.clientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "192.168.1.5", proxied.clientIP(req))
}

func TestRateLimiter_SpoofedForwardedForIgnored(t *testing.T) {
	l := NewRateLimiter(1, 1, false, nopLogger{})
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.RemoteAddr = "198.51.100.9:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.Len(t, l.limiters, 1)
}

type recordingObserver struct {
	mu     sync.Mutex
	routes []string
	status []string
}

func (o *recordingObserver) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, route)
	o.status = append(o.status, status)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	obs := &recordingObserver{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(obs))
	r.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, []string{"/items/{id}"}, obs.routes)
	assert.Equal(t, []string{"418"}, obs.status)
}
