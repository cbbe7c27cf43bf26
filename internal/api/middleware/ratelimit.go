package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const msgTooManyRequests = "muitas tentativas, aguarde um momento e tente novamente"

// RateLimiter ограничивает частоту запросов с одного IP
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	// trustForwardedFor учитывать X-Forwarded-For (только за доверенным прокси)
	trustForwardedFor bool
	logger            Logger
	now               func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создает ограничитель: requestsPerMinute запросов в минуту с запасом burst
func NewRateLimiter(requestsPerMinute, burst int, trustForwardedFor bool, logger Logger) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		ttl:      10 * time.Minute,

		trustForwardedFor: trustForwardedFor,
		logger:            logger,
		now:               time.Now,
	}
}

// StartJanitor периодически удаляет давно неактивные IP до закрытия stop
func (l *RateLimiter) StartJanitor(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := l.evictIdle(); n > 0 {
					l.logger.Info("RateLimit: evicted %d idle limiters", n)
				}
			case <-stop:
				return
			}
		}
	}()
}

func (l *RateLimiter) evictIdle() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	evicted := 0
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.limiters, key)
			evicted++
		}
	}
	return evicted
}

func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, exists := l.limiters[ip]
	if !exists {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = l.now()
	return e.limiter
}

// Middleware отвечает 429, если лимит для IP исчерпан
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if !l.getLimiter(ip).Allow() {
			l.logger.Warn("RateLimit: limit exceeded for ip=%s, path=%s", ip, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP без доверенного прокси берет адрес соединения: заголовок задает сам клиент.
// За прокси берется последний адрес цепочки, его дописал прокси
func (l *RateLimiter) clientIP(r *http.Request) string {
	if l.trustForwardedFor {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			hops := strings.Split(fwd, ",")
			if ip := strings.TrimSpace(hops[len(hops)-1]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
