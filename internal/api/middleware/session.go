package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

type ctxKeySessionID struct{}

// SessionConfig параметры cookie сессии
type SessionConfig struct {
	CookieName string
	HashKey    []byte
	BlockKey   []byte // пусто = без шифрования
	MaxAge     int    // секунды
	Secure     bool
}

// Sessions выдает браузеру подписанный cookie с ID сессии
type Sessions struct {
	sc     *securecookie.SecureCookie
	cfg    SessionConfig
	logger Logger
}

// NewSessions создает менеджер сессий
func NewSessions(cfg SessionConfig, logger Logger) *Sessions {
	var blockKey []byte
	if len(cfg.BlockKey) > 0 {
		blockKey = cfg.BlockKey
	}

	sc := securecookie.New(cfg.HashKey, blockKey)
	sc.MaxAge(cfg.MaxAge)

	return &Sessions{sc: sc, cfg: cfg, logger: logger}
}

// Middleware кладет ID сессии в контекст. Новый ID выдается при отсутствии
// или повреждении cookie
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.read(r)
		if !ok {
			id = uuid.NewString()
			if err := s.write(w, id); err != nil {
				s.logger.Error("Session: failed to encode cookie: %v", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}

func (s *Sessions) read(r *http.Request) (string, bool) {
	c, err := r.Cookie(s.cfg.CookieName)
	if err != nil {
		return "", false
	}

	value := map[string]string{}
	if err := s.sc.Decode(s.cfg.CookieName, c.Value, &value); err != nil {
		s.logger.Warn("Session: invalid cookie: %v", err)
		return "", false
	}

	id := value["sid"]
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func (s *Sessions) write(w http.ResponseWriter, id string) error {
	encoded, err := s.sc.Encode(s.cfg.CookieName, map[string]string{"sid": id})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   s.cfg.MaxAge,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// WithSessionID кладет ID сессии в контекст
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySessionID{}, id)
}

// SessionID возвращает ID сессии из контекста; пусто, если middleware не применялся
func SessionID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySessionID{}).(string); ok {
		return v
	}
	return ""
}
