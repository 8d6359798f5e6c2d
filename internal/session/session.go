// Package session binds signed-in users to browser sessions and carries one-shot flash messages.
package session

import (
	"encoding/gob"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/tutoring-site/internal/models"
	"github.com/noah-isme/tutoring-site/pkg/config"
)

const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyRole     = "role"
	keyIssuedAt = "issued_at"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

func init() {
	gob.Register([]interface{}{})
}

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// Manager reads and writes the login session.
type Manager struct {
	name   string
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewManager builds a manager from configuration.
func NewManager(cfg config.SessionConfig) *Manager {
	name := cfg.Name
	if name == "" {
		name = "tutoring_session"
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Manager{name: name, maxAge: maxAge, secure: cfg.Secure, now: time.Now}
}

// NewStore selects the cookie or Redis backed store. client is required for the Redis store.
func NewStore(cfg config.SessionConfig, client *redis.Client) (sessions.Store, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	maxAge := int(cfg.MaxAge.Seconds())
	opts := sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	switch cfg.Store {
	case config.StoreRedis:
		if client == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		store := NewRedisStore(client, maxAge, []byte(cfg.Secret))
		store.Options(opts)
		return store, nil
	default:
		store := cookie.NewStore([]byte(cfg.Secret))
		store.Options(opts)
		return store, nil
	}
}

// Middleware attaches the session to every request.
func (m *Manager) Middleware(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(m.name, store)
}

// Start binds user to the session for the configured lifetime.
func (m *Manager) Start(c *gin.Context, user *models.User) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(keyUserID, user.ID)
	s.Set(keyUsername, user.Username)
	s.Set(keyRole, string(user.Role))
	s.Set(keyIssuedAt, m.now().Unix())
	s.Options(m.options(int(m.maxAge.Seconds())))
	return s.Save()
}

// End destroys the session immediately. A flash added afterwards in the same request starts
// a new, anonymous session.
func (m *Manager) End(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(m.options(-1))
	if err := s.Save(); err != nil {
		return err
	}
	s.Options(m.options(int(m.maxAge.Seconds())))
	return nil
}

// Current returns the signed-in identity, or the anonymous identity when the session is
// absent, malformed or older than the configured lifetime.
func (m *Manager) Current(c *gin.Context) models.Identity {
	s := sessions.Default(c)
	userID, _ := s.Get(keyUserID).(string)
	username, _ := s.Get(keyUsername).(string)
	role, _ := s.Get(keyRole).(string)
	issuedAt, ok := s.Get(keyIssuedAt).(int64)
	if userID == "" || !ok || !models.UserRole(role).Valid() {
		return models.Identity{}
	}
	if m.now().Sub(time.Unix(issuedAt, 0)) > m.maxAge {
		return models.Identity{}
	}
	return models.Identity{UserID: userID, Username: username, Role: models.UserRole(role)}
}

// Refresh rewrites the stored role, keeping the original issue time.
func (m *Manager) Refresh(c *gin.Context, role models.UserRole) error {
	s := sessions.Default(c)
	s.Set(keyRole, string(role))
	return s.Save()
}

// AddFlash queues a message for the next page render.
func AddFlash(c *gin.Context, kind, message string) {
	s := sessions.Default(c)
	s.AddFlash(message, kind)
	_ = s.Save()
}

// TakeFlashes returns and clears pending messages, successes first.
func TakeFlashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	var out []Flash
	for _, kind := range []string{FlashSuccess, FlashError} {
		for _, v := range s.Flashes(kind) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = s.Save()
	}
	return out
}

func (m *Manager) options(maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
