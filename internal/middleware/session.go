package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookie carries the signed session token for browsers.
	SessionCookie = "hd_session"
	// SessionHeader echoes the current token for non-browser clients.
	SessionHeader = "X-Session-Token"

	sessionLocal = "session"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionTokens signs and verifies the HS256 token that names a session.
// The token holds only the session id; state lives in the store.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *SessionTokens) Issue(sessionID string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse returns the session id and expiry of a valid token.
func (t *SessionTokens) Parse(tokenString string) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return "", time.Time{}, ErrInvalidSessionToken
	}
	return claims.ID, claims.ExpiresAt.Time, nil
}

// DefaultLockWait applies when Sessions is given no positive lock wait.
const DefaultLockWait = 2 * time.Minute

// Sessions loads the caller's session, or starts an anonymous one, and saves
// it back after the handler chain has run. Requests naming the same session
// are serialized from Load to Save. When a handler rotates the session id
// (login, logout) the old entry is deleted and a token for the new id is
// issued.
func Sessions(store session.Store, tokens *SessionTokens, cookieSecure bool, lockWait time.Duration) fiber.Handler {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var sess *session.Session
		var expires time.Time
		if raw := requestToken(c); raw != "" {
			if sid, exp, err := tokens.Parse(raw); err == nil {
				lockCtx, cancel := context.WithTimeout(ctx, lockWait)
				unlock, err := store.Lock(lockCtx, sid)
				cancel()
				if err != nil {
					slog.Warn("session lock not acquired", "session_id", sid, "error", err)
					return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
						Error: true, Message: "Another request for this session is still running. Please try again.",
					})
				}
				defer unlock()

				if loaded, err := store.Load(ctx, sid); err == nil {
					sess, expires = loaded, exp
				} else if !errors.Is(err, session.ErrNotFound) {
					slog.Error("session load failed", "session_id", sid, "error", err)
					return fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
				}
			}
		}
		loadedID := ""
		if sess == nil {
			sess = session.New()
		} else {
			loadedID = sess.ID
		}
		startID := sess.ID

		c.Locals(sessionLocal, sess)
		chainErr := c.Next()

		rotated := sess.ID != startID
		if rotated && loadedID != "" {
			if err := store.Delete(ctx, loadedID); err != nil {
				slog.Error("old session delete failed", "session_id", loadedID, "error", err)
			}
		}
		if err := store.Save(ctx, sess); err != nil {
			slog.Error("session save failed", "session_id", sess.ID, "error", err)
		}

		// New or rotated sessions get a token; others refresh when less
		// than half of the lifetime is left.
		if rotated || expires.IsZero() || expires.Sub(tokens.now()) < tokens.ttl/2 {
			if err := issueToken(c, tokens, sess.ID, cookieSecure); err != nil {
				slog.Error("session token signing failed", "session_id", sess.ID, "error", err)
				return fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
			}
		}
		return chainErr
	}
}

func issueToken(c *fiber.Ctx, tokens *SessionTokens, sessionID string, cookieSecure bool) error {
	signed, exp, err := tokens.Issue(sessionID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Set(SessionHeader, signed)
	return nil
}

// GetSession returns the session attached by Sessions. It never returns nil.
func GetSession(c *fiber.Ctx) *session.Session {
	if sess, ok := c.Locals(sessionLocal).(*session.Session); ok {
		return sess
	}
	sess := session.New()
	c.Locals(sessionLocal, sess)
	return sess
}

func requestToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return c.Cookies(SessionCookie)
}
