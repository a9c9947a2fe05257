package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	CookieName = "audiodrop_session"
	cookieTTL  = 30 * 24 * time.Hour
	issuer     = "audiodrop"
)

var (
	ErrInvalidWallet  = errors.New("invalid wallet address")
	ErrInvalidSession = errors.New("invalid session")
	walletPattern     = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// Session identifies a visitor. Wallet is empty until a wallet is connected.
type Session struct {
	Id     string
	Wallet string
}

func (s Session) Connected() bool {
	return s.Wallet != ""
}

func New() Session {
	return Session{Id: uuid.NewString()}
}

func NormalizeWallet(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !walletPattern.MatchString(address) {
		return "", ErrInvalidWallet
	}
	return strings.ToLower(address), nil
}

type claims struct {
	Wallet string `json:"wallet,omitempty"`
	jwt.RegisteredClaims
}

type Codec struct {
	key []byte
}

// NewCodec signs cookies with secret. An empty secret gets a random key.
func NewCodec(secret string) *Codec {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		rand.Read(key)
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}
	return &Codec{key: key}
}

func (c *Codec) Encode(s Session) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Wallet: s.Wallet,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.Id,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cookieTTL)),
		},
	})
	return token.SignedString(c.key)
}

func (c *Codec) Decode(value string) (Session, error) {
	var out claims
	_, err := jwt.ParseWithClaims(value, &out, func(t *jwt.Token) (any, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if out.ID == "" {
		return Session{}, ErrInvalidSession
	}
	return Session{Id: out.ID, Wallet: out.Wallet}, nil
}

// Write stores s in the response cookie.
func (c *Codec) Write(w http.ResponseWriter, s Session) error {
	value, err := c.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

type contextKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(contextKey{}).(Session)
	return s
}

// Middleware attaches the visitor's session to the request context, issuing a
// fresh one when the cookie is missing or does not verify.
func (c *Codec) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s Session
		if cookie, err := r.Cookie(CookieName); err == nil {
			s, err = c.Decode(cookie.Value)
			if err != nil {
				log.Debug().Err(err).Msg("discarding session cookie")
			}
		}
		if s.Id == "" {
			s = New()
			if err := c.Write(w, s); err != nil {
				log.Error().Err(err).Msg("error writing session cookie")
			}
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}
