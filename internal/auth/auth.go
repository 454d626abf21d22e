package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Client is an API consumer from the clients file.
type Client struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Token is the response body of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type contextKey struct{}

// Authenticator issues and validates HS256 bearer tokens for the clients
// listed in a JSON credentials file.
type Authenticator struct {
	secret  []byte
	expiry  time.Duration
	clients map[string]Client
	log     zerolog.Logger
}

// New builds an Authenticator from the clients file at path. A missing
// file is not fatal; it just leaves no client able to log in.
func New(secret string, expiry time.Duration, path string, log zerolog.Logger) (*Authenticator, error) {
	clients := map[string]Client{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Warn().Str("path", path).Msg("client file not configured")
	case err != nil:
		return nil, fmt.Errorf("failed to read clients file: %w", err)
	default:
		var raw []Client
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse clients file: %w", err)
		}
		for _, client := range raw {
			clients[client.Name] = client
		}
	}

	return &Authenticator{
		secret:  []byte(secret),
		expiry:  expiry,
		clients: clients,
		log:     log.With().Str("component", "auth").Logger(),
	}, nil
}

// Authenticate checks a name/password pair against the clients file.
func (a *Authenticator) Authenticate(name, password string) (*Client, bool) {
	client, ok := a.clients[name]
	if !ok || client.Password != password {
		return nil, false
	}
	return &client, true
}

// CreateAccessToken issues a signed token for the named client.
func (a *Authenticator) CreateAccessToken(name string) (string, error) {
	claims := jwt.MapClaims{
		"sub": name,
		"exp": time.Now().Add(a.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and resolves the client it names.
func (a *Authenticator) ParseToken(tokenString string) (*Client, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("could not validate credentials")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("could not validate credentials")
	}
	client, ok := a.clients[sub]
	if !ok {
		return nil, fmt.Errorf("could not validate credentials")
	}
	return &client, nil
}

// Middleware guards a route subtree with bearer-token auth. The resolved
// client is placed on the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w)
			return
		}
		client, err := a.ParseToken(token)
		if err != nil {
			unauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientFromContext returns the authenticated client, if any.
func ClientFromContext(ctx context.Context) (*Client, bool) {
	client, ok := ctx.Value(contextKey{}).(*Client)
	return client, ok
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", false
	}
	return header[len(prefix):], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"type":"unauthorized","msg":"could not validate credentials"}}`))
}
