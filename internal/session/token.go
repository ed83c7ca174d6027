package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints and validates the signed session tokens handed out by
// the placeholder login. The token carries only the session ID and display
// name; it is session plumbing, not authentication.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given session.
func (t *TokenIssuer) Issue(sessionID, username string) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("session token secret is not set")
	}

	claims := jwt.MapClaims{
		"sid":  sessionID,
		"name": username,
		"exp":  time.Now().Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates a token and returns the session ID and display name it
// carries.
func (t *TokenIssuer) Parse(tokenString string) (sessionID, username string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid session token")
	}
	sessionID, _ = claims["sid"].(string)
	username, _ = claims["name"].(string)
	if sessionID == "" {
		return "", "", fmt.Errorf("session token missing session id")
	}
	return sessionID, username, nil
}
