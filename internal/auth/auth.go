package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	errors "github.com/frahmantamala/timeclock/internal"
)

// Actor is the authenticated identity attached to a request.
type Actor struct {
	EmployeeID int64
	IsAdmin    bool
}

type contextKey string

const actorContextKey contextKey = "actor"

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(*Actor)
	return actor, ok && actor != nil
}

type Claims struct {
	EmployeeID int64 `json:"employee_id"`
	IsAdmin    bool  `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the HMAC-signed access tokens used by the
// web and admin surfaces. Kiosk punches never carry a token; the PIN is the
// credential there.
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

func NewTokenManager(secret string, duration time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		duration: duration,
	}
}

func (tm *TokenManager) Generate(employeeID int64, isAdmin bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.duration)

	claims := Claims{
		EmployeeID: employeeID,
		IsAdmin:    isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "timeclock",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (tm *TokenManager) Parse(tokenString string) (*Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidToken
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.ErrInvalidToken
	}
	return &Actor{EmployeeID: claims.EmployeeID, IsAdmin: claims.IsAdmin}, nil
}
