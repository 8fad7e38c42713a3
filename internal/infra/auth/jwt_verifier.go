package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xavierca1/leadzone/internal/entity"
)

const defaultAudience = "authenticated"

// accessClaims is the subset of a hosted-auth access token we rely on.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 access tokens signed with the project secret.
type JWTVerifier struct {
	secret   []byte
	audience string
	leeway   time.Duration
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{
		secret:   []byte(secret),
		audience: defaultAudience,
		leeway:   30 * time.Second,
	}
}

func (v *JWTVerifier) Verify(_ context.Context, raw string) (entity.Identity, error) {
	parsed, err := jwt.ParseWithClaims(raw, &accessClaims{}, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return entity.Identity{}, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return entity.Identity{}, errors.New("access token has no subject")
	}

	return entity.Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
