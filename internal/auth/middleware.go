package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// principalKey is the gin context key the middleware stores the principal under.
const principalKey = "principal"

// Middleware resolves the request principal from the Authorization header.
// Requests without credentials proceed as anonymous; a present but invalid
// token is rejected with 401. Tokens are HS256 access tokens issued by the
// external identity provider and verified with the shared secret.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawAuth := c.GetHeader("Authorization")
		if rawAuth == "" {
			c.Set(principalKey, Anonymous())
			c.Next()
			return
		}

		if !strings.HasPrefix(rawAuth, "Bearer ") || secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(rawAuth, "Bearer "))
		principal, err := ParseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// ParseToken verifies an identity-provider access token and extracts the
// principal descriptor from its claims: numeric subject, "superuser" flag
// and "groups" membership list.
func ParseToken(tokenString, secret string) (Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("parse token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Principal{}, fmt.Errorf("token has no subject")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Principal{}, fmt.Errorf("non-numeric subject %q", sub)
	}

	p := Principal{ID: id, Authenticated: true}
	if su, ok := claims["superuser"].(bool); ok {
		p.Superuser = su
	}
	if raw, ok := claims["groups"].([]interface{}); ok {
		for _, g := range raw {
			if name, ok := g.(string); ok {
				p.Groups = append(p.Groups, name)
			}
		}
	}
	return p, nil
}

// FromContext returns the principal the middleware attached to the request.
// Handlers reached without the middleware see an anonymous principal.
func FromContext(c *gin.Context) Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Anonymous()
}
