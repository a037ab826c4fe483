package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"eventcore/internal/domain"
	"eventcore/internal/domain/entities"
)

const identityKey = "eventcore_identity"

// Claims are the bearer token claims: sub is the user id, role is USER or ADMIN.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for id, valid for ttl.
func IssueToken(secret []byte, id entities.Identity, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates raw and returns the identity it carries.
func ParseToken(secret []byte, raw string) (entities.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return entities.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return entities.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}
	role := claims.Role
	if role == "" {
		role = entities.RoleUser
	}
	return entities.Identity{UserID: claims.Subject, Role: role}, nil
}

// authenticate requires a valid bearer token. Websocket clients that cannot set
// headers may pass the token as ?access_token=.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			raw = c.Query("access_token")
		}
		if raw == "" {
			s.respondError(c, errors.Join(domain.ErrUnauthenticated, errors.New("missing bearer token")))
			return
		}
		id, err := ParseToken(s.jwtSecret, raw)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identity(c).IsAdmin() {
			s.respondError(c, domain.ErrForbidden)
			return
		}
		c.Next()
	}
}

func identity(c *gin.Context) entities.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(entities.Identity)
	return id
}
