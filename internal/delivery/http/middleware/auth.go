package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
	"github.com/split-the-distance/internal/pkg/utils"
)

const actorKey = "actor"

// subjectNamespace maps non-UUID subjects of the identity provider onto
// stable user IDs.
var subjectNamespace = uuid.MustParse("5d1c7a0e-3f7b-4c1e-9a57-1b0c8d7e2f44")

// Claims issued by the identity provider.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and stores the caller in c.Locals.
func Auth(cfg config.AuthConfig) fiber.Handler {
	secret := []byte(cfg.JWTSecret)

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return utils.SendError(c, errors.ErrUnauthorized.WithMessage("missing bearer token"))
		}

		var claims Claims
		token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return utils.SendError(c, errors.ErrUnauthorized.WithMessage("token expired"))
			}
			return utils.SendError(c, errors.ErrUnauthorized)
		}
		if claims.Subject == "" {
			return utils.SendError(c, errors.ErrUnauthorized.WithMessage("token has no subject"))
		}

		c.Locals(actorKey, domain.Actor{
			UserID:      userIDFromSubject(claims.Subject),
			Email:       strings.ToLower(strings.TrimSpace(claims.Email)),
			DisplayName: claims.Name,
		})
		return c.Next()
	}
}

// ActorFrom returns the caller stored by Auth.
func ActorFrom(c *fiber.Ctx) domain.Actor {
	actor, _ := c.Locals(actorKey).(domain.Actor)
	return actor
}

// SignToken issues an HS256 token for actor. Used by tests and local tooling.
func SignToken(cfg config.AuthConfig, actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: actor.Email,
		Name:  actor.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// EventSource cannot set headers.
	return c.Query("access_token")
}

func userIDFromSubject(sub string) uuid.UUID {
	if id, err := uuid.Parse(sub); err == nil {
		return id
	}
	return uuid.NewSHA1(subjectNamespace, []byte(sub))
}
