package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"translation_desk/internal/config"
	"translation_desk/internal/domain/entities"
	"translation_desk/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

var errUnauthorized = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing or invalid credentials", http.StatusUnauthorized)

// Authenticator turns the identity provider's HS256 bearer token into an entities.Actor.
// Claims: sub (user id), email, role (admin|client).
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// RequireActor rejects requests without a valid token.
func (a *Authenticator) RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := a.actorFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			log.Printf("[auth][middleware] rejected path=%s err=%v", c.FullPath(), err)
			c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
			return
		}
		SetActor(c, actor)
		c.Next()
	}
}

// OptionalActor attaches an actor when a token is sent. A malformed token is still rejected.
func (a *Authenticator) OptionalActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.TrimSpace(header) == "" {
			c.Next()
			return
		}
		actor, err := a.actorFromHeader(header)
		if err != nil {
			log.Printf("[auth][middleware] rejected optional token path=%s err=%v", c.FullPath(), err)
			c.AbortWithStatusJSON(errUnauthorized.HTTPStatus, errUnauthorized.ToHTTPError())
			return
		}
		SetActor(c, actor)
		c.Next()
	}
}

// SetActor attaches actor to the request context.
func SetActor(c *gin.Context, actor entities.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the actor attached by RequireActor or OptionalActor.
func ActorFrom(c *gin.Context) (entities.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return entities.Actor{}, false
	}
	actor, ok := v.(entities.Actor)
	return actor, ok
}

// IssueToken signs a token for actor. Used by local tooling and tests; production tokens
// come from the identity provider.
func (a *Authenticator) IssueToken(actor entities.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   actor.ID,
		"email": actor.Email,
		"role":  string(actor.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	if a.issuer != "" {
		claims["iss"] = a.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) actorFromHeader(header string) (entities.Actor, error) {
	header = strings.TrimSpace(header)
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(header, bearerPrefix) {
		return entities.Actor{}, ErrMissingToken
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return entities.Actor{}, ErrMissingToken
	}
	return a.parse(raw)
}

func (a *Authenticator) parse(raw string) (entities.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, opts...)
	if err != nil {
		return entities.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entities.Actor{}, ErrInvalidClaims
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	actor := entities.Actor{
		ID:    strings.TrimSpace(sub),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  entities.Role(strings.ToLower(strings.TrimSpace(role))),
	}
	if actor.ID == "" || !actor.Role.IsValid() {
		return entities.Actor{}, fmt.Errorf("%w: sub=%q role=%q", ErrInvalidClaims, sub, role)
	}
	return actor, nil
}
