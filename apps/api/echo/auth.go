package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/permission"
)

const (
	contextTokenKey   = "userToken"
	contextSubjectKey = "subject"
)

// Claims represents the authorization claims issued by the identity provider.
type Claims struct {
	jwt.StandardClaims
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// NewClaims describes sub in a token valid for ttl.
func NewClaims(conf *core.Config, sub permission.Subject, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.Auth.Issuer,
			Subject:   sub.UserID,
			Audience:  conf.Auth.Audience,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role:  string(sub.Role),
		Email: sub.Email,
		Name:  sub.Name,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.Auth.Secret))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func jwtMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(conf.Auth.Secret),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	})
}

// subjectMiddleware turns the verified claims into the permission.Subject of the request.
// It must run after jwtMiddleware.
func subjectMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if conf.Auth.Issuer != "" && !claims.VerifyIssuer(conf.Auth.Issuer, true) {
				return errInvalidToken
			}
			if conf.Auth.Audience != "" && !claims.VerifyAudience(conf.Auth.Audience, true) {
				return errInvalidToken
			}
			role, err := permission.ParseRole(claims.Role)
			if err != nil || claims.Subject == "" {
				return errInvalidToken
			}
			ctx.Set(contextSubjectKey, permission.Subject{
				Role:   role,
				UserID: claims.Subject,
				Email:  claims.Email,
				Name:   claims.Name,
			})
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSubject(ctx echo.Context) (permission.Subject, error) {
	if sub, ok := ctx.Get(contextSubjectKey).(permission.Subject); ok {
		return sub, nil
	}
	return permission.Subject{}, errUnauthorized
}
