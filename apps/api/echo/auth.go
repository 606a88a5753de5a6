package echoapi

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/xuandat7/tkb-ptit-react-sub000/core"
)

const (
	// RoleAdmin prefixes every administrator role granted by the auth service.
	RoleAdmin = "admin:"
	// RoleAdminScheduler may compose batches and submit them for generation.
	RoleAdminScheduler = "admin:scheduler"

	contextTokenKey = "userToken"
)

// Claims represents the authorization claims transmitted via a JWT issued by
// the authentication service.
type Claims struct {
	jwt.StandardClaims
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	IsAdmin  bool     `json:"is_admin,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

func (c Claims) principal() core.Principal {
	return core.Principal{ID: c.Subject, Username: c.Username, Email: c.Email}
}

// jwtConfig is the JWT auth middleware config for tokens signed with secretKey.
func jwtConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// GenerateToken signs claims the way the authentication service does.
func GenerateToken(secretKey string, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// hasAnyRole reports whether the claims grant one of roles. No roles means any admin.
func (c Claims) hasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, granted := range c.Roles {
		for _, role := range roles {
			if granted == role {
				return true
			}
		}
	}
	return false
}
