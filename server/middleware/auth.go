package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicedoc/auth/authctx"
	"github.com/kbukum/voicedoc/errors"
)

// ClaimsKey is the Gin context key holding validated claims.
const ClaimsKey = "claims"

// AuthConfig configures the bearer authentication middleware.
type AuthConfig struct {
	// TokenValidator validates a token string and returns the claims.
	TokenValidator func(token string) (any, error)
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
	// QueryParam, when set, is read if no Authorization header is sent.
	// Browsers cannot set headers on an EventSource.
	QueryParam string
}

// Auth returns a Gin middleware that validates Bearer tokens. Validated
// claims are stored in the Gin context under ClaimsKey and in the request
// context via authctx.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		token, err := bearerToken(c, cfg.QueryParam)
		if err != nil {
			abort(c, err)
			return
		}
		claims, err := cfg.TokenValidator(token)
		if err != nil {
			if _, ok := errors.AsAppError(err); !ok {
				err = errors.Unauthorized("Invalid token")
			}
			abort(c, err)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}

func bearerToken(c *gin.Context, queryParam string) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if queryParam != "" {
			if t := c.Query(queryParam); t != "" {
				return t, nil
			}
		}
		return "", errors.Unauthorized("Authorization header required")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errors.Unauthorized("Invalid authorization header format")
	}
	return token, nil
}

func abort(c *gin.Context, err error) {
	appErr := errors.From(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
