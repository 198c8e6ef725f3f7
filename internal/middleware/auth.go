package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/sentiment-dashboard/internal/auth"
	"github.com/jengzang/sentiment-dashboard/pkg/response"
)

const claimsKey = "claims"

// Auth requires a valid bearer token carrying one of roles
func Auth(issuer *auth.Issuer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := issuer.Parse(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token expired"
			}
			response.Abort(c, http.StatusUnauthorized, msg)
			return
		}
		if len(roles) > 0 && !claims.HasRole(roles...) {
			response.Abort(c, http.StatusForbidden, auth.ErrForbidden.Error())
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Claims returns the verified claims of the request, if any
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
