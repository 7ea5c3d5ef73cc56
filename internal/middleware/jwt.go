package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"  // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"   // Echo framework used for defining middleware and handlers
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's claims into the request context.  Tokens are issued by
// the platform's identity service (out of scope here); this middleware only
// verifies them.  Beyond the subject and role, the tenant_id claim is the
// entry point of tenant scoping: handlers derive their TenantScope from it
// and never from request parameters.  Expected claims: sub, role,
// tenant_id, and optionally branch_code.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse the token using the HS256 signing method and our secret.
			// If the signing method differs, reject the token.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// A token without a tenant cannot reach any scoped endpoint.
			tenantID, ok := numericClaim(claims, "tenant_id")
			if !ok || tenantID == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing tenant claim"})
			}

			// Store claims in the context for handlers and downstream
			// middleware.  user_id and tenant_id are normalized to uint64.
			if uid, ok := numericClaim(claims, "sub"); ok {
				c.Set("user_id", uid)
			}
			c.Set("tenant_id", tenantID)
			c.Set("role", claims["role"])
			if branch, ok := claims["branch_code"].(string); ok {
				c.Set("branch_code", branch)
			}
			return next(c)
		}
	}
}

// numericClaim extracts a claim that may arrive as a JSON number or a
// string, normalizing it to uint64.
func numericClaim(claims jwt.MapClaims, key string) (uint64, bool) {
	switch v := claims[key].(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case string:
		var n uint64
		for _, ch := range v {
			if ch < '0' || ch > '9' {
				return 0, false
			}
			n = n*10 + uint64(ch-'0')
		}
		return n, v != ""
	}
	return 0, false
}
