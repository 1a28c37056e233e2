package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/WEBX2024/HRMS/internal/identity"
	"github.com/WEBX2024/HRMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "credential_claims"

// AuthMiddleware validates the bearer token and stores the decoded claims
// payload for the caller resolver. Token mechanics live here; tenant
// resolution happens in ResolveCaller.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			code, message := "INVALID_TOKEN", "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				code, message = "TOKEN_EXPIRED", "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, code, message, nil)
			c.Abort()
			return
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := mapClaims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "User ID not found in token", nil)
			c.Abort()
			return
		}

		claims := identity.Claims{UserID: userID}
		claims.TenantID, _ = mapClaims["tenant_id"].(string)
		claims.EmployeeID, _ = mapClaims["employee_id"].(string)
		claims.IsSuperAdmin, _ = mapClaims["is_super_admin"].(bool)
		if rawRoles, ok := mapClaims["roles"].([]any); ok {
			for _, r := range rawRoles {
				if code, ok := r.(string); ok {
					claims.RoleCodes = append(claims.RoleCodes, code)
				}
			}
		}
		if exp, ok := mapClaims["exp"].(float64); ok {
			claims.ExpiresAt = time.Unix(int64(exp), 0)
		}

		c.Set(claimsKey, claims)
		c.Set("user_id", userID)
		c.Set("user_id_validated", userID)

		c.Next()
	}
}

// ClaimsFrom returns the decoded claims set by AuthMiddleware.
func ClaimsFrom(c *gin.Context) (identity.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return identity.Claims{}, false
	}
	claims, ok := v.(identity.Claims)
	return claims, ok
}
