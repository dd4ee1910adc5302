package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldworks/backend/internal/domain/identity"
	"github.com/fieldworks/backend/internal/infrastructure/auth"
	"github.com/fieldworks/backend/internal/interfaces/http/dto"
)

const (
	// ContextKeyClaims holds the verified *auth.Claims.
	ContextKeyClaims = "jwt_claims"
	// ContextKeyUserID holds the authenticated user's uuid.
	ContextKeyUserID = "jwt_user_id"
	// ContextKeyTenantID holds the authenticated tenant's uuid. uuid.Nil for
	// platform admins.
	ContextKeyTenantID = "jwt_tenant_id"
)

// JWTConfig configures the bearer token middleware.
type JWTConfig struct {
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Logger     *zap.Logger
}

// JWTAuth verifies the Authorization bearer token, rejects revoked tokens,
// and stores the claims on the gin context.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, authErrorMessage(err))
			return
		}

		if cfg.Blacklist != nil {
			revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Blacklist outage must not take the API down with it.
				log.Warn("token blacklist check failed", zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, "token has been revoked")
				return
			}

			invalidated, err := cfg.Blacklist.IsUserTokenInvalidated(c.Request.Context(), claims.UserID, claims.GetIssuedAtTime())
			if err != nil {
				log.Warn("user token invalidation check failed", zap.Error(err))
			} else if invalidated {
				abortUnauthorized(c, "token has been revoked")
				return
			}
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, "invalid token claims")
			return
		}
		tenantID, err := claims.GetTenantUUID()
		if err != nil {
			abortUnauthorized(c, "invalid token claims")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyTenantID, tenantID)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the token's role is one of the given.
func RequireRole(roles ...identity.UserRole) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "insufficient role", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// RequirePlatformAdmin gates platform-operator endpoints.
func RequirePlatformAdmin() gin.HandlerFunc {
	return RequireRole(identity.RolePlatformAdmin)
}

// RequireOwner gates tenant-administration endpoints.
func RequireOwner() gin.HandlerFunc {
	return RequireRole(identity.RoleOwner)
}

// GetClaims returns the verified claims stored by JWTAuth.
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetUserID returns the authenticated user id, or uuid.Nil.
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetTenantID returns the authenticated tenant id. uuid.Nil means the caller
// is a platform admin.
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextKeyTenantID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "token is not yet valid"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return "token has been revoked"
	default:
		return "invalid token"
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
