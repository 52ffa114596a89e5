package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/miracle078/adogent/internal/domain/user"
	"github.com/miracle078/adogent/internal/utils/platformerrors"
)

const principalKey = "auth.principal"

// Principal is the authenticated identity attached to the gin context.
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == user.RoleAdmin
}

// AuthMiddleware validates the Bearer access token and stores the principal
// in the gin context.
func AuthMiddleware(users *user.Service, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			platformerrors.WriteUnauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := users.ParseToken(c.Request.Context(), token)
		if err != nil || claims.TokenType != user.TokenTypeAccess {
			logger.Warn().Str("client_ip", c.ClientIP()).Msg("rejected access token")
			platformerrors.WriteUnauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			platformerrors.WriteUnauthorized(c, "Invalid token subject")
			c.Abort()
			return
		}

		c.Set(principalKey, Principal{UserID: userID, Role: user.Role(claims.Role)})
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is present, but never
// rejects the request. AI endpoints accept anonymous traffic.
func OptionalAuth(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := users.ParseToken(c.Request.Context(), token)
		if err != nil || claims.TokenType != user.TokenTypeAccess {
			c.Next()
			return
		}
		if userID, err := uuid.Parse(claims.Subject); err == nil {
			c.Set(principalKey, Principal{UserID: userID, Role: user.Role(claims.Role)})
		}
		c.Next()
	}
}

// RequireAdmin ensures the authenticated principal carries the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			platformerrors.WriteUnauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			platformerrors.WriteForbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	principal, ok := val.(Principal)
	return principal, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
