package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/session"
)

const sessionContextKey = "session"

// SessionFrom returns the hydrated session set by RequireAuth, or nil when
// the request is anonymous.
func SessionFrom(ctx *gin.Context) *models.Session {
	if value, exists := ctx.Get(sessionContextKey); exists {
		if s, ok := value.(*models.Session); ok {
			return s
		}
	}
	return nil
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(after)
	}
	return ""
}

// RequireAuth hydrates the session for the request's bearer token and aborts
// with 401 when there is none. A corrupt or missing stored session is treated
// the same as no token at all.
func RequireAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		s := sessions.Hydrate(ctx.Request.Context(), bearerToken(ctx))
		if !s.IsAuthenticated() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}
		ctx.Set(sessionContextKey, s)
		ctx.Next()
	}
}

// OptionalAuth hydrates a session when a token is present but never aborts;
// catalog browsing works the same signed in or out.
func OptionalAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if s := sessions.Hydrate(ctx.Request.Context(), bearerToken(ctx)); s.IsAuthenticated() {
			ctx.Set(sessionContextKey, s)
		}
		ctx.Next()
	}
}

func RequireCustomer() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !SessionFrom(ctx).IsCustomer() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Customer access required",
			})
			return
		}
		ctx.Next()
	}
}

func RequireMerchant() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !SessionFrom(ctx).IsMerchant() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Merchant access required",
			})
			return
		}
		ctx.Next()
	}
}
