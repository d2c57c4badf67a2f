package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, keeping a caller-supplied one so
// traces line up across the gateway and the backend services.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set("requestId", id)
		ctx.Writer.Header().Set(requestIDHeader, id)
		ctx.Next()
	}
}
