package middleware

import (
	"strings"

	"optimagrowth-licensing/pkg/errutil"
	"optimagrowth-licensing/pkg/problem"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Problem renders the last error attached to the gin context as a uniform
// problem payload. Handlers report failures with c.Error and abort; nothing
// else writes error bodies.
func Problem(builder *problem.Builder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		base := errutil.Classify(last.Err)

		span := trace.SpanFromContext(c.Request.Context())
		zap.L().Warn("request failed",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.String("span_id", span.SpanContext().SpanID().String()),
			zap.String("path", c.Request.URL.Path),
			zap.String("code", string(base.Code)),
			zap.Error(last.Err),
		)

		p := builder.FromError(base, c.Request.URL.Path)
		c.JSON(base.Code.HTTPStatus(), p)
	}
}

// RequireContentType rejects requests whose Content-Type does not match one
// of the given media types with an unsupported-media-type problem.
func RequireContentType(types ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct := c.ContentType()
		for _, t := range types {
			if strings.EqualFold(ct, t) {
				c.Next()
				return
			}
		}
		_ = c.Error(errutil.UnsupportedMediaType(
			"content type " + ct + " not supported, expected one of: " + strings.Join(types, ", ")))
		c.Abort()
	}
}
