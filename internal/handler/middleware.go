package handler

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const headerRequestID = "X-Request-Id"

// RequestLog logs one line per request and makes sure every response carries
// a request id.
func RequestLog(next fasthttp.RequestHandler, log *zap.Logger) fasthttp.RequestHandler {
	log = log.Named("http")
	return func(rc *fasthttp.RequestCtx) {
		start := time.Now()
		requestID := strings.TrimSpace(string(rc.Request.Header.Peek(headerRequestID)))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		rc.Response.Header.Set(headerRequestID, requestID)

		next(rc)

		status := rc.Response.StatusCode()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.ByteString("method", rc.Method()),
			zap.ByteString("path", rc.Path()),
			zap.String("view", ViewOf(rc)),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int("bytes_in", len(rc.PostBody())),
			zap.Int("bytes_out", len(rc.Response.Body())),
		}
		switch {
		case status >= fasthttp.StatusInternalServerError:
			log.Error("request completed", fields...)
		case status >= fasthttp.StatusBadRequest:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}
