/*
Copyright 2024 Fintrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fintrack/fintrack/config"
)

const (
	KeyHeader       = "X-Fintrack-Key"
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
)

// RateLimitMiddleware creates a middleware for rate limiting using Tollbooth
func RateLimitMiddleware(conf *config.Configuration) gin.HandlerFunc {
	if conf.RateLimit.RequestsPerSecond == nil || conf.RateLimit.Burst == nil {
		// Rate limiting is disabled
		return func(c *gin.Context) {
			c.Next()
		}
	}

	rps := *conf.RateLimit.RequestsPerSecond
	burst := *conf.RateLimit.Burst
	ttl := 3 * time.Hour
	if conf.RateLimit.CleanupIntervalSec != nil {
		ttl = time.Duration(*conf.RateLimit.CleanupIntervalSec) * time.Second
	}

	lmt := tollbooth.NewLimiter(rps, &limiter.ExpirableOptions{
		DefaultExpirationTTL: ttl,
	})
	lmt.SetBurst(burst)
	return func(c *gin.Context) {
		httpError := tollbooth.LimitByRequest(lmt, c.Writer, c.Request)
		if httpError != nil {
			c.AbortWithStatusJSON(httpError.StatusCode, gin.H{"error": gin.H{"code": "RATE_LIMITED", "message": httpError.Message}})
			return
		}
		c.Next()
	}
}

// SecretKeyAuthMiddleware rejects requests whose X-Fintrack-Key header does not match the
// configured server secret. The health route stays open.
func SecretKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/" {
			c.Next()
			return
		}

		conf, err := config.Fetch()
		if err != nil || conf.Server.SecretKey == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{"code": "INTERNAL_SERVER_ERROR", "message": "Secret key is not configured"}})
			return
		}

		clientSecret := c.GetHeader(KeyHeader)
		if clientSecret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Missing secret key"}})
			return
		}

		if !secureCompare(conf.Server.SecretKey, clientSecret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Invalid secret key"}})
			return
		}

		c.Next()
	}
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request completed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
